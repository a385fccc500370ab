package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		in   int
		want uint32
	}{
		{0, 0},
		{1, 1},
		{65535, 65535},
		{math.MaxInt32, math.MaxInt32},
	}
	for _, tt := range tests {
		if got := IntToUint32(tt.in); got != tt.want {
			t.Errorf("IntToUint32(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIntToUint32Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}

func TestUint32ToInt(t *testing.T) {
	if got := Uint32ToInt(42); got != 42 {
		t.Errorf("Uint32ToInt(42) = %d, want 42", got)
	}
}
