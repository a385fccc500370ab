package meta

import (
	"errors"
	"testing"
)

// TestDefaultConfigValues verifies DefaultConfig returns expected field values.
func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()

	if !c.EnablePrefilter {
		t.Error("EnablePrefilter should be true by default")
	}
	if !c.EnableRequiredLiteral {
		t.Error("EnableRequiredLiteral should be true by default")
	}
	if !c.EnableFirstByte {
		t.Error("EnableFirstByte should be true by default")
	}
	if c.MaxLiterals != 64 {
		t.Errorf("MaxLiterals = %d, want 64", c.MaxLiterals)
	}
	if c.MaxLiteralLen != 64 {
		t.Errorf("MaxLiteralLen = %d, want 64", c.MaxLiteralLen)
	}
	if c.MaxClassSize != 10 {
		t.Errorf("MaxClassSize = %d, want 10", c.MaxClassSize)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero class size", func(c *Config) { c.MaxClassSize = 0 }, ""},
		{"max literals zero", func(c *Config) { c.MaxLiterals = 0 }, "MaxLiterals"},
		{"max literals too big", func(c *Config) { c.MaxLiterals = 1_001 }, "MaxLiterals"},
		{"literal len zero", func(c *Config) { c.MaxLiteralLen = 0 }, "MaxLiteralLen"},
		{"literal len too big", func(c *Config) { c.MaxLiteralLen = 257 }, "MaxLiteralLen"},
		{"class size negative", func(c *Config) { c.MaxClassSize = -1 }, "MaxClassSize"},
		{"class size too big", func(c *Config) { c.MaxClassSize = 257 }, "MaxClassSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "MaxLiterals", Message: "must be between 1 and 1,000"}
	want := "regexp: invalid config: MaxLiterals: must be between 1 and 1,000"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
