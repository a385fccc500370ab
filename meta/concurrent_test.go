package meta

import (
	"sync"
	"testing"
)

// TestConcurrentSearch runs one engine from many goroutines.
func TestConcurrentSearch(t *testing.T) {
	engine, err := Compile(`(\w+)=(\d+)|(x+)\3`)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{"a=1", "key = 1", "xxxx", "n=42;m=7", "none"}
	want := make([]MatchResult, len(inputs))
	for i, in := range inputs {
		want[i] = engine.Matches([]byte(in))
	}

	const goroutines = 8
	var wg sync.WaitGroup
	errs := make(chan string, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 200; iter++ {
				for i, in := range inputs {
					got := engine.Matches([]byte(in))
					if got.Span != want[i].Span || got.Matched != want[i].Matched {
						errs <- in
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("concurrent Matches(%q) diverged", in)
	}
}
