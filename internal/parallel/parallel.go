// Package parallel fans independent per-parameter work out over a bounded
// set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled     bool // Whether parallel execution is enabled.
	NumWorkers  int  // Upper bound on worker goroutines.
	MinElements int  // Total element count below which work runs sequentially.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:     n > 1,
		NumWorkers:  n,
		MinElements: 4096,
	}
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{}
}

// For executes f(i) for i in [0, n) and returns once every call finished.
//
// size(i) reports the amount of work in item i (elements of a parameter).
// Items are handed to workers one at a time, so a few large parameters do
// not serialize behind a chunk of small ones. Falls back to sequential
// execution if parallelism is disabled or the total work is small.
func For(n int, size func(i int) int, f func(i int), cfg Config) {
	if n == 0 {
		return
	}

	workers := min(cfg.NumWorkers, n)
	if !cfg.Enabled || workers <= 1 || total(n, size) < cfg.MinElements {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

func total(n int, size func(i int) int) int {
	if size == nil {
		return n
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += size(i)
	}
	return sum
}
