package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinElements: 0}

	var counter int64
	n := 1000
	seen := make([]int32, n)

	For(n, nil, func(i int) {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("item %d visited %d times", i, c)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	For(5, nil, func(i int) {
		order = append(order, i)
	}, Sequential())

	for i, v := range order {
		if v != i {
			t.Fatalf("sequential order broken: %v", order)
		}
	}
	if len(order) != 5 {
		t.Errorf("Expected 5 calls, got %d", len(order))
	}
}

func TestFor_SmallWork(t *testing.T) {
	// Work below MinElements runs on the calling goroutine, in order.
	cfg := Config{Enabled: true, NumWorkers: 8, MinElements: 1000}

	var order []int
	For(3, func(int) int { return 10 }, func(i int) {
		order = append(order, i)
	}, cfg)

	if len(order) != 3 || order[0] != 0 || order[2] != 2 {
		t.Errorf("unexpected order %v", order)
	}
}

func TestFor_Empty(_ *testing.T) {
	For(0, nil, func(int) { panic("must not be called") }, DefaultConfig())
}
