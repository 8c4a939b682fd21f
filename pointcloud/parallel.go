package pointcloud

import (
	"runtime"
	"sync"
)

// parallelRange splits [0, n) into runtime.GOMAXPROCS(0) contiguous
// index ranges and runs fn over each range in its own goroutine, blocking
// until all complete. Grounded on the index-partitioned worker-pool shape
// spec.md §5 calls for: callers pre-size their output slice and each
// goroutine writes only to the [lo, hi) slice of indices it owns, so no
// further synchronization is needed. n <= 0 is a no-op; small n runs with
// fewer, larger partitions rather than spawning idle goroutines.
func parallelRange(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
