package ring

import "sync"

// parallelFor statically partitions [0, n) into contiguous chunks, one per
// worker, and runs fn on each chunk on its own goroutine. It blocks until
// every worker has completed: a work-completion barrier, not a scheduler.
// This generalizes the static-partition-plus-WaitGroup pattern used
// throughout the ring package's parallel regions (per-channel NTT/INTT/
// CrtProject/PointMul, per-coefficient CrtReconstruct) into one helper
// instead of repeating the split arithmetic at every call site.
//
// fn must only touch indices in [lo, hi); callers are responsible for
// ensuring no two chunks write overlapping state (true for every caller in
// this package: channels occupy disjoint buffer ranges, and coefficients
// are independent in CrtReconstruct).
func parallelFor(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	tasks := n
	end := 0
	for i := 0; i < workers; i++ {
		chunk := (tasks + workers - i - 1) / (workers - i)
		lo, hi := end, end+chunk
		end = hi
		tasks -= chunk
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
