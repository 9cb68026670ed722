package survey

import (
	"context"
	"runtime"
	"sync"
)

// seedPool hands seed indices to a fixed set of worker goroutines.
type seedPool struct {
	workers int
	jobs    chan int
	wg      sync.WaitGroup
}

// newSeedPool sizes a pool; zero or fewer workers means one per CPU.
func newSeedPool(workers int) *seedPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &seedPool{workers: workers}
}

// each calls fn once for every index in [0, n) and returns when the workers
// are idle. Indices not yet started when ctx is cancelled are dropped.
func (p *seedPool) each(ctx context.Context, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	p.jobs = make(chan int, p.workers*2)
	for w := 0; w < min(p.workers, n); w++ {
		p.wg.Add(1)
		go p.worker(ctx, fn)
	}

feed:
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case p.jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(p.jobs)
	p.wg.Wait()
}

func (p *seedPool) worker(ctx context.Context, fn func(i int)) {
	defer p.wg.Done()
	for i := range p.jobs {
		if ctx.Err() != nil {
			continue
		}
		fn(i)
	}
}
