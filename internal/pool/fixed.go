package pool

import "sync"

// FixedPool runs submitted jobs across a bounded set of worker goroutines
// reading off a shared job channel -- the reusing alternative spec.md
// permits alongside the naive one-goroutine-per-job pool. The server
// defaults to this implementation so a connection storm can't grow the
// goroutine count without bound.
type FixedPool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

var _ Pool = (*FixedPool)(nil)

// NewFixedPool starts workers goroutines draining a job queue of the given
// backlog depth. workers and backlog are both clamped to at least 1.
func NewFixedPool(workers, backlog int) *FixedPool {
	if workers < 1 {
		workers = 1
	}
	if backlog < 1 {
		backlog = 1
	}

	p := &FixedPool{jobs: make(chan func(), backlog)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *FixedPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues job for one of the pool's workers to run. It blocks if
// every worker is busy and the backlog is full.
func (p *FixedPool) Submit(job func()) {
	p.jobs <- job
}

// Close stops accepting new jobs and waits for every queued job to finish.
func (p *FixedPool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
