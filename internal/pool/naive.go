package pool

// NaivePool spawns one goroutine per submitted job, directly mirroring
// original_source/src/thread_pool/naive.rs's thread::spawn(job) -- no
// reuse, no bound on concurrent jobs.
type NaivePool struct{}

var _ Pool = NaivePool{}

// NewNaivePool returns a NaivePool. It carries no state, so any number of
// copies are equivalent.
func NewNaivePool() NaivePool {
	return NaivePool{}
}

// Submit runs job on a new goroutine.
func (NaivePool) Submit(job func()) {
	go job()
}
