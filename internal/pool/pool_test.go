package pool_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/internal/pool"
)

func TestNaivePoolRunsEveryJob(t *testing.T) {
	p := pool.NewNaivePool()

	var mu sync.Mutex
	var count int
	var wg sync.WaitGroup

	wg.Add(50)
	for i := 0; i < 50; i++ {
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	wg.Wait()

	require.Equal(t, 50, count)
}

func TestFixedPoolRunsEveryJob(t *testing.T) {
	p := pool.NewFixedPool(4, 8)
	defer p.Close()

	var mu sync.Mutex
	var count int
	var wg sync.WaitGroup

	wg.Add(100)
	for i := 0; i < 100; i++ {
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	wg.Wait()

	require.Equal(t, 100, count)
}

func TestNewFixedPoolClampsInvalidSizes(t *testing.T) {
	p := pool.NewFixedPool(0, 0)
	defer p.Close()

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	<-done
}
