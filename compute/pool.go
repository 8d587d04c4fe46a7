// Package compute runs data-parallel update kernels over entity index ranges.
//
// A kernel plays the role of a GPU update pass: it is invoked once per chunk
// of entities, reads only the read buffer, and writes only its own slots of
// the write buffer. Dispatch blocks until every chunk has finished, so a
// caller never observes a partially written buffer.
package compute

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum entity count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// Kernel processes entities in [start, end).
type Kernel func(start, end int)

// workChunk represents a range of entities for a worker to process.
type workChunk struct {
	start, end int
	kernel     Kernel
}

// Pool is a set of persistent worker goroutines.
// Dispatch must be called from a single goroutine.
type Pool struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool with the given number of workers (<= 0 = GOMAXPROCS).
// Workers are started lazily on the first parallel dispatch.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// startWorkers launches persistent worker goroutines.
func (p *Pool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
// The pool can be reused afterwards; workers restart on demand.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.kernel(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Dispatch runs k over [0, n) and returns once all of it has been processed.
func (p *Pool) Dispatch(n int, k Kernel) {
	if n <= 0 {
		return
	}

	// Single-threaded for small counts or a one-worker pool
	if n < parallelThreshold || p.numWorkers == 1 {
		k(0, n)
		return
	}

	if !p.running {
		p.startWorkers()
	}

	numWorkers := p.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, kernel: k}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
