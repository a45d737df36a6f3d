package worker

import (
	"context"
	"log"
	"sync"

	"github.com/radio-control/emsd/internal/audit"
	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/session"
)

// Pool is a fixed-size set of workers, each serving one session at a time
// drawn from a shared queue.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool constructs a pool of size workers, none yet running.
func NewPool(size int, queue *session.Queue, eng *engine.Engine, audLog *audit.Logger, maxReservationSize uint64, logger *log.Logger) *Pool {
	p := &Pool{workers: make([]*Worker, size)}
	for i := range p.workers {
		p.workers[i] = newWorker(i+1, queue, eng, audLog, maxReservationSize, logger)
	}
	return p
}

// Start launches every worker's dequeue loop in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.run(ctx)
		}(w)
	}
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
