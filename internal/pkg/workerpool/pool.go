package workerpool

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Statistics holds task counters for the pool.
type Statistics struct {
	Submitted int64
	Completed int64
	Failed    int64
}

// Pool is a fixed-size worker pool backed by ants. Tasks submitted while
// every worker is busy block until a worker frees up, which is what bounds
// the number of in-flight upstream fetches.
type Pool struct {
	pool *ants.Pool

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	logger *zap.Logger
}

// New creates a pool with the given number of workers.
func New(size int, logger *zap.Logger) (*Pool, error) {
	p := &Pool{logger: logger}

	antsPool, err := ants.NewPool(size,
		ants.WithPanicHandler(func(err interface{}) {
			p.failed.Add(1)
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit schedules a task on the pool.
func (p *Pool) Submit(task func()) error {
	if p.pool.IsClosed() {
		return ErrPoolClosed
	}

	p.submitted.Add(1)
	return p.pool.Submit(func() {
		task()
		p.completed.Add(1)
	})
}

// Running returns the number of workers currently executing tasks.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free returns the number of idle workers.
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Stats returns a snapshot of the task counters.
func (p *Pool) Stats() Statistics {
	return Statistics{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// Shutdown releases the pool. Pending tasks are abandoned.
func (p *Pool) Shutdown() {
	p.pool.Release()
}
