// Package dispatch hands work from background goroutines back to the single
// execution context that owns scene and loader state.
package dispatch

import (
	"context"
	"sync"
)

// Queue is a FIFO of callbacks. Post is safe from any goroutine; Drain and Run
// must only be called from the owning context.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	notify chan struct{}
}

func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Post schedules fn to run on the owning context.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of callbacks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs every pending callback, including ones posted while draining,
// and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		items := q.items
		q.items = nil
		q.mu.Unlock()

		if len(items) == 0 {
			return n
		}
		for _, fn := range items {
			fn()
		}
		n += len(items)
	}
}

// Run drains the queue each time work is posted until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.notify:
			q.Drain()
		}
	}
}
