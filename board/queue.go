package board

import (
	"context"
	"sync"
	"time"
)

// saveQueue runs at most one save at a time. A snapshot queued while a save is
// in flight replaces any snapshot queued before it, so the store always ends
// up with the most recent state.
type saveQueue[T any] struct {
	save    func(context.Context, []T) error
	done    func(error)
	timeout time.Duration

	mu         sync.Mutex
	idle       *sync.Cond
	pending    []T
	hasPending bool
	running    bool
}

func newSaveQueue[T any](timeout time.Duration, save func(context.Context, []T) error, done func(error)) *saveQueue[T] {
	q := &saveQueue[T]{save: save, done: done, timeout: timeout}
	q.idle = sync.NewCond(&q.mu)
	return q
}

func (q *saveQueue[T]) enqueue(items []T) {
	q.mu.Lock()
	q.pending = items
	q.hasPending = true
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go q.run()
}

func (q *saveQueue[T]) run() {
	for {
		q.mu.Lock()
		if !q.hasPending {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		items := q.pending
		q.pending = nil
		q.hasPending = false
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.save(ctx, items)
		cancel()

		q.done(err)
	}
}

func (q *saveQueue[T]) busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// wait blocks until no save is running or queued.
func (q *saveQueue[T]) wait(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		q.mu.Lock()
		for q.running {
			q.idle.Wait()
		}
		q.mu.Unlock()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
