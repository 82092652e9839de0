package kafka

import (
	"context"
	"sync"
)

// Throttle is a counting semaphore capping how many frames are in flight
// through the pipeline at once. Acquire blocks until a slot frees or the
// context ends; Release returns a slot.
type Throttle struct {
	mu     sync.Mutex
	cond   *sync.Cond
	slots  int64
	closed bool
}

func NewThrottle(capacity int64) *Throttle {
	t := &Throttle{slots: capacity}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *Throttle) Acquire(ctx context.Context) error {
	// Wake waiters when the context ends; cond has no native deadline.
	stop := context.AfterFunc(ctx, func() { t.cond.Broadcast() })
	defer stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	for t.slots == 0 && !t.closed && ctx.Err() == nil {
		t.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed {
		return context.Canceled
	}
	t.slots--
	return nil
}

func (t *Throttle) Release() {
	t.mu.Lock()
	t.slots++
	t.mu.Unlock()
	t.cond.Broadcast()
}

func (t *Throttle) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cond.Broadcast()
}
