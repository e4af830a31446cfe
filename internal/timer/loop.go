// Package timer is the single-threaded cooperative timer facility the
// watchface runs on. Every callback, whether a timer or a posted closure,
// runs on whichever goroutine drives the loop (Run or Pump), never
// concurrently with another callback.
package timer

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when registering on a closed loop.
var ErrClosed = errors.New("timer loop closed")

// idleWait bounds how long Run sleeps with nothing armed.
const idleWait = time.Minute

// Handle identifies an armed timer. The zero Handle is never armed.
type Handle uint64

type entry struct {
	id       Handle
	deadline time.Time
	fn       func()
	index    int
}

// Loop owns the armed timers and the queue of posted closures.
type Loop struct {
	clock Clock

	mu     sync.Mutex
	queue  timerHeap
	byID   map[Handle]*entry
	nextID Handle
	posted []func()
	closed bool

	wake chan struct{}
}

func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock: clock,
		byID:  make(map[Handle]*entry),
		wake:  make(chan struct{}, 1),
	}
}

func (l *Loop) Clock() Clock {
	return l.clock
}

// Register arms fn to run once after delay. Negative delays count as zero.
func (l *Loop) Register(delay time.Duration, fn func()) (Handle, error) {
	if delay < 0 {
		delay = 0
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, ErrClosed
	}
	l.nextID++
	e := &entry{
		id:       l.nextID,
		deadline: l.clock.Now().Add(delay),
		fn:       fn,
	}
	heap.Push(&l.queue, e)
	l.byID[e.id] = e
	l.mu.Unlock()

	l.signal()
	return e.id, nil
}

// Cancel disarms h. Cancelling a fired, cancelled or zero handle is a no-op.
func (l *Loop) Cancel(h Handle) {
	if h == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.byID[h]
	if !ok {
		return
	}
	heap.Remove(&l.queue, e.index)
	delete(l.byID, h)
}

// Armed reports whether h is still waiting to fire.
func (l *Loop) Armed(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.byID[h]
	return ok
}

// Pending returns the number of armed timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
// Closures posted after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

// Pump runs posted closures, then every timer due at now in deadline order.
// Timers armed by a callback during this pump wait for the next one.
func (l *Loop) Pump(now time.Time) int {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	limit := l.nextID
	l.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	fired := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return fired
		}
		top := l.queue[0]
		if top.deadline.After(now) || top.id > limit {
			l.mu.Unlock()
			return fired
		}
		heap.Pop(&l.queue)
		delete(l.byID, top.id)
		l.mu.Unlock()

		top.fn()
		fired++
	}
}

// NextDeadline returns the earliest armed deadline.
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].deadline, true
}

// Run drives the loop on the calling goroutine until ctx is done or the
// loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	wait := time.NewTimer(idleWait)
	defer wait.Stop()

	for {
		l.Pump(l.clock.Now())

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return ErrClosed
		}

		d := idleWait
		if next, ok := l.NextDeadline(); ok {
			d = next.Sub(l.clock.Now())
			if d < 0 {
				d = 0
			}
		}
		if !wait.Stop() {
			select {
			case <-wait.C:
			default:
			}
		}
		wait.Reset(d)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-wait.C:
		}
	}
}

// Close disarms every timer and drops queued closures.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.byID = make(map[Handle]*entry)
	l.posted = nil
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type timerHeap []*entry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].id < h[j].id
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
