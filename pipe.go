package async

import "github.com/gammazero/deque"

// Pipe is a bounded FIFO used to hand values from one task to another
// within a single execution context. Its CanPush and CanPop methods
// are meant as YieldUntil conditions, so a producer waits for room
// and a consumer waits for data. Pipe does no locking.
type Pipe[T any] struct {
	noCopy noCopy         // Prevents copying of the pipe
	n      int            // Capacity
	q      deque.Deque[T] // Buffered values
}

// NewPipe creates a pipe holding at most capacity values.
func NewPipe[T any](capacity int) *Pipe[T] {
	if capacity < 1 {
		panic("async: pipe capacity must be positive")
	}
	return &Pipe[T]{n: capacity}
}

// CanPush reports whether Push would succeed.
func (p *Pipe[T]) CanPush() bool {
	return p.q.Len() < p.n
}

// CanPop reports whether Pop would succeed.
func (p *Pipe[T]) CanPop() bool {
	return p.q.Len() > 0
}

// Push appends v. It panics when the pipe is full.
func (p *Pipe[T]) Push(v T) {
	if !p.CanPush() {
		panic("async: push to full pipe")
	}
	p.q.PushBack(v)
}

// Pop removes and returns the oldest value. It panics when the pipe
// is empty.
func (p *Pipe[T]) Pop() T {
	if !p.CanPop() {
		panic("async: pop from empty pipe")
	}
	return p.q.PopFront()
}

// Len returns the number of buffered values.
func (p *Pipe[T]) Len() int {
	return p.q.Len()
}

// Cap returns the capacity.
func (p *Pipe[T]) Cap() int {
	return p.n
}
