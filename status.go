package async

import "strconv"

// Command selects what an invocation does to a task.
type Command uint8

const (
	// Reset discards the resume point and marks the task Running
	// without executing its body.
	Reset Command = iota
	// Run starts the body at its entry or continues it at the last
	// recorded resume point.
	Run
)

func (c Command) String() string {
	switch c {
	case Reset:
		return "reset"
	case Run:
		return "run"
	default:
		return "command(" + strconv.Itoa(int(c)) + ")"
	}
}

// Status reports whether a task has reached its end marker.
type Status uint8

const (
	// Running is the status of a task that has not finished. It is
	// the zero value so a fresh record starts Running.
	Running Status = iota
	// Done is the terminal status. It is idempotent under Run.
	Done
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Point identifies where a body continues on its next Run. Entry
// means the body starts from the top. Suspend sites are positive
// values chosen by the body author, one per site.
type Point int

const (
	// Entry is the resume point of a task that has never suspended or
	// has just been reset.
	Entry Point = 0

	// terminal is recorded by End.
	terminal Point = -1
)

// Record is a snapshot of a task's status and published result as
// of the invocation that returned it.
type Record[R any] struct {
	status Status
	result R
	ok     bool
}

// Status returns the task status.
func (r Record[R]) Status() Status {
	return r.status
}

// Done reports whether the task had finished.
func (r Record[R]) Done() bool {
	return r.status == Done
}

// Result returns the value published by the most recent suspend,
// completion or reset, and whether one was published at all.
func (r Record[R]) Result() (R, bool) {
	return r.result, r.ok
}

func (r Record[R]) String() string {
	if r.ok {
		return r.status.String() + " (result)"
	}
	return r.status.String()
}

// publish overwrites the result slot. An empty result clears it.
func (r *Record[R]) publish(result []R) {
	var zero R
	switch len(result) {
	case 0:
		r.result, r.ok = zero, false
	case 1:
		r.result, r.ok = result[0], true
	default:
		panic("async: at most one result may be published")
	}
}
