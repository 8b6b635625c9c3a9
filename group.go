package async

import "github.com/gammazero/deque"

// Group advances a collection of steppers in lockstep: each Step
// runs every unfinished member exactly once, in the order they were
// added, and drops members that report Done. A Group is itself a
// Stepper, so a parent body can await it once per invocation to fan
// out over several children and fan back in when all have finished.
//
// Members are independent task identities. A Group never resets them.
type Group struct {
	noCopy noCopy               // Prevents copying of the group
	w      deque.Deque[Stepper] // Unfinished members, in step order
}

// NewGroup creates a group of steppers.
func NewGroup(steppers ...Stepper) *Group {
	g := new(Group)
	g.Add(steppers...)
	return g
}

// Add appends steppers to the group. They are first advanced on the
// next Step.
func (g *Group) Add(steppers ...Stepper) {
	for _, s := range steppers {
		if s == nil {
			panic("async: nil stepper added to group")
		}
		g.w.PushBack(s)
	}
}

// Step advances every pending member once. It returns Done when no
// member is left pending.
func (g *Group) Step() Status {
	for n := g.w.Len(); n > 0; n-- {
		s := g.w.PopFront()
		if s.Step() != Done {
			g.w.PushBack(s)
		}
	}

	if g.w.Len() == 0 {
		return Done
	}
	return Running
}

// Len returns the number of members still pending.
func (g *Group) Len() int {
	return g.w.Len()
}
