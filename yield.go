package async

// The suspend primitives below return true when they have suspended
// the task. The body must then return Running immediately. They return
// false when execution should fall through to the code after the site.

// Yield suspends unconditionally at site, publishing result (or
// clearing the published result when none is given). When the task is
// resumed at site, Yield lands there and returns false.
func (f *Frame[S, R]) Yield(site Point, result ...R) bool {
	if f.land(site) {
		return false
	}
	f.suspend(site, result)
	return true
}

// YieldUntil suspends at site until cond holds. It always suspends at
// least once, even when cond already holds on arrival, and evaluates
// cond only when resumed at site. Every suspension republishes result.
func (f *Frame[S, R]) YieldUntil(site Point, cond func() bool, result ...R) bool {
	if cond == nil {
		panic("async: nil YieldUntil condition")
	}
	if f.land(site) && cond() {
		return false
	}
	f.suspend(site, result)
	return true
}

// YieldFor suspends at site until d clock units have elapsed. The
// timeout is armed from c on the first visit of a waiting episode and
// is only read while the task keeps resuming at site. Reaching site
// again after expiry starts a new episode and re-arms it. The timeout
// must live in the task's persistent State.
func YieldFor[S, R any, T Counter](f *Frame[S, R], site Point, timeout *Timeout[T], c Clock[T], d T, result ...R) bool {
	if c == nil {
		panic("async: YieldFor requires a clock")
	}
	if timeout == nil {
		panic("async: YieldFor requires a timeout")
	}
	if !f.land(site) {
		timeout.Set(c, d)
		f.suspend(site, result)
		return true
	}
	if timeout.Expired(c) {
		return false
	}
	f.suspend(site, result)
	return true
}

// End marks the task Done, records the terminal resume point and
// publishes result, or clears the result when none is given. The body
// returns what End returns.
func (f *Frame[S, R]) End(result ...R) Status {
	f.check()
	f.point = terminal
	f.rec.status = Done
	f.rec.publish(result)
	f.ended = true
	return Done
}

// land reports whether this call is the resumption of site.
func (f *Frame[S, R]) land(site Point) bool {
	f.check()
	if site <= Entry {
		panic("async: suspend site must be positive")
	}
	if f.resuming {
		f.resuming = false
		return f.point == site
	}
	return false
}

func (f *Frame[S, R]) suspend(site Point, result []R) {
	f.point = site
	f.rec.status = Running
	f.rec.publish(result)
	f.suspended = true
}

func (f *Frame[S, R]) check() {
	switch {
	case f.suspended:
		panic("async: suspend primitive reached after the task suspended")
	case f.ended:
		panic("async: suspend primitive reached after End")
	}
}
