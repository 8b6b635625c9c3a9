package async

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type genState struct {
	i int
}

// generator yields 0..max-1 and completes without a result.
func generator() *Task[genState, int, int] {
	return New(func(f *Frame[genState, int], max int) Status {
		switch f.Point() {
		case Entry:
			f.State.i = 0
		case 1:
			f.Yield(1)
			f.State.i++
		}
		if f.State.i < max {
			if f.Yield(1, f.State.i) {
				return Running
			}
		}
		return f.End()
	}).WithName("generator")
}

type countState struct {
	runs int
}

// counting suspends n times and completes with n, counting every call
// of its body.
func counting(n int) *Task[countState, struct{}, int] {
	var i int
	return New(func(f *Frame[countState, int], _ struct{}) Status {
		f.State.runs++
		switch f.Point() {
		case Entry:
			i = 0
		case 1:
			f.Yield(1)
			i++
		}
		if i < n {
			if f.Yield(1) {
				return Running
			}
		}
		return f.End(n)
	})
}

func TestGeneratorSingleStep(t *testing.T) {
	r := require.New(t)

	g := generator()
	for want := 0; want < 3; want++ {
		rec := g.Run(3)
		r.Equal(Running, rec.Status())
		v, ok := rec.Result()
		r.True(ok)
		r.Equal(want, v)
	}

	rec := g.Run(3)
	r.True(rec.Done())
	_, ok := rec.Result()
	r.False(ok)
}

func TestGeneratorConsumeUntilNoResult(t *testing.T) {
	r := require.New(t)

	g := generator()
	sum := 0
	for {
		v, ok := g.Run(10).Result()
		if !ok {
			break
		}
		sum += v
	}

	r.Equal(45, sum)
	r.True(g.Record().Done())
}

func TestFirstRunStartsAtEntry(t *testing.T) {
	r := require.New(t)

	straight := New(func(f *Frame[struct{}, string], _ struct{}) Status {
		r.Equal(Entry, f.Point())
		r.False(f.Resuming())
		return f.End("ok")
	})
	rec := straight.Run(struct{}{})
	r.True(rec.Done())
	v, ok := rec.Result()
	r.True(ok)
	r.Equal("ok", v)

	suspending := counting(1)
	r.Equal(Entry, suspending.Point())
	r.Equal(Running, suspending.Run(struct{}{}).Status())
	r.Equal(Point(1), suspending.Point())
}

func TestDoneIsIdempotentAndRetainsResult(t *testing.T) {
	r := require.New(t)

	task := counting(2)
	rec := Block[struct{}, int](task, struct{}{})
	r.True(rec.Done())

	runs := task.State().runs
	for i := 0; i < 5; i++ {
		rec = task.Run(struct{}{})
		r.True(rec.Done())
		v, ok := rec.Result()
		r.True(ok)
		r.Equal(2, v)
	}
	r.Equal(runs, task.State().runs)
}

func TestDoneIdempotenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "suspends")
		polls := rapid.IntRange(1, 20).Draw(t, "polls")

		task := counting(n)
		final := Block[struct{}, int](task, struct{}{})
		runs := task.State().runs

		for i := 0; i < polls; i++ {
			if rec := task.Run(struct{}{}); rec != final {
				t.Fatalf("poll %d returned %v, want %v", i, rec, final)
			}
		}
		if task.State().runs != runs {
			t.Fatalf("body ran %d times after done", task.State().runs-runs)
		}
	})
}

func TestResetFromAnyState(t *testing.T) {
	r := require.New(t)

	task := counting(3)

	rec := task.Reset()
	r.Equal(Running, rec.Status())
	r.Equal(Entry, task.Point())

	task.Run(struct{}{})
	task.Run(struct{}{})
	r.Equal(Point(1), task.Point())
	runs := task.State().runs

	rec = task.Reset()
	r.Equal(Running, rec.Status())
	r.Equal(Entry, task.Point())
	_, ok := rec.Result()
	r.False(ok)
	r.Equal(runs, task.State().runs)

	Block[struct{}, int](task, struct{}{})
	r.True(task.Record().Done())

	rec = task.Reset()
	r.Equal(Running, rec.Status())
	r.Equal(Entry, task.Point())
	r.Equal(Running, task.Run(struct{}{}).Status())
}

func TestResetResult(t *testing.T) {
	r := require.New(t)

	g := generator().WithResetResult(-1)
	g.Run(5)
	g.Run(5)

	rec := g.Reset()
	v, ok := rec.Result()
	r.True(ok)
	r.Equal(-1, v)

	v, ok = g.Run(5).Result()
	r.True(ok)
	r.Equal(0, v)
}

func TestResetKeepsState(t *testing.T) {
	r := require.New(t)

	g := generator()
	g.Run(5)
	g.Run(5)
	r.Equal(1, g.State().i)

	g.Reset()
	r.Equal(1, g.State().i)

	v, _ := g.Run(5).Result()
	r.Equal(0, v)
}

func TestOrdinaryLocalsAreFresh(t *testing.T) {
	r := require.New(t)

	var seen []int
	task := New(func(f *Frame[genState, int], _ struct{}) Status {
		local := 0
		switch f.Point() {
		case 1:
			f.Yield(1)
			seen = append(seen, local)
			f.State.i++
		}
		local = 7
		if f.State.i < 2 {
			if f.Yield(1) {
				return Running
			}
		}
		return f.End(local)
	})

	Block[struct{}, int](task, struct{}{})
	r.Equal([]int{0, 0}, seen)
	r.Equal(2, task.State().i)
}

func TestArgsArePerInvocation(t *testing.T) {
	r := require.New(t)

	type arg struct {
		c rune
		i int
	}

	var printed []arg
	printer := New(func(f *Frame[struct{}, struct{}], a arg) Status {
		if f.Point() == 1 {
			f.Yield(1)
		}
		printed = append(printed, a)
		f.Yield(1)
		return Running
	})

	for i, c := 0, 'a'; i < 3; i, c = i+1, c+1 {
		r.Equal(Running, Await[arg, struct{}](printer, arg{c, i}).Status())
	}
	r.Equal([]arg{{'a', 0}, {'b', 1}, {'c', 2}}, printed)
}

func TestInvokeCommands(t *testing.T) {
	r := require.New(t)

	g := generator()
	v, _ := g.Invoke(Run, 2).Result()
	r.Equal(0, v)
	r.Equal(Running, g.Invoke(Reset, 2).Status())
	r.Equal(Entry, g.Point())

	r.PanicsWithValue("async: unknown command command(7)", func() {
		g.Invoke(Command(7), 2)
	})
}

func TestReentrantInvocationPanics(t *testing.T) {
	r := require.New(t)

	var self *Task[struct{}, struct{}, struct{}]
	self = New(func(f *Frame[struct{}, struct{}], _ struct{}) Status {
		self.Run(struct{}{})
		return f.End()
	}).WithName("self")

	r.PanicsWithValue("async: task self invoked while already running", func() {
		self.Run(struct{}{})
	})

	// the guard is released after the panic unwinds
	r.NotPanics(func() { self.Reset() })
}

func TestConcurrentInvocationPanics(t *testing.T) {
	r := require.New(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	task := New(func(f *Frame[struct{}, struct{}], _ struct{}) Status {
		close(entered)
		<-release
		return f.End()
	}).WithName("shared")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		task.Run(struct{}{})
	}()

	<-entered
	r.Panics(func() { task.Run(struct{}{}) })
	close(release)
	wg.Wait()

	r.True(task.Record().Done())
}

func TestContractViolationsPanic(t *testing.T) {
	r := require.New(t)

	noSuspend := New(func(f *Frame[struct{}, int], _ struct{}) Status {
		return Running
	}).WithName("a")
	r.PanicsWithValue("async: task a returned running without suspending", func() {
		noSuspend.Run(struct{}{})
	})

	noEnd := New(func(f *Frame[struct{}, int], _ struct{}) Status {
		return Done
	}).WithName("b")
	r.PanicsWithValue("async: task b returned done without reaching End", func() {
		noEnd.Run(struct{}{})
	})

	twice := New(func(f *Frame[struct{}, int], _ struct{}) Status {
		f.Yield(1)
		f.Yield(2)
		return Running
	})
	r.PanicsWithValue("async: suspend primitive reached after the task suspended", func() {
		twice.Run(struct{}{})
	})

	afterEnd := New(func(f *Frame[struct{}, int], _ struct{}) Status {
		f.End()
		f.Yield(1)
		return Running
	})
	r.PanicsWithValue("async: suspend primitive reached after End", func() {
		afterEnd.Run(struct{}{})
	})

	entrySite := New(func(f *Frame[struct{}, int], _ struct{}) Status {
		f.Yield(Entry)
		return Running
	})
	r.PanicsWithValue("async: suspend site must be positive", func() {
		entrySite.Run(struct{}{})
	})

	r.PanicsWithValue("async: nil task body", func() {
		New[struct{}, struct{}, int](nil)
	})
}

func TestNameDefaultsToAddress(t *testing.T) {
	r := require.New(t)

	r.Equal("generator", generator().Name())
	r.Contains(counting(0).Name(), "0x")
}

func TestResetWithCallerResult(t *testing.T) {
	r := require.New(t)

	g := generator().WithResetResult(-1)
	g.Run(4)

	rec := g.ResetWith(99)
	r.Equal(Running, rec.Status())
	r.Equal(Entry, g.Point())
	v, ok := rec.Result()
	r.True(ok)
	r.Equal(99, v)

	v, _ = g.Reset().Result()
	r.Equal(-1, v)
}
