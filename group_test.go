package async

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupLockstep(t *testing.T) {
	r := require.New(t)

	a, b := counting(1), counting(3)
	g := NewGroup(Bind[struct{}, int](a, struct{}{}), Bind[struct{}, int](b, struct{}{}))
	r.Equal(2, g.Len())

	r.Equal(Running, g.Step())
	r.Equal(1, a.State().runs)
	r.Equal(1, b.State().runs)

	r.Equal(Running, g.Step())
	r.True(a.Record().Done())
	r.Equal(1, g.Len())

	r.Equal(Running, g.Step())
	r.Equal(Done, g.Step())
	r.Equal(0, g.Len())
	r.Equal(2, a.State().runs)
	r.Equal(4, b.State().runs)

	r.Equal(Done, g.Step())
	r.Equal(4, b.State().runs)
}

func TestGroupAsChild(t *testing.T) {
	r := require.New(t)

	x, y := counting(2), counting(2)
	group := NewGroup(Bind[struct{}, int](x, struct{}{}), Bind[struct{}, int](y, struct{}{}))

	parent := New(func(f *Frame[struct{}, struct{}], _ struct{}) Status {
		if f.Point() == 1 {
			f.Yield(1)
		}
		if group.Step() == Done {
			return f.End()
		}
		f.Yield(1)
		return Running
	})

	rec := Block[struct{}, struct{}](parent, struct{}{})
	r.True(rec.Done())
	r.Equal(3, x.State().runs)
	r.Equal(3, y.State().runs)
}

func TestGroupAddOrder(t *testing.T) {
	r := require.New(t)

	var order []string
	step := func(name string, n int) Stepper {
		return StepperFunc(func() Status {
			order = append(order, name)
			n--
			if n == 0 {
				return Done
			}
			return Running
		})
	}

	g := NewGroup(step("a", 2))
	g.Add(step("b", 1), step("c", 2))

	for g.Step() != Done {
	}
	r.Equal([]string{"a", "b", "c", "a", "c"}, order)

	r.PanicsWithValue("async: nil stepper added to group", func() {
		g.Add(nil)
	})
}
