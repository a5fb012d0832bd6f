package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewState(t *testing.T) {
	assert := assert.New(t)

	s := NewState("q0", true)

	assert.Equal("q0", s.Name())
	assert.True(s.IsFinal())
	assert.Equal(DistanceUnknown, s.Distance())
	assert.False(s.Marked())
}

func Test_State_ConnectTo(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", false)
	b := NewState("b", false)

	a.ConnectTo("x", b)

	assert.True(a.HasExitingTo("x", b))
	assert.True(b.HasIncomingFrom("x", a))
	assert.Equal(1, a.ExitingCount())

	// connecting twice is a no-op
	a.ConnectTo("x", b)
	assert.Equal(1, a.ExitingCount())
}

func Test_State_Disconnect(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", false)
	b := NewState("b", false)
	a.ConnectTo("x", b)
	a.ConnectTo("y", b)

	a.Disconnect("x", b)

	assert.False(a.HasExitingTo("x", b))
	assert.False(b.HasIncomingFrom("x", a))
	assert.True(a.HasExitingTo("y", b))
	assert.Equal([]string{"y"}, a.ExitingLabels())
}

func Test_State_DetachAll(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", false)
	b := NewState("b", false)
	c := NewState("c", false)
	a.ConnectTo("x", b)
	c.ConnectTo("y", a)
	a.ConnectTo("z", a)

	a.DetachAll()

	assert.Zero(a.ExitingCount())
	assert.Zero(a.IncomingCount())
	assert.False(b.HasIncomingFrom("x", a))
	assert.False(c.HasExitingTo("y", a))
}

func Test_State_Children(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", false)
	b := NewState("b", false)
	c := NewState("c", false)
	a.ConnectTo("x", c)
	a.ConnectTo("x", b)

	children := a.Children("x")

	// ordered by name
	if assert.Len(children, 2) {
		assert.Equal("b", children[0].Name())
		assert.Equal("c", children[1].Name())
	}
	assert.Empty(a.Children("y"))
}

func Test_State_CopyExitingOf(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", false)
	b := NewState("b", false)
	c := NewState("c", false)
	b.ConnectTo("x", c)
	b.ConnectTo(Epsilon, c)

	a.CopyExitingOf(b)

	assert.True(a.HasExitingTo("x", c))
	assert.True(a.HasExitingTo(Epsilon, c))
	// the source keeps its transitions
	assert.True(b.HasExitingTo("x", c))
}

func Test_State_HasSameTransitionNamesOf(t *testing.T) {
	assert := assert.New(t)

	a1 := NewState("a", false)
	a2 := NewState("a", false)
	b1 := NewState("b", false)
	b2 := NewState("b", false)

	a1.ConnectTo("x", b1)
	a2.ConnectTo("x", b2)
	assert.True(a1.HasSameTransitionNamesOf(a2))

	a2.ConnectTo("y", b2)
	assert.False(a1.HasSameTransitionNamesOf(a2))
}

func Test_State_InitDistances(t *testing.T) {
	assert := assert.New(t)

	// a -> b -> c, a -> c directly: c ends at distance 1
	a := NewState("a", false)
	b := NewState("b", false)
	c := NewState("c", false)
	a.ConnectTo("x", b)
	b.ConnectTo("x", c)
	a.ConnectTo("y", c)

	a.SetDistance(DistanceUnknown)
	b.SetDistance(DistanceUnknown)
	c.SetDistance(DistanceUnknown)
	a.InitDistances(0)

	assert.Equal(0, a.Distance())
	assert.Equal(1, b.Distance())
	assert.Equal(1, c.Distance())
}

func Test_State_MinimumParentsDistance(t *testing.T) {
	assert := assert.New(t)

	s := NewState("s", false)
	p1 := NewState("p1", false)
	p2 := NewState("p2", false)
	p1.SetDistance(4)
	p2.SetDistance(2)
	p1.ConnectTo("x", s)
	p2.ConnectTo("y", s)

	assert.Equal(2, s.MinimumParentsDistance())
}

func Test_State_Clone(t *testing.T) {
	assert := assert.New(t)

	a := NewState("a", true)
	a.SetDistance(3)
	a.ConnectTo("x", NewState("b", false))

	clone := a.Clone()

	assert.Equal("a", clone.Name())
	assert.True(clone.IsFinal())
	assert.Equal(3, clone.Distance())
	// transitions do not follow the clone
	assert.Zero(clone.ExitingCount())
}
