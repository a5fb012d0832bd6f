package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Automaton_AddAndRemoveState(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", true)

	a.AddState(s0)
	a.AddState(s1)
	a.AddState(s0)

	assert.Equal(2, a.Size())
	assert.True(a.HasState(s0))
	assert.True(a.HasStateNamed("s1"))
	assert.Same(s1, a.State("s1"))
	assert.Nil(a.State("s2"))

	s0.ConnectTo("x", s1)
	assert.True(a.RemoveState(s1))
	assert.False(a.RemoveState(s1))

	assert.Equal(1, a.Size())
	assert.Zero(s0.ExitingCount())
}

func Test_Automaton_StatesByName(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	first := NewState("dup", false)
	second := NewState("dup", true)
	a.AddState(first)
	a.AddState(second)
	a.AddState(NewState("other", false))

	namesakes := a.StatesByName("dup")

	assert.Len(namesakes, 2)
	assert.Contains(namesakes, first)
	assert.Contains(namesakes, second)
	assert.Empty(a.StatesByName("missing"))
}

func Test_Automaton_SetInitial(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", false)
	s2 := NewState("s2", true)
	a.AddState(s0)
	a.AddState(s1)
	a.AddState(s2)
	s0.ConnectTo("x", s1)
	s1.ConnectTo("y", s2)

	err := a.SetInitial(s0)

	assert.NoError(err)
	assert.Same(s0, a.Initial())
	assert.True(a.IsInitial(s0))
	assert.Equal(0, s0.Distance())
	assert.Equal(1, s1.Distance())
	assert.Equal(2, s2.Distance())
}

func Test_Automaton_SetInitial_recomputesDistances(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", true)
	a.AddState(s0)
	a.AddState(s1)
	s0.ConnectTo("x", s1)

	assert.NoError(a.SetInitial(s0))
	assert.Equal(1, s1.Distance())

	// moving the initial state resets every distance
	assert.NoError(a.SetInitial(s1))
	assert.Equal(0, s1.Distance())
	assert.Equal(DistanceUnknown, s0.Distance())
}

func Test_Automaton_SetInitial_nonMember(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	outsider := NewState("s0", false)

	err := a.SetInitial(outsider)

	assert.ErrorIs(err, ErrInvariantViolation)
	assert.Nil(a.Initial())
}

func Test_Automaton_Connect(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", false)
	outsider := NewState("s2", false)
	a.AddState(s0)
	a.AddState(s1)

	assert.NoError(a.Connect(s0, s1, "x"))
	assert.True(s0.HasExitingTo("x", s1))

	assert.ErrorIs(a.Connect(outsider, s1, "x"), ErrInvariantViolation)
	assert.ErrorIs(a.Connect(s0, outsider, "x"), ErrInvariantViolation)
}

func Test_Automaton_TransitionCountAndAlphabet(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", true)
	a.AddState(s0)
	a.AddState(s1)
	s0.ConnectTo("b", s1)
	s0.ConnectTo("a", s1)
	s0.ConnectTo(Epsilon, s1)
	s1.ConnectTo("a", s1)

	assert.Equal(4, a.TransitionCount())
	assert.Equal([]string{Epsilon, "a", "b"}, a.Alphabet())
}

func Test_Automaton_RemoveUnreachable(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", true)
	orphan := NewState("s2", false)
	island := NewState("s3", false)
	a.AddState(s0)
	a.AddState(s1)
	a.AddState(orphan)
	a.AddState(island)
	s0.ConnectTo("x", s1)

	// orphan points into the reachable part but nothing reaches it
	orphan.ConnectTo("x", s1)

	assert.NoError(a.SetInitial(s0))

	removed := a.RemoveUnreachable()

	assert.Len(removed, 2)
	assert.Contains(removed, orphan)
	assert.Contains(removed, island)
	assert.Equal(2, a.Size())
	assert.True(a.HasState(s1))
}

func Test_Automaton_RemoveUnreachable_noInitial(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	a.AddState(NewState("s0", false))

	assert.Nil(a.RemoveUnreachable())
	assert.Equal(1, a.Size())
}

func Test_Automaton_Clone(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	s0 := NewState("s0", false)
	s1 := NewState("s1", true)
	a.AddState(s0)
	a.AddState(s1)
	s0.ConnectTo("x", s1)
	s1.ConnectTo(Epsilon, s0)
	assert.NoError(a.SetInitial(s0))

	clone := a.Clone()

	assert.True(a.Equal(clone))
	assert.Equal(a.TransitionCount(), clone.TransitionCount())

	// the clone is fully detached from the original
	assert.NotSame(a.Initial(), clone.Initial())
	clone.Initial().ConnectTo("y", clone.State("s1"))
	assert.Equal(2, a.TransitionCount())
}

func Test_Automaton_Equal(t *testing.T) {
	build := func(withExtra bool, finalName string) *Automaton {
		a := NewAutomaton()
		s0 := NewState("s0", finalName == "s0")
		s1 := NewState("s1", finalName == "s1")
		a.AddState(s0)
		a.AddState(s1)
		s0.ConnectTo("x", s1)
		if withExtra {
			s1.ConnectTo("y", s0)
		}
		a.SetInitial(s0)
		return a
	}

	testCases := []struct {
		name   string
		left   *Automaton
		right  *Automaton
		expect bool
	}{
		{
			name:   "identical structure",
			left:   build(false, "s1"),
			right:  build(false, "s1"),
			expect: true,
		},
		{
			name:   "different transitions",
			left:   build(false, "s1"),
			right:  build(true, "s1"),
			expect: false,
		},
		{
			name:   "different finality",
			left:   build(false, "s1"),
			right:  build(false, "s0"),
			expect: false,
		},
		{
			name:   "nil other",
			left:   build(false, "s1"),
			right:  nil,
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.left.Equal(tc.right))
		})
	}
}

func Test_Automaton_Equal_differentSize(t *testing.T) {
	assert := assert.New(t)

	a := NewAutomaton()
	a.AddState(NewState("s0", false))

	b := NewAutomaton()
	b.AddState(NewState("s0", false))
	b.AddState(NewState("s1", false))

	assert.False(a.Equal(b))
	assert.False(b.Equal(a))
}
