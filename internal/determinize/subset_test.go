package determinize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// branchingNFA builds an NFA that accepts strings ending in "a": A loops on a
// and b, and nondeterministically moves to final B on a.
func branchingNFA() *automaton.Automaton {
	nfa := automaton.NewAutomaton()

	a := automaton.NewState("A", false)
	b := automaton.NewState("B", true)
	nfa.AddState(a)
	nfa.AddState(b)

	nfa.Connect(a, a, "a")
	nfa.Connect(a, a, "b")
	nfa.Connect(a, b, "a")
	nfa.SetInitial(a)

	return nfa
}

// epsilonNFA builds the automaton with states 0 through 4 where 2 is final
// and several epsilon transitions interleave with labeled ones.
func epsilonNFA() *automaton.Automaton {
	nfa := automaton.NewAutomaton()

	states := make([]*automaton.State, 5)
	for i := range states {
		name := string(rune('0' + i))
		states[i] = automaton.NewState(name, i == 2)
		nfa.AddState(states[i])
	}

	eps := automaton.Epsilon
	nfa.Connect(states[0], states[2], eps)
	nfa.Connect(states[0], states[1], "d")
	nfa.Connect(states[1], states[2], eps)
	nfa.Connect(states[1], states[3], eps)
	nfa.Connect(states[2], states[3], "e")
	nfa.Connect(states[3], states[3], eps)
	nfa.Connect(states[3], states[4], "b")
	nfa.Connect(states[4], states[3], eps)
	nfa.Connect(states[4], states[3], "d")
	nfa.Connect(states[4], states[1], "d")
	nfa.SetInitial(states[0])

	return nfa
}

// chainNFA builds a deterministic, epsilon-free chain of n states under label
// "a", last state final.
func chainNFA(n int) *automaton.Automaton {
	nfa := automaton.NewAutomaton()

	var prev *automaton.State
	for i := 0; i < n; i++ {
		s := automaton.NewState(string(rune('0'+i)), i == n-1)
		nfa.AddState(s)
		if prev == nil {
			nfa.SetInitial(s)
		} else {
			nfa.Connect(prev, s, "a")
		}
		prev = s
	}

	return nfa
}

func Test_SubsetConstruction_identity(t *testing.T) {
	assert := assert.New(t)

	sc := NewSubsetConstruction()

	assert.Equal("sc", sc.Abbr())
	assert.Equal("Subset Construction", sc.Name())
	assert.Empty(sc.RuntimeStatsList())
}

func Test_SubsetConstruction_Run_noInitial(t *testing.T) {
	assert := assert.New(t)

	nfa := automaton.NewAutomaton()
	nfa.AddState(automaton.NewState("A", false))

	sc := NewSubsetConstruction()
	_, err := sc.Run(nfa)

	assert.ErrorIs(err, automaton.ErrInvariantViolation)
}

func Test_SubsetConstruction_Run_branching(t *testing.T) {
	assert := assert.New(t)

	sc := NewSubsetConstruction()
	dfa, err := sc.Run(branchingNFA())

	if !assert.NoError(err) {
		return
	}
	assert.Equal(2, dfa.Size())
	if !assert.NotNil(dfa.Initial()) {
		return
	}
	assert.Equal("{A}", dfa.Initial().Name())

	ab := dfa.State("{A,B}")
	if !assert.NotNil(ab) {
		return
	}
	assert.True(ab.IsFinal())

	// {A} -a-> {A,B}, {A} -b-> {A}
	assert.True(dfa.Initial().HasExitingTo("a", ab))
	assert.True(dfa.Initial().HasExitingTo("b", dfa.Initial()))
	// {A,B} -a-> {A,B}, {A,B} -b-> {A}
	assert.True(ab.HasExitingTo("a", ab))
	assert.True(ab.HasExitingTo("b", dfa.Initial()))
}

func Test_SubsetConstruction_Run_epsilonClosures(t *testing.T) {
	assert := assert.New(t)

	sc := NewSubsetConstruction()
	dfa, err := sc.Run(epsilonNFA())

	if !assert.NoError(err) {
		return
	}
	if !assert.NotNil(dfa.Initial()) {
		return
	}

	// the initial state is the epsilon-closure of 0
	assert.Equal("{0,2}", dfa.Initial().Name())
	assert.True(dfa.Initial().IsFinal())

	// every state must be deterministic and epsilon-free
	for _, s := range dfa.States() {
		for _, label := range s.ExitingLabels() {
			assert.NotEqual(automaton.Epsilon, label)
			assert.Len(s.Children(label), 1)
		}
	}
}

func Test_SubsetConstruction_Run_alreadyDeterministic(t *testing.T) {
	assert := assert.New(t)

	nfa := chainNFA(4)

	sc := NewSubsetConstruction()
	dfa, err := sc.Run(nfa)

	if !assert.NoError(err) {
		return
	}
	assert.Equal(4, dfa.Size())
	assert.True(automaton.EquivalentDFA(dfa, nfa))
}
