package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// dfa builds a deterministic automaton from a transition list. States are
// created on first mention; the first state mentioned becomes initial.
func dfa(t *testing.T, finals []string, transitions [][3]string) *Automaton {
	t.Helper()

	a := NewAutomaton()
	isFinal := func(name string) bool {
		for _, f := range finals {
			if f == name {
				return true
			}
		}
		return false
	}

	ensure := func(name string) *State {
		if s := a.State(name); s != nil {
			return s
		}
		s := NewState(name, isFinal(name))
		a.AddState(s)
		if a.Initial() == nil {
			if err := a.SetInitial(s); err != nil {
				t.Fatalf("building automaton: %v", err)
			}
		}
		return s
	}

	for _, tr := range transitions {
		from := ensure(tr[0])
		to := ensure(tr[2])
		from.ConnectTo(tr[1], to)
	}

	return a
}

func Test_EquivalentDFA(t *testing.T) {
	testCases := []struct {
		name   string
		left   *Automaton
		right  *Automaton
		expect bool
	}{
		{
			name: "same structure different names",
			left: dfa(t, []string{"B"}, [][3]string{
				{"A", "a", "B"},
				{"B", "b", "A"},
			}),
			right: dfa(t, []string{"q1"}, [][3]string{
				{"q0", "a", "q1"},
				{"q1", "b", "q0"},
			}),
			expect: true,
		},
		{
			name: "different finality",
			left: dfa(t, []string{"B"}, [][3]string{
				{"A", "a", "B"},
			}),
			right: dfa(t, []string{"q0"}, [][3]string{
				{"q0", "a", "q1"},
			}),
			expect: false,
		},
		{
			name: "different labels",
			left: dfa(t, []string{"B"}, [][3]string{
				{"A", "a", "B"},
			}),
			right: dfa(t, []string{"q1"}, [][3]string{
				{"q0", "b", "q1"},
			}),
			expect: false,
		},
		{
			name: "different label counts",
			left: dfa(t, []string{"B"}, [][3]string{
				{"A", "a", "B"},
				{"A", "b", "B"},
			}),
			right: dfa(t, []string{"q1"}, [][3]string{
				{"q0", "a", "q1"},
			}),
			expect: false,
		},
		{
			name: "self loop vs two-cycle",
			left: dfa(t, []string{"A"}, [][3]string{
				{"A", "a", "A"},
			}),
			right: dfa(t, []string{"q0", "q1"}, [][3]string{
				{"q0", "a", "q1"},
				{"q1", "a", "q0"},
			}),
			expect: false,
		},
		{
			name: "cycle paired consistently",
			left: dfa(t, []string{"C"}, [][3]string{
				{"A", "a", "B"},
				{"B", "a", "C"},
				{"C", "a", "A"},
			}),
			right: dfa(t, []string{"r2"}, [][3]string{
				{"r0", "a", "r1"},
				{"r1", "a", "r2"},
				{"r2", "a", "r0"},
			}),
			expect: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, EquivalentDFA(tc.left, tc.right))
			assert.Equal(tc.expect, EquivalentDFA(tc.right, tc.left))
		})
	}
}

func Test_EquivalentDFA_ignoresUnreachable(t *testing.T) {
	assert := assert.New(t)

	left := dfa(t, []string{"B"}, [][3]string{
		{"A", "a", "B"},
	})
	island := NewState("island", true)
	left.AddState(island)
	island.ConnectTo("z", island)

	right := dfa(t, []string{"q1"}, [][3]string{
		{"q0", "a", "q1"},
	})

	assert.True(EquivalentDFA(left, right))
}

func Test_EquivalentDFA_noInitial(t *testing.T) {
	assert := assert.New(t)

	empty := NewAutomaton()

	hasInitial := dfa(t, nil, [][3]string{
		{"A", "a", "A"},
	})

	assert.True(EquivalentDFA(empty, NewAutomaton()))
	assert.False(EquivalentDFA(empty, hasInitial))
	assert.False(EquivalentDFA(hasInitial, empty))
}
