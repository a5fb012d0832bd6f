package determinize

import (
	"fmt"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// EpsilonRemoval turns an ε-NFA into an equivalent NFA without
// ε-transitions, except for those exiting the initial state, which the
// determinization algorithms handle on their own.
type EpsilonRemoval interface {
	// Abbr returns the short lowercase tag of the algorithm.
	Abbr() string

	// Name returns the full name of the algorithm.
	Name() string

	// Run removes ε-transitions from nfa in place and returns it. Clone
	// the automaton first to preserve the original.
	Run(nfa *automaton.Automaton) (*automaton.Automaton, error)
}

// NaiveEpsilonRemoval removes ε-transitions one at a time: each ε-edge is
// dropped and replaced by copies of the ε-child's exiting transitions, with
// finality inherited. Transitions copied from a child that itself continues
// with ε are processed the same way, so ε-chains of any length collapse.
// ε-cycles among non-initial states are not supported.
type NaiveEpsilonRemoval struct{}

// NewNaiveEpsilonRemoval creates a NaiveEpsilonRemoval algorithm.
func NewNaiveEpsilonRemoval() *NaiveEpsilonRemoval {
	return &NaiveEpsilonRemoval{}
}

// Abbr returns "ner".
func (ner *NaiveEpsilonRemoval) Abbr() string {
	return "ner"
}

// Name returns the full name of the algorithm.
func (ner *NaiveEpsilonRemoval) Name() string {
	return "Naive Epsilon Removal"
}

// Run removes the ε-transitions of every non-initial state of nfa, in
// place, and returns nfa. ε-children left with no incoming transitions are
// removed. Distances are recomputed at the end.
func (ner *NaiveEpsilonRemoval) Run(nfa *automaton.Automaton) (*automaton.Automaton, error) {
	if nfa.Initial() == nil {
		return nil, fmt.Errorf("removing epsilon transitions of automaton with no initial state: %w", automaton.ErrInvariantViolation)
	}

	for _, state := range nfa.States() {
		// the initial state keeps its ε-transitions, determinization deals
		// with them
		if nfa.IsInitial(state) {
			continue
		}

		// copying an ε-chaining child's exits hands the state fresh
		// ε-transitions, so repeat until none are left
		for state.HasExiting(automaton.Epsilon) {
			for _, epsChild := range state.Children(automaton.Epsilon) {
				state.Disconnect(automaton.Epsilon, epsChild)
				if epsChild == state {
					continue
				}
				state.CopyExitingOf(epsChild)

				if epsChild.IsFinal() {
					state.SetFinal(true)
				}

				if epsChild.IncomingCount() == 0 {
					nfa.RemoveState(epsChild)
				}
			}
		}
	}

	// the removals may have changed shortest paths
	if err := nfa.SetInitial(nfa.Initial()); err != nil {
		return nil, err
	}

	return nfa, nil
}
