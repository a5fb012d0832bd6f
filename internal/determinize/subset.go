package determinize

import (
	"fmt"

	"github.com/dekarrin/quicksc/internal/automaton"
	"github.com/dekarrin/quicksc/internal/util"
)

// SubsetConstruction is the textbook worklist determinization algorithm. It
// builds the DFA from scratch, one ε-closed subset of NFA states at a time,
// and serves as the benchmark the other algorithms are verified against.
type SubsetConstruction struct {
	stats map[Stat]float64
}

// NewSubsetConstruction creates a SubsetConstruction algorithm.
func NewSubsetConstruction() *SubsetConstruction {
	return &SubsetConstruction{
		stats: map[Stat]float64{},
	}
}

// Abbr returns "sc".
func (sc *SubsetConstruction) Abbr() string {
	return "sc"
}

// Name returns the full name of the algorithm.
func (sc *SubsetConstruction) Name() string {
	return "Subset Construction"
}

// RuntimeStats returns the statistics of the last run. Subset Construction
// computes none, so the map is always empty.
func (sc *SubsetConstruction) RuntimeStats() map[Stat]float64 {
	return sc.stats
}

// RuntimeStatsList returns the stats this algorithm produces.
func (sc *SubsetConstruction) RuntimeStatsList() []Stat {
	return nil
}

// Run determinizes nfa. The states of the resulting DFA carry extensions
// referencing the states of nfa.
func (sc *SubsetConstruction) Run(nfa *automaton.Automaton) (*automaton.Automaton, error) {
	sc.stats = map[Stat]float64{}

	if nfa.Initial() == nil {
		return nil, fmt.Errorf("determinizing automaton with no initial state: %w", automaton.ErrInvariantViolation)
	}

	dfa := automaton.NewAutomaton()

	initial := automaton.NewConstructedState(automaton.EpsilonClosure(nfa.Initial()))
	dfa.AddState(initial)

	worklist := util.Queue[*automaton.State]{}
	worklist.Push(initial)

	for worklist.Len() > 0 {
		current := worklist.Pop()

		for _, label := range current.ExtensionLabels() {
			if label == automaton.Epsilon {
				continue
			}

			lClosure := current.LClosureOfExtension(label)
			if lClosure.Empty() {
				continue
			}

			child := dfa.State(lClosure.Name())
			if child == nil {
				child = automaton.NewConstructedState(lClosure)
				dfa.AddState(child)
				worklist.Push(child)
			}

			current.ConnectTo(label, child)
		}
	}

	// also computes the distances of every state
	if err := dfa.SetInitial(initial); err != nil {
		return nil, err
	}

	return dfa, nil
}
