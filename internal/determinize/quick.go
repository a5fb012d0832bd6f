package determinize

import (
	"fmt"
	"time"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// scaleFactorQSC is the empirical cost of processing one singularity,
// relative to the cost of processing one transition in a from-scratch
// construction. It turns the measured impact into an expected impact.
const scaleFactorQSC = 1.3

// QuickSubsetConstruction determinizes an NFA by cloning it and then
// repairing the clone in place. The cloning phase records singularities, the
// points where the clone is not yet deterministic; the restructuring phase
// consumes them in order of distance from the initial state, closest first.
//
// When the NFA is mostly deterministic already, far fewer singularities than
// transitions exist and the repair beats rebuilding the DFA from scratch.
type QuickSubsetConstruction struct {
	stats         map[Stat]float64
	singularities *automaton.SingularityList
}

// NewQuickSubsetConstruction creates a QuickSubsetConstruction algorithm.
func NewQuickSubsetConstruction() *QuickSubsetConstruction {
	return &QuickSubsetConstruction{
		stats: map[Stat]float64{},
	}
}

// Abbr returns "qsc".
func (qsc *QuickSubsetConstruction) Abbr() string {
	return "qsc"
}

// Name returns the full name of the algorithm.
func (qsc *QuickSubsetConstruction) Name() string {
	return "Quick Subset Construction"
}

// RuntimeStats returns the statistics of the last run.
func (qsc *QuickSubsetConstruction) RuntimeStats() map[Stat]float64 {
	return qsc.stats
}

// RuntimeStatsList returns the stats this algorithm produces.
func (qsc *QuickSubsetConstruction) RuntimeStatsList() []Stat {
	return []Stat{
		StatImpact,
		StatExpectedImpact,
		StatExpectedGain,
		StatSingularitiesCheckup,
		StatSingularitiesScenario0,
		StatSingularitiesScenario1,
		StatSingularitiesScenario2,
		StatSingularitiesTotal,
		StatLevelCheckup,
		StatLevelTotal,
		StatCloningTime,
		StatRestructuringTime,
		StatDistanceRelocationTime,
	}
}

// Run determinizes nfa. The input automaton is not modified; the resulting
// DFA's states carry extensions referencing the states of nfa.
func (qsc *QuickSubsetConstruction) Run(nfa *automaton.Automaton) (*automaton.Automaton, error) {
	qsc.stats = map[Stat]float64{}
	for _, stat := range qsc.RuntimeStatsList() {
		qsc.stats[stat] = 0
	}
	qsc.singularities = automaton.NewSingularityList()

	if nfa.Initial() == nil {
		return nil, fmt.Errorf("determinizing automaton with no initial state: %w", automaton.ErrInvariantViolation)
	}

	dfa := automaton.NewAutomaton()

	// FIRST PHASE - CLONING
	//
	// Clone the NFA state for state and transition for transition,
	// recording a singularity everywhere the clone needs repair: on the
	// initial state if it has exiting ε-transitions, and on every state
	// with a label that is locally non-deterministic.

	cloningStart := time.Now()

	cloneOf := map[*automaton.State]*automaton.State{}
	for _, nfaState := range nfa.States() {
		dfaState := automaton.NewConstructedState(automaton.NewExtension(nfaState))
		dfa.AddState(dfaState)
		dfaState.SetDistance(nfaState.Distance())
		cloneOf[nfaState] = dfaState
	}

	for _, nfaState := range nfa.States() {
		dfaState := cloneOf[nfaState]

		for _, label := range nfaState.ExitingLabels() {
			addedSingularity := false

			// singularity of type (1): ε exiting the initial state
			if nfa.IsInitial(nfaState) && label == automaton.Epsilon {
				qsc.addSingularity(dfaState, label)
				addedSingularity = true
			}

			children := nfaState.Children(label)
			for _, nfaChild := range children {
				// ε self-loops carry no information, drop them
				if nfaChild == nfaState && label == automaton.Epsilon {
					continue
				}

				dfaState.ConnectTo(label, cloneOf[nfaChild])

				// singularity of type (2): the child continues with a
				// non-looping ε-transition
				if !addedSingularity && label != automaton.Epsilon && nfaChild.HasExiting(automaton.Epsilon) {
					for _, nfaGrandchild := range nfaChild.Children(automaton.Epsilon) {
						if nfaGrandchild != nfaChild {
							qsc.addSingularity(dfaState, label)
							addedSingularity = true
							break
						}
					}
				}
			}

			// singularity of type (2): more than one child under the label
			if !addedSingularity && label != automaton.Epsilon && len(children) > 1 {
				qsc.addSingularity(dfaState, label)
			}
		}
	}

	if err := dfa.SetInitial(cloneOf[nfa.Initial()]); err != nil {
		return nil, err
	}

	qsc.stats[StatCloningTime] = millisecondsSince(cloningStart)
	qsc.stats[StatSingularitiesCheckup] = float64(qsc.singularities.Len())
	qsc.stats[StatLevelCheckup] = qsc.singularities.AverageLevel()

	// SECOND PHASE - RESTRUCTURING

	levelSum := 0.0
	restructuringStart := time.Now()

	// SCENARIO 0
	//
	// The only possible ε-singularity is the one on the initial state, and
	// it always sorts first, so checking the front label is enough.
	if !qsc.singularities.Empty() && qsc.singularities.FirstLabel() == automaton.Epsilon {
		qsc.stats[StatSingularitiesScenario0]++

		initialSingularity := qsc.singularities.Pop()
		initialState := initialSingularity.State()

		dfaClosure := automaton.EpsilonClosure(initialState)
		nfaClosure := automaton.EpsilonClosure(nfa.Initial())

		var unsafeStates []*automaton.State
		for _, closureState := range dfaClosure.States() {
			if closureState.IsUnsafe(initialState, automaton.Epsilon) {
				unsafeStates = append(unsafeStates, closureState)
				closureState.SetMarked(true)
			}
		}

		initialState.ReplaceExtension(nfaClosure)

		for _, epsChild := range initialState.Children(automaton.Epsilon) {
			initialState.Disconnect(automaton.Epsilon, epsChild)
		}

		// the non-ε transitions of the new extension members become
		// singularities of the initial state
		for _, nfaState := range nfaClosure.States() {
			if nfaState == nfa.Initial() {
				continue
			}
			for _, label := range nfaState.ExitingLabels() {
				if label != automaton.Epsilon {
					qsc.addSingularity(initialState, label)
				}
			}
		}

		var rehomed []relocation
		for _, unsafe := range unsafeStates {
			for _, label := range unsafe.ExitingLabels() {
				if label == automaton.Epsilon {
					continue
				}
				for _, unsafeChild := range unsafe.Children(label) {
					if !unsafeChild.Marked() {
						initialState.ConnectTo(label, unsafeChild)
						rehomed = append(rehomed, relocation{unsafeChild, initialState.Distance() + 1})
					}
				}
			}

			for _, label := range unsafe.IncomingLabels() {
				if label == automaton.Epsilon {
					continue
				}
				for _, unsafeParent := range unsafe.Parents(label) {
					if !unsafeParent.Marked() {
						qsc.addSingularity(unsafeParent, label)
					}
				}
			}
		}

		for _, unsafe := range unsafeStates {
			dfa.RemoveState(unsafe)
			qsc.singularities.RemoveOfState(unsafe)
		}

		// the re-homed children may now be closer through the initial state
		// than through their old unsafe parents
		if len(rehomed) > 0 {
			qsc.relocateDistances(rehomed)
			qsc.singularities.Sort()
		}
	}

	// SCENARIOS 1 AND 2

	for !qsc.singularities.Empty() {
		singularity := qsc.singularities.Pop()
		sgState := singularity.State()
		sgLabel := singularity.Label()

		// |N: the l-closure of the singularity computed on the NFA
		nfaClosure := sgState.LClosureOfExtension(sgLabel)
		nfaClosureName := nfaClosure.Name()

		if !sgState.HasExiting(sgLabel) {

			// SCENARIO 1: no transition under the label yet, just hook up
			// the l-closure state.

			qsc.stats[StatSingularitiesScenario1]++
			levelSum += float64(sgState.Distance())

			if child := dfa.State(nfaClosureName); child != nil {
				sgState.ConnectTo(sgLabel, child)
				qsc.relocateDistance(child, sgState.Distance()+1)
			} else {
				newState := automaton.NewConstructedState(nfaClosure)
				dfa.AddState(newState)
				sgState.ConnectTo(sgLabel, newState)
				newState.SetDistance(sgState.Distance() + 1)

				for _, label := range newState.ExtensionLabels() {
					if label != automaton.Epsilon {
						qsc.addSingularity(newState, label)
					}
				}
			}

			continue
		}

		// Transitions under the label exist. Scenario 2 applies when they
		// are wrong: two or more children, a sole child that continues
		// with ε, or a sole child whose extension is not |N.
		children := sgState.Children(sgLabel)
		scenario2 := false
		if len(children) > 1 {
			scenario2 = true
		} else {
			child := children[0]
			if child.HasExiting(automaton.Epsilon) {
				scenario2 = true
			} else if !child.HasExtension(nfaClosure) {
				scenario2 = true
			}
		}

		if !scenario2 {
			continue
		}

		// SCENARIO 2

		qsc.stats[StatSingularitiesScenario2]++
		levelSum += float64(sgState.Distance())

		// |D: the l-closure of the singularity computed on the DFA
		dfaClosure := sgState.LClosure(sgLabel)

		var unsafeStates []*automaton.State
		for _, lChild := range dfaClosure.States() {
			if lChild.IsUnsafe(sgState, sgLabel) {
				unsafeStates = append(unsafeStates, lChild)
				lChild.SetMarked(true)
				qsc.singularities.RemoveOfState(lChild)
			}
		}

		newState := dfa.State(nfaClosureName)
		if newState == nil || newState.Marked() {
			newState = automaton.NewConstructedState(nfaClosure)
			newState.SetDistance(sgState.Distance() + 1)
			dfa.AddState(newState)
		}

		for _, label := range newState.ExtensionLabels() {
			if label != automaton.Epsilon {
				qsc.addSingularity(newState, label)
			}
		}

		// drop every transition the singularity stands for
		for _, child := range sgState.Children(sgLabel) {
			sgState.Disconnect(sgLabel, child)
		}

		var rehomed []relocation
		for _, unsafe := range unsafeStates {
			// safe children of unsafe states re-home onto the new state
			for _, label := range unsafe.ExitingLabels() {
				if label == automaton.Epsilon {
					continue
				}
				for _, unsafeChild := range unsafe.Children(label) {
					if !unsafeChild.Marked() {
						newState.ConnectTo(label, unsafeChild)
						rehomed = append(rehomed, relocation{unsafeChild, newState.Distance() + 1})
					}
				}
			}

			// safe parents of unsafe states get a singularity to repair
			// their dangling transition
			for _, label := range unsafe.IncomingLabels() {
				if label == automaton.Epsilon {
					continue
				}
				for _, unsafeParent := range unsafe.Parents(label) {
					if !unsafeParent.Marked() {
						qsc.addSingularity(unsafeParent, label)
					}
				}
			}
		}

		for _, unsafe := range unsafeStates {
			dfa.RemoveState(unsafe)
		}

		sgState.ConnectTo(sgLabel, newState)

		// Hooking up the singularity state may have shortened the path to the
		// new state, and the re-homed children lost their old unsafe parents,
		// so both settle onto their true distances now.
		rehomed = append(rehomed, relocation{newState, sgState.Distance() + 1})
		qsc.relocateDistances(rehomed)
		qsc.singularities.Sort()

		// Creating the state may have introduced a namesake of an existing
		// state. Merge the two, keeping the one closer to the initial
		// state.
		namesakes := dfa.StatesByName(nfaClosureName)
		if len(namesakes) > 1 {
			minState, maxState := namesakes[0], namesakes[1]
			if maxState.Distance() < minState.Distance() {
				minState, maxState = maxState, minState
			}

			minState.CopyAllTransitionsOf(maxState)
			dfa.RemoveState(maxState)

			maxLabels := qsc.singularities.RemoveOfState(maxState)
			for _, label := range maxLabels.ElementsOrdered() {
				if label != automaton.Epsilon && !(minState == sgState && label == sgLabel) {
					qsc.addSingularity(minState, label)
				}
			}

			// the children acquired from the farther namesake may now be
			// closer to the initial state than they believe
			var toRelocate []relocation
			for _, label := range minState.ExitingLabels() {
				for _, child := range minState.Children(label) {
					toRelocate = append(toRelocate, relocation{child, minState.Distance() + 1})
				}
			}
			qsc.relocateDistances(toRelocate)
			qsc.singularities.Sort()
		}
	}

	qsc.stats[StatRestructuringTime] = millisecondsSince(restructuringStart)

	total := qsc.stats[StatSingularitiesScenario0] +
		qsc.stats[StatSingularitiesScenario1] +
		qsc.stats[StatSingularitiesScenario2]
	qsc.stats[StatSingularitiesTotal] = total

	if total > 0 {
		qsc.stats[StatLevelTotal] = levelSum / total
	}
	if transitions := dfa.TransitionCount(); transitions > 0 {
		qsc.stats[StatImpact] = total / float64(transitions)
	}

	expImpact := qsc.stats[StatImpact] * scaleFactorQSC
	qsc.stats[StatExpectedImpact] = expImpact
	if expImpact <= 1.0 {
		qsc.stats[StatExpectedGain] = 1.0 - expImpact
	} else {
		qsc.stats[StatExpectedGain] = 1.0/expImpact - 1.0
	}

	return dfa, nil
}

type relocation struct {
	state    *automaton.State
	distance int
}

// relocateDistances lowers the distance of each state in the sequence to the
// candidate paired with it, when the candidate is smaller, and propagates
// the improvement breadth-first through the children.
func (qsc *QuickSubsetConstruction) relocateDistances(sequence []relocation) {
	start := time.Now()

	for len(sequence) > 0 {
		current := sequence[0]
		sequence = sequence[1:]

		if current.state.Distance() > current.distance {
			current.state.SetDistance(current.distance)

			for _, label := range current.state.ExitingLabels() {
				for _, child := range current.state.Children(label) {
					sequence = append(sequence, relocation{child, current.distance + 1})
				}
			}
		}
	}

	qsc.stats[StatDistanceRelocationTime] += millisecondsSince(start)
}

func (qsc *QuickSubsetConstruction) relocateDistance(state *automaton.State, distance int) {
	qsc.relocateDistances([]relocation{{state, distance}})
}

// addSingularity creates a singularity and adds it to the list, unless an
// equal one is already queued.
func (qsc *QuickSubsetConstruction) addSingularity(state *automaton.State, label string) {
	qsc.singularities.Insert(automaton.NewSingularity(state, label))
}

func millisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
