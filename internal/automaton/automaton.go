package automaton

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/quicksc/internal/util"
)

// ErrInvariantViolation is wrapped by every error returned for an operation
// whose preconditions do not hold, such as connecting states that are not
// members of the automaton. Check for it with errors.Is.
var ErrInvariantViolation = errors.New("automaton invariant violated")

// Automaton is a finite automaton over named states. It owns its states but
// does not require their names to be unique; the determinization algorithms
// deliberately let two states share a name for a short time before merging
// them.
//
// Lookups by name are soft: they return nil or an empty slice when nothing
// matches.
type Automaton struct {
	states  []*State
	initial *State
}

// NewAutomaton creates an empty automaton.
func NewAutomaton() *Automaton {
	return &Automaton{}
}

// Size returns the number of states in the automaton.
func (a *Automaton) Size() int {
	return len(a.states)
}

// AddState puts s into the automaton. Adding a state that is already a
// member has no effect.
func (a *Automaton) AddState(s *State) {
	if a.HasState(s) {
		return
	}
	a.states = append(a.states, s)
}

// RemoveState detaches every transition of s and removes it from the
// automaton. It returns whether s was a member.
func (a *Automaton) RemoveState(s *State) bool {
	for i := range a.states {
		if a.states[i] == s {
			s.DetachAll()
			a.states = append(a.states[:i], a.states[i+1:]...)
			return true
		}
	}
	return false
}

// HasState returns whether s itself is a member of the automaton.
func (a *Automaton) HasState(s *State) bool {
	for i := range a.states {
		if a.states[i] == s {
			return true
		}
	}
	return false
}

// HasStateNamed returns whether some member of the automaton has the given
// name.
func (a *Automaton) HasStateNamed(name string) bool {
	return a.State(name) != nil
}

// State returns a member of the automaton with the given name, or nil if
// there is none. If several states share the name, which one is returned is
// not specified.
func (a *Automaton) State(name string) *State {
	for i := range a.states {
		if a.states[i].Name() == name {
			return a.states[i]
		}
	}
	return nil
}

// StatesByName returns every member of the automaton with the given name.
func (a *Automaton) StatesByName(name string) []*State {
	var namesakes []*State
	for i := range a.states {
		if a.states[i].Name() == name {
			namesakes = append(namesakes, a.states[i])
		}
	}
	return namesakes
}

// States returns the member states in insertion order. The returned slice is
// a copy; the states themselves are not.
func (a *Automaton) States() []*State {
	states := make([]*State, len(a.states))
	copy(states, a.states)
	return states
}

// StatesOrderedByName returns the member states ordered by name.
func (a *Automaton) StatesOrderedByName() []*State {
	states := a.States()
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Name() < states[j].Name()
	})
	return states
}

// Initial returns the initial state of the automaton, or nil if none has
// been set.
func (a *Automaton) Initial() *State {
	return a.initial
}

// IsInitial returns whether s is the initial state of the automaton.
func (a *Automaton) IsInitial(s *State) bool {
	return a.initial == s
}

// SetInitial makes s the initial state. Every state's distance is reset and
// recomputed breadth-first from s, so after this call distances are
// consistent throughout the automaton.
//
// s must be a member of the automaton.
func (a *Automaton) SetInitial(s *State) error {
	if !a.HasState(s) {
		return fmt.Errorf("cannot make %q initial, not a member state: %w", s.Name(), ErrInvariantViolation)
	}

	a.initial = s

	for i := range a.states {
		a.states[i].SetDistance(DistanceUnknown)
	}
	s.InitDistances(0)

	return nil
}

// Connect adds a transition labeled label from one member state to another.
//
// Both states must be members of the automaton.
func (a *Automaton) Connect(from *State, to *State, label string) error {
	if !a.HasState(from) {
		return fmt.Errorf("cannot connect from %q, not a member state: %w", from.Name(), ErrInvariantViolation)
	}
	if !a.HasState(to) {
		return fmt.Errorf("cannot connect to %q, not a member state: %w", to.Name(), ErrInvariantViolation)
	}

	from.ConnectTo(label, to)
	return nil
}

// TransitionCount returns the total number of transitions in the automaton.
func (a *Automaton) TransitionCount() int {
	count := 0
	for i := range a.states {
		count += a.states[i].ExitingCount()
	}
	return count
}

// Alphabet returns every label appearing on some transition of the
// automaton, ordered alphabetically. ε is included if ε-transitions are
// present.
func (a *Automaton) Alphabet() []string {
	labels := util.NewStringSet()
	for i := range a.states {
		for _, label := range a.states[i].ExitingLabels() {
			labels.Add(label)
		}
	}
	return labels.ElementsOrdered()
}

// RemoveUnreachable removes every state that cannot be reached from the
// initial state and returns the removed states.
func (a *Automaton) RemoveUnreachable() []*State {
	if a.initial == nil {
		return nil
	}

	reachable := util.NewKeySet[*State]()
	queue := util.Queue[*State]{}
	reachable.Add(a.initial)
	queue.Push(a.initial)

	for queue.Len() > 0 {
		current := queue.Pop()
		for _, label := range current.ExitingLabels() {
			for _, child := range current.Children(label) {
				if !reachable.Has(child) {
					reachable.Add(child)
					queue.Push(child)
				}
			}
		}
	}

	var removed []*State
	for _, s := range a.States() {
		if !reachable.Has(s) {
			a.RemoveState(s)
			removed = append(removed, s)
		}
	}

	return removed
}

// Clone returns a deep copy of the automaton. The cloned states keep their
// names, finality, distances, and extensions; the transition structure is
// replayed onto the clones.
func (a *Automaton) Clone() *Automaton {
	clone := NewAutomaton()

	cloneOf := map[*State]*State{}
	for _, s := range a.states {
		c := s.Clone()
		cloneOf[s] = c
		clone.AddState(c)
	}

	for _, s := range a.states {
		for _, label := range s.ExitingLabels() {
			for _, child := range s.Children(label) {
				cloneOf[s].ConnectTo(label, cloneOf[child])
			}
		}
	}

	if a.initial != nil {
		clone.initial = cloneOf[a.initial]
	}

	return clone
}

// Equal returns whether the two automata are isomorphic by state name: same
// size, initial states with the same name, and for every state a state in
// the other automaton with the same name, finality, and identically-named
// transitions.
func (a *Automaton) Equal(other *Automaton) bool {
	if other == nil {
		return false
	}
	if a.Size() != other.Size() {
		return false
	}

	if (a.initial == nil) != (other.initial == nil) {
		return false
	}
	if a.initial != nil && a.initial.Name() != other.initial.Name() {
		return false
	}

	for _, s := range a.states {
		matched := false
		for _, o := range other.StatesByName(s.Name()) {
			if s.IsFinal() == o.IsFinal() && s.HasSameTransitionNamesOf(o) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func (a *Automaton) String() string {
	var sb strings.Builder

	initialName := "<none>"
	if a.initial != nil {
		initialName = a.initial.Name()
	}
	sb.WriteString(fmt.Sprintf("<INITIAL: %q, STATES:", initialName))

	ordered := a.StatesOrderedByName()
	for i := range ordered {
		sb.WriteString("\n\t")
		sb.WriteString(ordered[i].String())

		if i+1 < len(ordered) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}
