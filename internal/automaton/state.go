// Package automaton provides the state-graph model used by the
// determinization algorithms: states with doubly-indexed labeled
// transitions, extensions mapping constructed states back to the sets of
// states they were built from, and the singularity bookkeeping that drives
// Quick Subset Construction.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/quicksc/internal/util"
)

// Epsilon is the label of ε-transitions. The empty string is reserved for
// this purpose; no ordinary input symbol may be empty.
const Epsilon = ""

// EpsilonPrintable is how ε renders in strings produced by this package.
const EpsilonPrintable = "ε"

// DistanceUnknown is the distance a state holds before distances have been
// computed from the initial state.
const DistanceUnknown = 1 << 30

// State is a node of a finite automaton, NFA or DFA. It is identified by a
// name and holds its labeled transitions indexed in both directions, so
// parents are as cheap to find as children.
//
// A State made by NewConstructedState additionally carries an extension, the
// set of source-automaton states it stands for. Plain states made by
// NewState have a nil extension.
type State struct {
	name     string
	final    bool
	distance int
	mark     bool

	exiting  map[string]util.KeySet[*State]
	incoming map[string]util.KeySet[*State]

	extension Extension
}

// NewState creates a state with the given name. Its distance starts as
// DistanceUnknown.
func NewState(name string, final bool) *State {
	return &State{
		name:     name,
		final:    final,
		distance: DistanceUnknown,
		exiting:  map[string]util.KeySet[*State]{},
		incoming: map[string]util.KeySet[*State]{},
	}
}

// NewConstructedState creates a state from an extension. Its name is derived
// from the names of the extension members and it is final exactly when the
// extension contains a final state.
func NewConstructedState(ext Extension) *State {
	s := NewState(ext.Name(), ext.HasFinal())
	s.extension = ext
	return s
}

// Name returns the name of the state.
func (s *State) Name() string {
	return s.name
}

// IsFinal returns whether the state is an accepting state.
func (s *State) IsFinal() bool {
	return s.final
}

// SetFinal sets whether the state is an accepting state.
func (s *State) SetFinal(final bool) {
	s.final = final
}

// Distance returns the length of the shortest path from the initial state,
// or DistanceUnknown if distances have not been computed.
func (s *State) Distance() int {
	return s.distance
}

// SetDistance sets the distance of the state.
func (s *State) SetDistance(distance int) {
	s.distance = distance
}

// Marked returns whether the state currently carries the scratch mark.
func (s *State) Marked() bool {
	return s.mark
}

// SetMarked sets the scratch mark on the state. The mark has no meaning of
// its own; restructuring uses it to flag unsafe states.
func (s *State) SetMarked(mark bool) {
	s.mark = mark
}

// ConnectTo adds a transition labeled label from s to child, keeping both
// the exiting index of s and the incoming index of child up to date. Adding
// a transition that already exists has no effect.
func (s *State) ConnectTo(label string, child *State) {
	if s.HasExitingTo(label, child) {
		return
	}

	children, ok := s.exiting[label]
	if !ok {
		children = util.NewKeySet[*State]()
		s.exiting[label] = children
	}
	children.Add(child)

	parents, ok := child.incoming[label]
	if !ok {
		parents = util.NewKeySet[*State]()
		child.incoming[label] = parents
	}
	parents.Add(s)
}

// Disconnect removes the transition labeled label from s to child, updating
// both indexes. Removing a transition that does not exist has no effect.
func (s *State) Disconnect(label string, child *State) {
	children, ok := s.exiting[label]
	if !ok || !children.Has(child) {
		return
	}

	children.Remove(child)
	if children.Empty() {
		delete(s.exiting, label)
	}

	parents := child.incoming[label]
	parents.Remove(s)
	if parents.Empty() {
		delete(child.incoming, label)
	}
}

// DetachAll removes every transition entering or exiting the state. The
// states on the other end of each transition have their indexes updated as
// well.
func (s *State) DetachAll() {
	for label, children := range s.exiting {
		for _, child := range children.Elements() {
			s.Disconnect(label, child)
		}
	}

	for label, parents := range s.incoming {
		for _, parent := range parents.Elements() {
			if parent != s {
				parent.Disconnect(label, s)
			}
		}
	}
}

// Child returns the state reached by a transition labeled label. If several
// such transitions exist, the child whose name sorts first is returned; this
// only happens on non-deterministic states. Returns nil if there is no such
// transition.
func (s *State) Child(label string) *State {
	children := s.Children(label)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// Children returns the states reached by transitions labeled label, ordered
// by name.
func (s *State) Children(label string) []*State {
	return sortedStates(s.exiting[label])
}

// Parents returns the states that have a transition labeled label pointing
// at this state, ordered by name.
func (s *State) Parents(label string) []*State {
	return sortedStates(s.incoming[label])
}

// HasExiting returns whether the state has at least one exiting transition
// labeled label.
func (s *State) HasExiting(label string) bool {
	children, ok := s.exiting[label]
	return ok && !children.Empty()
}

// HasExitingTo returns whether the state has a transition labeled label that
// goes to child.
func (s *State) HasExitingTo(label string, child *State) bool {
	children, ok := s.exiting[label]
	return ok && children.Has(child)
}

// HasIncoming returns whether the state has at least one incoming transition
// labeled label.
func (s *State) HasIncoming(label string) bool {
	parents, ok := s.incoming[label]
	return ok && !parents.Empty()
}

// HasIncomingFrom returns whether the state has an incoming transition
// labeled label that starts from parent.
func (s *State) HasIncomingFrom(label string, parent *State) bool {
	parents, ok := s.incoming[label]
	return ok && parents.Has(parent)
}

// ExitingLabels returns the labels of all exiting transitions, ordered
// alphabetically.
func (s *State) ExitingLabels() []string {
	return util.OrderedKeys(s.exiting)
}

// IncomingLabels returns the labels of all incoming transitions, ordered
// alphabetically.
func (s *State) IncomingLabels() []string {
	return util.OrderedKeys(s.incoming)
}

// ExitingCount returns the total number of transitions exiting the state,
// across all labels.
func (s *State) ExitingCount() int {
	count := 0
	for _, children := range s.exiting {
		count += children.Len()
	}
	return count
}

// IncomingCount returns the total number of transitions entering the state,
// across all labels.
func (s *State) IncomingCount() int {
	count := 0
	for _, parents := range s.incoming {
		count += parents.Len()
	}
	return count
}

// CopyExitingOf adds to s every exiting transition that other has and s does
// not.
func (s *State) CopyExitingOf(other *State) {
	for label, children := range other.exiting {
		for _, child := range children.Elements() {
			if !s.HasExitingTo(label, child) {
				s.ConnectTo(label, child)
			}
		}
	}
}

// CopyIncomingOf adds to s every incoming transition that other has and s
// does not.
func (s *State) CopyIncomingOf(other *State) {
	for label, parents := range other.incoming {
		for _, parent := range parents.Elements() {
			if !parent.HasExitingTo(label, s) {
				parent.ConnectTo(label, s)
			}
		}
	}
}

// CopyAllTransitionsOf adds to s every transition, incoming and exiting,
// that other has and s does not.
func (s *State) CopyAllTransitionsOf(other *State) {
	s.CopyIncomingOf(other)
	s.CopyExitingOf(other)
}

// HasSameTransitionNamesOf returns whether the exiting transitions of s
// match those of other by label and child name. It is used to compare states
// across two isomorphic automata that share no states.
func (s *State) HasSameTransitionNamesOf(other *State) bool {
	if s.ExitingCount() != other.ExitingCount() {
		return false
	}

	for label, children := range s.exiting {
		otherChildren := other.exiting[label]
		if children.Len() != otherChildren.Len() {
			return false
		}

		for _, child := range children.Elements() {
			found := false
			for _, otherChild := range otherChildren.Elements() {
				if child.name == otherChild.name {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	// incoming transitions always mirror the exiting ones, so checking one
	// direction is enough

	return true
}

// InitDistances assigns rootDistance to s and then propagates distances
// breadth-first, each transition counting as a unit increment. Only states
// whose distance is still DistanceUnknown are updated, so every state is
// expected to be reset before calling this.
func (s *State) InitDistances(rootDistance int) {
	s.SetDistance(rootDistance)

	queue := util.Queue[*State]{}
	queue.Push(s)

	for queue.Len() > 0 {
		current := queue.Pop()

		for _, label := range current.ExitingLabels() {
			for _, child := range current.Children(label) {
				if child.Distance() == DistanceUnknown {
					child.SetDistance(current.Distance() + 1)
					queue.Push(child)
				}
			}
		}
	}
}

// MinimumParentsDistance returns the smallest distance among all parents of
// the state, or DistanceUnknown if it has no parents.
func (s *State) MinimumParentsDistance() int {
	minimum := DistanceUnknown
	for _, parents := range s.incoming {
		for parent := range parents {
			if parent.distance < minimum {
				minimum = parent.distance
			}
		}
	}
	return minimum
}

// Clone returns a new state with the same name, finality, and distance.
// Transitions are not cloned. If the state has an extension, the clone
// references the same extension member states.
func (s *State) Clone() *State {
	clone := NewState(s.name, s.final)
	clone.SetDistance(s.distance)
	clone.extension = s.extension
	return clone
}

func (s *State) String() string {
	var sb strings.Builder

	sb.WriteString(s.name)
	if s.distance != DistanceUnknown {
		sb.WriteString(fmt.Sprintf(" (dist = %d)", s.distance))
	}
	if s.final {
		sb.WriteString(" [FINAL]")
	}

	for _, label := range s.ExitingLabels() {
		for _, child := range s.Children(label) {
			sb.WriteString(fmt.Sprintf("\n\t=(%s)=> %s", printableLabel(label), child.name))
		}
	}

	return sb.String()
}

func printableLabel(label string) string {
	if label == Epsilon {
		return EpsilonPrintable
	}
	return label
}

func sortedStates(set util.KeySet[*State]) []*State {
	states := set.Elements()
	sort.Slice(states, func(i, j int) bool {
		return states[i].name < states[j].name
	})
	return states
}
