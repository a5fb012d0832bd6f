package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/quicksc/internal/util"
)

// Singularity is a pair of a constructed state and a label, marking a point
// of the cloned automaton where the deterministic structure still has to be
// verified or repaired.
type Singularity struct {
	state *State
	label string
}

// NewSingularity creates a singularity for the given state and label.
func NewSingularity(state *State, label string) *Singularity {
	if state == nil {
		panic("creating singularity with nil state")
	}
	return &Singularity{state: state, label: label}
}

// State returns the state of the singularity.
func (g *Singularity) State() *State {
	return g.state
}

// Label returns the label of the singularity.
func (g *Singularity) Label() string {
	return g.label
}

// Compare orders two singularities by the distance of their states, then by
// state name, then by label. It returns a negative number, zero, or a
// positive number as g sorts before, equal to, or after other.
func (g *Singularity) Compare(other *Singularity) int {
	if g.state.Distance() != other.state.Distance() {
		return g.state.Distance() - other.state.Distance()
	}
	if g.state.Name() != other.state.Name() {
		return strings.Compare(g.state.Name(), other.state.Name())
	}
	return strings.Compare(g.label, other.label)
}

func (g *Singularity) String() string {
	return fmt.Sprintf("(%s, %s)[%d]", g.state.Name(), printableLabel(g.label), g.state.Distance())
}

// SingularityList is a duplicate-free list of singularities kept in the
// order given by Compare. The front of the list always holds the singularity
// closest to the initial state.
//
// The order can go stale when state distances change after insertion; call
// Sort to restore it.
type SingularityList struct {
	items []*Singularity
}

// NewSingularityList creates an empty list.
func NewSingularityList() *SingularityList {
	return &SingularityList{}
}

// Empty returns whether the list holds no singularities.
func (l *SingularityList) Empty() bool {
	return len(l.items) == 0
}

// Len returns the number of singularities in the list.
func (l *SingularityList) Len() int {
	return len(l.items)
}

// Insert adds g to the list in order. If a singularity comparing equal to g
// is already present, the list is unchanged and Insert returns false.
func (l *SingularityList) Insert(g *Singularity) bool {
	idx := sort.Search(len(l.items), func(i int) bool {
		return l.items[i].Compare(g) >= 0
	})

	if idx < len(l.items) && l.items[idx].Compare(g) == 0 {
		return false
	}

	l.items = append(l.items, nil)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = g
	return true
}

// Pop removes the first singularity of the list and returns it. Panics if
// the list is empty.
func (l *SingularityList) Pop() *Singularity {
	if len(l.items) == 0 {
		panic("pop of empty singularity list")
	}
	first := l.items[0]
	l.items = l.items[1:]
	return first
}

// FirstLabel returns the label of the first singularity without removing it.
// Panics if the list is empty.
func (l *SingularityList) FirstLabel() string {
	if len(l.items) == 0 {
		panic("first label of empty singularity list")
	}
	return l.items[0].Label()
}

// RemoveOfState removes every singularity whose state is exactly target and
// returns the set of labels those singularities carried.
func (l *SingularityList) RemoveOfState(target *State) util.StringSet {
	removedLabels := util.NewStringSet()

	kept := l.items[:0]
	for _, g := range l.items {
		if g.State() == target {
			removedLabels.Add(g.Label())
		} else {
			kept = append(kept, g)
		}
	}
	l.items = kept

	return removedLabels
}

// Sort restores the order of the list after state distances have changed.
// Singularities that have come to compare equal are collapsed into one.
func (l *SingularityList) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Compare(l.items[j]) < 0
	})

	deduped := l.items[:0]
	for i, g := range l.items {
		if i > 0 && g.Compare(l.items[i-1]) == 0 {
			continue
		}
		deduped = append(deduped, g)
	}
	l.items = deduped
}

// AverageLevel returns the mean distance of the singularity states, or 0 for
// an empty list.
func (l *SingularityList) AverageLevel() float64 {
	if len(l.items) == 0 {
		return 0
	}

	sum := 0.0
	for _, g := range l.items {
		sum += float64(g.State().Distance())
	}
	return sum / float64(len(l.items))
}

func (l *SingularityList) String() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i, g := range l.items {
		sb.WriteString(g.String())
		if i+1 < len(l.items) {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune(']')
	return sb.String()
}
