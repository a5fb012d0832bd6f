package automaton

import (
	"sort"
	"strings"

	"github.com/dekarrin/quicksc/internal/util"
)

// EmptyExtensionName is the name a constructed state receives when its
// extension is empty.
const EmptyExtensionName = "∅"

// Extension is a set of states, keyed by name, that a constructed state was
// built from. The states in an extension are states of the source automaton,
// not of the automaton being constructed.
type Extension map[string]*State

// NewExtension creates an Extension holding the given states.
func NewExtension(states ...*State) Extension {
	ext := Extension{}
	for _, s := range states {
		ext.Add(s)
	}
	return ext
}

// Add puts s into the extension. It returns whether s was not already a
// member.
func (ext Extension) Add(s *State) bool {
	if _, ok := ext[s.Name()]; ok {
		return false
	}
	ext[s.Name()] = s
	return true
}

// Has returns whether s is a member of the extension.
func (ext Extension) Has(s *State) bool {
	_, ok := ext[s.Name()]
	return ok
}

// Len returns the number of states in the extension.
func (ext Extension) Len() int {
	return len(ext)
}

// Empty returns whether the extension holds no states.
func (ext Extension) Empty() bool {
	return len(ext) == 0
}

// States returns the members of the extension ordered by name.
func (ext Extension) States() []*State {
	states := make([]*State, 0, len(ext))
	for _, name := range util.OrderedKeys(ext) {
		states = append(states, ext[name])
	}
	return states
}

// Name derives the canonical name for a constructed state holding this
// extension: the member names in alphabetical order, wrapped in braces.
func (ext Extension) Name() string {
	if ext.Empty() {
		return EmptyExtensionName
	}

	var sb strings.Builder
	sb.WriteRune('{')
	names := util.OrderedKeys(ext)
	for i := range names {
		sb.WriteString(names[i])
		if i+1 < len(names) {
			sb.WriteRune(',')
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// HasFinal returns whether at least one member of the extension is final.
func (ext Extension) HasFinal() bool {
	for _, s := range ext {
		if s.IsFinal() {
			return true
		}
	}
	return false
}

// Subtract returns a new extension with the members of ext that are not in
// other.
func (ext Extension) Subtract(other Extension) Extension {
	result := NewExtension()
	for name, s := range ext {
		if _, ok := other[name]; !ok {
			result.Add(s)
		}
	}
	return result
}

// EpsilonClosure returns the extension grown with every state reachable from
// a member through one or more ε-transitions.
func (ext Extension) EpsilonClosure() Extension {
	result := NewExtension()
	queue := util.Queue[*State]{}
	for _, s := range ext {
		result.Add(s)
		queue.Push(s)
	}

	for queue.Len() > 0 {
		current := queue.Pop()
		for _, epsilonChild := range current.Children(Epsilon) {
			if result.Add(epsilonChild) {
				queue.Push(epsilonChild)
			}
		}
	}

	return result
}

// EpsilonClosure returns the set of states reachable from s through zero or
// more ε-transitions, s included.
func EpsilonClosure(s *State) Extension {
	return NewExtension(s).EpsilonClosure()
}

// Extension returns the extension of the state, or nil if the state was not
// built from one.
func (s *State) Extension() Extension {
	return s.extension
}

// HasExtension returns whether the state's extension holds exactly the
// states of ext. The comparison is by canonical name.
func (s *State) HasExtension(ext Extension) bool {
	return s.name == ext.Name()
}

// ReplaceExtension swaps the extension of the state for ext. The name and
// finality of the state are recomputed from the new extension.
func (s *State) ReplaceExtension(ext Extension) {
	s.extension = ext
	s.name = ext.Name()
	s.final = ext.HasFinal()
}

// ExtensionLabels returns the labels of every transition exiting a member of
// the extension, ε included if present, ordered alphabetically.
func (s *State) ExtensionLabels() []string {
	labels := util.NewStringSet()
	for _, member := range s.extension {
		for _, label := range member.ExitingLabels() {
			labels.Add(label)
		}
	}
	sorted := labels.Elements()
	sort.Strings(sorted)
	return sorted
}

// LClosureOfExtension computes, on the source automaton, the set of states
// reachable from the extension members through one transition labeled label,
// ε-closed. It assumes the extension itself is already ε-closed.
func (s *State) LClosureOfExtension(label string) Extension {
	lClosure := NewExtension()
	for _, member := range s.extension {
		for _, child := range member.Children(label) {
			lClosure.Add(child)
		}
	}
	return lClosure.EpsilonClosure()
}

// LClosure computes the set of states reachable from s through one
// transition labeled label, ε-closed. Unlike LClosureOfExtension it works on
// the direct children of s, not on its extension. It assumes s has no
// exiting ε-transitions.
func (s *State) LClosure(label string) Extension {
	lClosure := NewExtension()
	for _, child := range s.Children(label) {
		lClosure.Add(child)
	}
	return lClosure.EpsilonClosure()
}

// IsSafe reports whether the state is safe with respect to the singularity
// made of singularityState and singularityLabel. A state is safe when it is
// the initial state, or when it has an incoming transition other than the
// singularity transition whose parent is no farther from the initial state
// than the singularity state is.
//
// The state is assumed to belong to the closure of the singularity.
func (s *State) IsSafe(singularityState *State, singularityLabel string) bool {
	if s.Distance() == 0 {
		return true
	}

	for label, parents := range s.incoming {
		if label == singularityLabel {
			for parent := range parents {
				if parent != singularityState && parent.Distance() <= singularityState.Distance() {
					return true
				}
			}
		} else {
			for parent := range parents {
				if parent.Distance() <= singularityState.Distance() {
					return true
				}
			}
		}
	}
	return false
}

// IsUnsafe reports whether the state is not safe with respect to the given
// singularity.
func (s *State) IsUnsafe(singularityState *State, singularityLabel string) bool {
	return !s.IsSafe(singularityState, singularityLabel)
}
