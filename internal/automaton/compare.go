package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// EquivalentDFA returns whether two deterministic automata accept the same
// language structure, by walking both in lockstep from their initial states
// and checking that paired states agree on finality and on the labels of
// their exiting transitions.
//
// Both automata must be deterministic; states with more than one child for
// a label make the result meaningless. Unreachable states are ignored, which
// is the difference from Equal.
func EquivalentDFA(a *Automaton, b *Automaton) bool {
	if a.Initial() == nil || b.Initial() == nil {
		return a.Initial() == nil && b.Initial() == nil
	}

	aIndex := map[*State]uint{}
	for i, s := range a.States() {
		aIndex[s] = uint(i)
	}

	visited := bitset.New(uint(a.Size()))
	pairedWith := make([]*State, a.Size())

	type pair struct {
		sa *State
		sb *State
	}

	queue := []pair{{a.Initial(), b.Initial()}}
	visited.Set(aIndex[a.Initial()])
	pairedWith[aIndex[a.Initial()]] = b.Initial()

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p.sa.IsFinal() != p.sb.IsFinal() {
			return false
		}

		aLabels := p.sa.ExitingLabels()
		bLabels := p.sb.ExitingLabels()
		if len(aLabels) != len(bLabels) {
			return false
		}
		for i := range aLabels {
			if aLabels[i] != bLabels[i] {
				return false
			}
		}

		for _, label := range aLabels {
			childA := p.sa.Child(label)
			childB := p.sb.Child(label)
			if childB == nil {
				return false
			}

			idx, ok := aIndex[childA]
			if !ok {
				return false
			}

			if visited.Test(idx) {
				// already paired; the pairing must be consistent
				if pairedWith[idx] != childB {
					return false
				}
				continue
			}

			visited.Set(idx)
			pairedWith[idx] = childB
			queue = append(queue, pair{childA, childB})
		}
	}

	return true
}
