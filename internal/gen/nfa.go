package gen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// ErrStructure is wrapped by errors returned when the requested parameters
// cannot produce an automaton with the requested structure, such as asking
// for more strata than there are states to fill them.
var ErrStructure = errors.New("cannot generate automaton with the requested structure")

// Structure selects the shape of the generated automaton.
type Structure string

const (
	// StructureRandom places transitions uniformly at random, with no
	// constraint on state distances.
	StructureRandom Structure = "random"

	// StructureStratified arranges states in strata by distance from the
	// initial state, with transitions only within a stratum or to the next.
	StructureStratified Structure = "stratified"

	// StructureStratifiedWithSafeZone is like StructureStratified, but all
	// states closer than the safe-zone distance are kept deterministic.
	StructureStratifiedWithSafeZone Structure = "stratified-safe-zone"

	// StructureAcyclic only creates transitions that move forward in the
	// state ordering, so the result has no cycles.
	StructureAcyclic Structure = "acyclic"
)

// Fraction of extra stratified transitions that stay inside their stratum
// instead of descending to the next one.
const intraStratumTransitionChance = 0.5

// MaxDistanceAuto makes the generator derive the maximum distance from the
// automaton size, giving one state per stratum.
const MaxDistanceAuto = -1

// NFAOptions holds the tunable parameters of NFA generation.
type NFAOptions struct {
	// Size is the number of states to generate. Must be at least 1.
	Size int

	// Structure selects the shape of the automaton. Defaults to
	// StructureRandom.
	Structure Structure

	// EpsilonProbability is the chance, per transition, of getting the empty
	// label instead of an alphabet symbol.
	EpsilonProbability float64

	// FinalProbability is the chance of each state being final. If no state
	// comes out final, one is forced to be.
	FinalProbability float64

	// TransitionPercentage scales the number of transitions against the
	// maximum a deterministic automaton of this size and alphabet could hold.
	TransitionPercentage float64

	// MaxDistance is the number of strata minus one for the stratified
	// structures. MaxDistanceAuto derives it from Size.
	MaxDistance int

	// SafeZoneDistance is the distance below which states are kept
	// deterministic by StructureStratifiedWithSafeZone.
	SafeZoneDistance int
}

// NFAGenerator builds random NFAs over a fixed alphabet. Every call to
// Generate returns a different automaton unless the generator was given a
// deterministic rand source.
//
// An NFAGenerator is not safe for concurrent use.
type NFAGenerator struct {
	alphabet []string
	opts     NFAOptions
	rng      *rand.Rand

	namesCounter int
}

// NewNFAGenerator creates a generator for NFAs over the given alphabet. A nil
// rng gets seeded from the current time.
//
// Panics if the alphabet is empty or opts.Size is less than 1.
func NewNFAGenerator(alphabet []string, opts NFAOptions, rng *rand.Rand) *NFAGenerator {
	if len(alphabet) == 0 {
		panic("NFA generation requires a non-empty alphabet")
	}
	if opts.Size < 1 {
		panic(fmt.Sprintf("NFA size must be at least 1, got %d", opts.Size))
	}
	if opts.Structure == "" {
		opts.Structure = StructureRandom
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &NFAGenerator{
		alphabet: alphabet,
		opts:     opts,
		rng:      rng,
	}
}

// Alphabet returns the alphabet the generator draws labels from.
func (g *NFAGenerator) Alphabet() []string {
	return g.alphabet
}

// Generate builds an NFA with the configured structure.
func (g *NFAGenerator) Generate() (*automaton.Automaton, error) {
	switch g.opts.Structure {
	case StructureRandom:
		return g.Random()
	case StructureStratified:
		return g.Stratified()
	case StructureStratifiedWithSafeZone:
		return g.StratifiedWithSafeZone()
	case StructureAcyclic:
		return g.Acyclic()
	default:
		return nil, fmt.Errorf("unknown automaton structure %q", g.opts.Structure)
	}
}

// Random generates an automaton with uniformly random transitions. Every
// state is reachable; distances are otherwise unconstrained.
func (g *NFAGenerator) Random() (*automaton.Automaton, error) {
	nfa := automaton.NewAutomaton()
	states := g.generateStates(nfa)

	// reachability: each state past the first gets an incoming transition
	// from some earlier state
	for i := 1; i < len(states); i++ {
		nfa.Connect(states[g.rng.Intn(i)], states[i], g.randomLabel())
	}

	// a single state leaves nothing to connect
	if len(states) > 1 {
		g.fillTransitions(nfa, func() (*automaton.State, *automaton.State, string) {
			from := states[g.rng.Intn(len(states)-1)+1]
			to := states[g.rng.Intn(len(states)-1)+1]
			return from, to, g.randomLabel()
		})
	}

	nfa.SetInitial(states[0])
	return nfa, nil
}

// Stratified generates an automaton whose states are arranged in strata by
// distance from the initial state. Transitions stay within a stratum or
// descend to the next one, so no state's distance exceeds the configured
// maximum.
func (g *NFAGenerator) Stratified() (*automaton.Automaton, error) {
	nfa := automaton.NewAutomaton()
	states := g.generateStates(nfa)
	nfa.SetInitial(states[0])

	maxDistance, err := g.effectiveMaxDistance()
	if err != nil {
		return nil, err
	}

	strata := g.stratify(states, maxDistance)

	// reachability: every state of stratum i gets a parent in stratum i-1
	for d := 1; d <= maxDistance; d++ {
		for _, s := range strata[d] {
			parent := strata[d-1][g.rng.Intn(len(strata[d-1]))]
			nfa.Connect(parent, s, g.randomLabel())
		}
	}

	nfa.SetInitial(states[0])

	g.fillTransitions(nfa, func() (*automaton.State, *automaton.State, string) {
		d := g.rng.Intn(maxDistance + 1)
		from := strata[d][g.rng.Intn(len(strata[d]))]
		return from, g.randomStratumTarget(strata, d, maxDistance), g.randomLabel()
	})

	return nfa, nil
}

// StratifiedWithSafeZone generates a stratified automaton whose states closer
// than the safe-zone distance have fully deterministic exiting transitions.
// Any nondeterminism point is therefore at least that far from the initial
// state.
func (g *NFAGenerator) StratifiedWithSafeZone() (*automaton.Automaton, error) {
	nfa := automaton.NewAutomaton()
	states := g.generateStates(nfa)
	nfa.SetInitial(states[0])

	maxDistance, err := g.effectiveMaxDistance()
	if err != nil {
		return nil, err
	}

	strata := g.stratify(states, maxDistance)
	safeZone := g.opts.SafeZoneDistance

	// Labels still unused by each safe-zone state. Drawing from this pool
	// instead of the whole alphabet is what keeps the zone deterministic.
	unusedLabels := map[*automaton.State][]string{}
	for d := 0; d < safeZone && d < len(strata); d++ {
		for _, s := range strata[d] {
			unusedLabels[s] = append([]string{}, g.alphabet...)
		}
	}

	for d := 1; d <= maxDistance; d++ {
		for _, s := range strata[d] {
			if d <= safeZone {
				parent, err := g.randomStateWithUnusedLabels(strata[d-1], unusedLabels)
				if err != nil {
					return nil, err
				}
				nfa.Connect(parent, s, g.extractUnusedLabel(unusedLabels, parent))
			} else {
				parent := strata[d-1][g.rng.Intn(len(strata[d-1]))]
				nfa.Connect(parent, s, g.randomLabel())
			}
		}
	}

	nfa.SetInitial(states[0])

	var fillErr error
	g.fillTransitions(nfa, func() (*automaton.State, *automaton.State, string) {
		d := g.rng.Intn(maxDistance + 1)

		var from *automaton.State
		var label string
		if d < safeZone {
			from, fillErr = g.anyStateWithUnusedLabels(unusedLabels)
			if fillErr != nil {
				return nil, nil, ""
			}
			label = g.extractUnusedLabel(unusedLabels, from)
			d = from.Distance()
		} else {
			from = strata[d][g.rng.Intn(len(strata[d]))]
			label = g.randomLabel()
		}

		return from, g.randomStratumTarget(strata, d, maxDistance), label
	})
	if fillErr != nil {
		return nil, fillErr
	}

	return nfa, nil
}

// Acyclic generates an automaton whose transitions only go forward in the
// state ordering, so it contains no cycles.
func (g *NFAGenerator) Acyclic() (*automaton.Automaton, error) {
	nfa := automaton.NewAutomaton()
	states := g.generateStates(nfa)

	for i := 1; i < len(states); i++ {
		nfa.Connect(states[g.rng.Intn(i)], states[i], g.randomLabel())
	}

	if len(states) > 1 {
		g.fillTransitions(nfa, func() (*automaton.State, *automaton.State, string) {
			i1 := g.rng.Intn(len(states)-1) + 1
			i2 := g.rng.Intn(len(states)-1) + 1
			if i1 > i2 {
				i1, i2 = i2, i1
			}
			return states[i1], states[i2], g.randomLabel()
		})
	}

	nfa.SetInitial(states[0])
	return nfa, nil
}

// generateStates populates nfa with freshly named states and returns them in
// creation order. At least one of them is final.
func (g *NFAGenerator) generateStates(nfa *automaton.Automaton) []*automaton.State {
	states := make([]*automaton.State, g.opts.Size)

	hasFinal := false
	for i := range states {
		final := g.rng.Float64() < g.opts.FinalProbability
		hasFinal = hasFinal || final

		states[i] = automaton.NewState(g.nextName(), final)
		nfa.AddState(states[i])
	}

	if !hasFinal {
		states[g.rng.Intn(len(states))].SetFinal(true)
	}

	return states
}

func (g *NFAGenerator) nextName() string {
	name := fmt.Sprintf("s%d", g.namesCounter)
	g.namesCounter++
	return name
}

// randomLabel returns the empty label with the configured epsilon
// probability, and a uniformly random alphabet symbol otherwise.
func (g *NFAGenerator) randomLabel() string {
	if g.rng.Float64() <= g.opts.EpsilonProbability {
		return automaton.Epsilon
	}
	return g.alphabet[g.rng.Intn(len(g.alphabet))]
}

// deterministicTransitionCount is the number of transitions the finished
// automaton should hold: the capacity of a complete deterministic automaton
// of this size, scaled by the configured percentage.
func (g *NFAGenerator) deterministicTransitionCount() int {
	max := g.opts.Size * len(g.alphabet)
	return int(float64(max) * g.opts.TransitionPercentage)
}

// fillTransitions adds transitions produced by next until the automaton holds
// the configured amount, counting the size-1 reachability transitions already
// placed. A nil from state from next stops the fill early.
func (g *NFAGenerator) fillTransitions(nfa *automaton.Automaton, next func() (*automaton.State, *automaton.State, string)) {
	target := g.deterministicTransitionCount()
	for created := g.opts.Size - 1; created < target; created++ {
		from, to, label := next()
		if from == nil {
			return
		}
		nfa.Connect(from, to, label)
	}
}

// effectiveMaxDistance resolves MaxDistanceAuto and validates that the
// requested strata can hold the requested states deterministically.
func (g *NFAGenerator) effectiveMaxDistance() (int, error) {
	maxDistance := g.opts.MaxDistance
	if maxDistance == MaxDistanceAuto {
		maxDistance = g.opts.Size - 1
	}

	if g.opts.Size <= maxDistance {
		return 0, fmt.Errorf("%w: %d states cannot span a maximum distance of %d", ErrStructure, g.opts.Size, maxDistance)
	}

	// A deterministic automaton over N symbols holds at most N^d states at
	// distance d. Checked in log space to dodge overflow.
	n := float64(len(g.alphabet))
	if float64(maxDistance+1)*math.Log(n) < math.Log(float64(g.opts.Size)*(n-1)+1) {
		return 0, fmt.Errorf("%w: %d states cannot be arranged deterministically within a maximum distance of %d over %d symbols", ErrStructure, g.opts.Size, maxDistance, len(g.alphabet))
	}

	return maxDistance, nil
}

// stratify distributes states over maxDistance+1 strata, round-robin, capping
// each stratum at the number of states a deterministic automaton could hold
// at that distance.
func (g *NFAGenerator) stratify(states []*automaton.State, maxDistance int) [][]*automaton.State {
	strata := make([][]*automaton.State, maxDistance+1)

	logN := math.Log(float64(len(g.alphabet)))
	start := 0
	d := start
	for _, s := range states {
		strata[d] = append(strata[d], s)

		// Stratum d holds at most N^d states. Strata fill in order, so a
		// single low-water index tracks the first one with room left.
		if math.Log(float64(len(strata[d]))) >= float64(d)*logN {
			start++
		}

		d++
		if d >= len(strata) {
			d = start
		}
	}

	return strata
}

// randomStratumTarget picks a destination for a transition that leaves
// stratum d: the same stratum or the next one down, never past maxDistance.
func (g *NFAGenerator) randomStratumTarget(strata [][]*automaton.State, d int, maxDistance int) *automaton.State {
	toDist := d
	if g.rng.Float64() > intraStratumTransitionChance {
		toDist++
	}
	if toDist > maxDistance {
		toDist = maxDistance
	}
	return strata[toDist][g.rng.Intn(len(strata[toDist]))]
}

// randomStateWithUnusedLabels picks a random state from candidates that still
// has at least one unused label.
func (g *NFAGenerator) randomStateWithUnusedLabels(candidates []*automaton.State, unusedLabels map[*automaton.State][]string) (*automaton.State, error) {
	remaining := append([]*automaton.State{}, candidates...)
	for len(remaining) > 0 {
		i := g.rng.Intn(len(remaining))
		if len(unusedLabels[remaining[i]]) > 0 {
			return remaining[i], nil
		}
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return nil, fmt.Errorf("%w: no state has unused labels left", ErrStructure)
}

// anyStateWithUnusedLabels is like randomStateWithUnusedLabels but draws from
// the whole unused-labels map, pruning exhausted states as it goes.
func (g *NFAGenerator) anyStateWithUnusedLabels(unusedLabels map[*automaton.State][]string) (*automaton.State, error) {
	for len(unusedLabels) > 0 {
		states := make([]*automaton.State, 0, len(unusedLabels))
		for s := range unusedLabels {
			states = append(states, s)
		}

		s := states[g.rng.Intn(len(states))]
		if len(unusedLabels[s]) > 0 {
			return s, nil
		}
		delete(unusedLabels, s)
	}
	return nil, fmt.Errorf("%w: no state has unused labels left", ErrStructure)
}

// extractUnusedLabel removes and returns a random unused label of state.
// Callers must have checked that one remains.
func (g *NFAGenerator) extractUnusedLabel(unusedLabels map[*automaton.State][]string, state *automaton.State) string {
	labels := unusedLabels[state]
	i := g.rng.Intn(len(labels))
	label := labels[i]
	unusedLabels[state] = append(labels[:i], labels[i+1:]...)
	return label
}
