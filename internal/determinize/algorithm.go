// Package determinize holds the determinization algorithms: the classic
// Subset Construction, used as the correctness benchmark, and Quick Subset
// Construction, which repairs a clone of the NFA in place instead of
// building the DFA from scratch.
package determinize

import (
	"github.com/dekarrin/quicksc/internal/automaton"
)

// Stat is the key of a runtime statistic computed by an algorithm during a
// run. Each algorithm declares the stats it produces with RuntimeStatsList.
type Stat string

const (
	// StatImpact is the number of processed singularities over the number
	// of transitions of the resulting DFA.
	StatImpact Stat = "impact"

	// StatExpectedImpact is StatImpact scaled by the empirical cost factor
	// of singularity processing.
	StatExpectedImpact Stat = "expected impact"

	// StatExpectedGain estimates the relative time gain over running the
	// construction from scratch.
	StatExpectedGain Stat = "expected gain"

	// StatSingularitiesCheckup is the number of singularities found during
	// the cloning phase.
	StatSingularitiesCheckup Stat = "singularities after checkup"

	// StatSingularitiesScenario0, 1, and 2 count the singularities
	// processed under each restructuring scenario.
	StatSingularitiesScenario0 Stat = "singularities in scenario 0"
	StatSingularitiesScenario1 Stat = "singularities in scenario 1"
	StatSingularitiesScenario2 Stat = "singularities in scenario 2"

	// StatSingularitiesTotal is the total number of singularities
	// processed across all scenarios.
	StatSingularitiesTotal Stat = "singularities total"

	// StatLevelCheckup is the mean distance of the singularities found
	// during cloning; StatLevelTotal the mean distance of all the
	// singularities processed.
	StatLevelCheckup Stat = "singularities level after checkup"
	StatLevelTotal   Stat = "singularities level total"

	// StatCloningTime, StatRestructuringTime, and StatDistanceRelocationTime
	// are phase durations in milliseconds.
	StatCloningTime            Stat = "cloning time"
	StatRestructuringTime      Stat = "restructuring time"
	StatDistanceRelocationTime Stat = "distance relocation time"
)

// Algorithm is a determinization algorithm. A single instance is not safe
// for concurrent use; Run replaces the runtime statistics of the previous
// run.
type Algorithm interface {
	// Abbr returns the short lowercase tag of the algorithm, used in file
	// names and table headers.
	Abbr() string

	// Name returns the full name of the algorithm.
	Name() string

	// Run determinizes the given NFA and returns the resulting DFA. The
	// input automaton is not modified.
	Run(nfa *automaton.Automaton) (*automaton.Automaton, error)

	// RuntimeStats returns the statistics computed during the last call to
	// Run. The map is empty before the first run.
	RuntimeStats() map[Stat]float64

	// RuntimeStatsList returns the stats this algorithm produces, in
	// presentation order.
	RuntimeStatsList() []Stat
}
