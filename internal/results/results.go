// Package results collects the outcomes of determinization runs and computes
// summary statistics over them. A Collector accumulates one Result per solved
// problem and can present aggregates as a console table or append them to a
// CSV log.
package results

import (
	"math"

	"github.com/google/uuid"

	"github.com/dekarrin/quicksc/internal/automaton"
	"github.com/dekarrin/quicksc/internal/determinize"
)

// Result is the outcome of solving one determinization problem with every
// algorithm under test.
type Result struct {
	// NFA is the original problem.
	NFA *automaton.Automaton

	// Solutions maps each algorithm's abbreviation to the DFA it produced.
	Solutions map[string]*automaton.Automaton

	// Times maps each algorithm's abbreviation to the nanoseconds it took.
	Times map[string]float64

	// RuntimeStats maps each algorithm's abbreviation to the runtime stats
	// it reported for this run.
	RuntimeStats map[string]map[determinize.Stat]float64
}

// Summary is a four-number statistical digest of one metric over all
// collected results.
type Summary struct {
	Min float64
	Avg float64
	Max float64
	Dev float64
}

// Metric extracts one number from a Result.
type Metric func(r *Result) float64

// The names of the metrics computed for the benchmark solution.
const (
	MetricSolutionSize            = "SOL_SIZE [#]"
	MetricSolutionGrowth          = "SOL_GROWTH [%]"
	MetricSolutionTransitionCount = "SOL_TR_COUNT [#]"
)

// The names of the metrics computed per algorithm.
const (
	MetricCorrectness   = "CORRECTNESS [%]"
	MetricExecutionTime = "EXEC_TIME [ns]"
	MetricEmpiricalGain = "GAIN [.]"
	MetricUnitCount     = "UNIT_COUNT [#]"
	MetricVelocity      = "VELOCITY [#/ms]"
	MetricScaleFactor   = "SCALE_FACTOR [.]"
)

// Velocity saturates at this value when an algorithm processed its units too
// fast to measure.
const maxScaleFactor = 9999999.9999

// Collector accumulates results for a benchmark session and computes
// statistics over them. The first algorithm given to NewCollector is the
// benchmark: its solutions are assumed correct and every other algorithm is
// judged against them.
type Collector struct {
	sessionID  uuid.UUID
	algorithms []determinize.Algorithm
	nfaSize    int
	results    []*Result
}

// NewCollector creates a Collector for runs of the given algorithms on
// problems of nfaSize states. Panics if no algorithms are given.
func NewCollector(algorithms []determinize.Algorithm, nfaSize int) *Collector {
	if len(algorithms) == 0 {
		panic("a result collector requires at least one algorithm")
	}
	return &Collector{
		sessionID:  uuid.New(),
		algorithms: algorithms,
		nfaSize:    nfaSize,
	}
}

// SessionID returns the unique identifier of this benchmark session.
func (c *Collector) SessionID() uuid.UUID {
	return c.sessionID
}

// Algorithms returns the algorithms under test, benchmark first.
func (c *Collector) Algorithms() []determinize.Algorithm {
	return c.algorithms
}

// Benchmark returns the algorithm whose solutions are assumed correct.
func (c *Collector) Benchmark() determinize.Algorithm {
	return c.algorithms[0]
}

// Add appends a result to the collection.
func (c *Collector) Add(r *Result) {
	if r == nil {
		return
	}
	c.results = append(c.results, r)
}

// Reset discards all collected results, keeping the session open.
func (c *Collector) Reset() {
	c.results = nil
}

// Len returns the number of collected results.
func (c *Collector) Len() int {
	return len(c.results)
}

// Results returns the collected results in insertion order.
func (c *Collector) Results() []*Result {
	return c.results
}

// SuccessPercentage returns the fraction of results, from 0 to 1, in which
// the named algorithm's solution matches the benchmark's. The benchmark
// itself always scores 1.
func (c *Collector) SuccessPercentage(abbr string) float64 {
	if len(c.results) == 0 {
		return 0
	}

	correct := 0
	for _, r := range c.results {
		if r.Solutions[c.Benchmark().Abbr()].Equal(r.Solutions[abbr]) {
			correct++
		}
	}
	return float64(correct) / float64(len(c.results))
}

// Summarize computes the min, average, max, and standard deviation of a
// metric over all collected results.
func (c *Collector) Summarize(m Metric) Summary {
	if len(c.results) == 0 {
		return Summary{}
	}

	sum := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	values := make([]float64, len(c.results))
	for i, r := range c.results {
		v := m(r)
		values[i] = v
		sum.Min = math.Min(sum.Min, v)
		sum.Max = math.Max(sum.Max, v)
		sum.Avg += v
	}
	sum.Avg /= float64(len(c.results))

	for _, v := range values {
		sum.Dev += math.Pow(v-sum.Avg, 2)
	}
	sum.Dev = math.Sqrt(sum.Dev / float64(len(c.results)))

	return sum
}

// SolutionMetrics returns the metrics computed on the benchmark solution, in
// presentation order, keyed by name.
func (c *Collector) SolutionMetrics() ([]string, map[string]Metric) {
	names := []string{MetricSolutionSize, MetricSolutionGrowth, MetricSolutionTransitionCount}

	benchmark := c.Benchmark().Abbr()
	nfaSize := c.nfaSize
	metrics := map[string]Metric{
		MetricSolutionSize: func(r *Result) float64 {
			return float64(r.Solutions[benchmark].Size())
		},
		MetricSolutionGrowth: func(r *Result) float64 {
			return float64(r.Solutions[benchmark].Size()) / float64(nfaSize) * 100
		},
		MetricSolutionTransitionCount: func(r *Result) float64 {
			return float64(r.Solutions[benchmark].TransitionCount())
		},
	}

	return names, metrics
}

// AlgorithmMetrics returns the metrics computed for one algorithm, in
// presentation order, keyed by name.
func (c *Collector) AlgorithmMetrics(abbr string) ([]string, map[string]Metric) {
	names := []string{
		MetricCorrectness, MetricExecutionTime, MetricEmpiricalGain,
		MetricUnitCount, MetricVelocity, MetricScaleFactor,
	}

	benchmark := c.Benchmark().Abbr()
	metrics := map[string]Metric{
		MetricCorrectness: func(r *Result) float64 {
			if r.Solutions[benchmark].Equal(r.Solutions[abbr]) {
				return 100.0
			}
			return 0.0
		},
		MetricExecutionTime: func(r *Result) float64 {
			return r.Times[abbr]
		},
		MetricEmpiricalGain: func(r *Result) float64 {
			return empiricalGain(r.Times[benchmark], r.Times[abbr])
		},
		MetricUnitCount: func(r *Result) float64 {
			return unitCount(r, abbr)
		},
		MetricVelocity: func(r *Result) float64 {
			return velocity(r, abbr)
		},
		MetricScaleFactor: func(r *Result) float64 {
			algoVel := velocity(r, abbr)
			if algoVel <= 1e-4 {
				return maxScaleFactor
			}
			return velocity(r, benchmark) / algoVel
		},
	}

	return names, metrics
}

// empiricalGain is the relative time saved against the benchmark, positive
// when the algorithm is faster, in (-1, 1).
func empiricalGain(benchmarkTime float64, algoTime float64) float64 {
	if benchmarkTime == algoTime {
		return 0.0
	}
	diff := benchmarkTime - algoTime
	if benchmarkTime > algoTime {
		return diff / benchmarkTime
	}
	return diff / algoTime
}

// unitCount is the amount of work the algorithm performed: the singularities
// it processed, or for algorithms with no singularity queue, the transitions
// of its solution.
func unitCount(r *Result, abbr string) float64 {
	if total, ok := r.RuntimeStats[abbr][determinize.StatSingularitiesTotal]; ok {
		return total
	}
	return float64(r.Solutions[abbr].TransitionCount())
}

// velocity is the number of units processed per millisecond.
func velocity(r *Result, abbr string) float64 {
	return unitCount(r, abbr) * 1e6 / r.Times[abbr]
}
