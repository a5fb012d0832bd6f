// Package bench drives benchmark sessions: it generates determinization
// problems, solves each one with every algorithm under test, and feeds the
// outcomes to a results collector.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/dekarrin/quicksc/internal/automaton"
	"github.com/dekarrin/quicksc/internal/determinize"
	"github.com/dekarrin/quicksc/internal/gen"
	"github.com/dekarrin/quicksc/internal/results"
)

const progressBarWidth = 70

// Solver runs every configured algorithm on determinization problems and
// records the outcomes. The first algorithm is the benchmark; see
// results.Collector.
//
// A Solver is not safe for concurrent use.
type Solver struct {
	generator  *gen.NFAGenerator
	algorithms []determinize.Algorithm
	collector  *results.Collector
}

// NewSolver creates a Solver that draws problems from generator and solves
// them with the given algorithms. Panics if no algorithms are given.
func NewSolver(generator *gen.NFAGenerator, algorithms []determinize.Algorithm, collector *results.Collector) *Solver {
	if len(algorithms) == 0 {
		panic("a solver requires at least one algorithm")
	}
	return &Solver{
		generator:  generator,
		algorithms: algorithms,
		collector:  collector,
	}
}

// Collector returns the collector holding the outcomes of solved problems.
func (sv *Solver) Collector() *results.Collector {
	return sv.collector
}

// Solve runs every algorithm on the given NFA and records the result. The
// NFA itself is never modified.
func (sv *Solver) Solve(nfa *automaton.Automaton) error {
	r := &results.Result{
		NFA:          nfa,
		Solutions:    map[string]*automaton.Automaton{},
		Times:        map[string]float64{},
		RuntimeStats: map[string]map[determinize.Stat]float64{},
	}

	for _, algo := range sv.algorithms {
		start := time.Now()
		dfa, err := algo.Run(nfa)
		elapsed := time.Since(start)

		if err != nil {
			return fmt.Errorf("%s failed: %w", algo.Name(), err)
		}

		r.Solutions[algo.Abbr()] = dfa
		r.Times[algo.Abbr()] = float64(elapsed.Nanoseconds())
		r.RuntimeStats[algo.Abbr()] = algo.RuntimeStats()
	}

	sv.collector.Add(r)
	return nil
}

// SolveNext generates one problem and solves it.
func (sv *Solver) SolveNext() error {
	nfa, err := sv.generator.Generate()
	if err != nil {
		return fmt.Errorf("could not generate problem: %w", err)
	}
	return sv.Solve(nfa)
}

// SolveSeries generates and solves count problems in sequence. If w is not
// nil, a progress bar is drawn to it as problems complete.
func (sv *Solver) SolveSeries(count int, w io.Writer) error {
	if w != nil {
		fmt.Fprintf(w, "Solving %d problems...\n", count)
		printProgressBar(w, 0)
	}

	for i := 0; i < count; i++ {
		if err := sv.SolveNext(); err != nil {
			return fmt.Errorf("problem %d: %w", i+1, err)
		}
		if w != nil {
			printProgressBar(w, float64(i+1)/float64(count))
		}
	}

	if w != nil {
		fmt.Fprintln(w)
	}
	return nil
}

func printProgressBar(w io.Writer, progress float64) {
	pos := int(progressBarWidth * progress)

	bar := "["
	for i := 0; i < progressBarWidth; i++ {
		switch {
		case i < pos:
			bar += "="
		case i == pos:
			bar += ">"
		default:
			bar += " "
		}
	}
	fmt.Fprintf(w, "%s] %d %%\r", bar, int(progress*100))
}
