/*
Quicksc determinizes nondeterministic finite automata and benchmarks the
algorithms that do it.

Usage:

	quicksc [flags] -c CONFIG_FILE
	quicksc [flags] -i INPUT_FILE

In benchmark mode, selected with --config/-c, quicksc reads benchmark sessions
from a TOML configuration file. For every session it generates the configured
number of random NFAs, determinizes each with Subset Construction and with
Quick Subset Construction, checks the solutions against each other, and prints
aggregate statistics. Sessions may also log their statistics to a CSV file and
dump automata as Graphviz DOT files.

In one-shot mode, selected with --input/-i, quicksc reads a single automaton
from a text description file, determinizes it with the algorithm chosen with
--algo, and prints the resulting DFA. An example description:

	initial s0
	final s2
	s0 -a-> s1
	s1 -.-> s2

The flags are:

	-v, --version
		Give the current version of quicksc and then exit.

	-c, --config CONFIG_FILE
		Run the benchmark sessions described in the given TOML file.

	-i, --input INPUT_FILE
		Determinize the automaton described in the given file.

	-a, --algo ALGORITHM
		Use the given determinization algorithm in one-shot mode. Must be one
		of "sc" or "qsc". Defaults to "qsc".

	-e, --strip-epsilon
		In one-shot mode, remove epsilon transitions from the input automaton
		before determinizing it.

	--dot FILE
		In one-shot mode, write the resulting DFA to the given file as a
		Graphviz digraph instead of printing it.

	--out DIR
		In benchmark mode, write CSV logs and DOT files to the given
		directory. Defaults to "results".
*/
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/quicksc/internal/automaton"
	"github.com/dekarrin/quicksc/internal/bench"
	"github.com/dekarrin/quicksc/internal/config"
	"github.com/dekarrin/quicksc/internal/determinize"
	"github.com/dekarrin/quicksc/internal/fadesc"
	"github.com/dekarrin/quicksc/internal/gen"
	"github.com/dekarrin/quicksc/internal/render"
	"github.com/dekarrin/quicksc/internal/results"
	"github.com/dekarrin/quicksc/internal/version"
)

const statsLogName = "stats.csv"

var (
	flagVersion      = pflag.BoolP("version", "v", false, "Give the current version of quicksc and then exit.")
	flagConfig       = pflag.StringP("config", "c", "", "Run the benchmark sessions in the given TOML file.")
	flagInput        = pflag.StringP("input", "i", "", "Determinize the automaton described in the given file.")
	flagAlgo         = pflag.StringP("algo", "a", "qsc", "Use the given algorithm in one-shot mode (sc or qsc).")
	flagStripEpsilon = pflag.BoolP("strip-epsilon", "e", false, "Remove epsilon transitions before determinizing.")
	flagDot          = pflag.String("dot", "", "Write the resulting DFA to the given file as a Graphviz digraph.")
	flagOut          = pflag.String("out", "results", "Write benchmark CSV logs and DOT files to the given directory.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("quicksc v%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var err error
	switch {
	case *flagConfig != "" && *flagInput != "":
		err = fmt.Errorf("--config and --input are mutually exclusive")
	case *flagConfig != "":
		err = runBenchmark(*flagConfig)
	case *flagInput != "":
		err = runOneShot(*flagInput)
	default:
		err = fmt.Errorf("nothing to do; give --config or --input")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nDo -h for help.\n", err)
		os.Exit(1)
	}
}

// runBenchmark executes every session of the given configuration file.
func runBenchmark(configPath string) error {
	sessions, err := config.Load(configPath)
	if err != nil {
		return err
	}

	for i, session := range sessions {
		fmt.Printf("Session %d of %d\n", i+1, len(sessions))
		if err := runSession(session); err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
	}
	return nil
}

func runSession(session config.Session) error {
	seed := session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fmt.Printf("Seed: %d\n", seed)

	alphabet := gen.Alphabet(session.AlphabetCardinality)
	generator := gen.NewNFAGenerator(alphabet, session.NFAOptions(), rand.New(rand.NewSource(seed)))

	algorithms := []determinize.Algorithm{
		determinize.NewSubsetConstruction(),
		determinize.NewQuickSubsetConstruction(),
	}
	collector := results.NewCollector(algorithms, session.Size)
	solver := bench.NewSolver(generator, algorithms, collector)

	if err := solver.SolveSeries(session.Testcases, os.Stdout); err != nil {
		return err
	}

	if session.PrintOriginalAutomaton || session.PrintSolutionAutomaton {
		printAutomata(collector, session)
	}
	if session.DrawOriginalAutomaton || session.DrawSolutionAutomaton {
		if err := drawAutomata(collector, session, *flagOut); err != nil {
			return err
		}
	}

	if session.PrintStatistics {
		fmt.Println()
		fmt.Println(collector.Table())
	}
	if session.LogStatistics {
		if err := logStatistics(collector, *flagOut); err != nil {
			return err
		}
	}

	return nil
}

func printAutomata(collector *results.Collector, session config.Session) {
	for _, r := range collector.Results() {
		if session.PrintOriginalAutomaton {
			fmt.Println("ORIGINAL NFA:")
			fmt.Print(render.String(r.NFA))
		}
		if session.PrintSolutionAutomaton {
			for _, algo := range collector.Algorithms() {
				fmt.Printf("\nSolution of %s:\n", algo.Name())
				fmt.Print(render.String(r.Solutions[algo.Abbr()]))
			}
		}
	}
}

// drawAutomata writes the automata of the last result as DOT files in outDir.
func drawAutomata(collector *results.Collector, session config.Session, outDir string) error {
	if collector.Len() == 0 {
		return nil
	}
	last := collector.Results()[collector.Len()-1]

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	if session.DrawOriginalAutomaton {
		if err := writeDotFile(filepath.Join(outDir, "original.gv"), last.NFA); err != nil {
			return err
		}
	}
	if session.DrawSolutionAutomaton {
		for _, algo := range collector.Algorithms() {
			name := algo.Abbr() + "_solution.gv"
			if err := writeDotFile(filepath.Join(outDir, name), last.Solutions[algo.Abbr()]); err != nil {
				return err
			}
		}
	}
	return nil
}

// logStatistics appends the session's aggregate statistics to the CSV log in
// outDir, writing the column header first if the log does not exist yet.
func logStatistics(collector *results.Collector, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	logPath := filepath.Join(outDir, statsLogName)
	_, statErr := os.Stat(logPath)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open stats log: %w", err)
	}
	defer f.Close()

	return collector.WriteCSV(f, writeHeader)
}

// runOneShot determinizes the single automaton described in the given file.
func runOneShot(inputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("could not open input file: %w", err)
	}
	defer f.Close()

	nfa, err := fadesc.Parse(f)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", inputPath, err)
	}

	if *flagStripEpsilon {
		ner := determinize.NewNaiveEpsilonRemoval()
		nfa, err = ner.Run(nfa)
		if err != nil {
			return fmt.Errorf("could not remove epsilon transitions: %w", err)
		}
	}

	var algo determinize.Algorithm
	switch *flagAlgo {
	case "sc":
		algo = determinize.NewSubsetConstruction()
	case "qsc":
		algo = determinize.NewQuickSubsetConstruction()
	default:
		return fmt.Errorf("unknown algorithm %q; must be one of sc, qsc", *flagAlgo)
	}

	dfa, err := algo.Run(nfa)
	if err != nil {
		return fmt.Errorf("%s failed: %w", algo.Name(), err)
	}

	if *flagDot != "" {
		return writeDotFile(*flagDot, dfa)
	}

	fmt.Print(render.String(dfa))
	return nil
}

func writeDotFile(path string, a *automaton.Automaton) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	return render.WriteDot(f, a)
}
