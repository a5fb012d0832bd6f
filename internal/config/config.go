// Package config reads benchmark session configuration from TOML files. A
// file holds an optional [defaults] table and any number of [[session]]
// tables; every setting a session does not give is taken from the defaults,
// and every setting the defaults do not give falls back to the built-in
// default.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/quicksc/internal/gen"
)

// ErrBadConfig is wrapped by errors returned for configurations with invalid
// settings.
var ErrBadConfig = errors.New("bad configuration")

// Session holds the settings of one benchmark session.
type Session struct {
	// Testcases is the number of problems to generate and solve.
	Testcases int

	// Seed seeds the random source of the session. 0 means seed from the
	// current time.
	Seed int64

	// AlphabetCardinality is the number of symbols in the alphabet.
	AlphabetCardinality int

	// EpsilonPercentage is the chance of a generated transition carrying the
	// epsilon label.
	EpsilonPercentage float64

	// Structure is the shape of the generated automata. One of "random",
	// "stratified", "stratified-safe-zone", or "acyclic".
	Structure string

	// Size is the number of states of each generated automaton.
	Size int

	// FinalProbability is the chance of each generated state being final.
	FinalProbability float64

	// TransitionPercentage scales the generated transition count against the
	// deterministic maximum.
	TransitionPercentage float64

	// MaxDistance is the maximum state distance for stratified structures.
	// -1 derives it from Size.
	MaxDistance int

	// SafeZoneDistance is the distance below which stratified-safe-zone
	// automata stay deterministic.
	SafeZoneDistance int

	// PrintStatistics enables the aggregate statistics table on stdout.
	PrintStatistics bool

	// LogStatistics enables appending aggregate statistics to the CSV log.
	LogStatistics bool

	// PrintOriginalAutomaton prints each generated NFA.
	PrintOriginalAutomaton bool

	// PrintSolutionAutomaton prints each algorithm's solution.
	PrintSolutionAutomaton bool

	// DrawOriginalAutomaton writes each generated NFA to a DOT file.
	DrawOriginalAutomaton bool

	// DrawSolutionAutomaton writes each algorithm's solution to a DOT file.
	DrawSolutionAutomaton bool

	// The remaining settings belonged to a retired algorithm. They are
	// recognized so old configuration files still load, but nothing reads
	// them anymore.

	ActiveAutomatonPruning           bool
	ActiveRemovingLabel              bool
	ActiveDistanceCheckInTranslation bool
}

// Default returns the built-in session settings.
func Default() Session {
	return Session{
		Testcases:            100,
		AlphabetCardinality:  5,
		EpsilonPercentage:    0.2,
		Structure:            string(gen.StructureRandom),
		Size:                 100,
		FinalProbability:     0.1,
		TransitionPercentage: 0.2,
		MaxDistance:          20,
		SafeZoneDistance:     10,

		PrintStatistics: true,
		LogStatistics:   true,

		ActiveAutomatonPruning: true,
		ActiveRemovingLabel:    true,
	}
}

// NFAOptions converts the session's generation settings to generator options.
func (s Session) NFAOptions() gen.NFAOptions {
	return gen.NFAOptions{
		Size:                 s.Size,
		Structure:            gen.Structure(s.Structure),
		EpsilonProbability:   s.EpsilonPercentage,
		FinalProbability:     s.FinalProbability,
		TransitionPercentage: s.TransitionPercentage,
		MaxDistance:          s.MaxDistance,
		SafeZoneDistance:     s.SafeZoneDistance,
	}
}

// Validate returns a non-nil error if the session settings cannot drive a
// benchmark run.
func (s Session) Validate() error {
	if s.Testcases < 1 {
		return fmt.Errorf("%w: testcases must be at least 1, got %d", ErrBadConfig, s.Testcases)
	}
	if s.AlphabetCardinality < 1 {
		return fmt.Errorf("%w: alphabet_cardinality must be at least 1, got %d", ErrBadConfig, s.AlphabetCardinality)
	}
	if s.Size < 1 {
		return fmt.Errorf("%w: size must be at least 1, got %d", ErrBadConfig, s.Size)
	}
	if s.EpsilonPercentage < 0 || s.EpsilonPercentage > 1 {
		return fmt.Errorf("%w: epsilon_percentage must be between 0 and 1, got %f", ErrBadConfig, s.EpsilonPercentage)
	}
	if s.FinalProbability < 0 || s.FinalProbability > 1 {
		return fmt.Errorf("%w: final_probability must be between 0 and 1, got %f", ErrBadConfig, s.FinalProbability)
	}

	switch gen.Structure(s.Structure) {
	case gen.StructureRandom, gen.StructureStratified, gen.StructureStratifiedWithSafeZone, gen.StructureAcyclic:
	default:
		return fmt.Errorf("%w: unknown structure %q", ErrBadConfig, s.Structure)
	}

	return nil
}

// marshaled form of a session; pointer fields distinguish settings the file
// gives from settings it leaves out
type marshaledSession struct {
	Testcases            *int     `toml:"testcases"`
	Seed                 *int64   `toml:"seed"`
	AlphabetCardinality  *int     `toml:"alphabet_cardinality"`
	EpsilonPercentage    *float64 `toml:"epsilon_percentage"`
	Structure            *string  `toml:"structure"`
	Size                 *int     `toml:"size"`
	FinalProbability     *float64 `toml:"final_probability"`
	TransitionPercentage *float64 `toml:"transition_percentage"`
	MaxDistance          *int     `toml:"max_distance"`
	SafeZoneDistance     *int     `toml:"safe_zone_distance"`

	PrintStatistics        *bool `toml:"print_statistics"`
	LogStatistics          *bool `toml:"log_statistics"`
	PrintOriginalAutomaton *bool `toml:"print_original_automaton"`
	PrintSolutionAutomaton *bool `toml:"print_solution_automaton"`
	DrawOriginalAutomaton  *bool `toml:"draw_original_automaton"`
	DrawSolutionAutomaton  *bool `toml:"draw_solution_automaton"`

	ActiveAutomatonPruning           *bool `toml:"active_automaton_pruning"`
	ActiveRemovingLabel              *bool `toml:"active_removing_label"`
	ActiveDistanceCheckInTranslation *bool `toml:"active_distance_check_in_translation"`
}

type marshaledFile struct {
	Defaults marshaledSession   `toml:"defaults"`
	Sessions []marshaledSession `toml:"session"`
}

// Load reads sessions from the TOML file at path. A file with no [[session]]
// tables yields a single session made of its defaults.
func Load(path string) ([]Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadString(string(data))
}

// LoadString is like Load, on TOML text.
func LoadString(data string) ([]Session, error) {
	var mf marshaledFile
	if err := toml.Unmarshal([]byte(data), &mf); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	base := Default()
	mf.Defaults.overlay(&base)

	if len(mf.Sessions) == 0 {
		if err := base.Validate(); err != nil {
			return nil, err
		}
		return []Session{base}, nil
	}

	sessions := make([]Session, len(mf.Sessions))
	for i, ms := range mf.Sessions {
		sessions[i] = base
		ms.overlay(&sessions[i])
		if err := sessions[i].Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i+1, err)
		}
	}
	return sessions, nil
}

// overlay copies every setting the file gave onto dst.
func (ms marshaledSession) overlay(dst *Session) {
	if ms.Testcases != nil {
		dst.Testcases = *ms.Testcases
	}
	if ms.Seed != nil {
		dst.Seed = *ms.Seed
	}
	if ms.AlphabetCardinality != nil {
		dst.AlphabetCardinality = *ms.AlphabetCardinality
	}
	if ms.EpsilonPercentage != nil {
		dst.EpsilonPercentage = *ms.EpsilonPercentage
	}
	if ms.Structure != nil {
		dst.Structure = *ms.Structure
	}
	if ms.Size != nil {
		dst.Size = *ms.Size
	}
	if ms.FinalProbability != nil {
		dst.FinalProbability = *ms.FinalProbability
	}
	if ms.TransitionPercentage != nil {
		dst.TransitionPercentage = *ms.TransitionPercentage
	}
	if ms.MaxDistance != nil {
		dst.MaxDistance = *ms.MaxDistance
	}
	if ms.SafeZoneDistance != nil {
		dst.SafeZoneDistance = *ms.SafeZoneDistance
	}
	if ms.PrintStatistics != nil {
		dst.PrintStatistics = *ms.PrintStatistics
	}
	if ms.LogStatistics != nil {
		dst.LogStatistics = *ms.LogStatistics
	}
	if ms.PrintOriginalAutomaton != nil {
		dst.PrintOriginalAutomaton = *ms.PrintOriginalAutomaton
	}
	if ms.PrintSolutionAutomaton != nil {
		dst.PrintSolutionAutomaton = *ms.PrintSolutionAutomaton
	}
	if ms.DrawOriginalAutomaton != nil {
		dst.DrawOriginalAutomaton = *ms.DrawOriginalAutomaton
	}
	if ms.DrawSolutionAutomaton != nil {
		dst.DrawSolutionAutomaton = *ms.DrawSolutionAutomaton
	}
	if ms.ActiveAutomatonPruning != nil {
		dst.ActiveAutomatonPruning = *ms.ActiveAutomatonPruning
	}
	if ms.ActiveRemovingLabel != nil {
		dst.ActiveRemovingLabel = *ms.ActiveRemovingLabel
	}
	if ms.ActiveDistanceCheckInTranslation != nil {
		dst.ActiveDistanceCheckInTranslation = *ms.ActiveDistanceCheckInTranslation
	}
}
