// Package fadesc parses a small text description language for finite
// automata. A description declares an initial state, final states, and
// transitions:
//
//	initial s0
//	final s2
//	s0 -a-> s1
//	s1 -.-> s2
//	s1 -b-> s1
//
// Labels sit between the dashes of a transition arrow; a single dot stands
// for the epsilon label. States are declared implicitly by mentioning them.
// Comments start with "#" and run to the end of the line.
package fadesc

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// ErrBadDescription is wrapped by errors returned for descriptions that
// parse but do not describe a usable automaton.
var ErrBadDescription = errors.New("bad automaton description")

type description struct {
	Lines []*line `parser:"@@*"`
}

type line struct {
	Initial    *string     `parser:"'initial' @Ident"`
	Final      *string     `parser:"| 'final' @Ident"`
	Transition *transition `parser:"| @@"`
}

type transition struct {
	From  string `parser:"@Ident"`
	Label string `parser:"Dash @(Ident | Dot) Dash '>'"`
	To    string `parser:"@Ident"`
}

var descLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Punct", Pattern: `[>]`},
})

var descParser = participle.MustBuild[description](
	participle.Lexer(descLexer),
)

// Parse reads an automaton description from r and builds the automaton it
// describes.
func Parse(r io.Reader) (*automaton.Automaton, error) {
	desc, err := descParser.Parse("input", r)
	if err != nil {
		return nil, err
	}
	return build(desc)
}

// ParseString is like Parse, on a string.
func ParseString(s string) (*automaton.Automaton, error) {
	desc, err := descParser.ParseString("input", s)
	if err != nil {
		return nil, err
	}
	return build(desc)
}

func build(desc *description) (*automaton.Automaton, error) {
	a := automaton.NewAutomaton()
	states := map[string]*automaton.State{}

	ensure := func(name string) *automaton.State {
		if s, ok := states[name]; ok {
			return s
		}
		s := automaton.NewState(name, false)
		states[name] = s
		a.AddState(s)
		return s
	}

	initialName := ""
	for _, ln := range desc.Lines {
		switch {
		case ln.Initial != nil:
			if initialName != "" && initialName != *ln.Initial {
				return nil, fmt.Errorf("%w: initial state declared twice, as %q and %q", ErrBadDescription, initialName, *ln.Initial)
			}
			initialName = *ln.Initial
			ensure(initialName)
		case ln.Final != nil:
			ensure(*ln.Final).SetFinal(true)
		case ln.Transition != nil:
			tr := ln.Transition
			label := tr.Label
			if label == "." {
				label = automaton.Epsilon
			}
			a.Connect(ensure(tr.From), ensure(tr.To), label)
		}
	}

	if a.Size() == 0 {
		return nil, fmt.Errorf("%w: no states declared", ErrBadDescription)
	}
	if initialName == "" {
		return nil, fmt.Errorf("%w: no initial state declared", ErrBadDescription)
	}

	if err := a.SetInitial(states[initialName]); err != nil {
		return nil, err
	}

	return a, nil
}
