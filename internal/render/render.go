// Package render turns automata into human-readable text and Graphviz DOT
// descriptions.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/quicksc/internal/automaton"
)

// String returns a textual description of the automaton: its size, its
// initial state, and every state with its exiting transitions.
func String(a *automaton.Automaton) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "AUTOMATON (size = %d)\n", a.Size())
	if a.Initial() != nil {
		fmt.Fprintf(&sb, "Initial state: %s\n", a.Initial().Name())
	} else {
		sb.WriteString("Initial state: (none)\n")
	}

	for _, s := range a.States() {
		sb.WriteString(s.String())
	}

	return sb.String()
}

// WriteDot writes the automaton to w as a Graphviz digraph. Final states are
// drawn as double circles and the initial state is marked with an arrow from
// a point node.
func WriteDot(w io.Writer, a *automaton.Automaton) error {
	var sb strings.Builder

	sb.WriteString("digraph finite_state_machine {\n")
	sb.WriteString("rankdir=LR;\n")
	sb.WriteString("size=\"8,5\"\n")

	for _, s := range a.States() {
		shape := "circle"
		if s.IsFinal() {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "node [shape = %s, label = %q, fontsize = 10] %q;\n", shape, s.Name(), s.Name())
	}

	if a.Initial() != nil {
		sb.WriteString("node [shape = point]; init\n")
		fmt.Fprintf(&sb, "init -> %q\n", a.Initial().Name())
	}

	for _, s := range a.States() {
		for _, label := range s.ExitingLabels() {
			for _, child := range s.Children(label) {
				fmt.Fprintf(&sb, "%q -> %q [ label = %q ];\n", s.Name(), child.Name(), printableLabel(label))
			}
		}
	}

	sb.WriteString("}")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("could not write DOT output: %w", err)
	}
	return nil
}

func printableLabel(label string) string {
	if label == automaton.Epsilon {
		return automaton.EpsilonPrintable
	}
	return label
}
