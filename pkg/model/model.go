// Package model builds the symbolic encoding of a finite Kripke structure
// over a pkg/bdd manager — propositions, the law of legal states, and
// per-program transition relations — from either an explicit (enumerated
// state, matrix transition) source or a symbolic (Boolean expression)
// source, and answers queries against the result.
package model

import (
	"fmt"
	"sort"

	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// Model is the symbolic Kripke structure: a BDD manager, the ordered base
// proposition alphabet, a counter for synthetic uniqueness propositions, the
// law of legal states, the program map, and (for explicit-form models) the
// retained per-state cubes needed by CheckVector. It is created by
// a builder and must be released via Release before it is discarded.
type Model struct {
	Manager *bdd.Manager

	propNames []string
	synthetic int

	law      bdd.Node
	programs map[string]bdd.Node

	// states holds the per-index state cube for explicit-form models. It is
	// nil for models built from the symbolic form, which have no enumerated
	// state list.
	states []bdd.Node
}

// PropNames returns the declared base proposition names, in declaration
// order (native propositions first, then synthetic uniqueness names).
func (m *Model) PropNames() []string {
	out := make([]string, len(m.propNames))
	copy(out, m.propNames)
	return out
}

// Law returns the BDD of legal states.
func (m *Model) Law() bdd.Node { return m.law }

// Program returns the transition relation for program name, or
// UnknownProgram if no such program was declared.
func (m *Model) Program(name string) (bdd.Node, error) {
	r, ok := m.programs[name]
	if !ok {
		return bdd.Node{}, pdlerr.New(pdlerr.UnknownProgram, "program %q not in model", name)
	}
	return r, nil
}

// ProgramNames returns the declared program names, sorted for deterministic
// iteration (dump, diagnostics).
func (m *Model) ProgramNames() []string {
	out := make([]string, 0, len(m.programs))
	for name := range m.programs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// StateCount returns the number of retained explicit states, or 0 for a
// model built from the symbolic form.
func (m *Model) StateCount() int { return len(m.states) }

// StateCube returns the cube for explicit state index i.
func (m *Model) StateCube(i int) (bdd.Node, error) {
	if i < 0 || i >= len(m.states) {
		return bdd.Node{}, fmt.Errorf("model: state index %d out of range [0,%d)", i, len(m.states))
	}
	return m.states[i], nil
}

func (m *Model) declarePropPair(name string) error {
	if _, err := m.Manager.Declare(name); err != nil {
		return err
	}
	if _, err := m.Manager.Declare(name + "'"); err != nil {
		return err
	}
	return nil
}

// nextSynthetic allocates the next synthetic uniqueness proposition name
// (x0, x1, ...), declaring it and its primed copy, and records it in the
// proposition alphabet.
func (m *Model) nextSynthetic() (string, error) {
	name := fmt.Sprintf("x%d", m.synthetic)
	m.synthetic++
	if err := m.declarePropPair(name); err != nil {
		return "", err
	}
	m.propNames = append(m.propNames, name)
	return name, nil
}

// Release drops the model's BDD references in the scoped order the
// concurrency model requires: any evaluator caches first (the caller's
// responsibility — see pkg/eval.Evaluator.Release), then the law, the
// program map and the retained state list, and finally the manager itself.
// After Release the model must not be used again.
func (m *Model) Release() {
	m.law = bdd.Node{}
	m.programs = nil
	m.states = nil
	m.Manager = nil
}
