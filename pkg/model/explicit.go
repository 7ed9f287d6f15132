package model

import (
	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// Proposition is a named valuation vector of length NumStates, one entry
// per state, values 0 or 1.
type Proposition struct {
	Name      string
	Valuation []int
}

// ProgramMatrix is a named n-by-n 0/1 transition matrix, Rows[i][j] == 1
// meaning state i transitions to state j under this program.
type ProgramMatrix struct {
	Name string
	Rows [][]int
}

// ExplicitInput is the fully-parsed explicit model source: the number of
// states, the proposition valuations, and the program matrices.
type ExplicitInput struct {
	NumStates int
	Props     []Proposition
	Programs  []ProgramMatrix
}

// BuildExplicit constructs a Model from an enumerated-state, matrix-transition
// source: it declares one base/primed pair per proposition, forms each
// state's valuation cube, runs uniqueness augmentation, builds the law as
// the disjunction of all (now-unique) state cubes, and builds each program's
// transition relation from its matrix, restricted to the law.
func BuildExplicit(in ExplicitInput) (*Model, error) {
	if in.NumStates <= 0 {
		return nil, pdlerr.New(pdlerr.ShapeMismatch, "explicit model must have at least one state")
	}
	mgr, err := bdd.NewManager()
	if err != nil {
		return nil, err
	}
	m := &Model{
		Manager:  mgr,
		programs: make(map[string]bdd.Node),
	}

	for _, p := range in.Props {
		if len(p.Valuation) != in.NumStates {
			return nil, pdlerr.New(pdlerr.ShapeMismatch,
				"proposition %q has %d values, want %d", p.Name, len(p.Valuation), in.NumStates)
		}
		if err := m.declarePropPair(p.Name); err != nil {
			return nil, err
		}
		m.propNames = append(m.propNames, p.Name)
	}

	m.states = make([]bdd.Node, in.NumStates)
	for i := 0; i < in.NumStates; i++ {
		cube := mgr.True()
		for _, p := range in.Props {
			v, err := mgr.Var(p.Name)
			if err != nil {
				return nil, err
			}
			if p.Valuation[i] != 0 {
				cube = mgr.And(cube, v)
			} else {
				cube = mgr.And(cube, mgr.Not(v))
			}
		}
		m.states[i] = cube
	}

	if err := m.applyUniqueness(); err != nil {
		return nil, err
	}

	m.law = mgr.OrAll(m.states...)

	seenNames := make(map[string]bool, len(in.Programs))
	for _, prog := range in.Programs {
		if seenNames[prog.Name] {
			return nil, pdlerr.New(pdlerr.DuplicateName, "program %q declared more than once", prog.Name)
		}
		seenNames[prog.Name] = true

		if len(prog.Rows) != in.NumStates {
			return nil, pdlerr.New(pdlerr.ShapeMismatch,
				"program %q has %d rows, want %d", prog.Name, len(prog.Rows), in.NumStates)
		}
		rel := mgr.False()
		for i, row := range prog.Rows {
			if len(row) != in.NumStates {
				return nil, pdlerr.New(pdlerr.ShapeMismatch,
					"program %q row %d has %d columns, want %d", prog.Name, i, len(row), in.NumStates)
			}
			for j, bit := range row {
				if bit == 0 {
					continue
				}
				primedTo, err := primeCube(mgr, m.states[j])
				if err != nil {
					return nil, err
				}
				rel = mgr.Or(rel, mgr.And(m.states[i], primedTo))
			}
		}
		m.programs[prog.Name] = mgr.Restrict(rel, m.law)
	}

	return m, nil
}

// primeCube renames every base variable in e's support to its primed form.
func primeCube(mgr *bdd.Manager, e bdd.Node) (bdd.Node, error) {
	mapping := make(map[string]string)
	for _, name := range mgr.Support(e) {
		mapping[name] = name + "'"
	}
	return mgr.Rename(e, mapping)
}
