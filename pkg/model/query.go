package model

import (
	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/eval"
	"github.com/rfielding/pdlcheck/pkg/pdl"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// Evaluator returns an eval.Evaluator bound to this model. Model satisfies
// eval.ModelView structurally (Law, Program), so no adapter type is needed.
func (m *Model) Evaluator() *eval.Evaluator {
	return eval.New(m.Manager, m)
}

// Check returns the BDD of states satisfying f.
func (m *Model) Check(f pdl.Formula) (bdd.Node, error) {
	ev := m.Evaluator()
	defer ev.Release()
	return ev.EvalFormula(f)
}

// CheckVector returns a 0/1 vector of length StateCount(), where entry i is
// 1 iff state i's cube implies the BDD of states satisfying f. Only
// meaningful for models built from the explicit form, which retain a state
// list.
func (m *Model) CheckVector(f pdl.Formula) ([]int, error) {
	sat, err := m.Check(f)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(m.states))
	for i, cube := range m.states {
		out[i] = boolToInt(implies(m.Manager, cube, sat))
	}
	return out, nil
}

// CheckState parses valuation as a Boolean cube expression, verifies it
// implies the law (otherwise failing with StateNotInModel), and returns
// whether that cube implies the BDD of states satisfying f.
func (m *Model) CheckState(f pdl.Formula, valuation string) (bool, error) {
	cube, err := parseBoolExpr(m.Manager, valuation)
	if err != nil {
		return false, err
	}
	if !implies(m.Manager, cube, m.law) {
		return false, pdlerr.New(pdlerr.StateNotInModel, "valuation %q does not imply the law", valuation)
	}
	sat, err := m.Check(f)
	if err != nil {
		return false, err
	}
	return implies(m.Manager, cube, sat), nil
}

// Dump evaluates f and persists the resulting BDD to path via the backend's
// dump facility.
func (m *Model) Dump(f pdl.Formula, path string) error {
	sat, err := m.Check(f)
	if err != nil {
		return err
	}
	return m.Manager.Dump(sat, path)
}

// implies reports whether a -> b is valid, i.e. a & !b is unsatisfiable,
// checked via the backend's structural-equality test against false.
func implies(mgr *bdd.Manager, a, b bdd.Node) bool {
	return mgr.Equal(mgr.And(a, mgr.Not(b)), mgr.False())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
