package model

import (
	"strconv"

	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// SymbolicProgram is a named group of transition expressions (each over base
// and primed variables); the program's relation is their disjunction.
type SymbolicProgram struct {
	Name        string
	Transitions []string
}

// SymbolicInput is the fully-parsed symbolic model source: the declared
// base variable names, the law expression, and the program transition
// expressions.
type SymbolicInput struct {
	VarNames []string
	Law      string
	Programs []SymbolicProgram
}

// BuildSymbolic constructs a Model from a declared-variable, Boolean-
// expression source. Purely-numeric variable names are rewritten to x<name>
// before declaration, matching the explicit builder's synthetic naming
// scheme so the two forms cannot collide.
func BuildSymbolic(in SymbolicInput) (*Model, error) {
	mgr, err := bdd.NewManager()
	if err != nil {
		return nil, err
	}
	m := &Model{
		Manager:  mgr,
		programs: make(map[string]bdd.Node),
	}

	renamed := make(map[string]string, len(in.VarNames))
	for _, name := range in.VarNames {
		actual := name
		if isPurelyNumeric(name) {
			actual = "x" + name
			renamed[name] = actual
		}
		if err := m.declarePropPair(actual); err != nil {
			return nil, err
		}
		m.propNames = append(m.propNames, actual)
	}

	lawExpr := rewriteNumericNames(in.Law, renamed)
	law, err := parseBoolExpr(mgr, lawExpr)
	if err != nil {
		return nil, err
	}
	m.law = law

	// Unlike the explicit builder, whose program relations are built from
	// state cubes that are themselves disjuncts of the law (so they satisfy
	// R_pi -> L & L' by construction), a transition expression here is
	// arbitrary user-supplied text and may assign successor values that
	// violate the law. Conjoining both the base- and primed-side law back
	// in re-establishes that invariant instead of trusting the input.
	primedLaw, err := primeCube(mgr, law)
	if err != nil {
		return nil, err
	}

	seenNames := make(map[string]bool, len(in.Programs))
	for _, prog := range in.Programs {
		if seenNames[prog.Name] {
			return nil, pdlerr.New(pdlerr.DuplicateName, "program %q declared more than once", prog.Name)
		}
		seenNames[prog.Name] = true

		rel := mgr.False()
		for _, t := range prog.Transitions {
			expr := rewriteNumericNames(t, renamed)
			n, err := parseBoolExpr(mgr, expr)
			if err != nil {
				return nil, err
			}
			rel = mgr.Or(rel, n)
		}
		rel = mgr.AndAll(rel, m.law, primedLaw)
		m.programs[prog.Name] = mgr.Restrict(rel, m.law)
	}

	return m, nil
}

func isPurelyNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// rewriteNumericNames replaces every occurrence of a renamed numeric base
// name (and its primed form) with its x<name> equivalent inside a free-form
// expression. Renaming is done as a word-boundary token scan rather than a
// blind substring replace, so "1" inside an identifier like "p1" is left
// alone.
func rewriteNumericNames(expr string, renamed map[string]string) string {
	if len(renamed) == 0 {
		return expr
	}
	toks, err := lexBoolExpr(expr)
	if err != nil {
		return expr
	}
	var out []byte
	last := 0
	for _, t := range toks {
		if t.kind != exprIdent {
			continue
		}
		base := t.text
		primed := false
		if len(base) > 0 && base[len(base)-1] == '\'' {
			base = base[:len(base)-1]
			primed = true
		}
		newName, ok := renamed[base]
		if !ok {
			continue
		}
		if primed {
			newName += "'"
		}
		out = append(out, expr[last:t.pos]...)
		out = append(out, newName...)
		last = t.pos + len(t.text)
	}
	out = append(out, expr[last:]...)
	return string(out)
}
