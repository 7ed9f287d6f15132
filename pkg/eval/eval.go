// Package eval implements the recursive symbolic interpretation of PDL
// formulas and programs over a pkg/bdd manager: formulas evaluate to BDDs
// over base variables, programs to BDDs over base and primed variables,
// via relational composition and a Kleene-star least fixpoint.
package eval

import (
	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdl"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// ModelView is the minimal contract Evaluator needs from a model: the law
// of legal states, and lookup of a named program's transition relation.
// pkg/model.Model satisfies this structurally; eval does not import model
// to avoid a cycle between the two packages.
type ModelView interface {
	Law() bdd.Node
	Program(name string) (bdd.Node, error)
}

// Evaluator interprets pkg/pdl formulas and programs against a model view,
// over a shared BDD manager. It caches the identity relation (computed once,
// over the support of the law) and nothing else — sub-formula results are
// not memoized across calls, matching the scope of a single query.
type Evaluator struct {
	mgr   *bdd.Manager
	model ModelView

	identity     bdd.Node
	haveIdentity bool
}

// New creates an Evaluator over mgr and model. The identity relation is
// computed lazily, on first use, rather than eagerly here, since a freshly
// built model may still be declaring synthetic propositions when the
// Evaluator is constructed.
func New(mgr *bdd.Manager, model ModelView) *Evaluator {
	return &Evaluator{mgr: mgr, model: model}
}

// Release drops the evaluator's cached identity relation. Per the scoped
// lifecycle, this must happen before the owning model drops its own
// references and manager.
func (e *Evaluator) Release() {
	e.identity = bdd.Node{}
	e.haveIdentity = false
}

func (e *Evaluator) identityRelation() bdd.Node {
	if e.haveIdentity {
		return e.identity
	}
	law := e.model.Law()
	id := e.mgr.True()
	for _, p := range e.mgr.Support(law) {
		v, err := e.mgr.Var(p)
		if err != nil {
			continue
		}
		vp, err := e.mgr.Var(p + "'")
		if err != nil {
			continue
		}
		id = e.mgr.And(id, e.mgr.Iff(v, vp))
	}
	e.identity = id
	e.haveIdentity = true
	return id
}

// EvalFormula interprets f as a BDD over base variables.
func (e *Evaluator) EvalFormula(f pdl.Formula) (bdd.Node, error) {
	switch n := f.(type) {
	case pdl.Atom:
		if !e.mgr.Declared(n.Name) {
			return bdd.Node{}, pdlerr.New(pdlerr.UnknownSymbol, "undeclared proposition %q", n.Name)
		}
		return e.mgr.Var(n.Name)
	case pdl.Not:
		inner, err := e.EvalFormula(n.Inner)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.Not(inner), nil
	case pdl.And:
		l, err := e.EvalFormula(n.Left)
		if err != nil {
			return bdd.Node{}, err
		}
		r, err := e.EvalFormula(n.Right)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.And(l, r), nil
	case pdl.Or:
		l, err := e.EvalFormula(n.Left)
		if err != nil {
			return bdd.Node{}, err
		}
		r, err := e.EvalFormula(n.Right)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.Or(l, r), nil
	case pdl.Implies:
		l, err := e.EvalFormula(n.Left)
		if err != nil {
			return bdd.Node{}, err
		}
		r, err := e.EvalFormula(n.Right)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.Imp(l, r), nil
	case pdl.Iff:
		l, err := e.EvalFormula(n.Left)
		if err != nil {
			return bdd.Node{}, err
		}
		r, err := e.EvalFormula(n.Right)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.Iff(l, r), nil
	case pdl.Diamond:
		return e.evalDiamond(n)
	case pdl.Box:
		return e.evalBox(n)
	default:
		return bdd.Node{}, pdlerr.New(pdlerr.ParseError, "unrecognized formula node %T", f)
	}
}

// primedLaw returns L[v := v'], the law restated over primed variables.
func (e *Evaluator) primedLaw() (bdd.Node, error) {
	law := e.model.Law()
	mapping := make(map[string]string)
	for _, v := range e.mgr.Support(law) {
		mapping[v] = v + "'"
	}
	return e.mgr.Rename(law, mapping)
}

// primedVarsOf returns the primed names in support(p).
func primedVarsOf(mgr *bdd.Manager, p bdd.Node) []string {
	var out []string
	for _, name := range mgr.Support(p) {
		if len(name) > 0 && name[len(name)-1] == '\'' {
			out = append(out, name)
		}
	}
	return out
}

// prime renames every variable in support(e) to its primed form, declaring
// each primed name if it is not yet known.
func (e *Evaluator) prime(f bdd.Node) (bdd.Node, error) {
	mapping := make(map[string]string)
	for _, name := range e.mgr.Support(f) {
		mapping[name] = name + "'"
	}
	return e.mgr.Rename(f, mapping)
}

// evalDiamond computes exists V'. (P & L' & F[v:=v']), where V' is the set
// of primed variables in support(P) and L' is the law restated over primed
// variables. L' is conjoined unconditionally: some formulations skip it
// when the program relation is already known to be restricted by L, but
// always conjoining it keeps diamond correct regardless of how the program
// relation was built.
func (e *Evaluator) evalDiamond(n pdl.Diamond) (bdd.Node, error) {
	p, err := e.EvalProgram(n.Prog)
	if err != nil {
		return bdd.Node{}, err
	}
	f, err := e.EvalFormula(n.Inner)
	if err != nil {
		return bdd.Node{}, err
	}
	lawPrime, err := e.primedLaw()
	if err != nil {
		return bdd.Node{}, err
	}
	fPrime, err := e.prime(f)
	if err != nil {
		return bdd.Node{}, err
	}
	combined := e.mgr.And(e.mgr.And(p, lawPrime), fPrime)
	vprime := primedVarsOf(e.mgr, p)
	return e.mgr.Exist(combined, vprime), nil
}

// evalBox computes forall V'. ((P & L') -> F[v:=v']), the dual of diamond.
func (e *Evaluator) evalBox(n pdl.Box) (bdd.Node, error) {
	p, err := e.EvalProgram(n.Prog)
	if err != nil {
		return bdd.Node{}, err
	}
	f, err := e.EvalFormula(n.Inner)
	if err != nil {
		return bdd.Node{}, err
	}
	lawPrime, err := e.primedLaw()
	if err != nil {
		return bdd.Node{}, err
	}
	fPrime, err := e.prime(f)
	if err != nil {
		return bdd.Node{}, err
	}
	antecedent := e.mgr.And(p, lawPrime)
	body := e.mgr.Imp(antecedent, fPrime)
	vprime := primedVarsOf(e.mgr, p)
	return e.mgr.ForAll(body, vprime), nil
}

// EvalProgram interprets pr as a BDD over base and primed variables.
func (e *Evaluator) EvalProgram(pr pdl.Program) (bdd.Node, error) {
	switch n := pr.(type) {
	case pdl.ProgAtom:
		return e.model.Program(n.Name)
	case pdl.Seq:
		a, err := e.EvalProgram(n.First)
		if err != nil {
			return bdd.Node{}, err
		}
		b, err := e.EvalProgram(n.Second)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.compose(a, b)
	case pdl.Choice:
		a, err := e.EvalProgram(n.Left)
		if err != nil {
			return bdd.Node{}, err
		}
		b, err := e.EvalProgram(n.Right)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.Or(a, b), nil
	case pdl.Test:
		f, err := e.EvalFormula(n.Cond)
		if err != nil {
			return bdd.Node{}, err
		}
		return e.mgr.And(e.identityRelation(), f), nil
	case pdl.Star:
		return e.evalStar(n)
	default:
		return bdd.Node{}, pdlerr.New(pdlerr.ParseError, "unrecognized program node %T", pr)
	}
}

// compose computes the relational composition of A and B, both ranging over
// base and primed variables: rename A's primed variables to temporaries,
// rename B's base variables to the same temporaries, conjoin, and
// existentially eliminate the temporaries. The result links A's base side
// to B's primed side through the eliminated intermediate.
func (e *Evaluator) compose(a, b bdd.Node) (bdd.Node, error) {
	aMap := make(map[string]string)
	for _, name := range e.mgr.Support(a) {
		if len(name) > 0 && name[len(name)-1] == '\'' {
			base := name[:len(name)-1]
			aMap[name] = base + "T"
		}
	}
	bMap := make(map[string]string)
	for _, name := range e.mgr.Support(b) {
		if len(name) > 0 && name[len(name)-1] != '\'' {
			bMap[name] = name + "T"
		}
	}
	aRenamed, err := e.mgr.Rename(a, aMap)
	if err != nil {
		return bdd.Node{}, err
	}
	bRenamed, err := e.mgr.Rename(b, bMap)
	if err != nil {
		return bdd.Node{}, err
	}
	combined := e.mgr.And(aRenamed, bRenamed)
	var temps []string
	for _, name := range e.mgr.Support(combined) {
		if len(name) > 0 && name[len(name)-1] == 'T' {
			temps = append(temps, name)
		}
	}
	return e.mgr.Exist(combined, temps), nil
}

// evalStar computes the least fixpoint of X -> I | compose(X, R), starting
// at the identity relation, iterating to BDD equality. The variable set is
// frozen for the duration of the loop, so termination follows from the
// monotone increase of X inside a finite BDD lattice.
func (e *Evaluator) evalStar(n pdl.Star) (bdd.Node, error) {
	r, err := e.EvalProgram(n.Inner)
	if err != nil {
		return bdd.Node{}, err
	}
	x := e.identityRelation()
	for {
		composed, err := e.compose(x, r)
		if err != nil {
			return bdd.Node{}, err
		}
		next := e.mgr.Or(e.identityRelation(), composed)
		if e.mgr.Equal(next, x) {
			return next, nil
		}
		x = next
	}
}
