package eval

import (
	"testing"

	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdl"
)

// fakeModel is a minimal eval.ModelView for unit-testing the evaluator
// without going through pkg/model's builders.
type fakeModel struct {
	law      bdd.Node
	programs map[string]bdd.Node
}

func (f *fakeModel) Law() bdd.Node { return f.law }
func (f *fakeModel) Program(name string) (bdd.Node, error) {
	r, ok := f.programs[name]
	if !ok {
		return bdd.Node{}, errNotFound(name)
	}
	return r, nil
}

type notFoundErr string

func (e notFoundErr) Error() string { return "program not found: " + string(e) }
func errNotFound(name string) error { return notFoundErr(name) }

// twoStateChain builds p (true in state1 only) over two states with a
// single program a: state0 -> state1, as a relation over base/primed vars.
func twoStateChain(t *testing.T) (*bdd.Manager, *fakeModel) {
	mgr, err := bdd.NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for _, n := range []string{"p", "p'"} {
		if _, err := mgr.Declare(n); err != nil {
			t.Fatalf("Declare(%s): %v", n, err)
		}
	}
	p, _ := mgr.Var("p")
	pPrime, _ := mgr.Var("p'")
	state0 := mgr.Not(p)
	state1 := p
	law := mgr.Or(state0, state1)

	state1Prime := pPrime
	rel := mgr.And(state0, state1Prime) // state0 -> state1

	return mgr, &fakeModel{law: law, programs: map[string]bdd.Node{"a": rel}}
}

func TestDiamondSmallChain(t *testing.T) {
	mgr, fm := twoStateChain(t)
	ev := New(mgr, fm)

	f, err := pdl.ParseFormula("<a>p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	sat, err := ev.EvalFormula(f)
	if err != nil {
		t.Fatalf("EvalFormula: %v", err)
	}
	p, _ := mgr.Var("p")
	// <a>p should hold exactly at state0 = !p.
	if !mgr.Equal(sat, mgr.Not(p)) {
		t.Fatalf("<a>p did not evaluate to !p")
	}
}

func TestBoxIsNegatedDiamondOfNegation(t *testing.T) {
	mgr, fm := twoStateChain(t)
	ev := New(mgr, fm)

	boxF, err := pdl.ParseFormula("[a]p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	diaNotF, err := pdl.ParseFormula("<a>(!p)")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}

	boxSat, err := ev.EvalFormula(boxF)
	if err != nil {
		t.Fatalf("EvalFormula(box): %v", err)
	}
	diaNotSat, err := ev.EvalFormula(diaNotF)
	if err != nil {
		t.Fatalf("EvalFormula(dia-not): %v", err)
	}
	if !mgr.Equal(boxSat, mgr.Not(diaNotSat)) {
		t.Fatalf("[a]p != !<a>!p")
	}
}

func TestNegationAndConjunctionDistribute(t *testing.T) {
	mgr, fm := twoStateChain(t)
	ev := New(mgr, fm)

	notF, err := pdl.ParseFormula("!p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	pF, err := pdl.ParseFormula("p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	andF, err := pdl.ParseFormula("p & p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}

	notSat, _ := ev.EvalFormula(notF)
	pSat, _ := ev.EvalFormula(pF)
	andSat, _ := ev.EvalFormula(andF)

	if !mgr.Equal(notSat, mgr.Not(pSat)) {
		t.Fatalf("eval(!p) != !eval(p)")
	}
	if !mgr.Equal(andSat, mgr.And(pSat, pSat)) {
		t.Fatalf("eval(p & p) != eval(p) & eval(p)")
	}
}

func TestChoiceCommutativity(t *testing.T) {
	mgr, fm := twoStateChain(t)
	fm.programs["b"] = fm.programs["a"]
	ev := New(mgr, fm)

	ab, err := pdl.ParseProgram("a U b")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	ba, err := pdl.ParseProgram("b U a")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	abSat, err := ev.EvalProgram(ab)
	if err != nil {
		t.Fatalf("EvalProgram(a U b): %v", err)
	}
	baSat, err := ev.EvalProgram(ba)
	if err != nil {
		t.Fatalf("EvalProgram(b U a): %v", err)
	}
	if !mgr.Equal(abSat, baSat) {
		t.Fatalf("a U b != b U a")
	}
}

func TestCompositionAssociativity(t *testing.T) {
	mgr, fm := twoStateChain(t)
	ev := New(mgr, fm)
	a := fm.programs["a"]

	ab, err := ev.compose(a, a)
	if err != nil {
		t.Fatalf("compose(a,a): %v", err)
	}
	left, err := ev.compose(ab, a)
	if err != nil {
		t.Fatalf("compose(compose(a,a),a): %v", err)
	}
	bc, err := ev.compose(a, a)
	if err != nil {
		t.Fatalf("compose(a,a): %v", err)
	}
	right, err := ev.compose(a, bc)
	if err != nil {
		t.Fatalf("compose(a,compose(a,a)): %v", err)
	}
	if !mgr.Equal(left, right) {
		t.Fatalf("composition is not associative")
	}
}

func TestStarFixpointContainsIdentityAndUnrolls(t *testing.T) {
	mgr, fm := twoStateChain(t)
	ev := New(mgr, fm)

	star, err := pdl.ParseProgram("a*")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	starSat, err := ev.EvalProgram(star)
	if err != nil {
		t.Fatalf("EvalProgram(a*): %v", err)
	}

	id := ev.identityRelation()
	if !implies(mgr, id, starSat) {
		t.Fatalf("a* does not contain the identity relation")
	}

	a := fm.programs["a"]
	composed, err := ev.compose(starSat, a)
	if err != nil {
		t.Fatalf("compose(a*, a): %v", err)
	}
	unrolled := mgr.Or(id, composed)
	if !mgr.Equal(unrolled, starSat) {
		t.Fatalf("a* is not a fixpoint of X -> I | compose(X, a)")
	}
}

func implies(mgr *bdd.Manager, a, b bdd.Node) bool {
	return mgr.Equal(mgr.And(a, mgr.Not(b)), mgr.False())
}
