package model

import (
	"testing"

	"github.com/rfielding/pdlcheck/pkg/pdl"
)

func mustCheckVector(t *testing.T, m *Model, formula string) []int {
	f, err := pdl.ParseFormula(formula)
	if err != nil {
		t.Fatalf("ParseFormula(%q): %v", formula, err)
	}
	v, err := m.CheckVector(f)
	if err != nil {
		t.Fatalf("CheckVector(%q): %v", formula, err)
	}
	return v
}

// scenario 1: smallest model.
func TestSmallestModelDiamond(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 2,
		Props:     []Proposition{{Name: "p", Valuation: []int{1, 0}}},
		Programs:  []ProgramMatrix{{Name: "a", Rows: [][]int{{0, 1}, {0, 0}}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	got := mustCheckVector(t, m, "<a>(!p)")
	want := []int{1, 0}
	if !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// scenario 2: box over sink.
func TestBoxOverSink(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 2,
		Props:     []Proposition{{Name: "p", Valuation: []int{1, 0}}},
		Programs:  []ProgramMatrix{{Name: "a", Rows: [][]int{{0, 1}, {0, 0}}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	got := mustCheckVector(t, m, "[a]p")
	want := []int{0, 1}
	if !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// scenario 3: Kleene star reachability over a chain with a fork.
func TestKleeneStarReachability(t *testing.T) {
	// 5 states: fork 0 -> 1 (a dead-end sink) and 0 -> 2, then a chain
	// 2 -> 4 to the final state; state 3 is isolated. p holds only in the
	// final state 4.
	n := 5
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = make([]int, n)
	}
	rows[0][1] = 1
	rows[0][2] = 1
	rows[2][4] = 1
	pVal := []int{0, 0, 0, 0, 1}

	m, err := BuildExplicit(ExplicitInput{
		NumStates: n,
		Props:     []Proposition{{Name: "p", Valuation: pVal}},
		Programs:  []ProgramMatrix{{Name: "a", Rows: rows}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	got := mustCheckVector(t, m, "<a*>p")
	want := []int{1, 0, 1, 0, 1}
	if !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// scenario 4: sequence and test.
func TestSequenceAndTest(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 3,
		Props: []Proposition{
			{Name: "p", Valuation: []int{1, 0, 0}},
			{Name: "q", Valuation: []int{0, 1, 0}},
		},
		Programs: []ProgramMatrix{{Name: "a", Rows: [][]int{
			{0, 1, 0},
			{0, 0, 1},
			{0, 0, 0},
		}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	got := mustCheckVector(t, m, "<a; q?; a>(!p & !q)")
	want := []int{1, 0, 0}
	if !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// scenario 5: duplicate native valuations force uniqueness augmentation.
func TestDuplicateValuationsForceUniqueness(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 4,
		Props:     []Proposition{{Name: "p", Valuation: []int{1, 1, 1, 0}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	if m.StateCount() != 4 {
		t.Fatalf("StateCount() = %d, want 4", m.StateCount())
	}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			ci, _ := m.StateCube(i)
			cj, _ := m.StateCube(j)
			if m.Manager.Equal(ci, cj) {
				t.Fatalf("states %d and %d still have equal cubes after uniqueness", i, j)
			}
		}
	}
	if len(m.PropNames()) < 3 {
		t.Fatalf("PropNames() = %v, want at least 3 (1 native + >=2 synthetic for 4 states)", m.PropNames())
	}
}

// scenario 6: biconditional reflexivity.
func TestBiconditionalReflexivity(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 1,
		Props:     []Proposition{{Name: "p", Valuation: []int{1}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	f, err := pdl.ParseFormula("p <-> p")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	sat, err := m.Check(f)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !m.Manager.Equal(sat, m.Manager.True()) {
		t.Fatalf("p <-> p did not evaluate to the constant true BDD")
	}
}

func TestEveryStateImpliesLaw(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 3,
		Props:     []Proposition{{Name: "p", Valuation: []int{1, 0, 1}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	for i := 0; i < m.StateCount(); i++ {
		cube, _ := m.StateCube(i)
		if !implies(m.Manager, cube, m.Law()) {
			t.Fatalf("state %d does not imply the law", i)
		}
	}
}

func TestProgramRelationImpliesLawOnBothSides(t *testing.T) {
	m, err := BuildExplicit(ExplicitInput{
		NumStates: 2,
		Props:     []Proposition{{Name: "p", Valuation: []int{1, 0}}},
		Programs:  []ProgramMatrix{{Name: "a", Rows: [][]int{{0, 1}, {0, 0}}}},
	})
	if err != nil {
		t.Fatalf("BuildExplicit: %v", err)
	}
	r, err := m.Program("a")
	if err != nil {
		t.Fatalf("Program(a): %v", err)
	}
	mapping := map[string]string{}
	for _, name := range m.Manager.Support(m.Law()) {
		mapping[name] = name + "'"
	}
	lawPrime, err := m.Manager.Rename(m.Law(), mapping)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	lawBoth := m.Manager.And(m.Law(), lawPrime)
	if !implies(m.Manager, r, lawBoth) {
		t.Fatalf("program relation does not imply L & L'")
	}
}

func TestDuplicateProgramNameRejected(t *testing.T) {
	_, err := BuildExplicit(ExplicitInput{
		NumStates: 1,
		Programs: []ProgramMatrix{
			{Name: "a", Rows: [][]int{{0}}},
			{Name: "a", Rows: [][]int{{0}}},
		},
	})
	if err == nil {
		t.Fatalf("expected DuplicateName error")
	}
}

func TestShapeMismatchRejected(t *testing.T) {
	_, err := BuildExplicit(ExplicitInput{
		NumStates: 2,
		Props:     []Proposition{{Name: "p", Valuation: []int{1}}},
	})
	if err == nil {
		t.Fatalf("expected ShapeMismatch error")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
