package model

import (
	"strings"
	"testing"
)

func TestReadExplicitFile(t *testing.T) {
	src := `STATES
2
PROPS
p
1 0
PROGS
a
0 1
0 0
TESTS
<a>(!p)
[a]p
`
	f, err := ReadExplicitFile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadExplicitFile: %v", err)
	}
	if f.Input.NumStates != 2 {
		t.Fatalf("NumStates = %d, want 2", f.Input.NumStates)
	}
	if len(f.Input.Props) != 1 || f.Input.Props[0].Name != "p" {
		t.Fatalf("Props = %#v", f.Input.Props)
	}
	if !equalInts(f.Input.Props[0].Valuation, []int{1, 0}) {
		t.Fatalf("valuation = %v, want [1 0]", f.Input.Props[0].Valuation)
	}
	if len(f.Input.Programs) != 1 || f.Input.Programs[0].Name != "a" {
		t.Fatalf("Programs = %#v", f.Input.Programs)
	}
	wantRows := [][]int{{0, 1}, {0, 0}}
	for i, row := range f.Input.Programs[0].Rows {
		if !equalInts(row, wantRows[i]) {
			t.Fatalf("row %d = %v, want %v", i, row, wantRows[i])
		}
	}
	if len(f.Tests) != 2 || f.Tests[0] != "<a>(!p)" || f.Tests[1] != "[a]p" {
		t.Fatalf("Tests = %#v", f.Tests)
	}
}

func TestReadExplicitFileNoTests(t *testing.T) {
	src := `STATES
1
PROPS
p
1
PROGS
`
	f, err := ReadExplicitFile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadExplicitFile: %v", err)
	}
	if len(f.Tests) != 0 {
		t.Fatalf("Tests = %#v, want none", f.Tests)
	}
	if len(f.Input.Programs) != 0 {
		t.Fatalf("Programs = %#v, want none", f.Input.Programs)
	}
}

func TestReadExplicitFileRejectsBadRowShape(t *testing.T) {
	src := `STATES
2
PROPS
p
1 0 0
`
	if _, err := ReadExplicitFile(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for wrong valuation width")
	}
}

func TestReadExplicitFileRejectsMissingHeader(t *testing.T) {
	src := `2
PROPS
`
	if _, err := ReadExplicitFile(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for missing STATES header")
	}
}

func TestReadSymbolicFile(t *testing.T) {
	src := `PROPS
p, q

LAW
p | !p

PROGRAMS
a
p & q'
!p & !q'

b
q & p'
`
	f, err := ReadSymbolicFile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadSymbolicFile: %v", err)
	}
	if !equalStrings(f.Input.VarNames, []string{"p", "q"}) {
		t.Fatalf("VarNames = %v", f.Input.VarNames)
	}
	if f.Input.Law != "p | !p" {
		t.Fatalf("Law = %q", f.Input.Law)
	}
	if len(f.Input.Programs) != 2 {
		t.Fatalf("Programs = %#v", f.Input.Programs)
	}
	if f.Input.Programs[0].Name != "a" || len(f.Input.Programs[0].Transitions) != 2 {
		t.Fatalf("program a = %#v", f.Input.Programs[0])
	}
	if f.Input.Programs[1].Name != "b" || len(f.Input.Programs[1].Transitions) != 1 {
		t.Fatalf("program b = %#v", f.Input.Programs[1])
	}
}

func TestReadSymbolicFileRejectsMissingLaw(t *testing.T) {
	src := `PROPS
p
`
	if _, err := ReadSymbolicFile(strings.NewReader(src)); err == nil {
		t.Fatalf("expected error for missing LAW section")
	}
}

func equalStrings(a, b []string) bool {
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
