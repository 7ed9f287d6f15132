// Package bdd adapts github.com/dalzilio/rudd — an index-addressed ROBDD
// library — to the name-addressed variable discipline the model checker
// needs: base variables, their primed copies, and transient temporary
// copies, distinguished purely by name suffix (see pkg/model and pkg/eval).
//
// rudd.Set addresses variables by a dense integer index and has no notion
// of variable names; Manager owns the name<->index bijection and grows the
// underlying BDD's variable count as new names are declared. Declaration
// is idempotent, as required of the abstract BDD backend interface.
package bdd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dalzilio/rudd"
)

// Node is a BDD value together with the set of variable names it was built
// from. The support set is maintained symbolically by every Manager
// operation rather than recovered from the backend, since rudd's public
// interface gives no direct way to map a node's internal level back to a
// variable name once reordering has run.
type Node struct {
	n       rudd.Node
	support map[string]bool
}

func leaf(n rudd.Node, names ...string) Node {
	s := make(map[string]bool, len(names))
	for _, nm := range names {
		s[nm] = true
	}
	return Node{n: n, support: s}
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// Manager owns a single rudd BDD instance and the name table for the three
// variable families (base, primed, temporary). It is not safe for
// concurrent use — the core is single-threaded over one manager.
type Manager struct {
	set   rudd.Set
	names []string
	index map[string]int
}

// NewManager creates an empty manager with no declared variables.
func NewManager() (*Manager, error) {
	impl, err := rudd.New(1)
	if err != nil {
		return nil, fmt.Errorf("bdd: creating manager: %w", err)
	}
	return &Manager{
		set:   rudd.Set{BDD: impl},
		names: nil,
		index: make(map[string]int),
	}, nil
}

// Declare registers name as a base/primed/temporary variable if it is not
// already known, and returns its index either way. Declaration never
// shrinks or renumbers existing variables.
func (m *Manager) Declare(name string) (int, error) {
	if idx, ok := m.index[name]; ok {
		return idx, nil
	}
	idx := len(m.names)
	if err := m.set.SetVarnum(idx + 1); err != nil {
		return 0, fmt.Errorf("bdd: declaring %q: %w", name, err)
	}
	m.names = append(m.names, name)
	m.index[name] = idx
	return idx, nil
}

// Declared reports whether name has already been declared.
func (m *Manager) Declared(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Var returns the BDD variable for a declared proposition name.
func (m *Manager) Var(name string) (Node, error) {
	idx, ok := m.index[name]
	if !ok {
		return Node{}, fmt.Errorf("bdd: variable %q not declared", name)
	}
	return leaf(m.set.Ithvar(idx), name), nil
}

// True returns the constant-true BDD.
func (m *Manager) True() Node { return leaf(m.set.True()) }

// False returns the constant-false BDD.
func (m *Manager) False() Node { return leaf(m.set.False()) }

// Not returns the negation of a.
func (m *Manager) Not(a Node) Node {
	return Node{n: m.set.Not(a.n), support: a.support}
}

func (m *Manager) binop(a, b Node, op rudd.Operator) Node {
	return Node{n: m.set.Apply(a.n, b.n, op), support: union(a.support, b.support)}
}

// And returns the conjunction of a and b.
func (m *Manager) And(a, b Node) Node { return m.binop(a, b, rudd.OPand) }

// Or returns the disjunction of a and b.
func (m *Manager) Or(a, b Node) Node { return m.binop(a, b, rudd.OPor) }

// Imp returns the implication a -> b.
func (m *Manager) Imp(a, b Node) Node { return m.binop(a, b, rudd.OPimp) }

// Xor returns the exclusive-or of a and b.
func (m *Manager) Xor(a, b Node) Node { return m.binop(a, b, rudd.OPxor) }

// Iff returns the biconditional a <-> b, computed as not(a xor b) per the
// mandated (non-buggy) encoding: one source variant in the original
// implementation returns the bare xor, which is wrong.
func (m *Manager) Iff(a, b Node) Node { return m.Not(m.Xor(a, b)) }

// AndAll conjoins a sequence of nodes, returning True for an empty sequence.
func (m *Manager) AndAll(ns ...Node) Node {
	r := m.True()
	for _, n := range ns {
		r = m.And(r, n)
	}
	return r
}

// OrAll disjoins a sequence of nodes, returning False for an empty sequence.
func (m *Manager) OrAll(ns ...Node) Node {
	r := m.False()
	for _, n := range ns {
		r = m.Or(r, n)
	}
	return r
}

// Equal reports whether a and b denote the same Boolean function.
func (m *Manager) Equal(a, b Node) bool { return m.set.Equal(a.n, b.n) }

// Support returns the sorted list of variable names a was built from, as
// tracked by the Manager operations. It can include names the function no
// longer depends on (p is in the support of p | !p).
func (m *Manager) Support(a Node) []string {
	out := make([]string, 0, len(a.support))
	for name := range a.support {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) makeset(names []string) (rudd.Node, []int) {
	idx := make([]int, 0, len(names))
	for _, name := range names {
		if i, ok := m.index[name]; ok {
			idx = append(idx, i)
		}
	}
	return m.set.Makeset(idx), idx
}

// Exist existentially quantifies a over the named variables.
func (m *Manager) Exist(a Node, names []string) Node {
	if len(names) == 0 {
		return a
	}
	varset, _ := m.makeset(names)
	remaining := make(map[string]bool, len(a.support))
	elim := make(map[string]bool, len(names))
	for _, n := range names {
		elim[n] = true
	}
	for k := range a.support {
		if !elim[k] {
			remaining[k] = true
		}
	}
	return Node{n: m.set.Exist(a.n, varset), support: remaining}
}

// ForAll universally quantifies a over the named variables, via the
// standard duality forall V. f == not(exist V. not(f)).
func (m *Manager) ForAll(a Node, names []string) Node {
	return m.Not(m.Exist(m.Not(a), names))
}

// Rename substitutes variables in a according to mapping (old name -> new
// name), declaring any new name not already known. It is implemented as the
// standard quantifier-elimination encoding also used for relational
// composition: conjoin a with a biconditional pinning each old variable to
// its replacement, then existentially eliminate the old variables in one
// AppEx call. A mapping whose new names are themselves renamed in the same
// call (a swap such as p -> q, q -> p) is not a simultaneous substitution
// under this encoding.
func (m *Manager) Rename(a Node, mapping map[string]string) (Node, error) {
	olds := make([]string, 0, len(mapping))
	link := m.True()
	newSupport := make(map[string]bool, len(a.support))
	for name := range a.support {
		newName, renamed := mapping[name]
		if !renamed {
			newSupport[name] = true
			continue
		}
		if _, err := m.Declare(newName); err != nil {
			return Node{}, err
		}
		oldVar, err := m.Var(name)
		if err != nil {
			return Node{}, err
		}
		newVar, err := m.Var(newName)
		if err != nil {
			return Node{}, err
		}
		link = m.binop(link, m.binop(oldVar, newVar, rudd.OPbiimp), rudd.OPand)
		olds = append(olds, name)
		newSupport[newName] = true
	}
	if len(olds) == 0 {
		return a, nil
	}
	varset, _ := m.makeset(olds)
	result := m.set.AppEx(a.n, link.n, rudd.OPand, varset)
	return Node{n: result, support: newSupport}, nil
}

// Restrict is the optional backend hook described in the BDD backend
// interface: it may simplify f by assuming c, but is only required to
// agree with f wherever c holds. rudd's public surface gives no
// generalized-cofactor primitive, and every call site in this model
// checker already passes an f that implies c by construction (transition
// relations built from cubes that are themselves elements of the law), so
// returning f unchanged is a correctness-preserving, if unoptimized,
// implementation.
func (m *Manager) Restrict(f, c Node) Node { return f }

// AppEx applies op to (a, b) then existentially eliminates the named
// variables from the result in a single backend call — the relational
// product operation. Rename uses the same backend call; relational
// composition and the modalities in pkg/eval use And followed by Exist.
func (m *Manager) AppEx(a, b Node, op rudd.Operator, names []string) Node {
	varset, _ := m.makeset(names)
	combined := union(a.support, b.support)
	remaining := make(map[string]bool, len(combined))
	elim := make(map[string]bool, len(names))
	for _, n := range names {
		elim[n] = true
	}
	for k := range combined {
		if !elim[k] {
			remaining[k] = true
		}
	}
	return Node{n: m.set.AppEx(a.n, b.n, op, varset), support: remaining}
}

// Dump persists the BDD rooted at a to path as a textual node listing
// (id, variable name or leaf, low id, high id) — rudd exposes no
// Graphviz/image export, so this is the backend's "dump facility" for the
// purposes of the query surface's `dump` option.
func (m *Manager) Dump(a Node, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# bdd dump, support = %v\n", m.Support(a))
	err := m.set.Allnodes(func(id, level, low, high int) error {
		name := "?"
		if level >= 0 && level < len(m.names) {
			name = m.names[level]
		}
		fmt.Fprintf(&b, "%d var=%s low=%d high=%d\n", id, name, low, high)
		return nil
	}, a.n)
	if err != nil {
		return fmt.Errorf("bdd: dumping: %w", err)
	}
	return writeFile(path, b.String())
}

// Stats returns backend statistics, primarily for diagnostics.
func (m *Manager) Stats() string { return m.set.Stats() }

// NamesOf exposes the declared variable name (base, primed or temporary)
// for a given index, for callers that need to go from rudd-level
// introspection back to names.
func (m *Manager) NamesOf(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.names) {
		return "", false
	}
	return m.names[idx], true
}
