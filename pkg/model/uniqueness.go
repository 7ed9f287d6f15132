package model

import "github.com/rfielding/pdlcheck/pkg/bdd"

// applyUniqueness augments states until every cube is pairwise distinct, by
// repeatedly allocating a fresh synthetic proposition that separates every
// even-numbered occurrence of a duplicated cube from the rest. A single pass
// does not always suffice — an odd-sized duplicate class leaves its last
// occurrence unaugmented in that pass — so this loops to a fixpoint where no
// duplicates remain, per the uniqueness procedure's termination argument.
func (m *Model) applyUniqueness() error {
	for {
		evenOccurrences := findEvenOccurrences(m.Manager, m.states)
		if len(evenOccurrences) == 0 {
			return nil
		}
		name, err := m.nextSynthetic()
		if err != nil {
			return err
		}
		xk, err := m.Manager.Var(name)
		if err != nil {
			return err
		}
		notXk := m.Manager.Not(xk)
		for i, cube := range m.states {
			if evenOccurrences[i] {
				m.states[i] = m.Manager.And(cube, xk)
			} else {
				m.states[i] = m.Manager.And(cube, notXk)
			}
		}
	}
}

// findEvenOccurrences scans the state list left to right, tracking cubes
// seen an odd number of times so far in a "seen" set: seeing a cube already
// in the set marks the current index as a second (fourth, sixth, ...)
// occurrence and removes it from the set, so the next repeat of that cube is
// again treated as a first occurrence. The returned set holds exactly the
// even-numbered occurrence indices.
func findEvenOccurrences(mgr *bdd.Manager, states []bdd.Node) map[int]bool {
	even := make(map[int]bool)
	// bdd.Node exposes no comparable key here, so pending occurrences are
	// tracked by index and compared with Manager.Equal.
	pending := make([]int, 0, len(states))
	for i, cube := range states {
		matchAt := -1
		for _, j := range pending {
			if mgr.Equal(states[j], cube) {
				matchAt = j
				break
			}
		}
		if matchAt == -1 {
			pending = append(pending, i)
			continue
		}
		even[i] = true
		// remove matchAt from pending so a third occurrence is a fresh first
		for k, j := range pending {
			if j == matchAt {
				pending = append(pending[:k], pending[k+1:]...)
				break
			}
		}
	}
	return even
}
