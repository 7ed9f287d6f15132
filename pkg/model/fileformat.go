package model

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// ExplicitFile is the parsed result of reading an explicit-format model
// file: the model input itself, plus the PDL formula strings found in the
// TESTS section (empty when the file has no TESTS section).
type ExplicitFile struct {
	Input ExplicitInput
	Tests []string
}

// ReadExplicitFile parses the explicit model file format of §6: a STATES
// count, a PROPS section of name/valuation-vector pairs, a PROGS section of
// name/0-1-matrix groups, and an optional TESTS section of PDL formulas.
func ReadExplicitFile(r io.Reader) (ExplicitFile, error) {
	lines, err := readNonBlankLines(r)
	if err != nil {
		return ExplicitFile{}, err
	}
	var out ExplicitFile
	i := 0

	expect := func(token string) error {
		if i >= len(lines) || lines[i] != token {
			return pdlerr.New(pdlerr.ParseError, "expected section header %q at line %d", token, i+1)
		}
		i++
		return nil
	}

	if err := expect("STATES"); err != nil {
		return ExplicitFile{}, err
	}
	if i >= len(lines) {
		return ExplicitFile{}, pdlerr.New(pdlerr.ParseError, "missing state count")
	}
	n, err := strconv.Atoi(lines[i])
	if err != nil {
		return ExplicitFile{}, pdlerr.New(pdlerr.ParseError, "invalid state count %q", lines[i])
	}
	i++
	out.Input.NumStates = n

	if err := expect("PROPS"); err != nil {
		return ExplicitFile{}, err
	}
	for i < len(lines) && lines[i] != "PROGS" && lines[i] != "TESTS" {
		name := lines[i]
		i++
		if i >= len(lines) {
			return ExplicitFile{}, pdlerr.New(pdlerr.ParseError, "proposition %q missing valuation row", name)
		}
		vals, err := parseBitRow(lines[i], n)
		if err != nil {
			return ExplicitFile{}, pdlerr.Wrap(pdlerr.ParseError, err, "proposition %q", name)
		}
		i++
		out.Input.Props = append(out.Input.Props, Proposition{Name: name, Valuation: vals})
	}

	if i < len(lines) && lines[i] == "PROGS" {
		i++
		for i < len(lines) && lines[i] != "TESTS" {
			name := lines[i]
			i++
			rows := make([][]int, 0, n)
			for len(rows) < n {
				if i >= len(lines) {
					return ExplicitFile{}, pdlerr.New(pdlerr.ParseError, "program %q missing matrix row", name)
				}
				row, err := parseBitRow(lines[i], n)
				if err != nil {
					return ExplicitFile{}, pdlerr.Wrap(pdlerr.ParseError, err, "program %q", name)
				}
				rows = append(rows, row)
				i++
			}
			out.Input.Programs = append(out.Input.Programs, ProgramMatrix{Name: name, Rows: rows})
		}
	}

	if i < len(lines) && lines[i] == "TESTS" {
		i++
		for i < len(lines) {
			out.Tests = append(out.Tests, lines[i])
			i++
		}
	}

	return out, nil
}

func parseBitRow(line string, n int) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, pdlerr.New(pdlerr.ShapeMismatch, "row has %d entries, want %d", len(fields), n)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || (v != 0 && v != 1) {
			return nil, pdlerr.New(pdlerr.ParseError, "entry %q is not 0 or 1", f)
		}
		out[i] = v
	}
	return out, nil
}

// SymbolicFile is the parsed result of reading a symbolic-format model
// file: the model input itself, with variable names as written in the file.
// Purely-numeric names are rewritten later, by BuildSymbolic; neither this
// type nor the built Model records which names were rewritten.
type SymbolicFile struct {
	Input SymbolicInput
}

// ReadSymbolicFile parses the symbolic model file format of §6: a PROPS
// section of comma-separated variable names, a LAW section with a single
// Boolean expression, and a PROGRAMS section of name/transition-expression
// groups, each terminated by a blank line.
func ReadSymbolicFile(r io.Reader) (SymbolicFile, error) {
	scanner := bufio.NewScanner(r)
	var rawLines []string
	for scanner.Scan() {
		rawLines = append(rawLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return SymbolicFile{}, err
	}

	i := 0
	skipBlank := func() {
		for i < len(rawLines) && strings.TrimSpace(rawLines[i]) == "" {
			i++
		}
	}

	var out SymbolicFile

	skipBlank()
	if i >= len(rawLines) || strings.TrimSpace(rawLines[i]) != "PROPS" {
		return SymbolicFile{}, pdlerr.New(pdlerr.ParseError, "expected PROPS section")
	}
	i++
	skipBlank()
	if i >= len(rawLines) {
		return SymbolicFile{}, pdlerr.New(pdlerr.ParseError, "missing variable list")
	}
	for _, name := range strings.Split(rawLines[i], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			out.Input.VarNames = append(out.Input.VarNames, name)
		}
	}
	i++

	skipBlank()
	if i >= len(rawLines) || strings.TrimSpace(rawLines[i]) != "LAW" {
		return SymbolicFile{}, pdlerr.New(pdlerr.ParseError, "expected LAW section")
	}
	i++
	skipBlank()
	if i >= len(rawLines) {
		return SymbolicFile{}, pdlerr.New(pdlerr.ParseError, "missing law expression")
	}
	out.Input.Law = strings.TrimSpace(rawLines[i])
	i++

	skipBlank()
	if i < len(rawLines) && strings.TrimSpace(rawLines[i]) == "PROGRAMS" {
		i++
		for {
			skipBlank()
			if i >= len(rawLines) {
				break
			}
			name := strings.TrimSpace(rawLines[i])
			i++
			var sp SymbolicProgram
			sp.Name = name
			for i < len(rawLines) && strings.TrimSpace(rawLines[i]) != "" {
				sp.Transitions = append(sp.Transitions, strings.TrimSpace(rawLines[i]))
				i++
			}
			out.Input.Programs = append(out.Input.Programs, sp)
		}
	}

	return out, nil
}

func readNonBlankLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
