// Command pdlcheck evaluates Propositional Dynamic Logic formulas against a
// finite Kripke model, either from a file (explicit or symbolic form) or a
// randomly synthesized explicit model, in a single batch run or an
// interactive REPL.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rfielding/pdlcheck/internal/randmodel"
	"github.com/rfielding/pdlcheck/pkg/model"
	"github.com/rfielding/pdlcheck/pkg/pdl"
	"github.com/rfielding/pdlcheck/pkg/repl"
	"github.com/rfielding/pdlcheck/pkg/stats"
)

var fileFlag = &cli.StringFlag{
	Name:  "file",
	Usage: "input model file (required unless --random is given)",
}

var explicitFlag = &cli.BoolFlag{
	Name:  "explicit",
	Usage: "interpret --file as the explicit-matrix format; otherwise symbolic",
}

var runTestsFlag = &cli.BoolFlag{
	Name:  "T",
	Usage: "run the PDL tests embedded in the file's TESTS section",
}

var formulaFlag = &cli.StringFlag{
	Name:  "formula",
	Usage: "evaluate a single PDL formula",
}

var stateFlag = &cli.StringFlag{
	Name:  "state",
	Usage: "evaluate --formula in a specific state, given as a Boolean valuation expression",
}

var randomFlag = &cli.StringFlag{
	Name:  "random",
	Usage: "synthesize a random explicit model, given as \"N V P\" (states, propositions, programs)",
}

var seedFlag = &cli.Int64Flag{
	Name:  "seed",
	Usage: "seed for --random's generator (defaults to a fixed seed for reproducibility)",
	Value: 1,
}

var dumpFlag = &cli.StringFlag{
	Name:  "dump",
	Usage: "persist the result of --formula as a BDD dump in this directory, named after the input and the formula",
}

func main() {
	app := &cli.App{
		Name:  "pdlcheck",
		Usage: "symbolic PDL model checker",
		Flags: []cli.Flag{fileFlag, explicitFlag, runTestsFlag, formulaFlag, stateFlag, randomFlag, seedFlag, dumpFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	m, source, err := loadModel(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer m.Release()

	collector := stats.New(0)

	switch {
	case c.Bool(runTestsFlag.Name):
		return runBatchTests(c, m, collector)
	case c.String(formulaFlag.Name) != "":
		return runSingleFormula(c, m, collector, source)
	default:
		return repl.Run(m, collector, os.Stdout)
	}
}

// loadModel builds the model named by --file or --random, and also returns
// a short source name (the input file's base name, or "random") used to
// derive dump file paths.
func loadModel(c *cli.Context) (*model.Model, string, error) {
	if r := c.String(randomFlag.Name); r != "" {
		n, v, p, err := parseRandomSpec(r)
		if err != nil {
			return nil, "", err
		}
		in, err := randmodel.Generate(n, v, p, c.Int64(seedFlag.Name))
		if err != nil {
			return nil, "", err
		}
		m, err := model.BuildExplicit(in)
		return m, "random", err
	}

	path := c.String(fileFlag.Name)
	if path == "" {
		return nil, "", fmt.Errorf("pdlcheck: --file or --random is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("pdlcheck: opening %s: %w", path, err)
	}
	defer f.Close()

	source := filepath.Base(path)
	if c.Bool(explicitFlag.Name) {
		parsed, err := model.ReadExplicitFile(f)
		if err != nil {
			return nil, "", err
		}
		m, err := model.BuildExplicit(parsed.Input)
		return m, source, err
	}
	parsed, err := model.ReadSymbolicFile(f)
	if err != nil {
		return nil, "", err
	}
	m, err := model.BuildSymbolic(parsed.Input)
	return m, source, err
}

func parseRandomSpec(spec string) (n, v, p int, err error) {
	fields := strings.Fields(strings.ReplaceAll(spec, ",", " "))
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("pdlcheck: --random wants \"N V P\", got %q", spec)
	}
	vals := make([]int, 3)
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("pdlcheck: --random value %q is not an integer", f)
		}
		vals[i] = x
	}
	return vals[0], vals[1], vals[2], nil
}

func runSingleFormula(c *cli.Context, m *model.Model, collector *stats.Collector, source string) error {
	start := time.Now()
	formulaText := c.String(formulaFlag.Name)
	f, err := pdl.ParseFormula(formulaText)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	switch {
	case c.String(stateFlag.Name) != "":
		ok, err := m.CheckState(f, c.String(stateFlag.Name))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Println(ok)
	case m.StateCount() > 0:
		vec, err := m.CheckVector(f)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Println(vec)
	default:
		sat, err := m.Check(f)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Println(m.Manager.Support(sat))
	}

	if dir := c.String(dumpFlag.Name); dir != "" {
		name := fmt.Sprintf("%s.%s.bdd", source, model.SanitizeFormulaForFilename(formulaText))
		if err := m.Dump(f, filepath.Join(dir, name)); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	collector.Record("formula", time.Since(start), start)
	return nil
}

func runBatchTests(c *cli.Context, m *model.Model, collector *stats.Collector) error {
	path := c.String(fileFlag.Name)
	if path == "" {
		return cli.Exit("pdlcheck: --T requires --file", 1)
	}
	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer f.Close()

	var tests []string
	if c.Bool(explicitFlag.Name) {
		parsed, err := model.ReadExplicitFile(f)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		tests = parsed.Tests
	}

	exitCode := 0
	for _, line := range tests {
		start := time.Now()
		formula, err := pdl.ParseFormula(line)
		if err != nil {
			fmt.Printf("%s: error: %v\n", line, err)
			exitCode = 1
			continue
		}
		vec, err := m.CheckVector(formula)
		if err != nil {
			fmt.Printf("%s: error: %v\n", line, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s: %v\n", line, vec)
		collector.Record("batch-test", time.Since(start), start)
	}

	count, elapsed := collector.Total()
	fmt.Printf("ran %d queries in %v\n", count, elapsed)
	if exitCode != 0 {
		return cli.Exit("one or more tests failed to evaluate", exitCode)
	}
	return nil
}
