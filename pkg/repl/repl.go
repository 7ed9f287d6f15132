// Package repl implements the interactive query loop described by the CLI
// surface: read a PDL formula (or a help/quit command) from the user, print
// its answer against the loaded model, and report how long the query took.
package repl

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/rfielding/pdlcheck/pkg/model"
	"github.com/rfielding/pdlcheck/pkg/pdl"
	"github.com/rfielding/pdlcheck/pkg/stats"
)

const helpText = `commands:
  <formula>   evaluate a PDL formula against the loaded model
  h           print this help
  q|quit|stop exit the REPL`

// Run drives the interactive loop against m, reading from a readline
// instance and writing results to out. It returns when the user quits or
// the input stream is exhausted.
func Run(m *model.Model, collector *stats.Collector, out io.Writer) error {
	rl, err := readline.New("pdl> ")
	if err != nil {
		return fmt.Errorf("repl: starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "h":
			fmt.Fprintln(out, helpText)
			continue
		case "q", "quit", "stop":
			return nil
		}
		runQuery(m, collector, out, line)
	}
}

func runQuery(m *model.Model, collector *stats.Collector, out io.Writer, line string) {
	start := time.Now()
	f, err := pdl.ParseFormula(line)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if m.StateCount() > 0 {
		vec, err := m.CheckVector(f)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%v\n", vec)
	} else {
		sat, err := m.Check(f)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "support: %v\n", m.Manager.Support(sat))
	}
	elapsed := time.Since(start)
	if collector != nil {
		collector.Record("repl-query", elapsed, start)
	}
	fmt.Fprintf(out, "time: %.3e\n", elapsed.Seconds())
}
