// Command fmtvec-gate runs the repository's required verification gates in order.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lattice-substrate/fmtvec/harness/executil"
)

type gateStep struct {
	label string
	args  []string
	env   map[string]string
}

var requiredGateSteps = []gateStep{
	{label: "go vet", args: []string{"vet", "./..."}},
	{label: "unit tests", args: []string{"test", "./...", "-count=1", "-timeout=20m"}},
	{label: "race tests", args: []string{"test", "./...", "-race", "-count=1", "-timeout=25m"}},
	{label: "conformance", args: []string{"test", "./conformance", "-count=1", "-timeout=10m", "-v"}},
}

// libcGateStep demands that the host C runtime passes every generated
// program instead of merely compiling them.
var libcGateStep = gateStep{
	label: "libc conformance",
	args:  []string{"test", "./conformance", "-run", "TestGeneratedProgramsRun", "-count=1", "-v"},
	env:   map[string]string{"FMTVEC_REQUIRE_LIBC_PASS": "1"},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, executil.OSRunner{}))
}

func run(args []string, stdout, stderr io.Writer, runner executil.CommandRunner) int {
	steps := requiredGateSteps
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			if err := writeUsage(stdout); err != nil {
				return 1
			}
			return 0
		case "--require-libc":
			steps = append(append([]gateStep(nil), requiredGateSteps...), libcGateStep)
		default:
			if err := writef(stderr, "error: unknown argument %q\n", arg); err != nil {
				return 1
			}
			if err := writeUsage(stderr); err != nil {
				return 1
			}
			return 2
		}
	}

	ctx := context.Background()
	for i, step := range steps {
		if err := writef(stdout, "[%d/%d] %s\n", i+1, len(steps), step.label); err != nil {
			return 1
		}
		argv := append([]string{"go"}, step.args...)
		res, err := runner.Run(ctx, executil.Command{Argv: argv, Env: step.env})
		if _, werr := io.WriteString(stdout, res.Output); werr != nil {
			return 1
		}
		if err == nil && res.ExitCode != 0 {
			err = fmt.Errorf("%v exited with status %d", argv, res.ExitCode)
		}
		if err != nil {
			if writeErr := writef(stderr, "gate failed: %s: %v\n", step.label, err); writeErr != nil {
				return 1
			}
			return 1
		}
	}

	if err := writeLine(stdout, "all gates passed"); err != nil {
		return 1
	}
	return 0
}

func writeUsage(w io.Writer) error {
	if err := writeLine(w, "usage: go run ./cmd/fmtvec-gate [--require-libc] [--help]"); err != nil {
		return err
	}
	if err := writeLine(w, "runs: vet, tests, race, conformance"); err != nil {
		return err
	}
	return writeLine(w, "--require-libc also requires the host C runtime to pass every generated program")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
