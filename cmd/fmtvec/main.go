// Command fmtvec generates C programs that check a C runtime's sprintf,
// vsprintf, sscanf and vsscanf against a vector table, and optionally
// compiles and runs them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/harness"
	"github.com/lattice-substrate/fmtvec/harness/executil"
)

const exitSuccess = 0

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	return newApp(stdout, stderr, executil.OSRunner{}).execute(args)
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	log     *logrus.Logger
	runner  executil.CommandRunner
	config  func() harness.Config
	verbose bool
}

func newApp(stdout, stderr io.Writer, runner executil.CommandRunner) *app {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &app{
		stdout: stdout,
		stderr: stderr,
		log:    log,
		runner: runner,
		config: harness.ConfigFromEnv,
	}
}

func (a *app) execute(args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.Execute(); err != nil {
		var fe *fverr.Error
		if !errors.As(err, &fe) {
			// Everything the commands return is classified; the rest comes
			// from cobra's own argument and flag parsing.
			err = fverr.Wrap(fverr.CLIUsage, -1, "usage", err)
		}
		return writeClassifiedError(a.stderr, err)
	}
	return exitSuccess
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fmtvec",
		Short:         "Generate C programs that verify sprintf/sscanf test vectors",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	root.AddCommand(
		a.generateCommand(),
		a.manifestCommand(),
		a.checkCommand(),
		a.targetsCommand(),
	)
	return root
}

// writeClassifiedError prints err and returns the exit code of its failure
// class. Unclassified errors are internal.
func writeClassifiedError(stderr io.Writer, err error) int {
	var fe *fverr.Error
	if errors.As(err, &fe) {
		if werr := writef(stderr, "error: %v\n", err); werr != nil {
			return fverr.InternalIO.ExitCode()
		}
		return fe.Class.ExitCode()
	}
	if werr := writef(stderr, "error: %s: %v\n", fverr.InternalError, err); werr != nil {
		return fverr.InternalIO.ExitCode()
	}
	return fverr.InternalError.ExitCode()
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
