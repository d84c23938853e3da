package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvgen"
	"github.com/lattice-substrate/fmtvec/fvmanifest"
	"github.com/lattice-substrate/fmtvec/fvtable"
	"github.com/lattice-substrate/fmtvec/harness"
)

// source is the selector and vector table shared by the generating
// commands.
type source struct {
	function string
	vectors  string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.function, "function", "f", "sprintf", "entry point: sprintf, vsprintf, sscanf or vsscanf")
	cmd.Flags().StringVar(&s.vectors, "vectors", "", "YAML vector file to use instead of the built-in table")
}

// resolve parses the selector before touching the vector table, so an
// unknown selector fails without any other work.
func (s *source) resolve() (fvgen.Target, fvtable.Suite, error) {
	target, err := fvgen.ParseTarget(s.function)
	if err != nil {
		return 0, fvtable.Suite{}, err
	}
	if s.vectors == "" {
		return target, fvtable.Builtin(), nil
	}
	suite, err := fvtable.LoadFile(s.vectors)
	if err != nil {
		return 0, fvtable.Suite{}, err
	}
	return target, suite, nil
}

func (s *source) program() (fvgen.Target, []byte, error) {
	target, suite, err := s.resolve()
	if err != nil {
		return 0, nil, err
	}
	program, err := fvgen.Generate(suite, target)
	if err != nil {
		return 0, nil, err
	}
	return target, program, nil
}

func (a *app) generateCommand() *cobra.Command {
	var (
		src    source
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the verification program for one entry point",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			target, program, err := src.program()
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"target": target.String(), "bytes": len(program)}).Debug("generated")
			if output != "" {
				return fvmanifest.WriteAtomic(output, program)
			}
			return a.writeOut(program)
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the program to a file instead of stdout")
	return cmd
}

func (a *app) manifestCommand() *cobra.Command {
	var (
		src   source
		check string
	)
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the canonical manifest, or compare it with a baseline",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			target, suite, err := src.resolve()
			if err != nil {
				return err
			}
			current, err := fvmanifest.Build(suite, target)
			if err != nil {
				return err
			}
			if check == "" {
				return a.writeOut(current)
			}
			baseline, err := os.ReadFile(check) //nolint:gosec // baseline path is explicit operator input.
			if err != nil {
				return fverr.Wrap(fverr.CLIUsage, -1, "read baseline", err)
			}
			if err := fvmanifest.Check(baseline, current); err != nil {
				return err
			}
			a.log.WithField("baseline", check).Debug("baseline matches")
			if err := writeLine(a.stderr, "ok"); err != nil {
				return fverr.Wrap(fverr.InternalIO, -1, "write status", err)
			}
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&check, "check", "", "baseline manifest to compare against")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	var (
		src    source
		report string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Generate, compile and run the program, and print the run report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, program, err := src.program()
			if err != nil {
				return err
			}
			cfg := a.config()
			cfg.Log = a.log
			r, err := harness.Run(cmd.Context(), cfg, a.runner, target, program)
			if err != nil {
				return err
			}
			data, err := r.JSON()
			if err != nil {
				return err
			}
			if err := a.writeOut(data); err != nil {
				return err
			}
			if report != "" {
				if err := harness.WriteReport(report, r); err != nil {
					return err
				}
			}
			return r.Err()
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&report, "report", "", "also write the JSON report to a file")
	return cmd
}

func (a *app) targetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the supported entry points",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, t := range fvgen.Targets() {
				if err := writef(a.stdout, "%s\t%s\n", t, t.Family()); err != nil {
					return fverr.Wrap(fverr.InternalIO, -1, "write output", err)
				}
			}
			return nil
		},
	}
}

// writeOut writes a finished document to stdout in one call.
func (a *app) writeOut(data []byte) error {
	if _, err := a.stdout.Write(data); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "write output", err)
	}
	return nil
}
