// Package harness compiles a generated verification program with the host
// C compiler, runs it, and records what happened.
//
// The generated program reports failures as "failed test N: what" lines
// and exits nonzero if any assertion failed. A program that does not
// compile is an internal error, not a conformance failure: the generator
// produced source the toolchain rejects.
package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvgen"
	"github.com/lattice-substrate/fmtvec/fvmanifest"
	"github.com/lattice-substrate/fmtvec/harness/executil"
)

const (
	sourceName = "fmtvec_check.c"
	binaryName = "fmtvec_check"
)

// Run writes program to a fresh work directory, compiles it, runs the
// result and returns the report. The returned error is non-nil only when
// the run could not be carried out; a program that ran and failed yields a
// report with Passed false and a nil error.
func Run(ctx context.Context, cfg Config, runner executil.CommandRunner, target fvgen.Target, program []byte) (*Report, error) {
	log := cfg.logger().WithField("target", target.String())
	if cfg.CC == "" {
		return nil, fverr.New(fverr.CLIUsage, -1, "no C compiler configured")
	}
	runner = executil.NewWrapped(runner, cfg.RunnerPrefix)
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp(cfg.WorkDir, "fmtvec-*")
	if err != nil {
		return nil, fverr.Wrap(fverr.InternalIO, -1, "create work directory", err)
	}
	if cfg.Keep {
		log.WithField("dir", dir).Info("keeping work directory")
	} else {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.WithError(err).Warn("remove work directory")
			}
		}()
	}

	src := filepath.Join(dir, sourceName)
	if err := os.WriteFile(src, program, 0o600); err != nil {
		return nil, fverr.Wrap(fverr.InternalIO, -1, "write program", err)
	}

	compile := append(append([]string{cfg.CC}, cfg.CFlags...), "-o", binaryName, sourceName)
	log.WithField("argv", strings.Join(compile, " ")).Debug("compiling")
	res, err := runner.Run(ctx, executil.Command{Argv: compile, Dir: dir})
	if err != nil {
		return nil, classifyRunErr("compile", err)
	}
	if res.ExitCode != 0 {
		log.WithFields(logrus.Fields{"exit_code": res.ExitCode, "output": res.Output}).Error("compile failed")
		return nil, fverr.Newf(fverr.InternalError, -1, "compile failed with status %d: %s",
			res.ExitCode, strings.TrimSpace(res.Output))
	}

	log.Debug("running")
	res, err = runner.Run(ctx, executil.Command{Argv: []string{filepath.Join(dir, binaryName)}, Dir: dir})
	if err != nil {
		return nil, classifyRunErr("run", err)
	}

	failures, cases := ParseFailures(res.Output)
	r := &Report{
		SchemaVersion: ReportSchemaVersion,
		Target:        target.String(),
		ProgramSHA256: fvmanifest.Digest(program),
		Compiler:      compile,
		Platform:      HostPlatform(),
		ExitCode:      res.ExitCode,
		Passed:        res.ExitCode == 0 && len(failures) == 0,
		FailedCases:   cases,
		Failures:      failures,
		Output:        res.Output,
	}
	log.WithFields(logrus.Fields{
		"exit_code":    r.ExitCode,
		"failed_cases": len(r.FailedCases),
	}).Info("program finished")
	return r, nil
}

func classifyRunErr(step string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fverr.Wrap(fverr.InternalError, -1, step+" timed out", err)
	}
	return fverr.Wrap(fverr.InternalError, -1, step, err)
}
