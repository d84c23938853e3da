// Package executil runs external commands for the harness: the C compiler
// and the generated program.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// Command is one process invocation.
type Command struct {
	Argv []string
	Dir  string            // working directory, "" for the current one
	Env  map[string]string // merged over the inherited environment
}

// Result is the outcome of a process that was started and waited for.
type Result struct {
	Output   string // combined stdout and stderr
	ExitCode int    // -1 when the process was killed by a signal
}

// CommandRunner abstracts command execution so tests can substitute it.
//
// Run returns an error only when the process could not be started or
// waited for, or ctx ended first. A nonzero exit status is not an error; it
// is reported in Result.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSRunner executes commands on the host.
type OSRunner struct{}

// Run executes cmd with merged environment variables and combined output
// capture.
func (OSRunner) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Argv) == 0 {
		return Result{}, fmt.Errorf("empty argv")
	}
	// #nosec G204 -- argv is the configured compiler or a program we just built.
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	if len(c.Env) != 0 {
		keys := make([]string, 0, len(c.Env))
		for k := range c.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		merged := cmd.Environ()
		for _, k := range keys {
			merged = append(merged, fmt.Sprintf("%s=%s", k, c.Env[k]))
		}
		cmd.Env = merged
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	res := Result{Output: out.String()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("run %q: %w", c.Argv, ctxErr)
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("run %q failed: %w", c.Argv, err)
	}
}
