package executil

import (
	"context"
	"strings"
)

// WorkDirEnv is exported to wrapped commands with the working directory.
const WorkDirEnv = "FMTVEC_WORK_DIR"

// Wrapped runs every command through a launcher prefix, such as a container
// or VM entry command, so the program is compiled and run against another C
// runtime. "{dir}" in the prefix is replaced with the command's working
// directory:
//
//	docker run --rm -v {dir}:{dir} -w {dir} alpine-cc
type Wrapped struct {
	runner CommandRunner
	prefix []string
}

// NewWrapped returns r unchanged when prefix is empty. A nil r means OSRunner.
func NewWrapped(r CommandRunner, prefix []string) CommandRunner {
	if r == nil {
		r = OSRunner{}
	}
	if len(prefix) == 0 {
		return r
	}
	return &Wrapped{runner: r, prefix: append([]string(nil), prefix...)}
}

// Run prepends the prefix to c.Argv and exports the working directory.
func (w *Wrapped) Run(ctx context.Context, c Command) (Result, error) {
	argv := make([]string, 0, len(w.prefix)+len(c.Argv))
	for _, p := range w.prefix {
		argv = append(argv, strings.ReplaceAll(p, "{dir}", c.Dir))
	}
	argv = append(argv, c.Argv...)

	env := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		env[k] = v
	}
	if c.Dir != "" {
		env[WorkDirEnv] = c.Dir
	}
	return w.runner.Run(ctx, Command{Argv: argv, Dir: c.Dir, Env: env})
}
