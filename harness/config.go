package harness

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xyproto/env/v2"
)

// Defaults used when the environment does not override them.
const (
	DefaultCC             = "cc"
	DefaultCFlags         = "-std=gnu99 -O0 -w"
	DefaultTimeoutSeconds = 60
)

// Config controls how a generated program is compiled and run.
type Config struct {
	CC      string
	CFlags  []string
	Timeout time.Duration // covers compilation and the run together
	Keep    bool          // keep the work directory for inspection
	WorkDir string        // parent of the work directory, "" for the OS default
	// RunnerPrefix launches every command through another environment,
	// see executil.Wrapped.
	RunnerPrefix []string
	Log          logrus.FieldLogger
}

// ConfigFromEnv reads FMTVEC_CC, FMTVEC_CFLAGS, FMTVEC_TIMEOUT_SECONDS,
// FMTVEC_KEEP and FMTVEC_RUNNER_PREFIX as they are at the time of the call.
func ConfigFromEnv() Config {
	env.Load()
	timeout := env.Int("FMTVEC_TIMEOUT_SECONDS", DefaultTimeoutSeconds)
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}
	return Config{
		CC:      env.Str("FMTVEC_CC", DefaultCC),
		CFlags:  strings.Fields(env.Str("FMTVEC_CFLAGS", DefaultCFlags)),
		Timeout: time.Duration(timeout) * time.Second,
		Keep:    env.Bool("FMTVEC_KEEP"),

		RunnerPrefix: strings.Fields(env.Str("FMTVEC_RUNNER_PREFIX")),
	}
}

func (c Config) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
