package harness

import (
	"bufio"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvmanifest"
)

// ReportSchemaVersion identifies the report layout.
const ReportSchemaVersion = "fmtvec-report/1"

// Report is the evidence of one compile-and-run. It carries no timestamps,
// so two runs of the same program on the same host produce the same report.
type Report struct {
	SchemaVersion string    `json:"schema_version"`
	Target        string    `json:"target"`
	ProgramSHA256 string    `json:"program_sha256"`
	Compiler      []string  `json:"compiler"`
	Platform      Platform  `json:"platform"`
	ExitCode      int       `json:"exit_code"`
	Passed        bool      `json:"passed"`
	FailedCases   []int     `json:"failed_cases"`
	Failures      []Failure `json:"failures,omitempty"`
	Output        string    `json:"output,omitempty"`
}

// Failure is one "failed test N: what" line printed by the program.
type Failure struct {
	Case int    `json:"case"`
	What string `json:"what"`
}

// Platform describes the host the program ran on.
type Platform struct {
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Kernel  string `json:"kernel,omitempty"`
	Release string `json:"release,omitempty"`
	Machine string `json:"machine,omitempty"`
}

var failureLine = regexp.MustCompile(`^failed test (\d+): (.*)$`)

// ParseFailures extracts the failure lines from program output. FailedCases
// lists each case index once, in first-seen order.
func ParseFailures(output string) ([]Failure, []int) {
	var (
		failures []Failure
		cases    = []int{}
		seen     = map[int]bool{}
	)
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		m := failureLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		failures = append(failures, Failure{Case: n, What: m[2]})
		if !seen[n] {
			seen[n] = true
			cases = append(cases, n)
		}
	}
	return failures, cases
}

// JSON renders the report as indented JSON with a trailing LF.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fverr.Wrap(fverr.InternalError, -1, "marshal report", err)
	}
	return append(data, '\n'), nil
}

// WriteReport writes the JSON report to path atomically.
func WriteReport(path string, r *Report) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	return fvmanifest.WriteAtomic(path, data)
}

// Err classifies a failing run as CONFORMANCE_FAILURE. It returns nil for a
// passing run.
func (r *Report) Err() error {
	if r.Passed {
		return nil
	}
	if len(r.FailedCases) == 0 {
		return fverr.Newf(fverr.ConformanceFailure, -1, "%s program exited with status %d", r.Target, r.ExitCode)
	}
	return fverr.Newf(fverr.ConformanceFailure, -1, "%s failed %d cases: %s",
		r.Target, len(r.FailedCases), joinInts(r.FailedCases))
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
