// Package fvmanifest builds regression baselines for generated programs.
//
// A manifest records the target, a per-case summary of the vectors it was
// generated from, and the SHA-256 of the generated source. It is
// serialized as RFC 8785 canonical JSON followed by exactly one LF, so a
// baseline committed to a repository is byte-stable:
//
//	manifest = JCS(value) || 0x0A
//
// Check compares a stored baseline with a freshly built one and reports
// the cases that drifted.
package fvmanifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/fmtvec/fverr"
	"github.com/lattice-substrate/fmtvec/fvgen"
	"github.com/lattice-substrate/fmtvec/fvtable"
)

// Version identifies the manifest layout.
const Version = "fmtvec-manifest/1"

// Manifest is the decoded form of a baseline.
type Manifest struct {
	Version       string `json:"version"`
	Target        string `json:"target"`
	Family        string `json:"family"`
	ProgramSHA256 string `json:"program_sha256"`
	Cases         []Case `json:"cases"`
}

// Case summarizes one vector. Byte strings that are not valid UTF-8 are
// recorded with U+FFFD substitutions; the program digest still covers them
// exactly.
type Case struct {
	Case   int      `json:"case"`
	Format string   `json:"format"`
	Input  string   `json:"input,omitempty"`
	Output string   `json:"output,omitempty"`
	Args   int      `json:"args,omitempty"`
	Counts []int    `json:"counts,omitempty"`
	Return string   `json:"return,omitempty"`
	Writes []string `json:"writes,omitempty"`
}

// Build generates the program for target and returns its enveloped
// canonical manifest.
func Build(suite fvtable.Suite, target fvgen.Target) ([]byte, error) {
	program, err := fvgen.Generate(suite, target)
	if err != nil {
		return nil, err
	}
	m := Manifest{
		Version:       Version,
		Target:        target.String(),
		Family:        target.Family().String(),
		ProgramSHA256: Digest(program),
		Cases:         summarize(suite, target.Family()),
	}
	return Encode(m)
}

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func summarize(suite fvtable.Suite, f fvtable.Family) []Case {
	cases := make([]Case, 0, suite.Len(f))
	if f == fvtable.Scan {
		for _, v := range suite.Scan {
			c := Case{Case: v.Case, Format: v.Format, Input: v.Input, Return: v.Return.String()}
			for _, w := range v.Writes {
				c.Writes = append(c.Writes, w.TagName())
			}
			cases = append(cases, c)
		}
		return cases
	}
	for _, v := range suite.Print {
		cases = append(cases, Case{
			Case:   v.Case,
			Format: v.Format,
			Output: v.Output,
			Args:   len(v.Args),
			Counts: v.Counts,
		})
	}
	return cases
}

// Encode canonicalizes m and appends the trailing LF.
func Encode(m Manifest) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fverr.Wrap(fverr.InternalError, -1, "marshal manifest", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fverr.Wrap(fverr.InternalError, -1, "canonicalize manifest", err)
	}
	return Envelope(canonical), nil
}

// Envelope appends the single trailing LF.
func Envelope(body []byte) []byte {
	out := make([]byte, len(body)+1)
	copy(out, body)
	out[len(body)] = '\n'
	return out
}

// Decode verifies the envelope and canonical form of data and decodes it.
func Decode(data []byte) (Manifest, error) {
	body, err := checkEnvelope(data)
	if err != nil {
		return Manifest{}, err
	}
	canonical, err := jsoncanonicalizer.Transform(body)
	if err != nil {
		return Manifest{}, fverr.Wrap(fverr.BaselineDrift, -1, "baseline is not valid JSON", err)
	}
	if !bytes.Equal(body, canonical) {
		return Manifest{}, fverr.New(fverr.BaselineDrift, -1, "baseline is not in canonical form")
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return Manifest{}, fverr.Wrap(fverr.BaselineDrift, -1, "decode baseline", err)
	}
	if m.Version != Version {
		return Manifest{}, fverr.Newf(fverr.BaselineDrift, -1, "baseline version %q, want %q", m.Version, Version)
	}
	return m, nil
}

func checkEnvelope(data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, fverr.New(fverr.BaselineDrift, -1, "baseline is empty")
	case data[len(data)-1] != '\n':
		return nil, fverr.New(fverr.BaselineDrift, -1, "baseline is missing its trailing LF")
	case len(data) >= 2 && data[len(data)-2] == '\n':
		return nil, fverr.New(fverr.BaselineDrift, -1, "baseline has multiple trailing LFs")
	case bytes.IndexByte(data, '\r') >= 0:
		return nil, fverr.New(fverr.BaselineDrift, -1, "baseline contains CR")
	}
	return data[:len(data)-1], nil
}

// Check compares a stored baseline with a current manifest. Identical
// bytes pass. Otherwise the returned BASELINE_DRIFT error lists what
// changed, case by case.
func Check(baseline, current []byte) error {
	if bytes.Equal(baseline, current) {
		return nil
	}
	old, err := Decode(baseline)
	if err != nil {
		return err
	}
	cur, err := Decode(current)
	if err != nil {
		return fverr.Wrap(fverr.InternalError, -1, "current manifest", err)
	}
	diffs := Diff(old, cur)
	if len(diffs) == 0 {
		return nil
	}
	return fverr.Newf(fverr.BaselineDrift, -1, "%d differences: %s", len(diffs), strings.Join(diffs, "; "))
}

// Diff lists the differences between two manifests in a stable order.
func Diff(old, cur Manifest) []string {
	var diffs []string
	if old.Target != cur.Target {
		diffs = append(diffs, fmt.Sprintf("target %s -> %s", old.Target, cur.Target))
	}
	oldCases := byIndex(old.Cases)
	curCases := byIndex(cur.Cases)
	indices := make([]int, 0, len(oldCases)+len(curCases))
	for i := range oldCases {
		indices = append(indices, i)
	}
	for i := range curCases {
		if _, ok := oldCases[i]; !ok {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	for _, i := range indices {
		o, inOld := oldCases[i]
		c, inCur := curCases[i]
		switch {
		case !inCur:
			diffs = append(diffs, fmt.Sprintf("case %d removed", i))
		case !inOld:
			diffs = append(diffs, fmt.Sprintf("case %d added", i))
		case !sameCase(o, c):
			diffs = append(diffs, fmt.Sprintf("case %d changed", i))
		}
	}
	if len(diffs) == 0 && old.ProgramSHA256 != cur.ProgramSHA256 {
		diffs = append(diffs, "program digest changed")
	}
	return diffs
}

func byIndex(cases []Case) map[int]Case {
	m := make(map[int]Case, len(cases))
	for _, c := range cases {
		m[c.Case] = c
	}
	return m
}

func sameCase(a, b Case) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
