package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PatchAction is what a rule does to a line containing its marker.
type PatchAction string

const (
	// PatchReplace substitutes every occurrence of the marker on the line.
	PatchReplace PatchAction = "replace"
	// PatchInsertBefore emits one extra line ahead of the matched line.
	PatchInsertBefore PatchAction = "insert_before"
)

// PatchRule is a single line-local rewrite keyed on a marker substring.
type PatchRule struct {
	Name        string
	Marker      string
	Action      PatchAction
	Replacement string
	Line        string
}

func (r PatchRule) Matches(line string) bool {
	return strings.Contains(line, r.Marker)
}

// Apply rewrites line, which carries its own terminator if it has one.
func (r PatchRule) Apply(line string) string {
	switch r.Action {
	case PatchReplace:
		return strings.ReplaceAll(line, r.Marker, r.Replacement)
	case PatchInsertBefore:
		return r.Line + lineEnding(line) + line
	default:
		return line
	}
}

func (r PatchRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Marker == "" {
		return fmt.Errorf("rule %s: marker is required", r.Name)
	}
	switch r.Action {
	case PatchReplace:
		if r.Replacement == "" {
			return fmt.Errorf("rule %s: replacement is required", r.Name)
		}
		if r.Replacement == r.Marker {
			return fmt.Errorf("rule %s: replacement equals marker", r.Name)
		}
	case PatchInsertBefore:
		if strings.TrimSpace(r.Line) == "" {
			return fmt.Errorf("rule %s: line is required", r.Name)
		}
		if strings.ContainsAny(r.Line, "\r\n") {
			return fmt.Errorf("rule %s: line must be a single line", r.Name)
		}
	default:
		return fmt.Errorf("rule %s: unsupported action %q", r.Name, r.Action)
	}
	return nil
}

// PatchSet is an ordered rule list; the first matching rule wins for each line.
type PatchSet []PatchRule

func (s PatchSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("no patch rules: %w", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(s))
	for _, r := range s {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule %s: %w", r.Name, ErrInvalidConfig)
		}
		seen[r.Name] = true
	}
	return nil
}

// ApplyLine returns the text to emit for line and the index of the rule that
// rewrote it, or -1 when the line passes through unchanged.
func (s PatchSet) ApplyLine(line string) (string, int) {
	for i, r := range s {
		if r.Matches(line) {
			return r.Apply(line), i
		}
	}
	return line, -1
}

// Rewrite copies r to w line by line, applying the set to every line. Line
// terminators are preserved, so a document no rule matches is copied
// byte for byte.
func (s PatchSet) Rewrite(r io.Reader, w io.Writer) (PatchReport, error) {
	rep := NewPatchReport("")
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			out, idx := s.ApplyLine(line)
			rep.Record(s, idx)
			if _, werr := bw.WriteString(out); werr != nil {
				return rep, werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rep, err
		}
	}
	return rep, bw.Flush()
}

// PatchReport counts how often each rule fired on one file.
type PatchReport struct {
	Target string
	Lines  int
	Hits   map[string]int
}

func NewPatchReport(target string) PatchReport {
	return PatchReport{Target: target, Hits: map[string]int{}}
}

// Record accounts for one input line rewritten by rule idx (-1 for none).
func (r *PatchReport) Record(s PatchSet, idx int) {
	r.Lines++
	if idx >= 0 && idx < len(s) {
		r.Hits[s[idx].Name]++
	}
}

// Missed lists the rules of s that never fired, in rule order.
func (r PatchReport) Missed(s PatchSet) []string {
	var out []string
	for _, rule := range s {
		if r.Hits[rule.Name] == 0 {
			out = append(out, rule.Name)
		}
	}
	return out
}

func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
