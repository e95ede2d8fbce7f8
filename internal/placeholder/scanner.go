// Package placeholder discovers <name>-style variables in step text
// and infers example values and types for them from the surrounding
// execution data.
package placeholder

import (
	"regexp"

	"github.com/rahul/traceforge/internal/trace"
)

// Non-greedy: first '<', first following '>'. A token containing a
// literal '>' cannot be captured.
var tokenPattern = regexp.MustCompile(`<(.*?)>`)

// Scan extracts placeholder names from one text value. Names are
// unique (exact, case-sensitive match) and returned in first-seen
// order. Empty input yields nil.
func Scan(text string) []string {
	if text == "" {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Occurrence records a placeholder name and the first text it was
// seen in.
type Occurrence struct {
	Name   string
	Source string
}

// ScanTrace scans the feature name, scenario name and then every
// step description in order. Each placeholder is reported once, at
// its first occurrence; later duplicates are ignored.
func ScanTrace(t *trace.Trace) []Occurrence {
	texts := make([]string, 0, len(t.Steps)+2)
	texts = append(texts, t.FeatureName, t.ScenarioName)
	for _, st := range t.Steps {
		texts = append(texts, st.Description)
	}

	var occurrences []Occurrence
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, name := range Scan(text) {
			if seen[name] {
				continue
			}
			seen[name] = true
			occurrences = append(occurrences, Occurrence{Name: name, Source: text})
		}
	}
	return occurrences
}
