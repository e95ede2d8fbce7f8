package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInputNotFound marks a missing input file.
	ErrInputNotFound = errors.New("input file not found")
	// ErrMalformedInput marks a JSON parse or schema validation
	// failure. The wrapped message carries the underlying detail.
	ErrMalformedInput = errors.New("invalid test execution")
)

// DefaultPriority is assigned to selectors whose priority is absent
// or not a valid integer. Lower is better.
const DefaultPriority = 999

// Load reads and validates a test execution JSON file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

type rawSelector struct {
	Type     *string `json:"type"`
	Value    *string `json:"value"`
	Priority *string `json:"priority"`
}

type rawStep struct {
	Description *string       `json:"description"`
	Output      *OrderedMap   `json:"output"`
	Timestamp   *float64      `json:"timestamp"`
	TabID       *string       `json:"tabId"`
	Type        *string       `json:"type"`
	ForceNewTab *bool         `json:"force_new_tab"`
	ElementText *string       `json:"elementText"`
	ElementTag  *string       `json:"elementTag"`
	Attributes  *OrderedMap   `json:"attributes"`
	Selector    []rawSelector `json:"selector"`
}

type rawTrace struct {
	FeatureName  *string    `json:"featureName"`
	ScenarioName *string    `json:"scenarioName"`
	Steps        *[]rawStep `json:"steps"`
}

// Parse decodes and validates a test execution document. Any decode
// or validation failure is reported as ErrMalformedInput; a partial
// trace is never returned.
func Parse(data []byte) (*Trace, error) {
	var raw rawTrace
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if raw.FeatureName == nil {
		return nil, fmt.Errorf("%w: missing featureName", ErrMalformedInput)
	}
	if raw.ScenarioName == nil {
		return nil, fmt.Errorf("%w: missing scenarioName", ErrMalformedInput)
	}
	if raw.Steps == nil {
		return nil, fmt.Errorf("%w: missing steps", ErrMalformedInput)
	}

	t := &Trace{
		FeatureName:  *raw.FeatureName,
		ScenarioName: *raw.ScenarioName,
		Steps:        make([]Step, 0, len(*raw.Steps)),
	}

	for i, rs := range *raw.Steps {
		st, err := parseStep(rs)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrMalformedInput, i, err)
		}
		t.Steps = append(t.Steps, st)
	}

	return t, nil
}

func parseStep(rs rawStep) (Step, error) {
	if rs.Description == nil {
		return Step{}, errors.New("missing description")
	}
	if rs.Type == nil {
		return Step{}, errors.New("missing type")
	}
	if rs.Timestamp == nil {
		return Step{}, errors.New("missing timestamp")
	}

	st := Step{
		Description: *rs.Description,
		Type:        *rs.Type,
		Timestamp:   *rs.Timestamp,
		ForceNewTab: rs.ForceNewTab,
		Attributes:  rs.Attributes,
		Output:      rs.Output,
	}
	if rs.TabID != nil {
		st.TabID = *rs.TabID
	}
	if rs.ElementText != nil {
		st.ElementText = *rs.ElementText
	}
	if rs.ElementTag != nil {
		st.ElementTag = *rs.ElementTag
	}

	for j, sel := range rs.Selector {
		if sel.Type == nil || sel.Value == nil {
			return Step{}, fmt.Errorf("selector %d: missing type or value", j)
		}
		s := Selector{Type: *sel.Type, Value: *sel.Value}
		if sel.Priority != nil {
			s.Priority = *sel.Priority
		}
		st.Selector = append(st.Selector, s)
	}

	return st, nil
}

// ParsePriority converts a recorded priority string to an int,
// falling back to DefaultPriority on absence or garbage.
func ParsePriority(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultPriority
	}
	return n
}

// NormalizedSelector is a selector with its priority resolved to an
// integer.
type NormalizedSelector struct {
	Type     string
	Value    string
	Priority int
}

// NormalizeSelectors resolves priorities and sorts ascending, best
// selector first.
func NormalizeSelectors(sels []Selector) []NormalizedSelector {
	out := make([]NormalizedSelector, 0, len(sels))
	for _, sel := range sels {
		out = append(out, NormalizedSelector{
			Type:     sel.Type,
			Value:    sel.Value,
			Priority: ParsePriority(sel.Priority),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
