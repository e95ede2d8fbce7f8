// Package workflow defines the generated document: metadata with an
// input schema of discovered placeholders, plus the templated step
// list.
package workflow

import "github.com/rahul/traceforge/internal/trace"

// InputSchemaField describes one reusable input discovered in the
// trace. Fields are created once per unique placeholder and never
// updated afterward.
type InputSchemaField struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // string, number or boolean
	Required    bool        `json:"required"`
	Example     trace.Value `json:"example"`
	Description string      `json:"description,omitempty"`
}

// Metadata carries the workflow header.
type Metadata struct {
	FeatureName  string             `json:"featureName"`
	ScenarioName string             `json:"scenarioName"`
	Source       string             `json:"source"`
	CreatedAt    string             `json:"created_at"`
	Summary      string             `json:"summary"`
	InputSchema  []InputSchemaField `json:"input_schema"`
}

// SelectorInfo is a selector with its priority resolved to an
// integer (lower is better).
type SelectorInfo struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Priority int    `json:"priority"`
}

// Step mirrors the recorded step shape with a sequential 1-based id
// and placeholder tokens substituted for matched literal values.
type Step struct {
	ID          int               `json:"id"`
	Description string            `json:"description"`
	Timestamp   float64           `json:"timestamp"`
	Output      *trace.OrderedMap `json:"output,omitempty"`
	TabID       string            `json:"tabId,omitempty"`
	Type        string            `json:"type"`
	ForceNewTab *bool             `json:"force_new_tab,omitempty"`
	ElementText string            `json:"elementText,omitempty"`
	ElementTag  string            `json:"elementTag,omitempty"`
	Attributes  *trace.OrderedMap `json:"attributes,omitempty"`
	Selector    []SelectorInfo    `json:"selector,omitempty"`
}

// Workflow is the complete output document.
type Workflow struct {
	Metadata Metadata `json:"metadata"`
	Steps    []Step   `json:"steps"`
}
