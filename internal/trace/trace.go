// Package trace models a recorded browser test execution: an
// ordered list of UI steps with their selectors, element data and
// navigation output. Traces are read-only once parsed; downstream
// stages derive new records instead of mutating them.
package trace

// Selector locates the element a step acted on. Priority is kept as
// the recorder's numeric string; conversion to int happens on the
// output side.
type Selector struct {
	Type     string
	Value    string
	Priority string
}

// Step is one recorded browser action.
type Step struct {
	Description string
	Type        string
	Timestamp   float64
	TabID       string
	ForceNewTab *bool
	ElementText string
	ElementTag  string
	Attributes  *OrderedMap
	Selector    []Selector
	Output      *OrderedMap
}

// Trace is a full recorded execution. Step order is significant and
// preserved all the way into the generated workflow.
type Trace struct {
	FeatureName  string
	ScenarioName string
	Steps        []Step
}

// StepSummary is the condensed step view handed to the
// text-generation collaborator.
type StepSummary struct {
	Type        string
	Description string
	Element     string
}

// StepSummaries condenses every step to its type, description and
// element text, substituting "N/A" for steps without an element.
func (t *Trace) StepSummaries() []StepSummary {
	summaries := make([]StepSummary, 0, len(t.Steps))
	for _, st := range t.Steps {
		element := st.ElementText
		if element == "" {
			element = "N/A"
		}
		summaries = append(summaries, StepSummary{
			Type:        st.Type,
			Description: st.Description,
			Element:     element,
		})
	}
	return summaries
}

// StartingURL returns the URL of the first navigation step, or ""
// if the trace never navigated.
func (t *Trace) StartingURL() string {
	for _, st := range t.Steps {
		if st.Type != "navigate" || st.Output == nil {
			continue
		}
		if v, ok := st.Output.Get("url"); ok && v.Kind() == KindString {
			return v.Str()
		}
	}
	return ""
}
