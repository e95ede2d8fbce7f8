// Package replay binds concrete input values back onto a
// parameterized workflow and drives the bound steps in a browser.
package replay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rahul/traceforge/internal/trace"
	"github.com/rahul/traceforge/internal/workflow"
)

// ErrMissingInput marks a required workflow input with no bound
// value. Binding fails before any browser action runs.
var ErrMissingInput = errors.New("missing input value")

// Bind substitutes input values for every placeholder token in the
// workflow and returns a new document; the original is untouched.
// Every field in the input schema must be bound.
func Bind(w *workflow.Workflow, inputs map[string]string) (*workflow.Workflow, error) {
	var pairs []string
	for _, field := range w.Metadata.InputSchema {
		value, ok := inputs[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, field.Name)
		}
		pairs = append(pairs, "<"+field.Name+">", value)
	}
	r := strings.NewReplacer(pairs...)

	bound := &workflow.Workflow{
		Metadata: w.Metadata,
		Steps:    make([]workflow.Step, 0, len(w.Steps)),
	}
	bound.Metadata.FeatureName = r.Replace(w.Metadata.FeatureName)
	bound.Metadata.ScenarioName = r.Replace(w.Metadata.ScenarioName)

	for _, st := range w.Steps {
		bound.Steps = append(bound.Steps, bindStep(st, r))
	}
	return bound, nil
}

func bindStep(st workflow.Step, r *strings.Replacer) workflow.Step {
	out := st
	out.Description = r.Replace(st.Description)
	out.ElementText = r.Replace(st.ElementText)
	out.Output = bindMap(st.Output, r)
	out.Attributes = bindMap(st.Attributes, r)

	out.Selector = nil
	for _, sel := range st.Selector {
		sel.Value = r.Replace(sel.Value)
		out.Selector = append(out.Selector, sel)
	}
	return out
}

func bindMap(m *trace.OrderedMap, r *strings.Replacer) *trace.OrderedMap {
	if m == nil {
		return nil
	}
	out := m.Clone()
	for _, key := range out.Keys() {
		v, _ := out.Get(key)
		if v.Kind() != trace.KindString {
			continue
		}
		out.Set(key, trace.StringValue(r.Replace(v.Str())))
	}
	return out
}
