package placeholder

import (
	"strings"

	"github.com/rahul/traceforge/internal/trace"
)

// exampleRule binds a set of placeholder names to a strategy for
// finding a representative value in the trace. Rules are tried in
// declaration order; the first rule that both claims the name and
// finds a value wins.
type exampleRule struct {
	names map[string]bool
	find  func(t *trace.Trace) (trace.Value, bool)
}

// Brand keywords that identify product-like element text.
var brandKeywords = []string{"iphone", "samsung", "pixel"}

var exampleRules = []exampleRule{
	{names: nameSet("url", "link", "website"), find: firstOutputURL},
	{names: nameSet("phone", "product", "model", "item"), find: firstBrandElementText},
	{names: nameSet("button", "link", "text"), find: firstElementText},
}

func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func firstOutputURL(t *trace.Trace) (trace.Value, bool) {
	for _, st := range t.Steps {
		if st.Output == nil {
			continue
		}
		if v, ok := st.Output.Get("url"); ok && !v.IsNull() {
			return v, true
		}
	}
	return trace.Value{}, false
}

func firstBrandElementText(t *trace.Trace) (trace.Value, bool) {
	for _, st := range t.Steps {
		if st.ElementText == "" {
			continue
		}
		lower := strings.ToLower(st.ElementText)
		for _, kw := range brandKeywords {
			if strings.Contains(lower, kw) {
				return trace.StringValue(st.ElementText), true
			}
		}
	}
	return trace.Value{}, false
}

func firstElementText(t *trace.Trace) (trace.Value, bool) {
	for _, st := range t.Steps {
		if st.ElementText != "" {
			return trace.StringValue(st.ElementText), true
		}
	}
	return trace.Value{}, false
}

// ResolveExample infers an example value for a placeholder from the
// trace's step data. Matching is by the lowercased name; a name
// claimed by an earlier rule that finds nothing can still be picked
// up by a later rule ("link" resolves via element text when no
// navigation output exists). Placeholders no rule can resolve get
// the deterministic fallback "example_<name>".
func ResolveExample(name string, t *trace.Trace) trace.Value {
	lower := strings.ToLower(name)
	for _, rule := range exampleRules {
		if !rule.names[lower] {
			continue
		}
		if v, ok := rule.find(t); ok {
			return v
		}
	}
	return trace.StringValue("example_" + name)
}

// InferType maps a resolved example to its coarse schema type.
// Boolean is checked before number so bool-typed values never leak
// through as numeric.
func InferType(v trace.Value) string {
	switch v.Kind() {
	case trace.KindBool:
		return "boolean"
	case trace.KindNumber:
		return "number"
	default:
		return "string"
	}
}
