// Package templating rewrites recorded step fields, substituting
// placeholder tokens for the concrete values they stand for. The
// rules are keyword heuristics: a field that should have been
// parameterized but matches nothing simply passes through unchanged.
package templating

import (
	"regexp"
	"strings"

	"github.com/rahul/traceforge/internal/trace"
	"github.com/rahul/traceforge/internal/workflow"
)

// Keyword tables deciding which placeholders may claim which fields.
// Element text additionally honors "label"; selectors do not.
var (
	elementTextKeywords = []string{"button", "text", "element", "link", "label"}
	selectorKeywords    = []string{"button", "text", "element", "link"}
)

var quotedPattern = regexp.MustCompile(`"([^"]*)"`)

// TemplateStep derives the output-side step record from a recorded
// step and the placeholders found in its own description. The input
// step is never modified. The returned step has no id; the assembler
// numbers steps sequentially.
func TemplateStep(st trace.Step, tokens []string) workflow.Step {
	out := workflow.Step{
		Description: st.Description,
		Timestamp:   st.Timestamp,
		TabID:       st.TabID,
		Type:        st.Type,
		ForceNewTab: st.ForceNewTab,
		ElementText: st.ElementText,
		ElementTag:  st.ElementTag,
	}

	out.Output = templateMap(st.Output, tokens, true)
	out.Attributes = templateMap(st.Attributes, tokens, false)

	if st.ElementText != "" {
		if tok, ok := firstKeywordToken(tokens, elementTextKeywords); ok {
			// Coarse on purpose: the token claims the whole element
			// text without checking that the text contains its value.
			out.ElementText = placeholderFor(tok)
		}
	}

	for _, sel := range st.Selector {
		out.Selector = append(out.Selector, templateSelector(sel, tokens))
	}

	return out
}

func placeholderFor(token string) string {
	return "<" + token + ">"
}

// templateMap copies a field map, optionally stripping final_url,
// and replaces the value of any key whose lowercased name equals a
// token exactly or equals the token with underscores removed.
func templateMap(m *trace.OrderedMap, tokens []string, stripFinalURL bool) *trace.OrderedMap {
	if m == nil {
		return nil
	}
	out := m.Clone()
	if stripFinalURL {
		out.Delete("final_url")
	}
	for _, key := range out.Keys() {
		lower := strings.ToLower(key)
		for _, tok := range tokens {
			if lower == tok || lower == strings.ReplaceAll(tok, "_", "") {
				out.Set(key, trace.StringValue(placeholderFor(tok)))
				break
			}
		}
	}
	return out
}

// templateSelector resolves the selector priority and, when a token
// carries an element keyword, rewrites the contents of the first
// quoted substring in the selector value. Only the first replacement
// across the token loop is applied; selectors with several quoted
// segments keep the rest untouched.
func templateSelector(sel trace.Selector, tokens []string) workflow.SelectorInfo {
	info := workflow.SelectorInfo{
		Type:     sel.Type,
		Value:    sel.Value,
		Priority: trace.ParsePriority(sel.Priority),
	}
	for _, tok := range tokens {
		if !containsAny(strings.ToLower(tok), selectorKeywords) {
			continue
		}
		loc := quotedPattern.FindStringSubmatchIndex(sel.Value)
		if loc == nil {
			continue
		}
		info.Value = sel.Value[:loc[2]] + placeholderFor(tok) + sel.Value[loc[3]:]
		break
	}
	return info
}

func firstKeywordToken(tokens, keywords []string) (string, bool) {
	for _, tok := range tokens {
		if containsAny(strings.ToLower(tok), keywords) {
			return tok, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
