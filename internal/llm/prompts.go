package llm

import (
	"fmt"
	"strings"

	"github.com/rahul/traceforge/internal/trace"
)

func summaryPrompt(featureName, scenarioName string, steps []trace.StepSummary) string {
	var lines []string
	for i, st := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s (Type: %s, Element: %s)", i+1, st.Description, st.Type, st.Element))
	}

	var b strings.Builder
	b.WriteString("Generate a comprehensive summary of this test workflow.\n")
	b.WriteString("The summary should:\n")
	b.WriteString("1. Explain the overall purpose of the test\n")
	b.WriteString("2. Describe the main actions performed\n")
	b.WriteString("3. Mention key validations or checkpoints\n")
	b.WriteString("4. Be 2-4 sentences long\n\n")
	fmt.Fprintf(&b, "Feature: %s\n", featureName)
	fmt.Fprintf(&b, "Scenario: %s\n\n", scenarioName)
	fmt.Fprintf(&b, "Steps:\n%s\n\n", strings.Join(lines, "\n"))
	b.WriteString("Provide ONLY the summary, no additional text or headings.")
	return b.String()
}
