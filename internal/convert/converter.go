// Package convert assembles the final workflow document: it parses
// the trace, derives the input schema from discovered placeholders,
// templates every step and attaches the generated summary.
package convert

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/rahul/traceforge/internal/observability"
	"github.com/rahul/traceforge/internal/placeholder"
	"github.com/rahul/traceforge/internal/templating"
	"github.com/rahul/traceforge/internal/trace"
	"github.com/rahul/traceforge/internal/workflow"
)

// Summarizer produces the free-text workflow summary. The converter
// only ever assigns its output to metadata.summary.
type Summarizer interface {
	WorkflowSummary(ctx context.Context, featureName, scenarioName string, steps []trace.StepSummary) (string, error)
}

// Converter turns a recorded test execution into a parameterized
// workflow.
type Converter struct {
	Summarizer Summarizer
	Logger     *observability.Logger
}

func New(s Summarizer, logger *observability.Logger) *Converter {
	return &Converter{Summarizer: s, Logger: logger}
}

// Convert loads the trace at inputPath and builds the workflow. No
// partial result is ever returned: any parse, validation or summary
// failure aborts the whole conversion.
func (c *Converter) Convert(ctx context.Context, inputPath string) (*workflow.Workflow, error) {
	t, err := trace.Load(inputPath)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(inputPath)
	log.Printf("Loaded %d steps from %s", len(t.Steps), inputPath)
	if c.Logger != nil {
		c.Logger.LogParse(source, len(t.Steps), t.StartingURL())
	}

	schema := c.buildInputSchema(source, t)
	steps := c.templateSteps(source, t)

	log.Printf("Generating workflow summary...")
	summary, err := c.Summarizer.WorkflowSummary(ctx, t.FeatureName, t.ScenarioName, t.StepSummaries())
	if err != nil {
		return nil, fmt.Errorf("workflow summary: %w", err)
	}

	return &workflow.Workflow{
		Metadata: workflow.Metadata{
			FeatureName:  t.FeatureName,
			ScenarioName: t.ScenarioName,
			Source:       source,
			CreatedAt:    time.Now().Format(time.RFC3339),
			Summary:      summary,
			InputSchema:  schema,
		},
		Steps: steps,
	}, nil
}

// buildInputSchema scans the whole trace for placeholders and
// resolves one example value per unique token, in first-seen order.
func (c *Converter) buildInputSchema(source string, t *trace.Trace) []workflow.InputSchemaField {
	occurrences := placeholder.ScanTrace(t)
	schema := make([]workflow.InputSchemaField, 0, len(occurrences))
	names := make([]string, 0, len(occurrences))

	for _, occ := range occurrences {
		example := placeholder.ResolveExample(occ.Name, t)
		schema = append(schema, workflow.InputSchemaField{
			Name:        occ.Name,
			Type:        placeholder.InferType(example),
			Required:    true,
			Example:     example,
			Description: "Parameter for " + occ.Name,
		})
		names = append(names, occ.Name)
	}

	if c.Logger != nil {
		c.Logger.LogSchema(source, names)
	}
	return schema
}

// templateSteps runs the templating engine over every step with the
// placeholders found in that step's own description, assigning
// strictly sequential ids starting at 1.
func (c *Converter) templateSteps(source string, t *trace.Trace) []workflow.Step {
	steps := make([]workflow.Step, 0, len(t.Steps))
	for i, st := range t.Steps {
		tokens := placeholder.Scan(st.Description)
		ws := templating.TemplateStep(st, tokens)
		ws.ID = i + 1
		if c.Logger != nil {
			c.Logger.LogStep(source, ws.ID, tokens)
		}
		steps = append(steps, ws)
	}
	return steps
}
