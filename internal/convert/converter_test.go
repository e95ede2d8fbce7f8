package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rahul/traceforge/internal/observability"
	"github.com/rahul/traceforge/internal/trace"
)

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) WorkflowSummary(ctx context.Context, featureName, scenarioName string, steps []trace.StepSummary) (string, error) {
	f.calls++
	return f.summary, f.err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_execution.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert_EndToEnd(t *testing.T) {
	input := `{
		"featureName": "Search",
		"scenarioName": "Find <phone>",
		"steps": [
			{
				"description": "Navigate to <url>",
				"type": "navigate",
				"timestamp": 1.0,
				"output": {"url": "https://shop.test", "final_url": "https://shop.test/x"}
			}
		]
	}`
	path := writeInput(t, input)

	summarizer := &fakeSummarizer{summary: "Opens the shop."}
	converter := New(summarizer, observability.NewLogger())

	wf, err := converter.Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if wf.Metadata.FeatureName != "Search" || wf.Metadata.ScenarioName != "Find <phone>" {
		t.Errorf("metadata mismatch: %+v", wf.Metadata)
	}
	if wf.Metadata.Source != "test_execution.json" {
		t.Errorf("source = %q", wf.Metadata.Source)
	}
	if wf.Metadata.Summary != "Opens the shop." {
		t.Errorf("summary = %q", wf.Metadata.Summary)
	}
	if wf.Metadata.CreatedAt == "" {
		t.Error("created_at not set")
	}
	if summarizer.calls != 1 {
		t.Errorf("summarizer called %d times", summarizer.calls)
	}

	schema := wf.Metadata.InputSchema
	if len(schema) != 2 {
		t.Fatalf("expected 2 schema fields, got %d: %+v", len(schema), schema)
	}
	phone, url := schema[0], schema[1]
	if phone.Name != "phone" || phone.Example.Str() != "example_phone" || phone.Type != "string" || !phone.Required {
		t.Errorf("phone field = %+v", phone)
	}
	if phone.Description != "Parameter for phone" {
		t.Errorf("phone description = %q", phone.Description)
	}
	if url.Name != "url" || url.Example.Str() != "https://shop.test" || url.Type != "string" {
		t.Errorf("url field = %+v", url)
	}

	if len(wf.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(wf.Steps))
	}
	step := wf.Steps[0]
	if step.ID != 1 {
		t.Errorf("id = %d, want 1", step.ID)
	}
	if v, ok := step.Output.Get("url"); !ok || v.Str() != "<url>" {
		t.Errorf("templated output url = %v", v)
	}
	if _, ok := step.Output.Get("final_url"); ok {
		t.Error("final_url leaked into templated output")
	}
	if step.Output.Len() != 1 {
		t.Errorf("output keys = %v", step.Output.Keys())
	}
}

func TestConvert_SequentialIDs(t *testing.T) {
	input := `{
		"featureName": "Plain",
		"scenarioName": "No placeholders",
		"steps": [
			{"description": "one", "type": "click", "timestamp": 1.0},
			{"description": "two", "type": "click", "timestamp": 2.0},
			{"description": "three", "type": "click", "timestamp": 3.0}
		]
	}`
	path := writeInput(t, input)

	wf, err := New(&fakeSummarizer{summary: "s"}, nil).Convert(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	for i, step := range wf.Steps {
		if step.ID != i+1 {
			t.Errorf("step %d has id %d", i, step.ID)
		}
	}
	if len(wf.Metadata.InputSchema) != 0 {
		t.Errorf("expected empty schema, got %+v", wf.Metadata.InputSchema)
	}
}

func TestConvert_InputNotFound(t *testing.T) {
	converter := New(&fakeSummarizer{}, nil)
	_, err := converter.Convert(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, trace.ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got %v", err)
	}
}

func TestConvert_SummarizerFailure(t *testing.T) {
	path := writeInput(t, `{"featureName": "f", "scenarioName": "s", "steps": []}`)
	converter := New(&fakeSummarizer{err: errors.New("model unavailable")}, nil)
	if _, err := converter.Convert(context.Background(), path); err == nil {
		t.Error("expected error when summarizer fails")
	}
}
