package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rahul/traceforge/internal/trace"
)

func sampleWorkflow() *Workflow {
	output := trace.NewOrderedMap()
	output.Set("url", trace.StringValue("<url>"))

	return &Workflow{
		Metadata: Metadata{
			FeatureName:  "Search",
			ScenarioName: "Find café",
			Source:       "test_execution.json",
			CreatedAt:    "2026-08-24T10:00:00Z",
			Summary:      "Navigates to the shop and searches.",
			InputSchema: []InputSchemaField{
				{Name: "url", Type: "string", Required: true, Example: trace.StringValue("https://shop.test"), Description: "Parameter for url"},
			},
		},
		Steps: []Step{
			{ID: 1, Description: "Navigate to <url>", Timestamp: 1.0, Type: "navigate", Output: output},
		},
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "workflow.json")

	if err := Save(sampleWorkflow(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "{\n  \"metadata\"") {
		t.Errorf("output not 2-space indented:\n%s", text[:40])
	}
	if !strings.Contains(text, `"<url>"`) {
		t.Error("placeholder tokens must not be HTML-escaped")
	}
	if strings.Contains(text, `\u003c`) {
		t.Error("found escaped angle bracket in output")
	}
	if !strings.Contains(text, "Find café") {
		t.Error("non-ASCII text must survive verbatim")
	}

	// No staging file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflow.json")
	want := sampleWorkflow()

	if err := Save(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Metadata.FeatureName != want.Metadata.FeatureName {
		t.Errorf("featureName = %q", got.Metadata.FeatureName)
	}
	if len(got.Steps) != 1 || got.Steps[0].ID != 1 {
		t.Errorf("steps mismatch: %+v", got.Steps)
	}
	if v, ok := got.Steps[0].Output.Get("url"); !ok || v.Str() != "<url>" {
		t.Errorf("output url = %v", v)
	}
	if got.Metadata.InputSchema[0].Example.Str() != "https://shop.test" {
		t.Errorf("example = %v", got.Metadata.InputSchema[0].Example)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid workflow JSON")
	}
}
