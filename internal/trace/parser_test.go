package trace

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleExecution = `{
  "featureName": "Search",
  "scenarioName": "Find <phone>",
  "steps": [
    {
      "description": "Navigate to <url>",
      "type": "navigate",
      "timestamp": 1.5,
      "output": {
        "url": "https://shop.test",
        "final_url": "https://shop.test/x",
        "title": null,
        "status_code": 200,
        "ok": true
      }
    },
    {
      "description": "Click result",
      "type": "click",
      "timestamp": 2.5,
      "elementText": "iPhone 15",
      "elementTag": "a",
      "attributes": {"class": "result", "href": "/p/1"},
      "selector": [
        {"type": "cssSelector", "value": ".result", "priority": "2"},
        {"type": "xpath", "value": "//a", "priority": "1"}
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(sampleExecution))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tr.FeatureName != "Search" || tr.ScenarioName != "Find <phone>" {
		t.Errorf("metadata mismatch: %q / %q", tr.FeatureName, tr.ScenarioName)
	}
	if len(tr.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(tr.Steps))
	}

	first := tr.Steps[0]
	if first.Description != "Navigate to <url>" || first.Type != "navigate" || first.Timestamp != 1.5 {
		t.Errorf("first step mismatch: %+v", first)
	}
	if v, ok := first.Output.Get("url"); !ok || v.Str() != "https://shop.test" {
		t.Errorf("output url = %v", v)
	}
	if _, ok := first.Output.Get("title"); ok {
		t.Error("null output entry should be dropped")
	}
	if v, _ := first.Output.Get("status_code"); v.Kind() != KindNumber || v.Float() != 200 {
		t.Errorf("status_code = %v", v)
	}
	if v, _ := first.Output.Get("ok"); v.Kind() != KindBool || !v.Bool() {
		t.Errorf("ok = %v", v)
	}

	second := tr.Steps[1]
	if second.ElementText != "iPhone 15" || second.ElementTag != "a" {
		t.Errorf("second step element mismatch: %+v", second)
	}
	if len(second.Selector) != 2 || second.Selector[0].Priority != "2" {
		t.Errorf("selectors mismatch: %+v", second.Selector)
	}
}

func TestParse_KeyOrderPreserved(t *testing.T) {
	tr, err := Parse([]byte(sampleExecution))
	if err != nil {
		t.Fatal(err)
	}
	got := tr.Steps[0].Output.Keys()
	want := []string{"url", "final_url", "status_code", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("output keys = %v, want recorded order %v", got, want)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"missing featureName", `{"scenarioName": "s", "steps": []}`},
		{"missing scenarioName", `{"featureName": "f", "steps": []}`},
		{"missing steps", `{"featureName": "f", "scenarioName": "s"}`},
		{"step missing timestamp", `{"featureName": "f", "scenarioName": "s", "steps": [{"description": "d", "type": "click"}]}`},
		{"step missing description", `{"featureName": "f", "scenarioName": "s", "steps": [{"type": "click", "timestamp": 1}]}`},
		{"nested output value", `{"featureName": "f", "scenarioName": "s", "steps": [{"description": "d", "type": "click", "timestamp": 1, "output": {"url": {"nested": true}}}]}`},
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c.data)); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: expected ErrMalformedInput, got %v", c.name, err)
		}
	}
}

func TestParse_EmptySteps(t *testing.T) {
	tr, err := Parse([]byte(`{"featureName": "f", "scenarioName": "s", "steps": []}`))
	if err != nil {
		t.Fatalf("empty steps must be valid: %v", err)
	}
	if len(tr.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(tr.Steps))
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "execution.json")
	if err := os.WriteFile(path, []byte(sampleExecution), 0644); err != nil {
		t.Fatal(err)
	}
	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tr.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(tr.Steps))
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]int{
		"1":   1,
		" 7 ": 7,
		"":    DefaultPriority,
		"abc": DefaultPriority,
		"1.5": DefaultPriority,
	}
	for in, want := range cases {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeSelectors(t *testing.T) {
	sels := []Selector{
		{Type: "cssSelector", Value: ".a", Priority: "5"},
		{Type: "xpath", Value: "//a", Priority: "1"},
		{Type: "textSelector", Value: "Go", Priority: ""},
	}
	got := NormalizeSelectors(sels)
	if got[0].Value != "//a" || got[1].Value != ".a" || got[2].Priority != DefaultPriority {
		t.Errorf("normalize order wrong: %+v", got)
	}
}

func TestStepSummaries(t *testing.T) {
	tr, err := Parse([]byte(sampleExecution))
	if err != nil {
		t.Fatal(err)
	}
	got := tr.StepSummaries()
	if got[0].Element != "N/A" {
		t.Errorf("step without element text should summarize as N/A, got %q", got[0].Element)
	}
	if got[1].Element != "iPhone 15" || got[1].Type != "click" {
		t.Errorf("summary mismatch: %+v", got[1])
	}
}

func TestStartingURL(t *testing.T) {
	tr, err := Parse([]byte(sampleExecution))
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.StartingURL(); got != "https://shop.test" {
		t.Errorf("StartingURL = %q", got)
	}
}
