package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeParse  EventType = "parse"
	EventTypeSchema EventType = "schema"
	EventTypeStep   EventType = "step"
	EventTypeLLM    EventType = "llm"
	EventTypeRun    EventType = "run"
	EventTypeReplay EventType = "replay"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	Source    string    `json:"source,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger emits structured JSON events to stdout and mirrors LLM
// exchanges to a size-rotated file.
type Logger struct {
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogParse(source string, stepCount int, startingURL string) {
	l.Log(Event{
		Type:   EventTypeParse,
		Source: source,
		Data: map[string]any{
			"steps":        stepCount,
			"starting_url": startingURL,
		},
	})
}

func (l *Logger) LogSchema(source string, fields []string) {
	l.Log(Event{
		Type:   EventTypeSchema,
		Source: source,
		Data:   map[string]any{"fields": fields},
	})
}

func (l *Logger) LogStep(source string, id int, tokens []string) {
	l.Log(Event{
		Type:   EventTypeStep,
		Source: source,
		Data: map[string]any{
			"id":     id,
			"tokens": tokens,
		},
	})
}

func (l *Logger) LogLLM(source string, prompt string, response string) {
	l.Log(Event{
		Type:   EventTypeLLM,
		Source: source,
		Data: map[string]any{
			"prompt":   prompt,
			"response": response,
		},
	})
}

func (l *Logger) LogRun(source, output, runID string) {
	l.Log(Event{
		Type:   EventTypeRun,
		Source: source,
		Data: map[string]any{
			"output": output,
			"run_id": runID,
		},
	})
}

func (l *Logger) LogReplay(source string, stepID int, action string) {
	l.Log(Event{
		Type:   EventTypeReplay,
		Source: source,
		Data: map[string]any{
			"id":     stepID,
			"action": action,
		},
	})
}
