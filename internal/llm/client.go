// Package llm wraps the text-generation collaborator. The converter
// treats its output as an opaque string; everything here is prompt
// plumbing and retry policy.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rahul/traceforge/internal/observability"
	"github.com/rahul/traceforge/internal/trace"
	"github.com/tmc/langchaingo/llms"
)

const (
	systemPrompt = "You are a helpful assistant that analyzes test automation steps and provides structured, concise responses."
	maxRetries   = 3
)

// Client calls a chat model with bounded retries and exponential
// backoff. Failures after the last attempt are fatal to the caller.
type Client struct {
	Model  llms.Model
	Logger *observability.Logger
}

func NewClient(model llms.Model, logger *observability.Logger) *Client {
	return &Client{Model: model, Logger: logger}
}

// WorkflowSummary asks the model for a free-text summary of the
// whole workflow.
func (c *Client) WorkflowSummary(ctx context.Context, featureName, scenarioName string, steps []trace.StepSummary) (string, error) {
	prompt := summaryPrompt(featureName, scenarioName, steps)
	summary, err := c.call(ctx, prompt)
	if err != nil {
		return "", err
	}
	if c.Logger != nil {
		c.Logger.LogLLM(featureName, prompt, summary)
	}
	return summary, nil
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := c.Model.GenerateContent(ctx, messages)
		if err == nil && len(resp.Choices) > 0 {
			return strings.TrimSpace(resp.Choices[0].Content), nil
		}
		if err == nil {
			err = fmt.Errorf("model returned no choices")
		}
		lastErr = err
		log.Printf("LLM call failed (attempt %d/%d): %v", attempt+1, maxRetries, err)

		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return "", fmt.Errorf("llm call failed after %d attempts: %w", maxRetries, lastErr)
}
