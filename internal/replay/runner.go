package replay

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rahul/traceforge/internal/governance"
	"github.com/rahul/traceforge/internal/observability"
	"github.com/rahul/traceforge/internal/trace"
	"github.com/rahul/traceforge/internal/workflow"
)

// Runner executes a bound workflow in a real browser, one step at a
// time. Steps the runner cannot express are skipped with a log line
// rather than failing the whole replay.
type Runner struct {
	Policy   governance.PolicyEngine
	Logger   *observability.Logger
	Headless bool
	Timeout  time.Duration
}

func NewRunner(policy governance.PolicyEngine, logger *observability.Logger, headless bool, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Runner{Policy: policy, Logger: logger, Headless: headless, Timeout: timeout}
}

// Run drives every step of the workflow in order.
func (r *Runner) Run(ctx context.Context, w *workflow.Workflow) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", r.Headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx); err != nil {
		return fmt.Errorf("failed to start browser: %v", err)
	}

	for _, step := range w.Steps {
		if err := r.runStep(browserCtx, w.Metadata.Source, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", step.ID, step.Type, err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, source string, step workflow.Step) error {
	actionCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	switch step.Type {
	case "navigate":
		url := navigationURL(step)
		if url == "" {
			log.Printf("Skipping navigate step %d: no url in output", step.ID)
			return nil
		}
		if err := r.check(actionCtx, "navigate", url); err != nil {
			return err
		}
		if r.Logger != nil {
			r.Logger.LogReplay(source, step.ID, "navigate "+url)
		}
		return chromedp.Run(actionCtx, chromedp.Navigate(url))

	case "click", "select_option":
		sel, ok := bestSelector(step.Selector)
		if !ok {
			log.Printf("Skipping %s step %d: no selector", step.Type, step.ID)
			return nil
		}
		if err := r.check(actionCtx, "click", sel.Value); err != nil {
			return err
		}
		if r.Logger != nil {
			r.Logger.LogReplay(source, step.ID, "click "+sel.Value)
		}
		return chromedp.Run(actionCtx, chromedp.Click(sel.Value, queryOption(sel)))

	case "type", "input":
		sel, ok := bestSelector(step.Selector)
		if !ok {
			log.Printf("Skipping %s step %d: no selector", step.Type, step.ID)
			return nil
		}
		if err := r.check(actionCtx, "type", sel.Value); err != nil {
			return err
		}
		if r.Logger != nil {
			r.Logger.LogReplay(source, step.ID, "type "+sel.Value)
		}
		return chromedp.Run(actionCtx, chromedp.SendKeys(sel.Value, step.ElementText, queryOption(sel)))

	default:
		log.Printf("Skipping unsupported step type %q (step %d)", step.Type, step.ID)
		return nil
	}
}

func (r *Runner) check(ctx context.Context, action, target string) error {
	if r.Policy == nil {
		return nil
	}
	res, err := r.Policy.Evaluate(ctx, governance.Request{Action: action, Target: target})
	if err != nil {
		return err
	}
	if res.Effect == governance.EffectDeny {
		return fmt.Errorf("denied by policy: %s", res.Reason)
	}
	return nil
}

func navigationURL(step workflow.Step) string {
	if step.Output == nil {
		return ""
	}
	if v, ok := step.Output.Get("url"); ok && v.Kind() == trace.KindString {
		return v.Str()
	}
	return ""
}

// bestSelector picks the lowest-priority (best) selector, running
// the workflow's selectors back through the same normalization the
// parser applies to recorded ones.
func bestSelector(sels []workflow.SelectorInfo) (workflow.SelectorInfo, bool) {
	if len(sels) == 0 {
		return workflow.SelectorInfo{}, false
	}
	raw := make([]trace.Selector, len(sels))
	for i, s := range sels {
		raw[i] = trace.Selector{Type: s.Type, Value: s.Value, Priority: strconv.Itoa(s.Priority)}
	}
	best := trace.NormalizeSelectors(raw)[0]
	return workflow.SelectorInfo{Type: best.Type, Value: best.Value, Priority: best.Priority}, true
}

func queryOption(sel workflow.SelectorInfo) chromedp.QueryOption {
	if sel.Type == "xpath" {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// DefaultPolicy returns the replay guard used by the CLI: local
// files and script URLs are never navigated to.
func DefaultPolicy() *governance.DefaultPolicyEngine {
	policy := governance.NewDefaultPolicyEngine()
	for _, pattern := range []string{`^file:`, `^javascript:`} {
		if err := policy.DenyTarget(pattern); err != nil {
			panic(fmt.Sprintf("invalid deny pattern %q: %v", pattern, err))
		}
	}
	return policy
}
