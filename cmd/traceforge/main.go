package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/traceforge/internal/convert"
	"github.com/rahul/traceforge/internal/llm"
	"github.com/rahul/traceforge/internal/observability"
	"github.com/rahul/traceforge/internal/replay"
	"github.com/rahul/traceforge/internal/store"
	"github.com/rahul/traceforge/internal/workflow"
	"github.com/rahul/traceforge/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	var (
		configPath = flag.String("config", "config.json", "path to config file")
		inputPath  = flag.String("input", "", "test execution JSON to convert (default from config)")
		outputPath = flag.String("output", "", "workflow JSON to write (default from config)")
		history    = flag.Bool("history", false, "list recorded conversion runs and exit")
		replayPath = flag.String("replay", "", "workflow JSON to replay in a browser")
		inputsPath = flag.String("inputs", "", "YAML file binding input values for -replay")
		headless   = flag.Bool("headless", false, "run the replay browser headless")
	)
	flag.Parse()

	observability.PrintBanner()

	cfg := config.LoadConfig(*configPath)
	logger := observability.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *history {
		listRuns(cfg)
		return
	}

	if *replayPath != "" {
		runReplay(ctx, cfg, logger, *replayPath, *inputsPath, *headless)
		return
	}

	in := *inputPath
	if in == "" {
		in = cfg.App.Input
	}
	out := *outputPath
	if out == "" {
		out = cfg.App.Output
	}

	runConvert(ctx, cfg, logger, in, out)
}

func runConvert(ctx context.Context, cfg *config.Config, logger *observability.Logger, in, out string) {
	model := newModel(cfg)
	client := llm.NewClient(model, logger)
	converter := convert.New(client, logger)

	log.Printf("Converting %s to %s...", in, out)

	wf, err := converter.Convert(ctx, in)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if err := workflow.Save(wf, out); err != nil {
		log.Fatalf("Failed to save workflow: %v", err)
	}
	log.Printf("Workflow saved to %s", out)

	if cfg.History.Enabled {
		recordRun(cfg, logger, in, out, wf)
	}
}

func newModel(cfg *config.Config) llms.Model {
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	var err error
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}
	return model
}

func recordRun(cfg *config.Config, logger *observability.Logger, in, out string, wf *workflow.Workflow) {
	runs, err := store.NewRunStore(cfg.History.Path)
	if err != nil {
		log.Printf("Warning: failed to open run store: %v", err)
		return
	}
	defer runs.Close()

	id, err := runs.RecordRun(store.Run{
		Source:   in,
		Output:   out,
		Feature:  wf.Metadata.FeatureName,
		Scenario: wf.Metadata.ScenarioName,
		Steps:    len(wf.Steps),
		Inputs:   len(wf.Metadata.InputSchema),
		Summary:  wf.Metadata.Summary,
	})
	if err != nil {
		log.Printf("Warning: failed to record run: %v", err)
		return
	}
	logger.LogRun(in, out, id)
}

func listRuns(cfg *config.Config) {
	runs, err := store.NewRunStore(cfg.History.Path)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer runs.Close()

	list, err := runs.ListRuns(20)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No recorded runs.")
		return
	}
	for _, r := range list {
		fmt.Printf("%s  %s  %s / %s  (%d steps, %d inputs)\n  %s -> %s\n",
			r.CreatedAt, r.ID[:8], r.Feature, r.Scenario, r.Steps, r.Inputs, r.Source, r.Output)
	}
}

func runReplay(ctx context.Context, cfg *config.Config, logger *observability.Logger, workflowPath, inputsPath string, headless bool) {
	wf, err := workflow.Load(workflowPath)
	if err != nil {
		log.Fatalf("Failed to load workflow: %v", err)
	}

	inputs := map[string]string{}
	if inputsPath != "" {
		inputs, err = replay.LoadInputs(inputsPath)
		if err != nil {
			log.Fatalf("Failed to load inputs: %v", err)
		}
	}

	bound, err := replay.Bind(wf, inputs)
	if err != nil {
		log.Fatalf("Failed to bind inputs: %v", err)
	}

	runner := replay.NewRunner(
		replay.DefaultPolicy(),
		logger,
		headless || cfg.Replay.Headless,
		time.Duration(cfg.Replay.TimeoutSeconds)*time.Second,
	)
	if err := runner.Run(ctx, bound); err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	log.Printf("Replay of %s complete (%d steps)", workflowPath, len(bound.Steps))
}
