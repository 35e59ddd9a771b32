package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lifetracker/eventmodel/config"
	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/pipeline"
	"github.com/lifetracker/eventmodel/internal/trace"
)

var (
	eventsPath  string
	configPath  string
	outPath     string
	numBases    int
	maxIter     int
	minStrength float64
	maxInsights int
	verbose     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fit the point-process model to an event log and report influence edges, rhythms, and diagnostics",
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&eventsPath, "events", "", "Path to a JSON array of {\"type\":..., \"timeMs\":...} events (required)")
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML options file (defaults applied if omitted)")
	analyzeCmd.Flags().StringVar(&outPath, "out", "", "Path to write the result JSON (defaults to stdout)")
	analyzeCmd.Flags().IntVar(&numBases, "num-bases", 0, "Override num_bases from the config file")
	analyzeCmd.Flags().IntVar(&maxIter, "max-iter", 0, "Override max_iter from the config file")
	analyzeCmd.Flags().Float64Var(&minStrength, "min-strength", 0, "Override min_strength from the config file")
	analyzeCmd.Flags().IntVar(&maxInsights, "max-insights", 0, "Override max_insights from the config file")
	analyzeCmd.Flags().BoolVar(&verbose, "verbose", false, "Log a per-target fit and edge-extraction trace summary after the run")
	_ = analyzeCmd.MarkFlagRequired("events")
}

// jsonEvent is the wire format read from --events: {"type": "...", "timeMs": ...}.
type jsonEvent struct {
	Type   string `json:"type"`
	TimeMs int64  `json:"timeMs"`
}

func runAnalyze(cmd *cobra.Command, args []string) {
	setLogLevel()

	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logrus.Fatalf("loading config: %v", err)
		}
		opts = loaded
	}
	applyFlagOverrides(cmd, &opts)
	if err := opts.Validate(); err != nil {
		logrus.Fatalf("invalid options: %v", err)
	}

	events, err := loadEvents(eventsPath)
	if err != nil {
		logrus.Fatalf("loading events: %v", err)
	}
	logrus.Infof("loaded %d events from %s", len(events), eventsPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressCh := make(chan pipeline.ProgressEvent, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progressCh {
			logrus.Infof("stage=%s percent=%d detail=%s", ev.Stage, ev.Percent, ev.Detail)
		}
	}()

	var ft *trace.FitTrace
	var et *trace.ExtractionTrace
	if verbose {
		ft = &trace.FitTrace{}
		et = &trace.ExtractionTrace{}
	}

	result, err := pipeline.RunTraced(ctx, events, opts, progressCh, ft, et)
	close(progressCh)
	<-done

	if err == pipeline.ErrCancelled {
		logrus.Info("analysis cancelled")
		return
	}
	if err != nil {
		logrus.Fatalf("analysis failed: %v", err)
	}

	if verbose {
		logTraceSummary(ft, et)
	}

	if err := writeResult(result, outPath); err != nil {
		logrus.Fatalf("writing result: %v", err)
	}
}

func logTraceSummary(ft *trace.FitTrace, et *trace.ExtractionTrace) {
	fs := trace.Summarize(ft)
	logrus.Infof("fit trace: %d targets fit, %d converged, %d total iterations",
		fs.TargetsFit, fs.ConvergedTargets, fs.TotalIterations)
	for target, ll := range fs.FinalLogLikByTarget {
		logrus.Debugf("  %s: final log-likelihood %.4f", target, ll)
	}

	es := trace.SummarizeExtraction(et)
	logrus.Infof("edge extraction trace: %d candidates considered, %d kept", es.Candidates, es.Kept)
}

func applyFlagOverrides(cmd *cobra.Command, opts *config.Options) {
	if cmd.Flags().Changed("num-bases") {
		opts.NumBases = numBases
	}
	if cmd.Flags().Changed("max-iter") {
		opts.MaxIter = maxIter
	}
	if cmd.Flags().Changed("min-strength") {
		opts.MinStrength = minStrength
	}
	if cmd.Flags().Changed("max-insights") {
		opts.MaxInsights = maxInsights
	}
}

func loadEvents(path string) ([]eventlog.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []jsonEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	events := make([]eventlog.Event, len(raw))
	for i, e := range raw {
		events[i] = eventlog.Event{Type: e.Type, TimeMs: e.TimeMs}
	}
	return events, nil
}

func writeResult(result *pipeline.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
