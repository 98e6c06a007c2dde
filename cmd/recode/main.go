package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/bnema/recode/config"
	"github.com/bnema/recode/internal/adapter/fs"
	historydb "github.com/bnema/recode/internal/adapter/history/sqlite"
	"github.com/bnema/recode/internal/adapter/report"
	"github.com/bnema/recode/internal/adapter/transcoder/ffmpeg"
	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/infrastructure/logger"
	"github.com/bnema/recode/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.PrintHistory {
		printHistory(cfg)
		return
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: recode <root path>")
		fmt.Fprintln(os.Stderr, "       configuration via RECODE_* environment variables")
		os.Exit(2)
	}
	root := os.Args[1]

	opts, err := cfg.JobOptions()
	if err != nil {
		logger.Error.Printf("invalid config: %v", err)
		os.Exit(1)
	}

	logger.Info.Printf("recoding %s to %s (parallel=%d, accel=%v)",
		logger.SanitizeForLog(root), opts.Target, opts.MaxParallel, opts.UseAcceleration)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := service.NewOrchestrator(ffmpeg.New(), fs.New())

	bus := service.NewEventBus()
	progressCh := bus.Subscribe()
	renderDone := make(chan struct{})
	go renderProgress(progressCh, renderDone)

	started := time.Now()
	results, runErr := orch.Run(ctx, root, opts, bus.Publish)
	bus.Unsubscribe(progressCh)
	<-renderDone

	cancelled := errors.Is(runErr, context.Canceled)
	if runErr != nil && !cancelled {
		logger.Error.Printf("run failed: %v", runErr)
		os.Exit(1)
	}
	if cancelled {
		logger.Warn.Printf("interrupted; %d results collected, in-flight encodes finish in the background", len(results))
	}

	sum := domain.Summarize(uuid.NewString(), root, opts.Target, started, time.Now(), results)
	printSummary(sum, results, opts.ListOnly)

	if cfg.HistoryDB != "" {
		recordHistory(ctx, cfg.HistoryDB, sum, results)
	}
	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, sum, results); err != nil {
			logger.Warn.Printf("could not write report: %v", err)
		}
	}

	if cancelled {
		os.Exit(130)
	}
}

// renderProgress rewrites one status line per snapshot until the bus
// closes the channel.
func renderProgress(ch chan domain.JobProgress, done chan struct{}) {
	defer close(done)

	status := color.New(color.FgCyan)
	rendered := false
	for p := range ch {
		if p.TotalItems == 0 {
			continue
		}
		line := fmt.Sprintf("%5.1f%% | %d/%d done | %d active",
			p.Percentage, p.CompletedItems, p.TotalItems, len(p.Active))
		if p.Current != "" {
			line += " | " + logger.SanitizeForLog(p.Current)
			if p.Throughput != "" {
				line += " [" + p.Throughput + "]"
			}
		}
		status.Printf("\r\033[K%s", line)
		rendered = true
	}
	if rendered {
		fmt.Println()
	}
}

func printSummary(sum domain.RunSummary, results []domain.JobResult, listOnly bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if listOnly {
		for _, r := range results {
			fmt.Printf("%s  %s\n", humanize.IBytes(uint64(r.OriginalBytes)), logger.SanitizeForLog(r.SourcePath))
		}
		fmt.Printf("%d files would be converted (%s total)\n", sum.Total, humanize.IBytes(uint64(sum.BytesIn)))
		return
	}

	for _, r := range results {
		if !r.Success {
			red.Printf("FAIL %s: %s\n", logger.SanitizeForLog(r.SourcePath), logger.SanitizeForLog(r.ErrorMessage))
		}
	}

	fmt.Printf("done: %d converted, %d failed of %d\n", sum.Converted, sum.Failed, sum.Total)
	saved := sum.BytesIn - sum.BytesOut
	switch {
	case sum.Converted == 0:
		// Nothing converted, nothing to account for.
	case saved >= 0:
		green.Printf("space saved: %s (input %s -> output %s)\n",
			humanize.IBytes(uint64(saved)), humanize.IBytes(uint64(sum.BytesIn)), humanize.IBytes(uint64(sum.BytesOut)))
	default:
		red.Printf("output grew by %s\n", humanize.IBytes(uint64(-saved)))
	}
}

func recordHistory(ctx context.Context, dbPath string, sum domain.RunSummary, results []domain.JobResult) {
	store, err := historydb.NewStore(dbPath)
	if err != nil {
		logger.Warn.Printf("could not open history store: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordRun(ctx, sum, results); err != nil {
		logger.Warn.Printf("could not record run: %v", err)
	}
}

func printHistory(cfg *config.Config) {
	if cfg.HistoryDB == "" {
		logger.Error.Print("RECODE_HISTORY_DB must be set to print history")
		os.Exit(1)
	}

	store, err := historydb.NewStore(cfg.HistoryDB)
	if err != nil {
		logger.Error.Printf("could not open history store: %v", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(context.Background(), 10)
	if err != nil {
		logger.Error.Printf("could not list runs: %v", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  target=%s  %d converted, %d failed of %d  saved %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			logger.SanitizeForLog(r.Root), r.Target,
			r.Converted, r.Failed, r.Total,
			humanize.IBytes(uint64(max(r.BytesIn-r.BytesOut, 0))))
	}
}
