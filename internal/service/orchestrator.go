// Package service contains the orchestration core: discovery, parallel
// inspection, the size-priority work queue, bounded-concurrency
// conversion and progress aggregation.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/infrastructure/logger"
	"github.com/bnema/recode/internal/port"
)

// ProgressSink receives aggregated progress snapshots through the run.
type ProgressSink func(domain.JobProgress)

const defaultProgressInterval = 500 * time.Millisecond

// Orchestrator sequences the three phases of a run against its two
// boundary collaborators. It is stateless between runs; everything
// run-scoped (queue, trackers, log) is created inside Run.
type Orchestrator struct {
	transcoder port.Transcoder
	fs         port.FileSystem
	interval   time.Duration
}

func NewOrchestrator(t port.Transcoder, fsys port.FileSystem) *Orchestrator {
	return &Orchestrator{
		transcoder: t,
		fs:         fsys,
		interval:   defaultProgressInterval,
	}
}

// Run converts everything under root that is not already in the target
// encoding and returns one JobResult per processed item. Only a missing
// root and cancellation surface as errors; on cancellation the partial
// result set is returned alongside ctx.Err(). In-flight encodes are not
// force-terminated, they finish detached and their results are dropped.
func (o *Orchestrator) Run(ctx context.Context, root string, opts domain.JobOptions, sink ProgressSink) ([]domain.JobResult, error) {
	opts = opts.Normalized()
	runLog := NewRunLog()

	items, err := NewCatalog(runLog).Discover(root)
	if err != nil {
		return nil, err
	}

	filtered, err := o.inspect(ctx, items, opts.Target, runLog)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}

	if opts.ListOnly {
		results := make([]domain.JobResult, 0, len(filtered))
		for _, it := range filtered {
			results = append(results, domain.JobResult{
				Success:       true,
				SourcePath:    it.Path,
				OriginalBytes: it.Size,
			})
		}
		return results, nil
	}

	return o.convertAll(ctx, root, filtered, opts, sink, runLog)
}

// inspect probes codecs with a bounded fan-out and drops items already
// in the target encoding. A failed probe drops only its own item.
// Size-descending input order is preserved in the output.
func (o *Orchestrator) inspect(ctx context.Context, items []domain.MediaItem, target domain.Target, log port.Logger) ([]domain.MediaItem, error) {
	sem := semaphore.NewWeighted(int64(domain.DefaultInspectParallel()))
	kept := make([]*domain.MediaItem, len(items))

	for i := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func(i int) {
			defer sem.Release(1)
			item := items[i]
			codec, err := o.transcoder.ProbeCodec(ctx, item.Path)
			if err != nil {
				log.Warnf("dropping %s: probe failed: %v", logger.SanitizeForLog(item.Path), err)
				return
			}
			if target.Matches(codec) {
				return
			}
			item.Codec = codec
			kept[i] = &item
		}(i)
	}

	// Draining the semaphore waits for every launched probe.
	if err := sem.Acquire(context.Background(), int64(domain.DefaultInspectParallel())); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := make([]domain.MediaItem, 0, len(items))
	for _, it := range kept {
		if it != nil {
			filtered = append(filtered, *it)
		}
	}
	return filtered, nil
}

// convertAll drains the queue with at most opts.MaxParallel encodes in
// flight. A dispatcher acquires a slot per item and launches one task;
// the collector folds results and emits progress, waking on completion,
// on the progress tick, or on cancellation.
func (o *Orchestrator) convertAll(ctx context.Context, root string, filtered []domain.MediaItem, opts domain.JobOptions, sink ProgressSink, runLog *RunLog) ([]domain.JobResult, error) {
	var queue port.WorkQueue = NewQueue()
	queue.Load(filtered)
	total := queue.Count()

	agg := NewAggregator(total)
	resultCh := make(chan domain.JobResult, total)
	sem := semaphore.NewWeighted(int64(opts.MaxParallel))

	// Tasks run on a non-cancelable child context: cancellation stops
	// dispatching and collecting, but started encodes finish naturally.
	// The buffered channel lets detached tasks complete their send.
	taskCtx := context.WithoutCancel(ctx)

	go func() {
		for {
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			item, ok := queue.Dequeue()
			if !ok {
				sem.Release(1)
				return
			}
			agg.Track(item.Path)
			go func(it domain.MediaItem) {
				defer sem.Release(1)
				resultCh <- o.convertOne(taskCtx, root, it, opts, agg, runLog)
			}(item)
		}
	}()

	results := make([]domain.JobResult, 0, total)
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	emit := func() {
		if sink != nil {
			sink(agg.Snapshot())
		}
	}
	emit()

	for len(results) < total {
		select {
		case r := <-resultCh:
			agg.Complete(r.SourcePath)
			if !r.Success {
				runLog.Errorf("convert %s: %s", logger.SanitizeForLog(r.SourcePath), r.ErrorMessage)
			}
			results = append(results, r)
			emit()
		case <-ticker.C:
			emit()
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// convertOne owns one item end to end: plan the destination, probe the
// duration, encode with a tracker-bound progress callback, verify the
// artifact and finalize it. Failures come back as a failed JobResult,
// with any partial artifact removed.
func (o *Orchestrator) convertOne(ctx context.Context, root string, item domain.MediaItem, opts domain.JobOptions, agg *Aggregator, log port.Logger) domain.JobResult {
	start := time.Now()
	res := domain.JobResult{SourcePath: item.Path, OriginalBytes: item.Size}
	fail := func(msg string) domain.JobResult {
		res.ErrorMessage = msg
		res.Elapsed = time.Since(start)
		return res
	}

	duration, err := o.transcoder.ProbeDuration(ctx, item.Path)
	if err != nil {
		// Not fatal: the encode still runs, progress just stays coarse.
		log.Warnf("duration probe failed for %s: %v", logger.SanitizeForLog(item.Path), err)
	}
	encOpts := domain.EncodeOptions{
		Target:          opts.Target,
		UseAcceleration: opts.UseAcceleration,
		CRF:             opts.CRF,
		Preset:          opts.Preset,
		Duration:        duration,
	}

	replaceInPlace := opts.OutputRoot == ""
	var encodePath, finalPath string
	if replaceInPlace {
		encodePath = tempArtifactPath(item.Path)
		finalPath = item.Path
	} else {
		rel, err := filepath.Rel(root, item.Path)
		if err != nil {
			return fail(fmt.Sprintf("resolve output path: %v", err))
		}
		finalPath = filepath.Join(opts.OutputRoot, rel)
		encodePath = finalPath
		if err := o.fs.MkdirAll(filepath.Dir(finalPath)); err != nil {
			return fail(fmt.Sprintf("create output directory: %v", err))
		}
	}

	// Source timestamps are read up front; in replace mode the source is
	// gone once the rename lands.
	var mod, access time.Time
	if opts.PreserveTimestamps {
		if mod, access, err = o.fs.Times(item.Path); err != nil {
			log.Warnf("cannot read timestamps of %s: %v", logger.SanitizeForLog(item.Path), err)
		}
	}

	onProgress := func(pct float64, speed string) {
		agg.Update(item.Path, pct, speed)
	}
	if err := o.transcoder.Encode(ctx, item.Path, encodePath, encOpts, onProgress); err != nil {
		_ = o.fs.Remove(encodePath)
		return fail(err.Error())
	}

	size, err := o.fs.Size(encodePath)
	if err != nil || size == 0 {
		_ = o.fs.Remove(encodePath)
		return fail(domain.ErrEmptyArtifact.Error())
	}

	if replaceInPlace {
		if err := o.fs.Rename(encodePath, finalPath); err != nil {
			_ = o.fs.Remove(encodePath)
			return fail(fmt.Sprintf("replace source: %v", err))
		}
	}

	if opts.PreserveTimestamps && !mod.IsZero() {
		if err := o.fs.Chtimes(finalPath, access, mod); err != nil {
			log.Warnf("cannot restore timestamps on %s: %v", logger.SanitizeForLog(finalPath), err)
		}
	}

	res.Success = true
	res.DestPath = finalPath
	res.NewBytes = size
	res.Elapsed = time.Since(start)
	return res
}

// tempArtifactPath builds a hidden sibling path that keeps the source's
// extension, so ffmpeg selects the same container for the temp artifact.
func tempArtifactPath(src string) string {
	dir, name := filepath.Split(src)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part%s", base, uuid.NewString()[:8], ext))
}
