// Package batch orchestrates one conversion run over a queue snapshot:
// name resolution, command synthesis, and engine invocation per item, with
// per-item failure isolation and aggregate progress reporting.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/darcovia/music-forge/application/command"
	"github.com/darcovia/music-forge/application/naming"
	"github.com/darcovia/music-forge/domain/model"
	"github.com/darcovia/music-forge/domain/ports"
	pkgerrors "github.com/darcovia/music-forge/pkg/errors"
	"github.com/darcovia/music-forge/pkg/events"
	"github.com/darcovia/music-forge/pkg/logger"
	"go.uber.org/zap"
)

// Request carries everything one run needs, snapshotted at start: the item
// list and profile are copies, so the caller mutating its live queue or
// profile cannot race the run.
type Request struct {
	ID         string
	Items      []model.QueueItem
	Profile    model.ConversionProfile
	EnginePath string
	OutputDir  string
	Options    ports.BatchOptions
}

// Runner executes batch runs. At most one run may be in flight per Runner;
// a re-entrant Run while another is active is rejected, since two runs
// racing over the same output directory would have undefined results.
type Runner struct {
	invoker  ports.EngineInvoker
	storage  ports.Storage
	reporter events.Reporter
	log      *logger.Logger
	running  atomic.Bool
}

// NewRunner creates a Runner.
func NewRunner(invoker ports.EngineInvoker, storage ports.Storage, reporter events.Reporter, log *logger.Logger) *Runner {
	if reporter == nil {
		reporter = events.NoopReporter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		invoker:  invoker,
		storage:  storage,
		reporter: reporter,
		log:      log,
	}
}

// Running reports whether a run is currently in flight.
func (r *Runner) Running() bool { return r.running.Load() }

// Run executes one batch to completion. Precondition failures (empty item
// list, no engine, output directory not creatable, run already active)
// return an error and the run never starts. Once running, per-item failures
// are isolated: they are logged, counted, and the run continues; the batch
// always completes and progress always reaches 100.
//
// Cancelling ctx stops the run between items and interrupts an in-flight
// engine invocation.
func (r *Runner) Run(ctx context.Context, req Request) (*model.BatchResult, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, pkgerrors.NewValidationError("state", "running", "a batch is already running")
	}
	defer r.running.Store(false)

	if err := r.checkPreconditions(ctx, req); err != nil {
		return nil, err
	}

	result := &model.BatchResult{
		ID:        req.ID,
		Total:     len(req.Items),
		OutputDir: req.OutputDir,
		StartedAt: time.Now(),
	}

	r.log.Info("batch started",
		zap.String("batch_id", req.ID),
		zap.Int("items", result.Total),
		zap.String("format", string(req.Profile.Format)),
		zap.String("output_dir", req.OutputDir),
	)

	n := len(req.Items)
	for i, item := range req.Items {
		r.reporter.Report(events.Progress(req.ID, (i*100)/n))

		if ctx.Err() != nil {
			r.emitLog(req.ID, events.LevelWarn, "interrupted")
			break
		}

		result.Outcomes = append(result.Outcomes, r.processItem(ctx, req, i+1, item))
	}

	r.reporter.Report(events.Progress(req.ID, 100))
	result.CompletedAt = time.Now()

	r.emitLog(req.ID, events.LevelInfo, result.Summary())
	r.reporter.Report(events.Done(req.ID, result.Total, req.OutputDir))

	r.log.Info("batch completed",
		zap.String("batch_id", req.ID),
		zap.Int("ok", result.Succeeded()),
		zap.Int("failed", result.Failed()),
	)
	return result, nil
}

// checkPreconditions enforces the entry guards: a run never starts against
// an empty queue, a missing engine, or an uncreatable output directory.
func (r *Runner) checkPreconditions(ctx context.Context, req Request) error {
	if len(req.Items) == 0 {
		return pkgerrors.NewValidationError("items", 0, "queue is empty")
	}
	if req.EnginePath == "" {
		return pkgerrors.NewValidationError("engine", "", "transcoding engine not available")
	}
	if req.OutputDir == "" {
		return pkgerrors.NewValidationError("outputDir", "", "output directory must not be empty")
	}
	if err := req.Profile.Validate(); err != nil {
		return pkgerrors.NewValidationError("profile", req.Profile, err.Error())
	}
	if err := r.storage.EnsureDir(ctx, req.OutputDir); err != nil {
		return &pkgerrors.ForgeError{
			Code:    pkgerrors.ErrCodeIO,
			Message: fmt.Sprintf("cannot create output directory %s", req.OutputDir),
			Cause:   err,
		}
	}
	return nil
}

// processItem converts one file: resolve output name, build the command,
// invoke the engine. Any failure is captured in the outcome, never returned.
func (r *Runner) processItem(ctx context.Context, req Request, idx int, item model.QueueItem) model.ItemOutcome {
	start := time.Now()
	base := filepath.Base(item.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	r.emitLog(req.ID, events.LevelInfo, fmt.Sprintf("[%d/%d] %s", idx, len(req.Items), base))

	outName := naming.Resolve(req.Options.Pattern, item.Tags, stem)
	outPath := filepath.Join(req.OutputDir, outName+"."+string(req.Profile.Format))

	if req.Options.SkipExisting {
		if ok, err := r.storage.Exists(ctx, outPath); err == nil && ok {
			r.emitLog(req.ID, events.LevelWarn, fmt.Sprintf("skip (exists): %s", filepath.Base(outPath)))
			return model.ItemOutcome{InputPath: item.Path, OutputPath: outPath, Elapsed: time.Since(start)}
		}
	}

	if _, err := r.storage.Size(ctx, item.Path); err != nil {
		return r.fail(req.ID, item.Path, start, fmt.Sprintf("cannot read source file: %v", err))
	}

	args := command.Build(req.EnginePath, item.Path, outPath, req.Profile, item.Tags)
	r.log.Debug("invoking engine", zap.Strings("args", args))

	res, err := r.invoker.Run(ctx, args)
	if err != nil {
		return r.fail(req.ID, item.Path, start, err.Error())
	}
	if res.ExitCode != 0 {
		reason := strings.TrimSpace(res.Stderr)
		if reason == "" {
			reason = fmt.Sprintf("engine exited with code %d", res.ExitCode)
		}
		return r.fail(req.ID, item.Path, start, reason)
	}

	r.emitLog(req.ID, events.LevelInfo, fmt.Sprintf("OK -> %s", outPath))
	return model.ItemOutcome{InputPath: item.Path, OutputPath: outPath, Elapsed: time.Since(start)}
}

func (r *Runner) fail(batchID, inputPath string, start time.Time, reason string) model.ItemOutcome {
	r.emitLog(batchID, events.LevelError, fmt.Sprintf("error for %s: %s", inputPath, reason))
	r.log.Warn("item failed",
		zap.String("batch_id", batchID),
		zap.String("input", inputPath),
		zap.String("reason", reason),
	)
	return model.ItemOutcome{InputPath: inputPath, Reason: reason, Elapsed: time.Since(start)}
}

func (r *Runner) emitLog(batchID string, level events.Level, msg string) {
	r.reporter.Report(events.Log(batchID, level, msg))
}
