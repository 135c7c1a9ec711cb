// Package musicforge is the batch audio conversion core behind the Music
// Forge UI. It owns the job queue, preset resolution, engine command
// synthesis, output naming, and progress/error reporting; the actual codec
// work is delegated to an external engine (ffmpeg) run as a subprocess.
package musicforge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darcovia/music-forge/application/batch"
	"github.com/darcovia/music-forge/application/naming"
	appqueue "github.com/darcovia/music-forge/application/queue"
	"github.com/darcovia/music-forge/application/worker"
	"github.com/darcovia/music-forge/domain/model"
	"github.com/darcovia/music-forge/domain/ports"
	"github.com/darcovia/music-forge/infrastructure/engine"
	"github.com/darcovia/music-forge/infrastructure/presets"
	"github.com/darcovia/music-forge/infrastructure/storage"
	pkgerrors "github.com/darcovia/music-forge/pkg/errors"
	"github.com/darcovia/music-forge/pkg/events"
	"github.com/darcovia/music-forge/pkg/logger"
)

// Re-export types for convenient use by callers
type (
	Format            = model.Format
	Quality           = model.Quality
	ConversionProfile = model.ConversionProfile
	Preset            = model.Preset
	Tags              = model.Tags
	QueueItem         = model.QueueItem
	BatchResult       = model.BatchResult
	ItemOutcome       = model.ItemOutcome
	Event             = events.Update
	EventKind         = events.Kind
	EventLevel        = events.Level
)

// Re-export format and quality constants
const (
	FormatMP3  = model.FormatMP3
	FormatWAV  = model.FormatWAV
	FormatFLAC = model.FormatFLAC
	FormatOGG  = model.FormatOGG
	FormatM4A  = model.FormatM4A

	QualityLow      = model.QualityLow
	QualityMedium   = model.QualityMedium
	QualityHigh     = model.QualityHigh
	QualityLossless = model.QualityLossless

	EventProgress = events.KindProgress
	EventLog      = events.KindLog
	EventDone     = events.KindDone
)

// Re-export option functions
var (
	WithPattern      = ports.WithPattern
	WithSkipExisting = ports.WithSkipExisting
)

// DefaultPattern names outputs after the source file.
const DefaultPattern = naming.DefaultPattern

// Config holds top-level configuration for the Forge core.
type Config struct {
	// EnginePath forces a specific engine binary, skipping auto-detection.
	EnginePath string

	// BaseDir anchors the bundled-binary search (defaults to the directory
	// of the running executable).
	BaseDir string

	// PresetFile is the user preset store path. Defaults to
	// <user config dir>/music-forge/presets.yaml.
	PresetFile string

	// Logger is an optional custom logger. Uses production zap if nil.
	Logger *logger.Logger

	// ZapLogger allows passing a *zap.Logger directly
	ZapLogger *zap.Logger

	// EventCh is an optional channel receiving progress/log/done events.
	EventCh chan<- Event

	// Invoker, Storage, and PresetStore override the default
	// implementations; used by tests and embedders.
	Invoker     ports.EngineInvoker
	Storage     ports.Storage
	PresetStore ports.PresetStore
}

// Forge is the main entry point consumed by the UI layer.
type Forge struct {
	env      engine.Environment
	queue    *appqueue.Queue
	presets  *presets.Manager
	runner   *batch.Runner
	worker   *worker.Worker
	storage  ports.Storage
	log      *logger.Logger

	// inFlight is set from StartBatch until the submitted run finishes,
	// closing the submit-to-pickup window the runner's own guard cannot see.
	inFlight atomic.Bool
}

// New builds a Forge: detects the engine, loads user presets, and starts
// the background worker. An absent engine is not an error at construction
// time; it is reported through EngineAvailable and blocks StartBatch.
func New(cfg Config) (*Forge, error) {
	log := cfg.Logger
	if log == nil && cfg.ZapLogger != nil {
		log = logger.FromZap(cfg.ZapLogger)
	}
	if log == nil {
		var err error
		log, err = logger.New(false)
		if err != nil {
			return nil, err
		}
	}

	var env engine.Environment
	switch {
	case cfg.Invoker != nil && cfg.EnginePath != "":
		// A custom invoker defines its own engine; trust the given path.
		env = engine.Environment{EnginePath: cfg.EnginePath, Available: true}
	case cfg.EnginePath != "":
		ok, version := engine.Probe(context.Background(), cfg.EnginePath)
		env = engine.Environment{EnginePath: cfg.EnginePath, Available: ok, Version: version}
	default:
		env = engine.Detect(context.Background(), cfg.BaseDir)
	}
	if env.Available {
		log.Info("engine detected", zap.String("path", env.EnginePath), zap.String("version", env.Version))
	} else {
		log.Warn("engine not found; set " + engine.EnvOverride + " or place ffmpeg next to the app")
	}

	store := cfg.PresetStore
	if store == nil {
		path := cfg.PresetFile
		if path == "" {
			path = DefaultPresetPath()
		}
		store = presets.NewFileStore(path, log)
	}

	st := cfg.Storage
	if st == nil {
		st = storage.NewLocalStorage()
	}

	invoker := cfg.Invoker
	if invoker == nil {
		invoker = engine.NewInvoker(log)
	}

	var reporter events.Reporter = events.NoopReporter{}
	if cfg.EventCh != nil {
		reporter = events.NewChannelReporter(cfg.EventCh)
	}

	return &Forge{
		env:      env,
		queue:    appqueue.New(),
		presets:  presets.NewManager(store, log),
		runner:   batch.NewRunner(invoker, st, reporter, log),
		worker:   worker.New(log),
		storage:  st,
		log:      log,
	}, nil
}

// --- Queue operations (foreground thread only) ---

// Enqueue adds a source file to the queue. Returns false when the path is
// already queued.
func (f *Forge) Enqueue(path string, tags Tags) bool {
	added := f.queue.Add(path, tags)
	if added {
		f.log.Info("queued", zap.String("path", path))
	}
	return added
}

// SetTags replaces the metadata tags of a queued item.
func (f *Forge) SetTags(path string, tags Tags) bool {
	return f.queue.SetTags(path, tags)
}

// ClearQueue removes every queued item.
func (f *Forge) ClearQueue() {
	f.queue.Clear()
	f.log.Info("queue cleared")
}

// QueueLen returns the number of queued items.
func (f *Forge) QueueLen() int { return f.queue.Len() }

// QueuePaths returns the queued paths in insertion order.
func (f *Forge) QueuePaths() []string { return f.queue.Paths() }

// --- Preset operations (foreground thread only) ---

// ApplyPreset resolves a preset name to its conversion profile.
func (f *Forge) ApplyPreset(name string) (ConversionProfile, error) {
	return f.presets.Apply(name)
}

// SavePreset stores a user preset. Built-in names are rejected.
func (f *Forge) SavePreset(name string, profile ConversionProfile) error {
	return f.presets.Save(name, profile)
}

// DeletePreset removes a user preset. Built-in names are protected.
func (f *Forge) DeletePreset(name string) error {
	return f.presets.Delete(name)
}

// PresetNames lists every known preset, built-ins first.
func (f *Forge) PresetNames() []string { return f.presets.Names() }

// --- Engine ---

// EngineAvailable reports whether a working engine was found, and its path.
func (f *Forge) EngineAvailable() (bool, string) {
	return f.env.Available, f.env.EnginePath
}

// EngineVersion returns the probed engine version line, or "".
func (f *Forge) EngineVersion() string { return f.env.Version }

// --- Batch ---

// BatchHandle tracks one submitted batch run.
type BatchHandle struct {
	ID     string
	cancel context.CancelFunc
	done   chan struct{}
	result *BatchResult
	err    error
}

// Done is closed when the run finishes.
func (h *BatchHandle) Done() <-chan struct{} { return h.done }

// Cancel stops the run between items and interrupts an in-flight engine
// invocation.
func (h *BatchHandle) Cancel() { h.cancel() }

// Wait blocks until the run finishes or ctx is cancelled.
func (h *BatchHandle) Wait(ctx context.Context) (*BatchResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the finished run's result, or false while still running.
func (h *BatchHandle) Result() (*BatchResult, bool) {
	select {
	case <-h.done:
		return h.result, h.result != nil
	default:
		return nil, false
	}
}

// StartBatch snapshots the queue and profile, verifies the preconditions
// synchronously, and submits the run to the background worker. Precondition
// failures (empty queue, engine unavailable, output directory not
// creatable, a run already active) are returned immediately and nothing is
// submitted. The returned handle resolves when the run completes.
func (f *Forge) StartBatch(ctx context.Context, profile ConversionProfile, outputDir string, opts ...ports.BatchOption) (*BatchHandle, error) {
	if f.queue.Len() == 0 {
		return nil, pkgerrors.NewValidationError("queue", 0, "add audio files before starting a batch")
	}
	if !f.env.Available {
		return nil, pkgerrors.NewValidationError("engine", f.env.EnginePath, "transcoding engine is required and was not found")
	}
	if outputDir == "" {
		return nil, pkgerrors.NewValidationError("outputDir", "", "choose an output directory")
	}
	if err := profile.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError("profile", profile, err.Error())
	}
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.NewValidationError("state", "running", "a batch is already running")
	}
	if err := f.storage.EnsureDir(ctx, outputDir); err != nil {
		f.inFlight.Store(false)
		return nil, &pkgerrors.ForgeError{
			Code:    pkgerrors.ErrCodeIO,
			Message: fmt.Sprintf("cannot create output directory %s", outputDir),
			Cause:   err,
		}
	}

	options := ports.BatchOptions{Pattern: DefaultPattern}
	for _, o := range opts {
		o(&options)
	}

	req := batch.Request{
		ID:         uuid.NewString(),
		Items:      f.queue.Snapshot(),
		Profile:    profile,
		EnginePath: f.env.EnginePath,
		OutputDir:  outputDir,
		Options:    options,
	}

	runCtx, cancel := context.WithCancel(ctx)
	handle := &BatchHandle{
		ID:     req.ID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	submitted := f.worker.Submit(func() {
		defer f.inFlight.Store(false)
		defer close(handle.done)
		defer cancel()
		handle.result, handle.err = f.runner.Run(runCtx, req)
	})
	if !submitted {
		f.inFlight.Store(false)
		cancel()
		return nil, pkgerrors.NewValidationError("worker", "stopped", "worker has been stopped")
	}

	f.log.Info("batch submitted",
		zap.String("batch_id", req.ID),
		zap.Int("items", len(req.Items)),
	)
	return handle, nil
}

// Close stops the background worker after the current job and flushes the
// logger. Queued jobs that have not started are dropped.
func (f *Forge) Close() {
	f.worker.Stop()
	_ = f.log.Sync()
}

// DefaultOutputDir is the conventional output location.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "MusicForge_Output"
	}
	return filepath.Join(home, "Music", "MusicForge_Output")
}

// DefaultPresetPath is where user presets persist by default.
func DefaultPresetPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "presets.yaml"
	}
	return filepath.Join(dir, "music-forge", "presets.yaml")
}
