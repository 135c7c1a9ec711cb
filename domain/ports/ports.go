package ports

import (
	"context"

	"github.com/darcovia/music-forge/domain/model"
)

// InvokeResult is the outcome of one engine subprocess run. A non-zero exit
// code is a normal, reportable outcome, not an invoker failure.
type InvokeResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// EngineInvoker runs the external transcoding engine. Run returns an error
// only when the process could not be started or the context was cancelled;
// the engine exiting non-zero is reported through InvokeResult.ExitCode.
type EngineInvoker interface {
	Run(ctx context.Context, args []string) (InvokeResult, error)
}

// Storage abstracts the filesystem operations the pipeline needs.
type Storage interface {
	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)

	// Size returns file size in bytes
	Size(ctx context.Context, path string) (int64, error)

	// EnsureDir creates a directory (and parents) if missing
	EnsureDir(ctx context.Context, dir string) error

	// Remove deletes a file
	Remove(ctx context.Context, path string) error
}

// PresetStore persists the user-defined preset set. Load failures must
// degrade to an empty set rather than failing startup.
type PresetStore interface {
	Load() (map[string]model.Preset, error)
	Save(presets map[string]model.Preset) error
}

// BatchOption is the functional option type for per-run batch settings.
type BatchOption func(*BatchOptions)

// BatchOptions carries per-run settings beyond the conversion profile.
type BatchOptions struct {
	// Pattern is the filename template resolved per queue item.
	Pattern string

	// SkipExisting skips items whose output path already exists.
	SkipExisting bool
}

// WithPattern sets the naming pattern used to derive output base names.
func WithPattern(pattern string) BatchOption {
	return func(o *BatchOptions) {
		if pattern != "" {
			o.Pattern = pattern
		}
	}
}

// WithSkipExisting enables skipping items whose output already exists.
func WithSkipExisting(skip bool) BatchOption {
	return func(o *BatchOptions) {
		o.SkipExisting = skip
	}
}
