package mocks

import (
	"context"
	"sync"

	"github.com/darcovia/music-forge/domain/model"
	"github.com/darcovia/music-forge/domain/ports"
	"github.com/darcovia/music-forge/pkg/events"
)

// MockEngineInvoker is a test double for ports.EngineInvoker
type MockEngineInvoker struct {
	RunFunc func(ctx context.Context, args []string) (ports.InvokeResult, error)
	Calls   [][]string
}

func (m *MockEngineInvoker) Run(ctx context.Context, args []string) (ports.InvokeResult, error) {
	m.Calls = append(m.Calls, args)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, args)
	}
	return ports.InvokeResult{ExitCode: 0}, nil
}

// MockStorage is a test double for ports.Storage
type MockStorage struct {
	ExistsFunc    func(ctx context.Context, path string) (bool, error)
	SizeFunc      func(ctx context.Context, path string) (int64, error)
	EnsureDirFunc func(ctx context.Context, dir string) error
	RemoveFunc    func(ctx context.Context, path string) error
	EnsuredDirs   []string
}

func (m *MockStorage) Exists(ctx context.Context, path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, path)
	}
	return true, nil
}

func (m *MockStorage) Size(ctx context.Context, path string) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(ctx, path)
	}
	return 1024, nil
}

func (m *MockStorage) EnsureDir(ctx context.Context, dir string) error {
	m.EnsuredDirs = append(m.EnsuredDirs, dir)
	if m.EnsureDirFunc != nil {
		return m.EnsureDirFunc(ctx, dir)
	}
	return nil
}

func (m *MockStorage) Remove(ctx context.Context, path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, path)
	}
	return nil
}

// MockPresetStore is a test double for ports.PresetStore
type MockPresetStore struct {
	LoadFunc func() (map[string]model.Preset, error)
	SaveFunc func(presets map[string]model.Preset) error
	Saved    []map[string]model.Preset
}

func (m *MockPresetStore) Load() (map[string]model.Preset, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return map[string]model.Preset{}, nil
}

func (m *MockPresetStore) Save(presets map[string]model.Preset) error {
	m.Saved = append(m.Saved, presets)
	if m.SaveFunc != nil {
		return m.SaveFunc(presets)
	}
	return nil
}

// CollectorReporter records every event it receives. Safe for use from the
// worker goroutine.
type CollectorReporter struct {
	mu      sync.Mutex
	Updates []events.Update
}

func (c *CollectorReporter) Report(u events.Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Updates = append(c.Updates, u)
}

// Snapshot returns a copy of the recorded events.
func (c *CollectorReporter) Snapshot() []events.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Update, len(c.Updates))
	copy(out, c.Updates)
	return out
}
