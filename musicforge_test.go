package musicforge

import (
	"context"
	"testing"
	"time"

	"github.com/darcovia/music-forge/domain/ports"
	"github.com/darcovia/music-forge/internal/mocks"
	"github.com/darcovia/music-forge/pkg/logger"
)

func newTestForge(t *testing.T, invoker ports.EngineInvoker) *Forge {
	t.Helper()
	if invoker == nil {
		invoker = &mocks.MockEngineInvoker{}
	}
	f, err := New(Config{
		EnginePath:  "/fake/ffmpeg",
		Logger:      logger.Nop(),
		Invoker:     invoker,
		Storage:     &mocks.MockStorage{},
		PresetStore: &mocks.MockPresetStore{},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func TestEnqueueDeduplicates(t *testing.T) {
	f := newTestForge(t, nil)

	if !f.Enqueue("/m/a.wav", nil) {
		t.Fatal("first enqueue should succeed")
	}
	if f.Enqueue("/m/a.wav", nil) {
		t.Error("duplicate enqueue should return false")
	}
	if f.QueueLen() != 1 {
		t.Errorf("QueueLen = %d, want 1", f.QueueLen())
	}

	f.ClearQueue()
	if f.QueueLen() != 0 {
		t.Errorf("QueueLen after clear = %d, want 0", f.QueueLen())
	}
}

func TestStartBatchPreconditions(t *testing.T) {
	t.Run("empty queue", func(t *testing.T) {
		f := newTestForge(t, nil)
		profile, _ := f.ApplyPreset("High MP3")
		if _, err := f.StartBatch(context.Background(), profile, t.TempDir()); err == nil {
			t.Error("start with empty queue must fail synchronously")
		}
	})

	t.Run("engine unavailable", func(t *testing.T) {
		f, err := New(Config{
			Logger:      logger.Nop(),
			Storage:     &mocks.MockStorage{},
			PresetStore: &mocks.MockPresetStore{},
			EnginePath:  "/definitely/not/a/binary",
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		t.Cleanup(f.Close)

		if ok, _ := f.EngineAvailable(); ok {
			t.Skip("unexpected working engine at fake path")
		}
		f.Enqueue("/m/a.wav", nil)
		profile, _ := f.ApplyPreset("High MP3")
		if _, err := f.StartBatch(context.Background(), profile, t.TempDir()); err == nil {
			t.Error("start without an engine must fail synchronously")
		}
	})

	t.Run("empty output dir", func(t *testing.T) {
		f := newTestForge(t, nil)
		f.Enqueue("/m/a.wav", nil)
		profile, _ := f.ApplyPreset("High MP3")
		if _, err := f.StartBatch(context.Background(), profile, ""); err == nil {
			t.Error("start without an output directory must fail synchronously")
		}
	})
}

func TestStartBatchRunsToCompletion(t *testing.T) {
	invoker := &mocks.MockEngineInvoker{}
	f := newTestForge(t, invoker)

	f.Enqueue("/m/a.wav", Tags{"artist": "A", "title": "One"})
	f.Enqueue("/m/b.wav", Tags{"artist": "B", "title": "Two"})

	profile, err := f.ApplyPreset("Podcast")
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}

	handle, err := f.StartBatch(context.Background(), profile, "/out", WithPattern("[artist] - [title]"))
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if res.Total != 2 || res.Failed() != 0 {
		t.Errorf("result = %s", res.Summary())
	}
	if len(invoker.Calls) != 2 {
		t.Errorf("engine invoked %d times, want 2", len(invoker.Calls))
	}

	// The queue is retained after a successful run; re-running works.
	if f.QueueLen() != 2 {
		t.Errorf("QueueLen after run = %d, want 2 (items retained)", f.QueueLen())
	}
}

func TestStartBatchRejectsConcurrentRun(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	invoker := &mocks.MockEngineInvoker{
		RunFunc: func(context.Context, []string) (ports.InvokeResult, error) {
			started <- struct{}{}
			<-block
			return ports.InvokeResult{}, nil
		},
	}
	f := newTestForge(t, invoker)
	f.Enqueue("/m/a.wav", nil)

	profile, _ := f.ApplyPreset("High MP3")
	handle, err := f.StartBatch(context.Background(), profile, "/out")
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("batch never started")
	}

	if _, err := f.StartBatch(context.Background(), profile, "/out"); err == nil {
		t.Error("second StartBatch while running must be rejected")
	}

	close(block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := handle.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestBatchHandleResult(t *testing.T) {
	invoker := &mocks.MockEngineInvoker{}
	f := newTestForge(t, invoker)
	f.Enqueue("/m/a.wav", nil)
	profile, _ := f.ApplyPreset("Voice Note")

	handle, err := f.StartBatch(context.Background(), profile, "/out")
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}

	<-handle.Done()
	res, ok := handle.Result()
	if !ok || res == nil {
		t.Fatal("Result should be available after Done")
	}
	if res.ID != handle.ID {
		t.Errorf("result ID %q != handle ID %q", res.ID, handle.ID)
	}
}

func TestPresetRoundTripThroughFacade(t *testing.T) {
	f := newTestForge(t, nil)

	names := f.PresetNames()
	if len(names) != 4 {
		t.Fatalf("built-in preset names = %v", names)
	}

	profile, err := f.ApplyPreset("Lossless")
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if profile.Format != FormatFLAC || profile.Quality != QualityLossless {
		t.Errorf("Lossless profile = %+v", profile)
	}

	if err := f.SavePreset("Lossless", profile); err == nil {
		t.Error("saving over a built-in must fail")
	}
	if err := f.DeletePreset("Voice Note"); err == nil {
		t.Error("deleting a built-in must fail")
	}

	if err := f.SavePreset("Mine", profile); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	if got, err := f.ApplyPreset("Mine"); err != nil || got != profile {
		t.Errorf("ApplyPreset(Mine) = %+v, %v", got, err)
	}
}
