package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocateEnvOverrideWins(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "ffmpeg"))
	override := touch(t, filepath.Join(t.TempDir(), "custom-ffmpeg"))

	t.Setenv(EnvOverride, override)
	if got := Locate(base); got != override {
		t.Errorf("Locate = %q, want env override %q", got, override)
	}
}

func TestLocateIgnoresBogusOverride(t *testing.T) {
	base := t.TempDir()
	want := touch(t, filepath.Join(base, "ffmpeg"))

	t.Setenv(EnvOverride, filepath.Join(base, "does-not-exist"))
	if got := Locate(base); got != want {
		t.Errorf("Locate = %q, want base-dir binary %q", got, want)
	}
}

func TestLocateSearchOrder(t *testing.T) {
	t.Setenv(EnvOverride, "")

	t.Run("base dir before bin", func(t *testing.T) {
		base := t.TempDir()
		want := touch(t, filepath.Join(base, "ffmpeg"))
		touch(t, filepath.Join(base, "bin", "ffmpeg"))
		if got := Locate(base); got != want {
			t.Errorf("Locate = %q, want %q", got, want)
		}
	})

	t.Run("bin before assets", func(t *testing.T) {
		base := t.TempDir()
		want := touch(t, filepath.Join(base, "bin", "ffmpeg"))
		touch(t, filepath.Join(base, AssetsDirName, "ffmpeg"))
		if got := Locate(base); got != want {
			t.Errorf("Locate = %q, want %q", got, want)
		}
	})

	t.Run("assets folder found", func(t *testing.T) {
		base := t.TempDir()
		want := touch(t, filepath.Join(base, AssetsDirName, "ffmpeg"))
		if got := Locate(base); got != want {
			t.Errorf("Locate = %q, want %q", got, want)
		}
	})
}

func TestProbeMissingBinary(t *testing.T) {
	if ok, _ := Probe(context.Background(), filepath.Join(t.TempDir(), "nope")); ok {
		t.Error("Probe should fail for a missing binary")
	}
	if ok, _ := Probe(context.Background(), ""); ok {
		t.Error("Probe should fail for an empty path")
	}
}

func TestInvokerNonZeroExitIsNotAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	inv := NewInvoker(nil)

	res, err := inv.Run(context.Background(), []string{"sh", "-c", "echo out; echo err 1>&2; exit 3"})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestInvokerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	inv := NewInvoker(nil)

	res, err := inv.Run(context.Background(), []string{"sh", "-c", "exit 0"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestInvokerMissingBinaryIsError(t *testing.T) {
	inv := NewInvoker(nil)
	if _, err := inv.Run(context.Background(), []string{filepath.Join(t.TempDir(), "ghost")}); err == nil {
		t.Error("running a missing binary must return an error")
	}
}

func TestInvokerEmptyArgsRejected(t *testing.T) {
	inv := NewInvoker(nil)
	if _, err := inv.Run(context.Background(), nil); err == nil {
		t.Error("empty args must be rejected")
	}
}

func TestInvokerCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := NewInvoker(nil)
	if _, err := inv.Run(ctx, []string{"sh", "-c", "sleep 10"}); err == nil {
		t.Error("cancelled context must surface as an error")
	}
}
