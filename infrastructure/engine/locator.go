// Package engine locates and invokes the external transcoding engine
// (ffmpeg) as a subprocess.
package engine

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvOverride is the environment variable that forces a specific engine
// binary, taking precedence over every other search location.
const EnvOverride = "FFMPEG_PATH"

// AssetsDirName is the bundled assets folder searched for a shipped binary.
const AssetsDirName = "assets_music_forge"

// Environment is the resolved engine configuration, computed once at
// startup and passed explicitly into the components that need it.
type Environment struct {
	// EnginePath is the resolved binary path ("" when nothing was found).
	EnginePath string

	// Available is true when the binary exists and answered a version probe.
	Available bool

	// Version is the first line of the engine's version output, when probed.
	Version string
}

func binaryNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"ffmpeg.exe", "ffmpeg"}
	}
	return []string{"ffmpeg"}
}

// Locate resolves the engine binary using the fixed search order:
// environment override, baseDir, baseDir/bin, baseDir assets folder, then
// the system path. Returns "" when nothing is found.
func Locate(baseDir string) string {
	if env := os.Getenv(EnvOverride); env != "" {
		if fi, err := os.Stat(env); err == nil && !fi.IsDir() {
			if abs, err := filepath.Abs(env); err == nil {
				return abs
			}
			return env
		}
	}

	var candidates []string
	for _, name := range binaryNames() {
		candidates = append(candidates,
			filepath.Join(baseDir, name),
			filepath.Join(baseDir, "bin", name),
			filepath.Join(baseDir, AssetsDirName, name),
		)
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			if abs, err := filepath.Abs(c); err == nil {
				return abs
			}
			return c
		}
	}

	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p
	}
	return ""
}

// Probe runs "<path> -version" and returns whether the binary answered,
// plus the first line of its version output.
func Probe(ctx context.Context, path string) (bool, string) {
	if path == "" {
		return false, ""
	}
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return false, ""
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx > 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return true, line
}

// Detect locates and probes the engine in one step. baseDir defaults to the
// executable's directory when empty.
func Detect(ctx context.Context, baseDir string) Environment {
	if baseDir == "" {
		if exe, err := os.Executable(); err == nil {
			baseDir = filepath.Dir(exe)
		}
	}
	path := Locate(baseDir)
	ok, version := Probe(ctx, path)
	if !ok {
		return Environment{EnginePath: path}
	}
	return Environment{EnginePath: path, Available: true, Version: version}
}
