// Package command synthesizes engine argument lists from conversion
// profiles. Build is pure: no I/O, no side effects, unit-testable without
// ever spawning the engine.
package command

import (
	"sort"
	"strconv"

	"github.com/darcovia/music-forge/domain/model"
)

// Loudness normalization targets (EBU R128, streaming-oriented).
const (
	loudnormTarget   = -14.0 // LUFS
	loudnormTruePeak = -1.5  // dBTP
	loudnormRange    = 11.0  // LU
)

// Leading-silence trim parameters.
const (
	trimThresholdDB = -45
	trimMinSilence  = 0.4 // seconds
)

// Build constructs the complete engine argument slice for one file. The
// generated command follows a fixed skeleton:
//
//	engine -y -i <input> -ac <channels> -ar <rate> [-af <filtergraph>]
//	       [-metadata k=v]* <format-specific args> <output>
//
// enginePath is the resolved engine binary and becomes args[0].
func Build(enginePath, inputPath, outputPath string, p model.ConversionProfile, tags model.Tags) []string {
	args := make([]string, 0, 24)

	// --- Preamble: binary, overwrite, input ---
	args = append(args, enginePath, "-y", "-i", inputPath)

	// --- Channel count and sample rate ---
	args = append(args,
		"-ac", strconv.Itoa(p.Channels),
		"-ar", strconv.Itoa(p.SampleRate),
	)

	// --- Filter chain (trim before loudnorm, single -af argument) ---
	fc := NewFilterChain()
	if p.TrimSilence {
		fc.AddTrimSilence(trimThresholdDB, trimMinSilence)
	}
	if p.Normalize {
		fc.AddLoudnorm(loudnormTarget, loudnormTruePeak, loudnormRange)
	}
	if !fc.IsEmpty() {
		args = append(args, "-af", fc.Build())
	}

	// --- Metadata (non-empty tags only) ---
	args = appendMetadata(args, tags)

	// --- Format-specific encoding arguments ---
	args = appendEncodeArgs(args, p.Format, p.Quality)

	// --- Output ---
	args = append(args, outputPath)

	return args
}

// appendMetadata emits one "-metadata k=v" pair per non-empty tag value, in
// canonical order (title, artist, album) followed by any remaining keys
// sorted, so output is deterministic.
func appendMetadata(args []string, tags model.Tags) []string {
	canonical := []string{model.TagTitle, model.TagArtist, model.TagAlbum}

	emit := func(key string) []string {
		if v := tags.Get(key); v != "" {
			args = append(args, "-metadata", key+"="+v)
		}
		return args
	}

	seen := make(map[string]bool, len(canonical))
	for _, k := range canonical {
		args = emit(k)
		seen[k] = true
	}

	var rest []string
	for k := range tags {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		args = emit(k)
	}
	return args
}

// appendEncodeArgs adds the codec and rate arguments for the chosen format.
// An unknown quality value falls back to the format's medium tier rather
// than failing.
func appendEncodeArgs(args []string, format model.Format, quality model.Quality) []string {
	switch format {
	case model.FormatMP3:
		bitrate := map[model.Quality]string{
			model.QualityLow:      "128k",
			model.QualityMedium:   "192k",
			model.QualityHigh:     "320k",
			model.QualityLossless: "320k",
		}[quality]
		if bitrate == "" {
			bitrate = "192k"
		}
		args = append(args, "-b:a", bitrate)

	case model.FormatWAV:
		// Fixed 16-bit PCM; quality has no meaning here.
		args = append(args, "-acodec", "pcm_s16le")

	case model.FormatFLAC:
		// Lossless codec, fixed compression level; quality has no meaning.
		args = append(args, "-acodec", "flac", "-compression_level", "5")

	case model.FormatOGG:
		q := map[model.Quality]string{
			model.QualityLow:      "3",
			model.QualityMedium:   "6",
			model.QualityHigh:     "9",
			model.QualityLossless: "10",
		}[quality]
		if q == "" {
			q = "6"
		}
		args = append(args, "-q:a", q)

	case model.FormatM4A:
		bitrate := map[model.Quality]string{
			model.QualityLow:      "128k",
			model.QualityMedium:   "192k",
			model.QualityHigh:     "256k",
			model.QualityLossless: "320k",
		}[quality]
		if bitrate == "" {
			bitrate = "192k"
		}
		args = append(args, "-c:a", "aac", "-b:a", bitrate)
	}
	return args
}
