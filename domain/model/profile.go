package model

import "fmt"

// Format identifies a supported output container/codec family.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
	FormatM4A  Format = "m4a"
)

// Formats lists every supported output format in display order.
func Formats() []Format {
	return []Format{FormatMP3, FormatWAV, FormatFLAC, FormatOGG, FormatM4A}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case FormatMP3, FormatWAV, FormatFLAC, FormatOGG, FormatM4A:
		return true
	}
	return false
}

// Quality is the user-facing quality tier. Its meaning is format-dependent;
// see the encode argument mapping in application/command.
type Quality string

const (
	QualityLow      Quality = "low"
	QualityMedium   Quality = "medium"
	QualityHigh     Quality = "high"
	QualityLossless Quality = "lossless"
)

// ConversionProfile is the resolved set of encode parameters for a batch run.
// It is a plain value: the batch runner copies it at run start, so the caller
// may keep mutating its own live profile while a run is in flight.
type ConversionProfile struct {
	Format      Format
	Quality     Quality
	SampleRate  int
	Channels    int
	Normalize   bool
	TrimSilence bool
}

// Validate checks the structural invariants of a profile. Quality is not
// checked: unknown values fall back to the format's medium tier at encode
// time rather than failing.
func (p ConversionProfile) Validate() error {
	if !p.Format.Valid() {
		return fmt.Errorf("unsupported format: %q", p.Format)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", p.SampleRate)
	}
	if p.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", p.Channels)
	}
	return nil
}

// Preset is a named, immutable bundle of profile fields. Built-in presets
// ship with the application; user presets are persisted by the preset store.
type Preset struct {
	Name    string
	Profile ConversionProfile
}
