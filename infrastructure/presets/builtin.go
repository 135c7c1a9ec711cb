// Package presets manages named conversion profiles: a fixed built-in set
// and a persisted user-defined set. User preset names may never shadow a
// built-in.
package presets

import "github.com/darcovia/music-forge/domain/model"

// Built-in preset names.
const (
	BuiltinHighMP3   = "High MP3"
	BuiltinLossless  = "Lossless"
	BuiltinPodcast   = "Podcast"
	BuiltinVoiceNote = "Voice Note"
)

// builtins is the read-only built-in preset table.
var builtins = map[string]model.Preset{
	BuiltinHighMP3: {
		Name: BuiltinHighMP3,
		Profile: model.ConversionProfile{
			Format:     model.FormatMP3,
			Quality:    model.QualityHigh,
			SampleRate: 44100,
			Channels:   2,
		},
	},
	BuiltinLossless: {
		Name: BuiltinLossless,
		Profile: model.ConversionProfile{
			Format:     model.FormatFLAC,
			Quality:    model.QualityLossless,
			SampleRate: 48000,
			Channels:   2,
		},
	},
	BuiltinPodcast: {
		Name: BuiltinPodcast,
		Profile: model.ConversionProfile{
			Format:      model.FormatM4A,
			Quality:     model.QualityMedium,
			SampleRate:  44100,
			Channels:    1,
			Normalize:   true,
			TrimSilence: true,
		},
	},
	BuiltinVoiceNote: {
		Name: BuiltinVoiceNote,
		Profile: model.ConversionProfile{
			Format:      model.FormatOGG,
			Quality:     model.QualityMedium,
			SampleRate:  32000,
			Channels:    1,
			Normalize:   true,
			TrimSilence: true,
		},
	},
}

// BuiltIn returns a copy of the built-in preset table.
func BuiltIn() map[string]model.Preset {
	out := make(map[string]model.Preset, len(builtins))
	for k, v := range builtins {
		out[k] = v
	}
	return out
}

// IsBuiltIn reports whether name is a built-in preset name.
func IsBuiltIn(name string) bool {
	_, ok := builtins[name]
	return ok
}
