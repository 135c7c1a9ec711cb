package presets

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/darcovia/music-forge/domain/model"
	"github.com/darcovia/music-forge/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// presetRecord is the persisted form of one user preset.
type presetRecord struct {
	Format      string `yaml:"format"`
	Quality     string `yaml:"quality"`
	Normalize   bool   `yaml:"normalize"`
	TrimSilence bool   `yaml:"trim_silence"`
	SampleRate  int    `yaml:"samplerate"`
	Channels    int    `yaml:"channels"`
}

// FileStore persists the user preset set as a YAML name-to-record mapping.
// It implements ports.PresetStore. A missing or unreadable file degrades to
// an empty set; malformed entries are dropped with a warning rather than
// surfacing as type errors later.
type FileStore struct {
	path string
	log  *logger.Logger
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	if log == nil {
		log = logger.Nop()
	}
	return &FileStore{path: path, log: log}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the persisted user presets. It never fails startup: any load
// problem yields an empty set and a warning.
func (s *FileStore) Load() (map[string]model.Preset, error) {
	out := make(map[string]model.Preset)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("preset file unreadable, starting with empty user presets",
				zap.String("path", s.path), zap.Error(err))
		}
		return out, nil
	}

	var raw map[string]presetRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		s.log.Warn("preset file malformed, starting with empty user presets",
			zap.String("path", s.path), zap.Error(err))
		return out, nil
	}

	for name, rec := range raw {
		p := model.Preset{
			Name: name,
			Profile: model.ConversionProfile{
				Format:      model.Format(rec.Format),
				Quality:     model.Quality(rec.Quality),
				Normalize:   rec.Normalize,
				TrimSilence: rec.TrimSilence,
				SampleRate:  rec.SampleRate,
				Channels:    rec.Channels,
			},
		}
		if name == "" || IsBuiltIn(name) || p.Profile.Validate() != nil {
			s.log.Warn("dropping invalid persisted preset", zap.String("name", name))
			continue
		}
		out[name] = p
	}
	return out, nil
}

// Save writes the whole user preset set atomically (write temp, rename).
func (s *FileStore) Save(presets map[string]model.Preset) error {
	raw := make(map[string]presetRecord, len(presets))
	for name, p := range presets {
		raw[name] = presetRecord{
			Format:      string(p.Profile.Format),
			Quality:     string(p.Profile.Quality),
			Normalize:   p.Profile.Normalize,
			TrimSilence: p.Profile.TrimSilence,
			SampleRate:  p.Profile.SampleRate,
			Channels:    p.Profile.Channels,
		}
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
