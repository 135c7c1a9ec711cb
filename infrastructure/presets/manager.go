package presets

import (
	"sort"

	"github.com/darcovia/music-forge/domain/model"
	"github.com/darcovia/music-forge/domain/ports"
	pkgerrors "github.com/darcovia/music-forge/pkg/errors"
	"github.com/darcovia/music-forge/pkg/logger"
	"go.uber.org/zap"
)

// Manager resolves preset names against the built-in table and the user
// store. It is not safe for concurrent use: preset operations belong to the
// caller's foreground thread, never to a batch job.
type Manager struct {
	store ports.PresetStore
	user  map[string]model.Preset
	log   *logger.Logger
}

// NewManager loads the user preset set from store. Load failures degrade to
// an empty user set.
func NewManager(store ports.PresetStore, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	user, err := store.Load()
	if err != nil {
		log.Warn("loading user presets failed", zap.Error(err))
		user = make(map[string]model.Preset)
	}
	return &Manager{store: store, user: user, log: log}
}

// Apply resolves name to its conversion profile. Built-ins win; unknown
// names fail with ErrPresetNotFound.
func (m *Manager) Apply(name string) (model.ConversionProfile, error) {
	if p, ok := builtins[name]; ok {
		return p.Profile, nil
	}
	if p, ok := m.user[name]; ok {
		return p.Profile, nil
	}
	return model.ConversionProfile{}, pkgerrors.NewPresetError(name, pkgerrors.ErrPresetNotFound)
}

// Save stores a user preset under name and persists the set. Saving under a
// built-in name fails with ErrNameCollision; the store file stays untouched
// on any failure.
func (m *Manager) Save(name string, profile model.ConversionProfile) error {
	if name == "" {
		return pkgerrors.NewValidationError("name", name, "preset name must not be empty")
	}
	if IsBuiltIn(name) {
		return pkgerrors.NewPresetError(name, pkgerrors.ErrNameCollision)
	}
	if err := profile.Validate(); err != nil {
		return pkgerrors.NewValidationError("profile", profile, err.Error())
	}

	next := m.cloneUser()
	next[name] = model.Preset{Name: name, Profile: profile}
	if err := m.store.Save(next); err != nil {
		return err
	}
	m.user = next
	m.log.Info("preset saved", zap.String("name", name))
	return nil
}

// Delete removes a user preset and persists the set. Built-in names fail
// with ErrPresetProtected, unknown names with ErrPresetNotFound; the store
// file stays untouched in both cases.
func (m *Manager) Delete(name string) error {
	if IsBuiltIn(name) {
		return pkgerrors.NewPresetError(name, pkgerrors.ErrPresetProtected)
	}
	if _, ok := m.user[name]; !ok {
		return pkgerrors.NewPresetError(name, pkgerrors.ErrPresetNotFound)
	}

	next := m.cloneUser()
	delete(next, name)
	if err := m.store.Save(next); err != nil {
		return err
	}
	m.user = next
	m.log.Info("preset deleted", zap.String("name", name))
	return nil
}

// Names returns every known preset name, built-ins first, each group sorted.
func (m *Manager) Names() []string {
	bi := make([]string, 0, len(builtins))
	for name := range builtins {
		bi = append(bi, name)
	}
	sort.Strings(bi)

	us := make([]string, 0, len(m.user))
	for name := range m.user {
		us = append(us, name)
	}
	sort.Strings(us)

	return append(bi, us...)
}

func (m *Manager) cloneUser() map[string]model.Preset {
	out := make(map[string]model.Preset, len(m.user))
	for k, v := range m.user {
		out[k] = v
	}
	return out
}
