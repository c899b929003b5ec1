package summarize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// DefaultProvider is used when the preferences name no current provider.
	DefaultProvider = "OpenAI"

	currentProviderKey = "current_provider"
)

// Preferences holds the per-provider settings and the provider selected for summarization.
// On disk it is a flat JSON object: "current_provider" plus one object per provider name.
type Preferences struct {
	Current   string
	Providers map[string]Settings
}

// CurrentProvider returns the selected provider, defaulting to DefaultProvider.
func (p *Preferences) CurrentProvider() string {
	if p.Current == "" {
		return DefaultProvider
	}
	return p.Current
}

// SetCurrentProvider selects the provider used by SummarizeWithPreferences.
func (p *Preferences) SetCurrentProvider(name string) {
	p.Current = name
}

// Settings returns a copy of the settings stored for name. Unknown names yield empty settings.
func (p *Preferences) Settings(name string) Settings {
	return p.Providers[name].Clone()
}

// Set stores one setting for a provider.
func (p *Preferences) Set(name, key string, value any) {
	if p.Providers == nil {
		p.Providers = make(map[string]Settings)
	}
	if p.Providers[name] == nil {
		p.Providers[name] = make(Settings)
	}
	p.Providers[name][key] = value
}

// MarshalJSON writes the flat on-disk layout.
func (p Preferences) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Providers)+1)
	for name, settings := range p.Providers {
		flat[name] = settings
	}
	if p.Current != "" {
		flat[currentProviderKey] = p.Current
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat on-disk layout. Top-level values that are not objects,
// other than "current_provider", are ignored.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	p.Current = ""
	p.Providers = make(map[string]Settings, len(flat))
	for key, raw := range flat {
		if key == currentProviderKey {
			var current string
			if err := json.Unmarshal(raw, &current); err == nil {
				p.Current = current
			}
			continue
		}
		var settings Settings
		if err := json.Unmarshal(raw, &settings); err != nil || settings == nil {
			continue
		}
		p.Providers[key] = settings
	}
	return nil
}

// LoadPreferences reads the preferences file. A missing or malformed file yields empty
// preferences.
func LoadPreferences(path string, logger *zap.Logger) *Preferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefs := &Preferences{Providers: make(map[string]Settings)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Preferences file unreadable, starting fresh", zap.String("path", path), zap.Error(err))
		}
		return prefs
	}
	if err := json.Unmarshal(data, prefs); err != nil {
		logger.Warn("Preferences file invalid, starting fresh", zap.String("path", path), zap.Error(err))
		return &Preferences{Providers: make(map[string]Settings)}
	}
	return prefs
}

// SavePreferences writes prefs to path as indented JSON.
func SavePreferences(path string, prefs *Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
