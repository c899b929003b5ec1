package summarize

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
)

// Kind selects the request shape used to talk to a provider.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
	KindLocal     Kind = "local"
)

//go:embed models.json
var defaultRegistryJSON []byte

// RegistryEntry describes one provider: its API shape, the models it offers and which
// optional settings it accepts.
type RegistryEntry struct {
	Kind                Kind     `json:"kind"`
	Models              []string `json:"models"`
	DefaultAPIBase      string   `json:"default_api_base,omitempty"`
	APIBaseField        bool     `json:"api_base_field,omitempty"`
	OrganizationIDField bool     `json:"organization_id_field,omitempty"`
	MaxTokensField      bool     `json:"max_tokens_field,omitempty"`
	APIKeyOptional      bool     `json:"api_key_optional,omitempty"`
	APIKeyEnv           string   `json:"api_key_env,omitempty"`
}

// DefaultModel is the first listed model, or "" when the entry lists none.
func (e RegistryEntry) DefaultModel() string {
	if len(e.Models) == 0 {
		return ""
	}
	return e.Models[0]
}

// OptionalFields lists the extra setting keys the provider accepts, in display order.
func (e RegistryEntry) OptionalFields() []string {
	var fields []string
	if e.APIBaseField {
		fields = append(fields, KeyAPIBase)
	}
	if e.OrganizationIDField {
		fields = append(fields, KeyOrganizationID)
	}
	if e.MaxTokensField {
		fields = append(fields, KeyMaxTokens)
	}
	return fields
}

// Registry maps provider names to their entries. It is read-only once built.
type Registry struct {
	entries map[string]RegistryEntry
}

// NewRegistry copies entries into a new registry.
func NewRegistry(entries map[string]RegistryEntry) *Registry {
	r := &Registry{entries: make(map[string]RegistryEntry, len(entries))}
	for name, entry := range entries {
		r.entries[name] = entry
	}
	return r
}

// ParseRegistry decodes a models file.
func ParseRegistry(data []byte) (*Registry, error) {
	var entries map[string]RegistryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse provider registry: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("provider registry is empty")
	}
	return NewRegistry(entries), nil
}

// DefaultRegistry returns the registry compiled into the binary.
func DefaultRegistry() *Registry {
	r, err := ParseRegistry(defaultRegistryJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded models.json is invalid: %v", err))
	}
	return r
}

// LoadRegistry reads the models file at path. A missing or malformed file falls back to
// DefaultRegistry.
func LoadRegistry(path string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return DefaultRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Models file not found, using built-in registry", zap.String("path", path))
		} else {
			logger.Error("Error loading models file", zap.String("path", path), zap.Error(err))
		}
		return DefaultRegistry()
	}
	r, err := ParseRegistry(data)
	if err != nil {
		logger.Error("Error loading models file", zap.String("path", path), zap.Error(err))
		return DefaultRegistry()
	}
	return r
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (RegistryEntry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Names returns the provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
