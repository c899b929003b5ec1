package combine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultExtensions is the allow-list used when no readable extension file exists.
var DefaultExtensions = ExtensionSet{
	".md", ".py", ".js", ".java", ".kt", ".cs", ".cpp", ".h",
	".php", ".rb", ".go", ".swift", ".html", ".htm", ".css", ".dart",
	".jsx", ".tsx", ".ts", ".sh", ".sql", ".r", ".m", ".c", ".hpp",
	".json", ".xml", ".yaml", ".toml", ".ini", ".gradle", ".groovy",
	".lua", ".scala", ".pl", ".vb", ".vbs", ".asm", ".pas", ".f", ".for",
	".rs", ".erl", ".hs", ".clj", ".lisp", ".scm", ".ml", ".fs",
	".cob", ".coffee", ".tcl", ".ex", ".exs", ".vue", ".svelte",
	".bat", ".ps1", ".powershell", ".gitignore", ".dockerfile", ".txt",
}

var (
	// suffixPattern matches the trailing extension of a base name.
	suffixPattern = regexp.MustCompile(`\.[A-Za-z0-9_]+$`)
	// extensionPattern matches a whole, well-formed extension.
	extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9_]+$`)
)

var (
	ErrExtensionEmpty   = errors.New("extension is empty")
	ErrExtensionNoDot   = errors.New("extension must start with a dot")
	ErrExtensionCharset = errors.New("invalid characters in extension")
)

// ExtensionSet is an ordered list of unique, lower-cased, dot-prefixed extensions.
type ExtensionSet []string

// Contains reports whether ext is a member of the set.
func (s ExtensionSet) Contains(ext string) bool {
	for _, e := range s {
		if e == ext {
			return true
		}
	}
	return false
}

// Clone returns a copy that never aliases s.
func (s ExtensionSet) Clone() ExtensionSet {
	out := make(ExtensionSet, len(s))
	copy(out, s)
	return out
}

type extensionFile struct {
	SupportedExtensions *[]string `json:"supported_extensions"`
}

// LoadExtensionSet reads the allow-list from path. A missing or malformed file, or one
// without a "supported_extensions" key, yields a copy of DefaultExtensions.
// Malformed or duplicate entries are dropped.
func LoadExtensionSet(path string, logger *zap.Logger) ExtensionSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Extension config not found or unreadable, using default extensions",
			zap.String("file", path), zap.Error(err))
		return DefaultExtensions.Clone()
	}

	var cfg extensionFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warn("Extension config is invalid, using default extensions",
			zap.String("file", path), zap.Error(err))
		return DefaultExtensions.Clone()
	}
	if cfg.SupportedExtensions == nil {
		logger.Warn("Extension config has no supported_extensions, using default extensions",
			zap.String("file", path))
		return DefaultExtensions.Clone()
	}

	set := make(ExtensionSet, 0, len(*cfg.SupportedExtensions))
	for _, raw := range *cfg.SupportedExtensions {
		ext := strings.ToLower(strings.TrimSpace(raw))
		if !ValidExtension(ext) {
			logger.Warn("Dropping malformed extension from config", zap.String("extension", raw))
			continue
		}
		if set.Contains(ext) {
			continue
		}
		set = append(set, ext)
	}

	logger.Debug("Loaded extension config", zap.String("file", path), zap.Int("extensions", len(set)))
	return set
}

// SaveExtensionSet writes set to path as indented JSON.
func SaveExtensionSet(path string, set ExtensionSet) error {
	if set == nil {
		set = ExtensionSet{}
	}
	list := []string(set)
	data, err := json.MarshalIndent(extensionFile{SupportedExtensions: &list}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode extension config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write extension config: %w", err)
	}
	return nil
}

// ValidExtension reports whether ext is a dot followed by one or more [A-Za-z0-9_].
func ValidExtension(ext string) bool {
	return extensionPattern.MatchString(ext)
}

// NormalizeExtension trims and lower-cases user input and checks its shape.
func NormalizeExtension(input string) (string, error) {
	ext := strings.ToLower(strings.TrimSpace(input))
	switch {
	case ext == "":
		return "", ErrExtensionEmpty
	case !strings.HasPrefix(ext, "."):
		return "", fmt.Errorf("%w: %q", ErrExtensionNoDot, input)
	case !ValidExtension(ext):
		return "", fmt.Errorf("%w: %q", ErrExtensionCharset, input)
	}
	return ext, nil
}

// suffixOf returns the lower-cased trailing extension of path's base name.
func suffixOf(path string) (string, bool) {
	match := suffixPattern.FindString(filepath.Base(path))
	if match == "" {
		return "", false
	}
	return strings.ToLower(match), true
}
