package combine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnsupportedExtension is matched by every UnsupportedExtensionError.
var ErrUnsupportedExtension = errors.New("unsupported extension")

// UnsupportedExtensionError reports a file whose extension is not in the allow-list.
// Extension is empty when the file has no extension at all.
type UnsupportedExtensionError struct {
	Path      string
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("no extension - %s", e.Path)
	}
	return fmt.Sprintf("unsupported extension %s - %s", e.Extension, e.Path)
}

func (e *UnsupportedExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// NoSuffix reports whether the file was rejected for having no extension.
func (e *UnsupportedExtensionError) NoSuffix() bool {
	return e.Extension == ""
}

// Collector owns the extension allow-list and the ordered list of accepted files.
// It is not safe for concurrent use.
type Collector struct {
	opts       Options
	extensions ExtensionSet
	paths      []string
	logger     *zap.Logger
}

// NewCollector loads the allow-list from opts.ExtensionsFile and returns an empty collector.
func NewCollector(opts Options, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		opts:       opts,
		extensions: LoadExtensionSet(opts.ExtensionsFile, logger),
		logger:     logger,
	}
}

// Extensions returns a copy of the current allow-list.
func (c *Collector) Extensions() ExtensionSet {
	return c.extensions.Clone()
}

// Paths returns a copy of the accepted paths in insertion order.
func (c *Collector) Paths() []string {
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

// IsAcceptable reports whether path's extension, case-folded, is in the allow-list.
func (c *Collector) IsAcceptable(path string) bool {
	ext, ok := suffixOf(path)
	return ok && c.extensions.Contains(ext)
}

// Add appends path to the accepted list. Duplicates are kept.
func (c *Collector) Add(path string) {
	c.paths = append(c.paths, path)
}

// Clear empties the accepted list.
func (c *Collector) Clear() {
	c.paths = nil
	c.logger.Info("Cleared accepted files")
}

// AddExtension appends ext to the allow-list and persists it. It returns false, without
// touching the list, when ext is already present. Shape validation is the caller's job
// (see NormalizeExtension).
func (c *Collector) AddExtension(ext string) bool {
	if c.extensions.Contains(ext) {
		return false
	}
	c.extensions = append(c.extensions, ext)
	c.logger.Info("Added new extension", zap.String("extension", ext))
	c.persist()
	return true
}

// RemoveExtensions drops each named extension; absent names are ignored.
func (c *Collector) RemoveExtensions(exts ...string) {
	removed := 0
	for _, ext := range exts {
		for i, e := range c.extensions {
			if e == ext {
				c.extensions = append(c.extensions[:i], c.extensions[i+1:]...)
				removed++
				break
			}
		}
	}
	c.logger.Info("Removed extensions", zap.Strings("requested", exts), zap.Int("removed", removed))
	c.persist()
}

// ResetExtensions restores DefaultExtensions and persists them.
func (c *Collector) ResetExtensions() {
	c.extensions = DefaultExtensions.Clone()
	c.logger.Info("Reset extensions to defaults")
	c.persist()
}

// persist saves the allow-list. A failed write is logged only: the in-memory list
// stays authoritative for the session.
func (c *Collector) persist() {
	if c.opts.ExtensionsFile == "" {
		return
	}
	if err := SaveExtensionSet(c.opts.ExtensionsFile, c.extensions); err != nil {
		c.logger.Error("Error saving extension config", zap.String("file", c.opts.ExtensionsFile), zap.Error(err))
		return
	}
	c.logger.Info("Configuration saved", zap.String("file", c.opts.ExtensionsFile))
}
