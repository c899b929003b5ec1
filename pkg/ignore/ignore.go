// Package ignore applies gitignore-style rules to paths found while importing folders.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// Matcher holds compiled ignore patterns. A nil Matcher matches nothing.
type Matcher struct {
	parser  *gitignore.GitIgnore
	Sources []string // Files the patterns were read from, in load order.
	Lines   []string // Pattern lines in evaluation order.
}

// CompileIgnoreLines builds a Matcher from raw pattern lines.
func CompileIgnoreLines(lines ...string) *Matcher {
	return &Matcher{
		parser: gitignore.CompileIgnoreLines(lines...),
		Lines:  append([]string(nil), lines...),
	}
}

// LoadIgnoreFiles merges the global file and then the local one, so local patterns
// (including negations) take precedence. Missing files are skipped. It returns nil when
// neither file contributed any pattern.
func LoadIgnoreFiles(localPath, globalPath string, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var lines, sources []string
	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		fileLines, err := readPatternLines(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Ignore file not present", zap.String("file", path))
			continue
		}
		if err != nil {
			logger.Error("Failed to read ignore file", zap.String("file", path), zap.Error(err))
			return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
		}
		lines = append(lines, fileLines...)
		sources = append(sources, path)
		logger.Debug("Loaded ignore file", zap.String("file", path), zap.Int("patterns", len(fileLines)))
	}

	if len(lines) == 0 {
		return nil, nil
	}
	m := CompileIgnoreLines(lines...)
	m.Sources = sources
	return m, nil
}

// ForFolder loads the ignore rules for an imported folder: name is looked up at the
// folder root and combined with globalPath.
func ForFolder(root, name, globalPath string, logger *zap.Logger) (*Matcher, error) {
	local := ""
	if name != "" {
		local = filepath.Join(root, name)
	}
	return LoadIgnoreFiles(local, globalPath, logger)
}

// MatchesPath reports whether the slash-separated relative path is ignored.
func (m *Matcher) MatchesPath(relPath string) bool {
	if m == nil || m.parser == nil {
		return false
	}
	return m.parser.MatchesPath(filepath.ToSlash(relPath))
}

// readPatternLines returns the non-blank, non-comment lines of an ignore file.
func readPatternLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
