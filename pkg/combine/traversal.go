// File: pkg/combine/traversal.go
package combine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codecombiner/pkg/ignore"

	"go.uber.org/zap"
)

// ListFilesRecursively walks dir in lexical order and returns every regular file found,
// whatever its extension. Symlinks are followed when they resolve to a regular file.
// Entries that cannot be read are logged and skipped; only a failure on dir itself is
// returned.
func ListFilesRecursively(dir string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Starting file traversal", zap.String("dir", dir))

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		switch {
		case d.Type().IsRegular():
			files = append(files, path)
		case d.Type()&fs.ModeSymlink != 0:
			info, statErr := os.Stat(path)
			if statErr != nil {
				logger.Warn("Skipping dangling symlink", zap.String("path", path), zap.Error(statErr))
				return nil
			}
			if info.Mode().IsRegular() {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Error during file traversal", zap.String("dir", dir), zap.Error(err))
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	logger.Debug("Completed file traversal", zap.String("dir", dir), zap.Int("files", len(files)))
	return files, nil
}

// ImportFile appends path when its extension is allowed, otherwise it returns an
// *UnsupportedExtensionError and leaves the accepted list untouched.
func (c *Collector) ImportFile(path string) error {
	ext, ok := suffixOf(path)
	if !ok {
		return &UnsupportedExtensionError{Path: path}
	}
	if !c.extensions.Contains(ext) {
		return &UnsupportedExtensionError{Path: path, Extension: ext}
	}
	c.Add(path)
	return nil
}

// ImportPaths imports each path: folders are walked recursively, files are checked
// directly. A rejected path never stops the batch.
func (c *Collector) ImportPaths(paths ...string) ImportReport {
	var report ImportReport
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			c.logger.Warn("Path does not exist or cannot be accessed", zap.String("path", path), zap.Error(err))
			report.Rejected = append(report.Rejected, Rejection{Path: path, Err: err})
			continue
		}

		if info.IsDir() {
			c.importFolder(path, &report)
			continue
		}
		c.importOne(path, &report)
	}

	c.logger.Info("Import finished",
		zap.Int("accepted", len(report.Accepted)),
		zap.Int("rejected", len(report.Rejected)),
		zap.Int("ignored", len(report.Ignored)))
	return report
}

func (c *Collector) importFolder(dir string, report *ImportReport) {
	files, err := ListFilesRecursively(dir, c.logger)
	if err != nil {
		report.Rejected = append(report.Rejected, Rejection{Path: dir, Err: err})
		return
	}

	matcher, err := ignore.ForFolder(dir, c.opts.IgnoreFileName, c.opts.GlobalIgnoreFile, c.logger)
	if err != nil {
		// matcher is nil here, so every file is imported.
		c.logger.Warn("Ignoring unreadable ignore rules", zap.String("dir", dir), zap.Error(err))
	}

	for _, file := range files {
		relPath, relErr := filepath.Rel(dir, file)
		if relErr == nil && matcher.MatchesPath(relPath) {
			c.logger.Debug("Skipping ignored file", zap.String("file", file))
			report.Ignored = append(report.Ignored, file)
			continue
		}
		c.importOne(file, report)
	}
}

func (c *Collector) importOne(path string, report *ImportReport) {
	if err := c.ImportFile(path); err != nil {
		c.logger.Warn("Rejected file", zap.String("file", path), zap.Error(err))
		report.Rejected = append(report.Rejected, Rejection{Path: path, Err: err})
		return
	}
	report.Accepted = append(report.Accepted, path)
}
