package combine

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Combine concatenates the accepted files in insertion order. Each file contributes
// "# <base name>\n", its content and a blank line. A file that is not valid UTF-8, or
// cannot be read, contributes a one-line diagnostic instead of its content.
func (c *Collector) Combine() string {
	var b strings.Builder
	for _, path := range c.paths {
		b.WriteString(c.processSingleFile(path))
	}
	c.logger.Info("Combined files", zap.Int("files", len(c.paths)), zap.Int("bytes", b.Len()))
	return b.String()
}

// processSingleFile reads and formats the content of a single file.
func (c *Collector) processSingleFile(path string) string {
	name := filepath.Base(path)
	header := "# " + name + "\n"

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("Error reading file", zap.String("filePath", path), zap.Error(err))
		return header + fmt.Sprintf("Error reading file %s: %s.\n\n", name, readFailureReason(err))
	}

	if !utf8.Valid(data) {
		c.logger.Error("File is not valid UTF-8", zap.String("filePath", path))
		return header + fmt.Sprintf("Error reading file %s: Could not decode.\n\n", name)
	}

	c.logger.Debug("Read file content", zap.String("filePath", path), zap.Int("contentSizeBytes", len(data)))
	return header + normalizeNewlines(string(data)) + "\n\n"
}

// normalizeNewlines turns CRLF and lone CR line endings into LF.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func readFailureReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

// WriteCombinedFile writes combined content to outputPath, creating parent directories.
func WriteCombinedFile(outputPath, content string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Writing combined content to output file", zap.String("combinedFile", outputPath))

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			logger.Error("Failed to create directory", zap.String("path", dir), zap.Error(err))
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", outputPath), zap.Error(err))
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			logger.Error("Failed to close output file", zap.String("file", outputPath), zap.Error(err))
		}
	}()

	writer := bufio.NewWriter(outFile)
	if _, err := writer.WriteString(content); err != nil {
		logger.Error("Failed to write combined file", zap.String("file", outputPath), zap.Error(err))
		return fmt.Errorf("failed to write content: %w", err)
	}
	if err := writer.Flush(); err != nil {
		logger.Error("Failed to flush output file", zap.String("file", outputPath), zap.Error(err))
		return fmt.Errorf("failed to flush output: %w", err)
	}

	logger.Info("Combined content saved", zap.String("file", outputPath))
	return nil
}
