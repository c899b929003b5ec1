// File: pkg/combine/describe.go
package combine

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
	"go.uber.org/zap"
)

// sniffSize is how many leading bytes are read to classify a file.
const sniffSize = 8000

// DescribeFiles reports name, size, detected language and binary-ness for each path.
// Unreadable files are still listed, with Size -1.
func DescribeFiles(paths []string, logger *zap.Logger) []FileDescription {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]FileDescription, 0, len(paths))
	for _, path := range paths {
		desc := FileDescription{Path: path, Name: filepath.Base(path), Size: -1}

		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("Cannot stat file for description", zap.String("path", path), zap.Error(err))
			out = append(out, desc)
			continue
		}
		desc.Size = info.Size()

		head, err := readHead(path)
		if err != nil {
			logger.Warn("Cannot read file for description", zap.String("path", path), zap.Error(err))
			out = append(out, desc)
			continue
		}

		desc.Binary = enry.IsBinary(head)
		desc.Language = enry.GetLanguage(desc.Name, head)
		out = append(out, desc)
	}
	return out
}

// readHead returns up to sniffSize leading bytes of the file.
func readHead(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffer := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buffer[:n], nil
}
