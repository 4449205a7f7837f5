package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File describes the image the user picked.
type File struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

// IsImage reports whether the sniffed content type is an image type.
func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// Inspect stats path and sniffs its content type from the leading bytes.
func Inspect(path string) (*File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("path is empty")
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", trimmed)
	}
	mt, err := mimetype.DetectFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	return &File{
		Name:        filepath.Base(trimmed),
		Path:        trimmed,
		ContentType: mt.String(),
		Size:        info.Size(),
	}, nil
}
