package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// SaveResult writes data into dir and returns the written path. The name is
// derived from the source file name; the extension follows the bytes, not the
// source, since the backend may answer in another format.
func SaveResult(dir, sourceName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("save dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "image"
	}
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".bin"
	}
	name := fmt.Sprintf("%s-rotated-%s%s", stem, uuid.NewString()[:8], ext)
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".pivot-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write result: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("chmod result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close result: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename result: %w", err)
	}
	return target, nil
}
