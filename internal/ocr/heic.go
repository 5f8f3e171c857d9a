package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// convertHEICtoPNG writes a PNG copy of a HEIC/HEIF image into a fresh temp dir.
// The caller removes tmpDir.
func (e *Extractor) convertHEICtoPNG(ctx context.Context, path string) (string, string, error) {
	tmpDir, err := os.MkdirTemp("", "rp-heic-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}
	out := filepath.Join(tmpDir, "page.png")

	var (
		name string
		args []string
	)
	switch strings.ToLower(e.cfg.HeicConverter) {
	case "heif-convert":
		name, args = "heif-convert", []string{path, out}
	case "magick":
		name, args = "magick", []string{path, out}
	case "sips":
		name, args = "sips", []string{"-s", "format", "png", path, "--out", out}
	default:
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("HEIC not supported: set HEIC_CONVERTER to heif-convert, magick or sips (got %q)", e.cfg.HeicConverter)
	}

	e.logger.Debug("converting heic", "path", path, "converter", name)
	if _, errb, err := e.runner.Run(ctx, name, args...); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(errb)))
	}
	if _, err := os.Stat(out); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("%s produced no output: %w", name, err)
	}
	return out, tmpDir, nil
}
