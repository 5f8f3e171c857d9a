package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

const indent = "    "

// OutputPath is src with its extension replaced by .json. When outDir is set
// the file name is kept and the directory is replaced.
func OutputPath(src, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(outDir, name)
}

// MirrorPath is OutputPath for a file found under root. With outDir set, the
// directory of src relative to root is recreated under outDir, so equal base
// names in different subdirectories do not share an output. A src outside
// root falls back to OutputPath.
func MirrorPath(root, src, outDir string) string {
	if outDir == "" {
		return OutputPath(src, "")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return OutputPath(src, outDir)
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return OutputPath(src, outDir)
	}
	rel, err := filepath.Rel(absRoot, absSrc)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return OutputPath(src, outDir)
	}
	return OutputPath(filepath.Join(outDir, rel), "")
}

// EncodeJSON renders rec with sentinels for absent fields and validates the result.
func EncodeJSON(rec resume.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(rec.Render()); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	b := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if err := ValidateRecordJSON(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteJSON encodes rec and writes it to path, creating parent directories.
func WriteJSON(path string, rec resume.Record) error {
	b, err := EncodeJSON(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
