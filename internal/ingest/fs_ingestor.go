package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

// FSIngestor reads from the local filesystem and remembers content hashes
// so that identical documents are reported once.
type FSIngestor struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions

	logger *slog.Logger
	mu     sync.Mutex
	seen   map[string]string // hash -> first path
}

var _ Ingestor = (*FSIngestor)(nil)

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{logger: logger, seen: map[string]string{}}
}

func (i *FSIngestor) allowed(ext string) bool {
	if i.AllowedExts == nil {
		return AllowedExt(ext)
	}
	_, ok := i.AllowedExts[constants.NormalizeExt(ext)]
	return ok
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult
	if err := ctx.Err(); err != nil {
		return out, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !i.allowed(ext) {
		i.logger.Debug("skipping unsupported extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("%w: %q", common.ErrUnsupported, ext)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return out, fmt.Errorf("%w: %s", common.ErrNotFound, abs)
	}
	if err != nil {
		return out, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return out, fmt.Errorf("%w: %s is a directory", common.ErrNotFound, abs)
	}

	sum, err := HashFile(abs)
	if err != nil {
		i.logger.Error("failed to hash file", "path", abs, "error", err)
		return out, err
	}

	out = IngestionResult{
		SourcePath: abs,
		HashHex:    sum,
		FileExt:    ext,
		Size:       info.Size(),
		ModTime:    info.ModTime().UTC(),
	}

	i.mu.Lock()
	if first, ok := i.seen[sum]; ok && first != abs {
		out.Deduplicated = true
		out.DuplicateOf = first
	} else {
		i.seen[sum] = abs
	}
	i.mu.Unlock()

	if out.Deduplicated {
		i.logger.Info("duplicate document", "path", abs, "duplicate_of", out.DuplicateOf)
	}
	return out, nil
}
