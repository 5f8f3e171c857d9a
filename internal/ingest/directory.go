package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

// IngestDirectory walks root, skips hidden entries if requested,
// and calls IngestPath for each matching file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("%w: root path is required", common.ErrInvalidInput)
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !i.allowed(constants.NormalizeExt(filepath.Ext(path))) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		i.logger.Error("directory walk failed", "root", root, "error", err)
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("directory ingested",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

// Paths returns the source paths of successful, non-duplicate results.
func Paths(results []IngestionResult) []string {
	var out []string
	for _, r := range results {
		if r.Err != "" || r.Deduplicated {
			continue
		}
		out = append(out, r.SourcePath)
	}
	return out
}

// Duplicates maps the first path seen for some content to the later paths
// that had the same content, in ingest order.
func Duplicates(results []IngestionResult) map[string][]string {
	out := map[string][]string{}
	for _, r := range results {
		if r.Err != "" || !r.Deduplicated {
			continue
		}
		out[r.DuplicateOf] = append(out[r.DuplicateOf], r.SourcePath)
	}
	return out
}
