package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/async"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/ingest"
)

func newBatchCmd(gf *globalFlags) *cobra.Command {
	var (
		dir        string
		outDir     string
		report     string
		workers    int
		includeDot bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse every resume under a directory",
		Long: `Walk --dir, parse every supported document on a worker pool and write one JSON
file per document. Identical files (same content hash) are parsed once.

Examples:
  resumeparser batch --dir ./resumes
  resumeparser batch --dir ./resumes --out-dir ./out --report ./out/report.xlsx --workers 8`,
		Args: argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return usageError{fmt.Errorf("--dir is required")}
			}
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Batch.Workers = workers
			}
			if includeDot {
				cfg.Batch.SkipHidden = false
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, gf, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			return runBatch(ctx, cmd, a, dir, outDir, report)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to scan (required)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for JSON output (default: next to each input)")
	cmd.Flags().StringVar(&report, "report", "", "write an XLSX summary to this path")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (overrides WORKERS)")
	cmd.Flags().BoolVar(&includeDot, "include-hidden", false, "also parse hidden files and directories")
	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, a *app, dir, outDir, report string) error {
	runID := uuid.NewString()
	ctx = common.WithLogger(common.WithRunID(ctx, runID), a.logger)
	logger := common.LoggerFromContext(ctx, a.logger)

	var ingestor ingest.Ingestor = ingest.NewFSIngestor(logger)
	results, stats, err := ingestor.IngestDirectory(ctx, dir, a.cfg.Batch.SkipHidden)
	if err != nil {
		return err
	}
	paths := ingest.Paths(results)
	dups := ingest.Duplicates(results)
	logger.Info("ingestion complete",
		"files", len(paths),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)

	var (
		mu      sync.Mutex
		rows    []export.ReportRow
		errs    = map[string]error{}
		outputs = map[string]string{}
		dupOf   = map[string]string{}
	)
	fail := func(path string, err error) {
		rows = append(rows, export.ReportRow{SourcePath: path, Status: constants.ParseStatusFailed, Error: err.Error(), ProcessedAt: time.Now()})
		errs[path] = err
	}

	// Outputs are claimed in walk order so a collision always fails the later file.
	claims := newOutputClaims()
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		out := export.MirrorPath(dir, r.SourcePath, outDir)
		if err := claims.claim(out, r.SourcePath); err != nil {
			fail(r.SourcePath, err)
			continue
		}
		outputs[r.SourcePath] = out
		if r.Deduplicated {
			dupOf[r.SourcePath] = r.DuplicateOf
		}
	}

	q := async.NewProcessorQueue(a.proc, a.logger,
		async.WithWorkers(a.cfg.Batch.Workers),
		async.WithQueueSize(a.cfg.Batch.QueueSize),
		async.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
		async.WithResultHandler(func(o async.Outcome) {
			mu.Lock()
			defer mu.Unlock()
			// duplicates reuse the record of the first file with the same content
			for _, src := range append([]string{o.Job.Path}, dups[o.Job.Path]...) {
				out, ok := outputs[src]
				if !ok {
					continue
				}
				err := o.Err
				if err == nil {
					err = export.WriteJSON(out, o.Result.Record)
				}
				if err != nil {
					fail(src, err)
					continue
				}
				rows = append(rows, export.ReportRow{
					SourcePath:  src,
					Status:      constants.ParseStatusParsed,
					Method:      o.Result.Method,
					Record:      o.Result.Record,
					ProcessedAt: time.Now(),
				})
			}
		}),
	)
	for _, p := range paths {
		if _, ok := outputs[p]; !ok && len(dups[p]) == 0 {
			continue
		}
		if err := q.Enqueue(ctx, async.Job{Path: p, RunID: runID}); err != nil {
			_ = q.Shutdown(context.Background())
			return err
		}
	}
	if err := q.Shutdown(ctx); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != "" {
			fail(r.SourcePath, errors.New(r.Err))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourcePath < rows[j].SourcePath })

	failed, reused := 0, 0
	for _, r := range rows {
		if r.Status == constants.ParseStatusFailed {
			failed++
			reportFailure(cmd.ErrOrStderr(), r.SourcePath, errs[r.SourcePath])
			continue
		}
		if first, ok := dupOf[r.SourcePath]; ok {
			reused++
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Parsed %s -> %s (duplicate of %s)\n", r.SourcePath, outputs[r.SourcePath], first)
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Parsed %s -> %s\n", r.SourcePath, outputs[r.SourcePath])
	}

	if report != "" {
		data, err := export.NewService(a.records, logger).BatchReportXLSX(rows)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(report), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(report, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", report)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Processed %d documents: %d parsed, %d failed, %d duplicates reused\n",
		len(rows), len(rows)-failed, failed, reused)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDocumentsFailed, failed, len(rows))
	}
	return nil
}
