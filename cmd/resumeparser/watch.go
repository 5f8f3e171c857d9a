package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/ingest"
)

func newWatchCmd(gf *globalFlags) *cobra.Command {
	var (
		dirs     []string
		outDir   string
		existing bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Parse resumes as they appear in a directory",
		Long: `Watch one or more directories (recursively) and parse every supported document
that is created or modified, until interrupted.

Examples:
  resumeparser watch --dir ./inbox --out-dir ./out
  resumeparser watch --dir ./inbox --existing`,
		Args: argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(dirs) == 0 {
				return usageError{fmt.Errorf("at least one --dir is required")}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd, gf, nil)
			if err != nil {
				return err
			}
			defer a.close()

			return runWatch(ctx, cmd, a, ingest.WatchConfig{
				Roots:       dirs,
				InitialScan: existing,
				SkipHidden:  a.cfg.Batch.SkipHidden,
				Debounce:    debounce,
				Logger:      a.logger,
			}, outDir)
		},
	}
	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "directory to watch (repeatable)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for JSON output (default: next to each input)")
	cmd.Flags().BoolVar(&existing, "existing", false, "also parse files already present at startup")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "wait this long after the last write before parsing")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, wc ingest.WatchConfig, outDir string) error {
	events, errs, err := ingest.StartWatcher(ctx, wc)
	if err != nil {
		return err
	}
	a.logger.Info("watching for resumes", "dirs", wc.Roots)
	ctx = common.WithLogger(ctx, a.logger.With("command", "watch"))
	claims := newOutputClaims()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watcher reported an error", "error", err)
		case path, ok := <-events:
			if !ok {
				return nil
			}
			pctx, cancel := context.WithTimeout(ctx, a.cfg.Batch.ProcessTimeout)
			_ = parseOne(pctx, a, cmd.OutOrStdout(), cmd.ErrOrStderr(), claims, path, outDir, false)
			cancel()
		}
	}
}
