package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/core"
	"github.com/joseph-ayodele/resume-parser/internal/export"
)

func newParseCmd(gf *globalFlags) *cobra.Command {
	var (
		outDir    string
		printJSON bool
	)
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse one or more resume files",
		Long: `Parse each FILE and write its record as <name>.json next to it (or into --out-dir).

A missing or unreadable file is reported and the remaining files are still processed.

Examples:
  resumeparser parse cv.pdf
  resumeparser parse a.pdf b.docx scan.png --out-dir ./out
  resumeparser parse cv.txt --print`,
		Args: argsUsage(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, gf, nil)
			if err != nil {
				return err
			}
			defer a.close()

			failed := 0
			claims := newOutputClaims()
			for _, path := range args {
				if err := parseOne(ctx, a, cmd.OutOrStdout(), cmd.ErrOrStderr(), claims, path, outDir, printJSON); err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errDocumentsFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for the JSON output (default: next to each input)")
	cmd.Flags().BoolVar(&printJSON, "print", false, "print the JSON record to stdout instead of writing a file")
	return cmd
}

// parseOne processes path and writes its JSON. A non-nil claims fails the document
// when another source already wrote the same output path.
func parseOne(ctx context.Context, a *app, stdout, stderr io.Writer, claims *outputClaims, path, outDir string, printJSON bool) error {
	res, err := a.proc.ProcessFile(ctx, path)
	if err != nil {
		reportFailure(stderr, path, err)
		return err
	}
	if printJSON {
		b, err := export.EncodeJSON(res.Record)
		if err != nil {
			reportFailure(stderr, path, err)
			return err
		}
		_, _ = fmt.Fprintln(stdout, string(b))
		return nil
	}
	out := export.OutputPath(res.SourcePath, outDir)
	if claims != nil {
		if err := claims.claim(out, res.SourcePath); err != nil {
			reportFailure(stderr, path, err)
			return err
		}
	}
	if err := export.WriteJSON(out, res.Record); err != nil {
		reportFailure(stderr, path, err)
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Parsed %s -> %s\n", path, out)
	return nil
}

func reportFailure(w io.Writer, path string, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		_, _ = fmt.Fprintf(w, "File not found: %s\n", path)
	case errors.Is(err, common.ErrUnsupported):
		_, _ = fmt.Fprintf(w, "Unsupported file type: %s\n", path)
	default:
		var perr *core.ProcessError
		if errors.As(err, &perr) {
			err = perr.Err
		}
		_, _ = fmt.Fprintf(w, "Failed to parse %s: %v\n", path, err)
	}
}
