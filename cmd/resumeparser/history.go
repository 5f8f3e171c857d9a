package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
)

func newHistoryCmd(gf *globalFlags) *cobra.Command {
	var (
		limit int
		xlsx  string
		id    string
		hash  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently stored parse results",
		Long: `List the most recent parse results stored in the database (--db or RESUME_DB_URL),
or export them to an XLSX workbook with --xlsx.

--id shows one stored result and --hash shows the latest result for a content hash,
with its JSON record.`,
		Args: argsUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id != "" && hash != "" {
				return usageError{fmt.Errorf("--id and --hash are mutually exclusive")}
			}
			var recID uuid.UUID
			if id != "" {
				var err error
				if recID, err = uuid.Parse(id); err != nil {
					return usageError{fmt.Errorf("invalid --id: %w", err)}
				}
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, gf, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if a.records == nil {
				return usageError{fmt.Errorf("%w: history needs --db or RESUME_DB_URL", common.ErrInvalidInput)}
			}

			if id != "" || hash != "" {
				var rec *repository.ParseRecord
				if id != "" {
					rec, err = a.records.GetByID(ctx, recID)
				} else {
					rec, err = a.records.GetLatestByHash(ctx, hash)
				}
				if err != nil {
					return err
				}
				return printRecordDetail(cmd.OutOrStdout(), rec)
			}

			if xlsx != "" {
				data, err := export.NewService(a.records, a.logger).HistoryXLSX(ctx, limit)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsx, data, 0o644); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "History written to %s\n", xlsx)
				return nil
			}

			recs, err := a.records.ListRecent(ctx, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tEMAIL\tSOURCE")
			for _, r := range recs {
				rendered := r.Record().Render()
				email := rendered.Email
				if r.ErrorMessage != nil {
					email = "-"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Format(time.DateTime), r.Status, email, r.SourcePath)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "export to this XLSX path instead of printing")
	cmd.Flags().StringVar(&id, "id", "", "show the stored result with this ID")
	cmd.Flags().StringVar(&hash, "hash", "", "show the latest stored result for this SHA-256 content hash")
	return cmd
}

func printRecordDetail(w io.Writer, r *repository.ParseRecord) error {
	_, _ = fmt.Fprintf(w, "ID:      %s\n", r.ID)
	_, _ = fmt.Fprintf(w, "Source:  %s\n", r.SourcePath)
	_, _ = fmt.Fprintf(w, "Hash:    %s\n", r.ContentHash)
	_, _ = fmt.Fprintf(w, "Status:  %s\n", r.Status)
	_, _ = fmt.Fprintf(w, "Created: %s\n", r.CreatedAt.Format(time.DateTime))
	if r.ErrorMessage != nil {
		_, _ = fmt.Fprintf(w, "Error:   %s\n", *r.ErrorMessage)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Method:  %s\n", r.Method)
	b, err := export.EncodeJSON(r.Record())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}
