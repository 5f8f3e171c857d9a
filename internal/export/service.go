package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// ReportRow is one document in a batch report.
type ReportRow struct {
	SourcePath  string
	Status      constants.ParseStatus
	Method      string
	Record      resume.Record
	Error       string
	ProcessedAt time.Time
}

// Service produces XLSX bytes for batch runs and stored history.
type Service struct {
	records repository.ParseRecordRepository
	logger  *slog.Logger
}

// NewService builds a report service. records may be nil when only batch reports are needed.
func NewService(records repository.ParseRecordRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{records: records, logger: logger}
}

const sheet = "Resumes"

var headers = []string{
	"Source Path",
	"Status",
	resume.KeyEmail,
	resume.KeySkills,
	resume.KeyEducation,
	resume.KeyWorkExperience,
	"Method",
	"Error",
	"Processed At",
}

// BatchReportXLSX returns an XLSX workbook (as bytes) with one row per document.
func (s *Service) BatchReportXLSX(rows []ReportRow) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.SourcePath)
		write(2, string(r.Status))
		if r.Status == constants.ParseStatusParsed {
			rendered := r.Record.Render()
			write(3, rendered.Email)
			write(4, strings.Join(rendered.Skills, ", "))
			write(5, truncate(strings.Join(rendered.Education, "; "), maxCell))
			write(6, truncate(rendered.WorkExperience, maxCell))
		}
		write(7, r.Method)
		write(8, truncate(r.Error, 500))
		if !r.ProcessedAt.IsZero() {
			write(9, r.ProcessedAt.UTC().Format(time.RFC3339))
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 48) // path
	_ = f.SetColWidth(sheet, "B", "B", 10) // status
	_ = f.SetColWidth(sheet, "C", "C", 30) // email
	_ = f.SetColWidth(sheet, "D", "E", 40)
	_ = f.SetColWidth(sheet, "F", "F", 60) // experience
	_ = f.SetColWidth(sheet, "G", "G", 12)
	_ = f.SetColWidth(sheet, "H", "H", 40)
	_ = f.SetColWidth(sheet, "I", "I", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("batch report written",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// HistoryXLSX exports the most recent stored parse results.
func (s *Service) HistoryXLSX(ctx context.Context, limit int) ([]byte, error) {
	if s.records == nil {
		return nil, fmt.Errorf("%w: history export requires a database", common.ErrInvalidInput)
	}
	recs, err := s.records.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query parse records: %w", err)
	}
	rows := make([]ReportRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, RowFromRecord(r))
	}
	return s.BatchReportXLSX(rows)
}

// RowFromRecord converts a stored parse record to a report row.
func RowFromRecord(r *repository.ParseRecord) ReportRow {
	row := ReportRow{
		SourcePath:  r.SourcePath,
		Status:      r.Status,
		Method:      r.Method,
		Record:      r.Record(),
		ProcessedAt: r.CreatedAt,
	}
	if r.ErrorMessage != nil {
		row.Error = *r.ErrorMessage
	}
	return row
}

// maxCell stays under the 32767 character limit of an xlsx cell.
const maxCell = 32000

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
