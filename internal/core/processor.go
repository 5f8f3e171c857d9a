package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/ingest"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// Result describes one successfully processed document.
type Result struct {
	ID          uuid.UUID
	SourcePath  string
	ContentHash string
	Method      string
	SourceType  string
	Pages       int
	Duration    time.Duration
	Warnings    []string
	Record      resume.Record
}

// Processor coordinates text extraction then rule-based field extraction.
type Processor struct {
	logger  *slog.Logger
	text    extract.TextExtractor
	fields  extract.FieldExtractor
	records repository.ParseRecordRepository
}

// NewProcessor wires the two stages. records may be nil, in which case nothing is persisted.
func NewProcessor(
	logger *slog.Logger,
	text extract.TextExtractor,
	fields extract.FieldExtractor,
	records repository.ParseRecordRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fields == nil {
		fields = resume.NewExtractor(resume.DefaultConfig(), logger)
	}
	return &Processor{
		logger:  logger,
		text:    text,
		fields:  fields,
		records: records,
	}
}

// ProcessFile extracts text from path, normalizes it and assembles the resume record.
// It returns either a complete Result or an error, never both.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	logger := common.LoggerFromContext(ctx, p.logger)
	start := time.Now()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ProcessError{Path: path, Op: OpExtract, Err: fmt.Errorf("%w: %v", common.ErrInvalidInput, err)}
	}

	res, err := p.text.Extract(ctx, abs)
	if err != nil {
		logger.Error("text extraction failed", "path", abs, "error", err)
		p.saveFailure(ctx, logger, abs, "", err)
		return nil, &ProcessError{Path: abs, Op: OpExtract, Err: err}
	}
	logger.Debug("text extracted",
		"path", abs,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
	)

	hash, err := ingest.HashFile(abs)
	if err != nil {
		logger.Error("hashing failed", "path", abs, "error", err)
		p.saveFailure(ctx, logger, abs, "", err)
		return nil, &ProcessError{Path: abs, Op: OpHash, Err: err}
	}

	rec := p.fields.Assemble(resume.Normalize(res.Text))

	out := &Result{
		ID:          uuid.New(),
		SourcePath:  abs,
		ContentHash: hash,
		Method:      res.Method,
		SourceType:  res.SourceType,
		Pages:       res.Pages,
		Warnings:    res.Warnings,
		Record:      rec,
	}

	if p.records != nil {
		row, err := p.records.SaveParsed(ctx, repository.SaveParsedRequest{
			SourcePath:  abs,
			ContentHash: hash,
			Method:      res.Method,
			Record:      rec,
		})
		if err != nil {
			return nil, &ProcessError{Path: abs, Op: OpPersist, Err: err}
		}
		out.ID = row.ID
	}

	out.Duration = time.Since(start)
	logger.Info("resume parsed",
		"path", abs,
		"id", out.ID,
		"method", out.Method,
		"email_found", rec.Email.IsFound(),
		"skills_found", rec.Skills.IsFound(),
		"education_found", rec.Education.IsFound(),
		"experience_found", rec.Experience.IsFound(),
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}

func (p *Processor) saveFailure(ctx context.Context, logger *slog.Logger, path, hash string, cause error) {
	if p.records == nil {
		return
	}
	if _, err := p.records.SaveFailure(ctx, path, hash, cause); err != nil {
		logger.Warn("failed to record parse failure", "path", path, "error", err)
	}
}
