package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/core"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/ocr"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// app holds the wired components for one command invocation.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	db      *repository.DB
	records repository.ParseRecordRepository
	proc    *core.Processor
}

func loadConfig(gf *globalFlags) (*common.Config, error) {
	cfg := common.LoadConfig()
	if gf.dbURL != "" {
		cfg.Database.DSN = gf.dbURL
	}
	if gf.vocabFile != "" {
		cfg.VocabularyFile = gf.vocabFile
	}
	if gf.logLevel != "" {
		cfg.Log.Level = gf.logLevel
	}
	if gf.logFormat != "" {
		cfg.Log.Format = gf.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires configuration, logging, the optional database and the processor.
// Logs go to stderr so stdout carries only per-document results.
func newApp(ctx context.Context, cmd *cobra.Command, gf *globalFlags, cfg *common.Config) (*app, error) {
	if cfg == nil {
		var err error
		if cfg, err = loadConfig(gf); err != nil {
			return nil, err
		}
	}
	logger := common.NewLogger(cfg.Log, cmd.ErrOrStderr())

	vocab, err := common.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.Database.DSN != "" {
		a.db, err = repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.records = repository.NewParseRecordRepository(a.db, logger)
	}

	text := extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		HeicConverter: cfg.OCR.HeicConverter,
	}, logger), logger)
	a.proc = core.NewProcessor(logger, text, resume.NewExtractor(vocab, logger), a.records)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.logger)
	}
}
