package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "IMAGE" | "DOCX" | "TXT"
	Method     string // "pdf-text" | "pdf-native" | "pdf-ocr" | "image-ocr" | "docx" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

// FieldExtractor is Stage 2: normalized text -> resume record.
type FieldExtractor interface {
	Assemble(text resume.Text) resume.Record
}

var _ FieldExtractor = (*resume.Extractor)(nil)
