package ocr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	HeicConverter string // "heif-convert" | "magick" | "sips"; default "magick"
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | IMAGE | DOCX | TXT
	Method     string // "pdf-text" | "pdf-native" | "pdf-ocr" | "image-ocr" | "docx" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

// Extractor turns a resume file into decoded plain text.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.HeicConverter == "" {
		cfg.HeicConverter = "magick"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract picks a strategy based on file extension.
// A path that does not exist or is a directory yields common.ErrNotFound.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	if err := checkReadable(path); err != nil {
		return ExtractionResult{}, err
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	case constants.DOCX:
		res, err = e.extractDOCX(path)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported extension", "extension", ext, "path", path)
		return ExtractionResult{}, fmt.Errorf("%w: %q", common.ErrUnsupported, ext)
	}
	res.Duration = time.Since(start)
	return res, err
}

func checkReadable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", common.ErrNotFound, path, err)
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s is a directory", common.ErrNotFound, path)
	}
	return nil
}

func (e *Extractor) extractPlain(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.TXT}, fmt.Errorf("%w: read %s: %v", common.ErrExtraction, path, err)
	}
	return ExtractionResult{
		Text:       Decode(b),
		Pages:      1,
		SourceType: constants.TXT,
		Method:     "plain-text",
	}, nil
}
