package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	src := path
	if constants.IsHEICExt(filepath.Ext(path)) {
		png, tmpDir, err := e.convertHEICtoPNG(ctx, path)
		if err != nil {
			return ExtractionResult{SourceType: constants.IMAGE},
				fmt.Errorf("%w: %s: %v", common.ErrExtraction, path, err)
		}
		defer os.RemoveAll(tmpDir)
		src = png
	}

	txt, warn, err := e.tesseractOCR(ctx, src)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warn},
			fmt.Errorf("%w: %s: %v", common.ErrExtraction, path, err)
	}
	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang> [--psm N] [--oem N] [--tessdata-dir D]
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", nonEmpty(string(errb)), fmt.Errorf("tesseract: %w", err)
	}
	return Decode(out), nil, nil
}
