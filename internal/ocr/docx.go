package ocr

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

// extractDOCX reads the text of word/document.xml in document order,
// including table cells, one paragraph per line.
func (e *Extractor) extractDOCX(path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.DOCX, Method: "docx", Pages: 1}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return res, fmt.Errorf("%w: open docx %s: %v", common.ErrExtraction, path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return res, fmt.Errorf("%w: %s: %v", common.ErrExtraction, path, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return res, fmt.Errorf("%w: %s: %v", common.ErrExtraction, path, err)
		}
		text, err := parseDocumentXML(content)
		if err != nil {
			return res, fmt.Errorf("%w: %s: %v", common.ErrExtraction, path, err)
		}
		res.Text = text
		return res, nil
	}
	return res, fmt.Errorf("%w: %s has no word/document.xml", common.ErrExtraction, path)
}

// parseDocumentXML streams the document and keeps every w:t in order.
// w:p ends a line, w:br and w:cr break one, w:tab becomes a tab.
// Tab stop definitions under w:tabs are not text.
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		b      strings.Builder
		inText bool
		inTabs int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabs++
			case "tab":
				if inTabs == 0 {
					b.WriteString("\t")
				}
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs--
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return strings.ToValidUTF8(strings.TrimSuffix(b.String(), "\n"), ""), nil
}
