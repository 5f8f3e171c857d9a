package ocr

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
)

type call struct {
	name string
	args []string
}

// stubRunner answers commands by binary name and records every call.
type stubRunner struct {
	mu       sync.Mutex
	calls    []call
	handlers map[string]func(args []string) ([]byte, []byte, error)
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{name: name, args: args})
	s.mu.Unlock()
	if h, ok := s.handlers[name]; ok {
		return h(args)
	}
	return nil, []byte("command not found"), errors.New("exec: " + name + ": not found")
}

func (s *stubRunner) called(name string) bool {
	for _, c := range s.calls {
		if c.name == name {
			return true
		}
	}
	return false
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	assert.Equal(t, "pdftotext", e.cfg.Pdftotext)
	assert.Equal(t, "pdftoppm", e.cfg.Pdftoppm)
	assert.Equal(t, "tesseract", e.cfg.Tesseract)
	assert.Equal(t, "eng", e.cfg.TesseractLang)
	assert.Equal(t, 300, e.cfg.DPI)
}

func TestExtract_NotFound(t *testing.T) {
	e := newTestExtractor(&stubRunner{})

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.Extract(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtract_Unsupported(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.odt", []byte("x"))
	_, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	assert.ErrorIs(t, err, common.ErrUnsupported)
}

func TestExtract_PlainTextDropsInvalidBytes(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.txt", []byte("Jane\xff Doe\r\njane@example.com"))
	res, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\r\njane@example.com", res.Text)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "plain-text", res.Method)
}

func TestExtract_PDFTextLayer(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.pdf", []byte("%PDF-1.4"))
	r := &stubRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func(args []string) ([]byte, []byte, error) {
			assert.Equal(t, p, args[len(args)-2])
			return []byte("Page one\fPage two\f"), nil, nil
		},
	}}
	res, err := newTestExtractor(r).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Page two")
	assert.False(t, r.called("tesseract"))
}

func TestExtract_ScannedPDFFallsBackToOCR(t *testing.T) {
	p := writeFile(t, t.TempDir(), "scan.pdf", []byte("not really a pdf"))
	r := &stubRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func([]string) ([]byte, []byte, error) {
			return []byte("  \n\f"), nil, nil
		},
		"pdftoppm": func(args []string) ([]byte, []byte, error) {
			prefix := args[len(args)-1]
			for _, n := range []string{"-1.png", "-2.png"} {
				if err := os.WriteFile(prefix+n, []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		},
		"tesseract": func(args []string) ([]byte, []byte, error) {
			return []byte("text of " + filepath.Base(args[0])), nil, nil
		},
	}}
	res, err := newTestExtractor(r).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "text of page-1.png\ntext of page-2.png", res.Text)
}

func TestExtract_PDFToolsMissing(t *testing.T) {
	p := writeFile(t, t.TempDir(), "broken.pdf", []byte("garbage"))
	r := &stubRunner{}
	res, err := newTestExtractor(r).Extract(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.True(t, r.called("pdftotext"))
	assert.True(t, r.called("pdftoppm"))
	assert.NotEmpty(t, res.Warnings)
}

func TestExtract_Image(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.PNG", []byte("png"))
	r := &stubRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"tesseract": func(args []string) ([]byte, []byte, error) {
			assert.Equal(t, []string{p, "stdout", "-l", "eng"}, args)
			return []byte("• Python\n"), nil, nil
		},
	}}
	res, err := newTestExtractor(r).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "• Python\n", res.Text)
}

func TestExtract_ImageTesseractFails(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.jpg", []byte("jpg"))
	_, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func writeDOCX(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + body + `</w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestExtract_DOCX(t *testing.T) {
	p := writeDOCX(t, `
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Experience:</w:t></w:r><w:r><w:t xml:space="preserve"> Acme</w:t></w:r></w:p>
  `)

	res, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nExperience: Acme", res.Text)
	assert.Equal(t, constants.DOCX, res.SourceType)
}

func TestExtract_DOCXTablesTabsAndBreaks(t *testing.T) {
	p := writeDOCX(t, `
    <w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Skills</w:t><w:tab/><w:t>Python</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Experience: Acme</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
  `)

	res, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Skills\tPython\nExperience: Acme\njane@example.com\nLine one\nLine two", res.Text)
}

func TestExtract_DOCXNotAZip(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.docx", []byte("plain"))
	_, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), p)
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtract_HEICConvertsBeforeOCR(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.heic", []byte("heic"))
	var converted string
	r := &stubRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"magick": func(args []string) ([]byte, []byte, error) {
			require.Len(t, args, 2)
			assert.Equal(t, p, args[0])
			converted = args[1]
			return nil, nil, os.WriteFile(converted, []byte("png"), 0o644)
		},
		"tesseract": func(args []string) ([]byte, []byte, error) {
			assert.Equal(t, converted, args[0])
			return []byte("Jane Doe\n"), nil, nil
		},
	}}

	res, err := newTestExtractor(r).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "Jane Doe\n", res.Text)
	assert.Equal(t, "page.png", filepath.Base(converted))
	assert.NoFileExists(t, converted, "temp conversion dir is removed")
}

func TestExtract_HEICSipsArgs(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.HEIF", []byte("heif"))
	r := &stubRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"sips": func(args []string) ([]byte, []byte, error) {
			require.Len(t, args, 6)
			assert.Equal(t, []string{"-s", "format", "png", p, "--out"}, args[:5])
			return nil, nil, os.WriteFile(args[5], []byte("png"), 0o644)
		},
		"tesseract": func([]string) ([]byte, []byte, error) { return []byte("ok"), nil, nil },
	}}
	e := NewExtractor(Config{HeicConverter: "sips"}, nil)
	e.runner = r

	res, err := e.Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
}

func TestExtract_HEICConversionFails(t *testing.T) {
	p := writeFile(t, t.TempDir(), "resume.heic", []byte("heic"))

	r := &stubRunner{}
	_, err := newTestExtractor(r).Extract(context.Background(), p)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.True(t, r.called("magick"))
	assert.False(t, r.called("tesseract"))

	e := NewExtractor(Config{HeicConverter: "paint"}, nil)
	e.runner = &stubRunner{}
	_, err = e.Extract(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEIC not supported")
}

func TestRunesOnlyDropsReplacementChar(t *testing.T) {
	assert.Equal(t, "ab", string(runesOnly([]byte("a\xffb\uFFFD"))))
	assert.Equal(t, "héllo", string(runesOnly([]byte("héllo"))))
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "abc", Decode([]byte("a\xffb\xc3c")))
	assert.Equal(t, "héllo", Decode([]byte("héllo")))
	assert.Equal(t, "", Decode(nil))
	assert.Equal(t, "ab", Decode([]byte("a\uFFFDb")), "literal replacement chars are dropped too")
	assert.True(t, strings.HasPrefix(Decode([]byte("ok\x80")), "ok"))
}
