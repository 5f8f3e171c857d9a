package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"RESUME_DB_URL", "WORKERS", "PROCESS_TIMEOUT", "OCR_DPI", "LOG_LEVEL", "SKIP_HIDDEN", "HEIC_CONVERTER", "DB_STATEMENT_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Batch.ProcessTimeout)
	assert.True(t, cfg.Batch.SkipHidden)
	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "magick", cfg.OCR.HeicConverter)
	assert.Zero(t, cfg.Database.StatementTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RESUME_DB_URL", "sqlite://resumes.db")
	t.Setenv("WORKERS", "8")
	t.Setenv("PROCESS_TIMEOUT", "30s")
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("SKIP_HIDDEN", "false")
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("DB_STATEMENT_TIMEOUT", "5s")
	t.Setenv("HEIC_CONVERTER", "sips")

	cfg := LoadConfig()
	assert.Equal(t, "sqlite://resumes.db", cfg.Database.DSN)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Batch.ProcessTimeout)
	assert.Equal(t, 300, cfg.OCR.DPI, "unparsable values fall back to the default")
	assert.False(t, cfg.Batch.SkipHidden)
	assert.Equal(t, int32(12), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, "sips", cfg.OCR.HeicConverter)
}

func TestConfig_Validate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Batch.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	content := `
skills:
  vocabulary: [go, rust, kubernetes]
experience:
  vocabulary: [career]
  window: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, resume.Vocabulary{"go", "rust", "kubernetes"}, cfg.Skills)
	assert.Equal(t, resume.Vocabulary{"career"}, cfg.Experience)
	assert.Equal(t, 3, cfg.ExperienceWindow)
	assert.Equal(t, resume.DefaultEducation, cfg.Education, "missing sections keep defaults")
}

func TestLoadVocabulary_Errors(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [unterminated"), 0o644))
	_, err = LoadVocabulary(path)
	require.Error(t, err)

	cfg, err := LoadVocabulary("")
	require.NoError(t, err)
	assert.Equal(t, resume.DefaultConfig(), cfg)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel("WARNING").String())
	assert.Equal(t, "ERROR", ParseLevel("error").String())
	assert.Equal(t, "INFO", ParseLevel("bogus").String())
}
