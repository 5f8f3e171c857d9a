package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	writeFile(t, p, "abc")

	sum, err := HashFile(p)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = HashFile(filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestIsHiddenAndAllowedExt(t *testing.T) {
	assert.True(t, IsHidden("/x/.git"))
	assert.True(t, IsHidden(".resume.pdf"))
	assert.False(t, IsHidden("/x/resume.pdf"))
	assert.False(t, IsHidden("."))

	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("docx"))
	assert.False(t, AllowedExt(".doc"))
}

func TestIngestPath(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	in := NewFSIngestor(testLogger())

	t.Run("unsupported", func(t *testing.T) {
		p := filepath.Join(dir, "notes.md")
		writeFile(t, p, "x")
		_, err := in.IngestPath(ctx, p)
		assert.True(t, errors.Is(err, common.ErrUnsupported))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := in.IngestPath(ctx, filepath.Join(dir, "ghost.pdf"))
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("ok then duplicate", func(t *testing.T) {
		a := filepath.Join(dir, "a.txt")
		b := filepath.Join(dir, "b.txt")
		writeFile(t, a, "same content")
		writeFile(t, b, "same content")

		r1, err := in.IngestPath(ctx, a)
		require.NoError(t, err)
		assert.False(t, r1.Deduplicated)
		assert.Equal(t, "txt", r1.FileExt)
		assert.Equal(t, int64(len("same content")), r1.Size)

		again, err := in.IngestPath(ctx, a)
		require.NoError(t, err)
		assert.False(t, again.Deduplicated)

		r2, err := in.IngestPath(ctx, b)
		require.NoError(t, err)
		assert.True(t, r2.Deduplicated)
		assert.Equal(t, r1.SourcePath, r2.DuplicateOf)
		assert.Equal(t, r1.HashHex, r2.HashHex)
	})
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.pdf"), "pdf bytes")
	writeFile(t, filepath.Join(root, "two.TXT"), "plain")
	writeFile(t, filepath.Join(root, "sub", "three.docx"), "docx bytes")
	writeFile(t, filepath.Join(root, "sub", "copy.txt"), "plain")
	writeFile(t, filepath.Join(root, "ignored.md"), "md")
	writeFile(t, filepath.Join(root, ".hidden.pdf"), "hidden")
	writeFile(t, filepath.Join(root, ".git", "x.pdf"), "in hidden dir")

	in := NewFSIngestor(testLogger())
	results, stats, err := in.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(4), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(0), stats.Failed)
	require.Len(t, results, 4)

	paths := Paths(results)
	for i := range paths {
		paths[i] = filepath.Base(paths[i])
	}
	sort.Strings(paths)
	assert.Len(t, paths, 3)
	assert.Contains(t, paths, "one.pdf")
	assert.Contains(t, paths, "three.docx")

	dups := Duplicates(results)
	require.Len(t, dups, 1)
	for first, later := range dups {
		require.Len(t, later, 1)
		names := []string{filepath.Base(first), filepath.Base(later[0])}
		sort.Strings(names)
		assert.Equal(t, []string{"copy.txt", "two.TXT"}, names)
	}
}

func TestIngestDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden.pdf"), "hidden")

	_, stats, err := NewFSIngestor(testLogger()).IngestDirectory(context.Background(), root, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Succeeded)
}

func TestIngestDirectory_Errors(t *testing.T) {
	in := NewFSIngestor(testLogger())
	_, _, err := in.IngestDirectory(context.Background(), "  ", true)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	_, _, err = in.IngestDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), true)
	assert.Error(t, err)
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.pdf")
	writeFile(t, existing, "old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Logger:      testLogger(),
	})
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, existing, p)
	case <-time.After(5 * time.Second):
		t.Fatal("initial scan did not emit existing file")
	}

	created := filepath.Join(root, "new.txt")
	writeFile(t, filepath.Join(root, "skip.md"), "md")
	writeFile(t, created, "fresh")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case p := <-events:
			require.NotEqual(t, filepath.Join(root, "skip.md"), p)
			if p == created {
				cancel()
				for range events {
				}
				return
			}
		case <-deadline:
			t.Fatal("watcher did not emit created file")
		}
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{Logger: testLogger()})
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}
