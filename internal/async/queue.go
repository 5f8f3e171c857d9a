package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/resume-parser/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document to process.
type Job struct {
	Path        string
	SubmittedAt time.Time
	RunID       string
}

// Outcome pairs a job with its processing result. Exactly one of Result and Err is set.
type Outcome struct {
	Job      Job
	Result   *core.Result
	Err      error
	Duration time.Duration
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context) error
}

// FileProcessor is the work a queue worker performs per job.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*core.Result, error)
}

var _ FileProcessor = (*core.Processor)(nil)
