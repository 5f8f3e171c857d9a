package core

import "fmt"

// ProcessError records which step failed for which document.
type ProcessError struct {
	Path string
	Op   string
	Err  error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Processing steps reported in ProcessError.Op.
const (
	OpExtract = "extract"
	OpHash    = "hash"
	OpPersist = "persist"
)
