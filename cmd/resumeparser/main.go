// Package main implements the resumeparser CLI: rule-based extraction of email,
// skills, education and work experience from resume documents.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errDocumentsFailed is returned when at least one document could not be processed.
var errDocumentsFailed = errors.New("one or more documents failed")

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

func execute(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	if !errors.Is(err, errDocumentsFailed) {
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue), strings.HasPrefix(err.Error(), "unknown command"):
		return exitUsage
	default:
		return exitFailure
	}
}

// globalFlags are shared by every subcommand and override the environment.
type globalFlags struct {
	dbURL     string
	vocabFile string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	root := &cobra.Command{
		Use:   "resumeparser",
		Short: "Extract structured fields from resume documents",
		Long: `resumeparser turns resumes (PDF, scanned images, DOCX or plain text) into a JSON
record with Email, Skills, Education and Work Experience.

Extraction is rule based: a regular expression for the email address and
keyword vocabularies for the other fields. Absent fields are written with
explicit "No ... Found" markers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&gf.dbURL, "db", "", "database URL for storing results (overrides RESUME_DB_URL)")
	pf.StringVar(&gf.vocabFile, "vocab", "", "YAML file with keyword vocabularies (overrides RESUME_VOCAB_FILE)")
	pf.StringVar(&gf.logLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")
	pf.StringVar(&gf.logFormat, "log-format", "", "json|text (overrides LOG_FORMAT)")

	root.AddCommand(
		newParseCmd(&gf),
		newBatchCmd(&gf),
		newWatchCmd(&gf),
		newHistoryCmd(&gf),
		newDBHealthCmd(&gf),
		newVersionCmd(),
	)
	return root
}

// argsUsage marks positional argument validation failures as usage errors.
func argsUsage(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
