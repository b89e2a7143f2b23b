// Package errors provides error handling for qtvendor.
//
// It re-exports github.com/cockroachdb/errors and declares the failure
// taxonomy of the header generation pipeline. Every failure is wrapped with
// the file or path that triggered it and marked with one of the sentinels
// below, so callers classify with errors.Is:
//
//	if errors.Is(err, errors.ErrSourceNotFound) {
//	    // a declared header or source is missing
//	}
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	Mark         = crdb.Mark
	Is           = crdb.Is
	As           = crdb.As
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	FlattenHints = crdb.FlattenHints
)

// Taxonomy sentinels. Wrap the cause, then Mark it with one of these.
var (
	// ErrSourceNotFound: a declared header, source or target file is missing
	ErrSourceNotFound = New("source not found")

	// ErrNonTextContent: header bytes are not valid UTF-8
	ErrNonTextContent = New("non-text content")

	// ErrPathResolution: no relative include path could be constructed
	ErrPathResolution = New("path resolution failed")

	// ErrDirectoryCreation: an output directory could not be created
	ErrDirectoryCreation = New("directory creation failed")

	// ErrWriteFailure: a generated file could not be written
	ErrWriteFailure = New("write failed")

	// ErrCompilerFailure: the compiler driver reported a failure
	ErrCompilerFailure = New("compiler failure")
)

// SourceNotFound marks err as ErrSourceNotFound, annotated with path
func SourceNotFound(err error, path string) error {
	return Mark(Wrapf(err, "source %s", path), ErrSourceNotFound)
}

// DirectoryCreation marks err as ErrDirectoryCreation, annotated with dir
func DirectoryCreation(err error, dir string) error {
	return Mark(Wrapf(err, "create directory %s", dir), ErrDirectoryCreation)
}

// WriteFailure marks err as ErrWriteFailure, annotated with path
func WriteFailure(err error, path string) error {
	return Mark(Wrapf(err, "write %s", path), ErrWriteFailure)
}

// CompileError carries the native compiler's diagnostics verbatim.
type CompileError struct {
	Tool        string
	Args        []string
	Diagnostics string
	Err         error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s failed: %v", e.Tool, e.Err)
	if d := strings.TrimSpace(e.Diagnostics); d != "" {
		sb.WriteString("\n")
		sb.WriteString(d)
	}
	return sb.String()
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCompilerFailure) match without an extra Mark.
func (e *CompileError) Is(target error) bool { return target == ErrCompilerFailure }
