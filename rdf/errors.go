package rdf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/codec"
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeAllocation indicates the engine refused to allocate an object.
	ErrCodeAllocation ErrorCode = "ALLOCATION"
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeStatementTooLong indicates a statement exceeded the configured limit.
	ErrCodeStatementTooLong ErrorCode = "STATEMENT_TOO_LONG"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeOperation indicates a store operation reported failure.
	ErrCodeOperation ErrorCode = "OPERATION_FAILED"
)

var (
	// ErrAllocation matches every *AllocError.
	ErrAllocation = errors.New("rdf: allocation failed")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = codec.ErrUnsupportedFormat
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = codec.ErrLineTooLong
	// ErrStatementTooLong indicates a statement exceeded the configured limit.
	ErrStatementTooLong = codec.ErrStatementTooLong
	// ErrIOStreamFault indicates the byte channel behind an IOStream failed.
	ErrIOStreamFault = codec.ErrIOStreamFault
	// ErrOperationFailed is returned by helpers when a store operation
	// reports failure without further detail.
	ErrOperationFailed = errors.New("rdf: operation failed")
)

// ParseError provides structured context for parse failures.
type ParseError = codec.ParseError

// AllocError reports that the engine returned no object. Caller is the
// file:line of the code that asked for the object.
type AllocError struct {
	Op     string
	Caller string
	// Cause is the failure the engine recorded on the world, if any.
	Cause error
}

func (e *AllocError) Error() string {
	msg := fmt.Sprintf("rdf: %s: allocation failed", e.Op)
	if e.Caller != "" {
		msg += " (called from " + e.Caller + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrAllocation) hold for every AllocError.
func (e *AllocError) Is(target error) bool { return target == ErrAllocation }

func (e *AllocError) Unwrap() error { return e.Cause }

// allocError builds an AllocError for op and takes over the failure the
// engine recorded on ew, if any.
func allocError(ew *engine.World, op string) error {
	err := &AllocError{Op: op, Caller: externalCaller()}
	if ew != nil {
		err.Cause = ew.LastError()
		ew.ClearError()
	}
	return err
}

var packageDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

// externalCaller returns file:line of the first frame outside this package.
func externalCaller() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if filepath.Dir(f.File) != packageDir || strings.HasSuffix(f.File, "_test.go") {
			return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		}
		if !more {
			return ""
		}
	}
}

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrAllocation):
		return ErrCodeAllocation
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrStatementTooLong):
		return ErrCodeStatementTooLong
	case errors.Is(err, ErrIOStreamFault):
		return ErrCodeIOError
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrCodeParseError
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ErrCodeIOError
	}
	if errors.Is(err, ErrOperationFailed) {
		return ErrCodeOperation
	}
	return ErrCodeParseError
}
