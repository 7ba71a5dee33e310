package rebound

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes archive access failures.
type ErrorCode string

const (
	// ErrCodeFormat means the file could not be interpreted as an archive,
	// or the engine reported a fatal reconstruction warning at open.
	ErrCodeFormat ErrorCode = "FORMAT"

	// ErrCodeRange means a requested time or blob index is outside the
	// archive's valid bounds.
	ErrCodeRange ErrorCode = "RANGE"

	// ErrCodeConfig means an invalid mode or option was supplied.
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeLoad means the engine's checkpoint load primitive returned a
	// nonzero status (truncated file, bad offset, corrupt record).
	ErrCodeLoad ErrorCode = "LOAD"

	// ErrCodeReadOnly means an operation would have mutated the archive's
	// backing file.
	ErrCodeReadOnly ErrorCode = "READ_ONLY"
)

// ArchiveError is the error type returned by all Archive operations that
// fail inside this package. Engine failures during integration (stop
// conditions) are propagated verbatim and are not ArchiveErrors.
type ArchiveError struct {
	Code    ErrorCode
	Message string

	// Time is the offending query time for range errors.
	Time float64

	// Index is the offending blob index for range and load errors.
	Index int64

	// Status carries the raw engine status code for load errors.
	Status int

	// Err is the underlying cause, when one exists.
	Err error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ArchiveError) Unwrap() error { return e.Err }

func hasCode(err error, code ErrorCode) bool {
	var ae *ArchiveError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsFormatError reports whether err is an archive format error.
func IsFormatError(err error) bool { return hasCode(err, ErrCodeFormat) }

// IsRangeError reports whether err is an out-of-bounds time or index error.
func IsRangeError(err error) bool { return hasCode(err, ErrCodeRange) }

// IsConfigError reports whether err is an invalid-configuration error.
func IsConfigError(err error) bool { return hasCode(err, ErrCodeConfig) }

// IsLoadError reports whether err is a checkpoint load failure.
func IsLoadError(err error) bool { return hasCode(err, ErrCodeLoad) }

// IsReadOnlyError reports whether err is an attempted-mutation error.
func IsReadOnlyError(err error) bool { return hasCode(err, ErrCodeReadOnly) }

func newFormatError(path string, msg string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeFormat,
		Message: fmt.Sprintf("%s: %s", path, msg),
		Err:     cause,
	}
}

func newRangeTimeError(t, tmin, tmax, dt float64) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeRange,
		Message: fmt.Sprintf("requested time %g outside archive baseline [%g, %g]", t, tmin, tmax+dt),
		Time:    t,
	}
}

func newRangeIndexError(index int64, nblob int64) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeRange,
		Message: fmt.Sprintf("blob index %d out of range, number of blobs stored in binary: %d", index, nblob),
		Index:   index,
	}
}

func newConfigError(msg string) *ArchiveError {
	return &ArchiveError{Code: ErrCodeConfig, Message: msg}
}

func newLoadError(index int64, status int) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeLoad,
		Message: fmt.Sprintf("error while loading blob %d from binary file, errorcode: %d", index, status),
		Index:   index,
		Status:  status,
	}
}

func newReadOnlyError(path string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeReadOnly,
		Message: fmt.Sprintf("archive file %s is read-only while open", path),
	}
}
