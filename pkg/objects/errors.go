package objects

import (
	"errors"

	"github.com/utkarsh5026/SourceControl/pkg/common/err"
)

const pkgName = "objects"

// Error codes for object parsing and hashing failures.
const (
	CodeTypeParseError = "OBJECT_TYPE_PARSE_ERROR"
	CodeMissingField   = "OBJECT_MISSING_FIELD"
	CodeUnknownKind    = "OBJECT_UNKNOWN_KIND"
	CodeBadTimestamp   = "OBJECT_BAD_TIMESTAMP"
	CodeLengthMismatch = "OBJECT_LENGTH_MISMATCH"
	CodeCorrupt        = "OBJECT_CORRUPT"
	CodeUnsupportedHash = "OBJECT_UNSUPPORTED_HASH"
)

// Sentinel errors for the conditions typed-object parsing can hit. These wrap
// into *err.Error so callers can still match on code via err.IsCode, while
// also supporting plain errors.Is comparisons against the package variable.
var (
	ErrMissingField  = errors.New("missing required field")
	ErrUnknownKind   = errors.New("unknown object kind")
	ErrBadTimestamp  = errors.New("non-numeric timestamp")
	ErrTypeParseError = errors.New("malformed object content")
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")
)

// NewParseError wraps a lower-level parse failure with package/code context.
func NewParseError(op, code string, cause error) error {
	return err.New(pkgName, code, op, cause.Error(), cause)
}
