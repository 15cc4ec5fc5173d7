package refs

import (
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/common/err"
)

const (
	// Package name for error reporting
	pkgName = "refs"
)

// Error codes for reference store operations
const (
	CodeCasMismatch  = "REFS_CAS_MISMATCH"
	CodeDetachedHead = "REFS_DETACHED_HEAD"
	CodeNotFound     = "REFS_NOT_FOUND"
	CodeInvalidName  = "REFS_INVALID_NAME"
)

// CasMismatchError indicates a compare_and_set call's expected value did not
// match the reference's actual current value (or existence), so the write
// was rejected rather than silently clobbering a concurrent update.
type CasMismatchError struct {
	baseError *err.Error
	Ref       RefPath
	Expected  string
	Actual    string
}

// NewCasMismatchError creates a new CAS-mismatch error. expected == "" means
// the caller required the ref to not exist yet.
func NewCasMismatchError(ref RefPath, expected, actual string) error {
	return &CasMismatchError{
		baseError: err.New(
			pkgName,
			CodeCasMismatch,
			"compare-and-set",
			fmt.Sprintf("ref %s: expected %q but found %q", ref, displayValue(expected), displayValue(actual)),
			nil,
		),
		Ref:      ref,
		Expected: expected,
		Actual:   actual,
	}
}

// Error implements the error interface
func (e *CasMismatchError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *CasMismatchError) Unwrap() error {
	return e.baseError
}

func displayValue(v string) string {
	if v == "" {
		return "<absent>"
	}
	return v
}

// DetachedHeadError indicates an operation that requires HEAD to point at a
// branch was attempted while HEAD is detached (pointing directly at a commit).
type DetachedHeadError struct {
	baseError *err.Error
	CommitSHA string
}

// NewDetachedHeadError creates a new detached-HEAD error
func NewDetachedHeadError(commitSHA string) error {
	return &DetachedHeadError{
		baseError: err.New(
			pkgName,
			CodeDetachedHead,
			"resolve-head",
			fmt.Sprintf("HEAD is detached at %s", commitSHA),
			nil,
		),
		CommitSHA: commitSHA,
	}
}

// Error implements the error interface
func (e *DetachedHeadError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *DetachedHeadError) Unwrap() error {
	return e.baseError
}

// NotFoundError indicates a reference does not exist.
type NotFoundError struct {
	baseError *err.Error
	Ref       RefPath
}

// NewNotFoundError creates a new ref-not-found error
func NewNotFoundError(ref RefPath) error {
	return &NotFoundError{
		baseError: err.New(
			pkgName,
			CodeNotFound,
			"read-ref",
			fmt.Sprintf("reference not found: %s", ref),
			nil,
		),
		Ref: ref,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *NotFoundError) Unwrap() error {
	return e.baseError
}

// InvalidNameError indicates a reference path failed RefPath.IsValid.
type InvalidNameError struct {
	baseError *err.Error
	Ref       RefPath
}

// NewInvalidNameError creates a new invalid-ref-name error
func NewInvalidNameError(ref RefPath) error {
	return &InvalidNameError{
		baseError: err.New(
			pkgName,
			CodeInvalidName,
			"validate-name",
			fmt.Sprintf("invalid reference name: %s", ref),
			nil,
		),
		Ref: ref,
	}
}

// Error implements the error interface
func (e *InvalidNameError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *InvalidNameError) Unwrap() error {
	return e.baseError
}
