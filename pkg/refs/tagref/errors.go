package tagref

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/common/err"
)

const (
	// pkgName is the package name for error reporting
	pkgName = "tagref"
)

// Error codes for tag operations
const (
	CodeNotFound      = "TAG_NOT_FOUND"
	CodeAlreadyExists = "TAG_ALREADY_EXISTS"
	CodeInvalidName   = "TAG_INVALID_NAME"
)

// NotFoundError indicates a tag doesn't exist
type NotFoundError struct {
	baseError *err.Error
	TagName   string
}

// NewNotFoundError creates a new tag not found error
func NewNotFoundError(name string) error {
	return &NotFoundError{
		baseError: err.New(
			pkgName,
			CodeNotFound,
			"lookup",
			fmt.Sprintf("tag '%s' not found", name),
			nil,
		),
		TagName: name,
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

// AlreadyExistsError indicates a tag already exists
type AlreadyExistsError struct {
	baseError *err.Error
	TagName   string
}

// NewAlreadyExistsError creates a new tag already exists error
func NewAlreadyExistsError(name string) error {
	return &AlreadyExistsError{
		baseError: err.New(
			pkgName,
			CodeAlreadyExists,
			"create",
			fmt.Sprintf("tag '%s' already exists", name),
			nil,
		),
		TagName: name,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *AlreadyExistsError) Unwrap() error {
	return e.baseError
}

// InvalidNameError indicates an invalid tag name
type InvalidNameError struct {
	baseError *err.Error
	TagName   string
	Reasons   []string
}

// NewInvalidNameError creates a new invalid tag name error
func NewInvalidNameError(name string, reasons ...string) error {
	msg := fmt.Sprintf("invalid tag name '%s'", name)
	if len(reasons) > 0 {
		msg += ": " + strings.Join(reasons, "; ")
	}

	return &InvalidNameError{
		baseError: err.New(
			pkgName,
			CodeInvalidName,
			"validate",
			msg,
			nil,
		),
		TagName: name,
		Reasons: reasons,
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
