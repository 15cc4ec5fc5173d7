package sourcerepo

import (
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/common/err"
)

const (
	// Package name for error reporting
	pkgName = "sourcerepo"
)

// Error codes for repository discovery
const (
	CodeNotARepository        = "REPO_NOT_A_REPOSITORY"
	CodeExplicitGitDirMissing = "REPO_EXPLICIT_GIT_DIR_MISSING"
	CodeOutsideRepo           = "REPO_OUTSIDE_REPO"
	CodeAlreadyExists         = "REPO_ALREADY_EXISTS"
)

// NotARepositoryError indicates discovery walked up to the filesystem root
// without finding a `.git` directory at any ancestor.
type NotARepositoryError struct {
	baseError *err.Error
	StartPath string
}

// NewNotARepositoryError creates a new "not a repository" error
func NewNotARepositoryError(startPath string) error {
	return &NotARepositoryError{
		baseError: err.New(
			pkgName,
			CodeNotARepository,
			"discover",
			fmt.Sprintf("not a git repository (or any parent up to the root): %s", startPath),
			nil,
		),
		StartPath: startPath,
	}
}

// Error implements the error interface
func (e *NotARepositoryError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *NotARepositoryError) Unwrap() error {
	return e.baseError
}

// ExplicitGitDirMissingError indicates an explicitly configured/overridden
// git-dir path does not exist, so no ancestor-walking fallback is attempted.
type ExplicitGitDirMissingError struct {
	baseError *err.Error
	Path      string
}

// NewExplicitGitDirMissingError creates a new explicit-git-dir-missing error
func NewExplicitGitDirMissingError(path string) error {
	return &ExplicitGitDirMissingError{
		baseError: err.New(
			pkgName,
			CodeExplicitGitDirMissing,
			"discover",
			fmt.Sprintf("explicit git dir not found: %s", path),
			nil,
		),
		Path: path,
	}
}

// Error implements the error interface
func (e *ExplicitGitDirMissingError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *ExplicitGitDirMissingError) Unwrap() error {
	return e.baseError
}

// OutsideRepoError indicates a path argument resolves outside the repository's
// working directory.
type OutsideRepoError struct {
	baseError *err.Error
	Path      string
}

// NewOutsideRepoError creates a new outside-repo error
func NewOutsideRepoError(path string) error {
	return &OutsideRepoError{
		baseError: err.New(
			pkgName,
			CodeOutsideRepo,
			"resolve-path",
			fmt.Sprintf("path is outside the repository: %s", path),
			nil,
		),
		Path: path,
	}
}

// Error implements the error interface
func (e *OutsideRepoError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying error
func (e *OutsideRepoError) Unwrap() error {
	return e.baseError
}

// AlreadyExistsError indicates Initialize was called against a path that
// already contains a repository.
type AlreadyExistsError struct {
	baseError *err.Error
	Path      string
}

// NewAlreadyExistsError creates a new repository-already-exists error
func NewAlreadyExistsError(path string) error {
	return &AlreadyExistsError{
		baseError: err.New(
			pkgName,
			CodeAlreadyExists,
			"initialize",
			fmt.Sprintf("already a source repository: %s", path),
			nil,
		),
		Path: path,
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
