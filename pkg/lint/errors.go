package lint

import (
	"fmt"
	"strings"
)

// ErrorCode classifies top-level failures. The values double as process exit codes.
type ErrorCode int

// Error codes.
const (
	CodeProjectNotFound     ErrorCode = 1
	CodeUnsupportedVersion  ErrorCode = 2
	CodeVersionUndetectable ErrorCode = 3
	CodeNoDowngrade         ErrorCode = 4
)

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrProjectNotFound     = &ProjectError{Code: CodeProjectNotFound}
	ErrUnsupportedVersion  = &ProjectError{Code: CodeUnsupportedVersion}
	ErrVersionUndetectable = &ProjectError{Code: CodeVersionUndetectable}
	ErrNoDowngrade         = &ProjectError{Code: CodeNoDowngrade}
)

// ProjectError is returned when a project cannot be analyzed at all.
type ProjectError struct {
	Code      ErrorCode
	Message   string
	Supported []string // Supported versions, for CodeUnsupportedVersion
}

func (e *ProjectError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("project error (code %d)", e.Code)
	}
	return e.Message
}

// Is matches any ProjectError with the same code.
func (e *ProjectError) Is(target error) bool {
	t, ok := target.(*ProjectError)
	return ok && t.Code == e.Code
}

// NewProjectNotFoundError reports that no project root exists at or above dir.
func NewProjectNotFoundError(dir string) *ProjectError {
	return &ProjectError{
		Code:    CodeProjectNotFound,
		Message: fmt.Sprintf("couldn't find project root folder starting at %s", dir),
	}
}

// NewVersionUndetectableError reports a project whose SPFx version is unknown.
func NewVersionUndetectableError() *ProjectError {
	return &ProjectError{
		Code:    CodeVersionUndetectable,
		Message: "unable to determine the version of the current SharePoint Framework project",
	}
}

// NewUnsupportedVersionError reports a version missing from a rule set registry.
func NewUnsupportedVersionError(version string, supported []string) *ProjectError {
	return &ProjectError{
		Code: CodeUnsupportedVersion,
		Message: fmt.Sprintf("SharePoint Framework v%s is not supported\nSupported versions: %s",
			version, strings.Join(supported, ", ")),
		Supported: supported,
	}
}

// NewNoDowngradeError reports a target version older than the project.
func NewNoDowngradeError(from, to string) *ProjectError {
	return &ProjectError{
		Code:    CodeNoDowngrade,
		Message: fmt.Sprintf("cannot downgrade the project from v%s to v%s", from, to),
	}
}
