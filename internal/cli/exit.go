package cli

import (
	"errors"

	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// ExitCode maps an error to the process exit code: the code of a project
// error, 1 for anything else, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *lint.ProjectError
	if errors.As(err, &pe) && pe.Code != 0 {
		return int(pe.Code)
	}
	return 1
}
