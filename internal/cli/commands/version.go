package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/lint/upgrade"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display spfxkit version and the SharePoint Framework versions it supports.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "spfxkit v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Supported SharePoint Framework versions: %s\n",
				strings.Join(upgrade.Registry().Versions(), ", "))
		},
	}
}
