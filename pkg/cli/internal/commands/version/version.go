package version

import (
	"fmt"

	"github.com/solo-io/ghrelease/internal/version"
	"github.com/solo-io/ghrelease/pkg/cli/internal/options"
	"github.com/spf13/cobra"
)

func Command(opts *options.GeneralOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display create-github-release version information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Name, version.Version)
			return nil
		},
		SilenceUsage: true,
	}
}
