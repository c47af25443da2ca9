package cli

import (
	"github.com/solo-io/ghrelease/internal/version"
	"github.com/solo-io/ghrelease/pkg/cli/internal/commands/create"
	"github.com/solo-io/ghrelease/pkg/cli/internal/commands/upload"
	versioncmd "github.com/solo-io/ghrelease/pkg/cli/internal/commands/version"
	"github.com/solo-io/ghrelease/pkg/cli/internal/options"
	"github.com/spf13/cobra"
)

// CreateGitHubRelease builds the command tree. The root command creates a
// release; subcommands work against existing releases.
func CreateGitHubRelease() *cobra.Command {
	opts := &options.GeneralOptions{}

	cmd := create.Command(opts)
	cmd.Version = version.Version
	cmd.SilenceErrors = true
	opts.AddToFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		upload.Command(opts),
		versioncmd.Command(opts),
	)
	return cmd
}
