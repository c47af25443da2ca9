package upload

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/solo-io/ghrelease/pkg/cli/internal/options"
	"github.com/solo-io/ghrelease/pkg/cli/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type uploadOptions struct {
	general *options.GeneralOptions

	checksums bool
}

func addToFlags(flags *pflag.FlagSet, opts *uploadOptions) {
	flags.BoolVar(&opts.checksums, "sha256", false, "Also upload a '<file>.sha256' checksum file for every file")
}

func Command(opts *options.GeneralOptions) *cobra.Command {
	uploadOpts := &uploadOptions{
		general: opts,
	}
	cmd := &cobra.Command{
		Use:   "upload RELEASE_ID FILE...",
		Short: "Upload files as assets to an existing release.",
		Long: `
Uploads each FILE to the release with the given numeric id. Files are sent one
after the other; a failed upload does not stop the remaining ones.

Example:
$ create-github-release upload 123456 _output/app-linux-amd64 _output/app-linux-arm64
`,
		Args: cobra.MinimumNArgs(2), // release id, files
		RunE: func(cmd *cobra.Command, args []string) error {
			return upload(cmd, args, uploadOpts)
		},
		SilenceUsage: true,
	}
	addToFlags(cmd.Flags(), uploadOpts)
	return cmd
}

func upload(cmd *cobra.Command, args []string, opts *uploadOptions) (err error) {
	releaseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || releaseID <= 0 {
		return errors.Errorf("release id must be a positive number, got %q", args[0])
	}

	s, err := session.Start(cmd, opts.general)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return s.UploadAssets(releaseID, args[1:], opts.checksums)
}
