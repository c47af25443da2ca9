package create

import (
	"github.com/pkg/errors"
	"github.com/solo-io/ghrelease/pkg/cli/internal/defaults"
	"github.com/solo-io/ghrelease/pkg/cli/internal/options"
	"github.com/solo-io/ghrelease/pkg/cli/internal/session"
	"github.com/solo-io/ghrelease/pkg/release"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	ErrMissingTag     = errors.New("a release tag is required")
	ErrConflictingTag = errors.New("pass the tag either as an argument or with --tag, not both")
)

type createOptions struct {
	general *options.GeneralOptions

	tag           string
	product       string
	name          string
	body          string
	target        string
	draft         bool
	prerelease    bool
	generateNotes bool
	assets        []string
	checksums     bool
}

func addToFlags(flags *pflag.FlagSet, opts *createOptions) {
	flags.StringVarP(&opts.tag, "tag", "t", "", "Release tag, needed when the tag is named like a subcommand, e.g. 'version'")
	flags.StringVar(&opts.product, "product", defaults.Product, "Product name used in the default release name '<product> <tag>'")
	flags.StringVar(&opts.name, "name", "", "Release name, defaults to '<product> <tag>'")
	flags.StringVar(&opts.body, "body", "", "Release body, defaults to a link to the release page")
	flags.StringVar(&opts.target, "target", "", "Commitish the tag is created from if it does not exist yet")
	flags.BoolVar(&opts.draft, "draft", false, "Create the release as a draft")
	flags.BoolVar(&opts.prerelease, "prerelease", false, "Mark the release as a prerelease")
	flags.BoolVar(&opts.generateNotes, "generate-notes", true, "Ask GitHub to generate release notes")
	flags.StringArrayVarP(&opts.assets, "asset", "a", nil, "File to upload to the release, may be repeated")
	flags.BoolVar(&opts.checksums, "sha256", false, "Also upload a '<asset>.sha256' checksum file for every asset")
}

func Command(opts *options.GeneralOptions) *cobra.Command {
	createOpts := &createOptions{
		general: opts,
	}
	cmd := &cobra.Command{
		Use:   "create-github-release TAG",
		Short: "Create a GitHub release for TAG and upload assets to it.",
		Long: `
Creates a release for TAG through the GitHub REST API and optionally uploads
build artifacts to it.

The token is read from $GITHUB_TOKEN, falling back to $PAT.
The repository is read from --owner/--repo, falling back to $GITHUB_REPOSITORY.

A TAG named like a subcommand ("upload", "version") runs that subcommand
instead; pass such tags with --tag:
$ create-github-release --tag version
`,
		Example: `  create-github-release v1.0.0
  create-github-release v1.0.0 -a _output/app-linux-amd64 -a _output/app-darwin-amd64 --sha256`,
		Args: func(cmd *cobra.Command, args []string) error {
			return requireTag(cmd, args, createOpts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := createOpts.tag
			if len(args) == 1 {
				tag = args[0]
			}
			return run(cmd, tag, createOpts)
		},
		SilenceUsage: true,
	}
	addToFlags(cmd.Flags(), createOpts)
	return cmd
}

func requireTag(cmd *cobra.Command, args []string, opts *createOptions) error {
	if opts.tag != "" {
		if len(args) > 0 {
			return ErrConflictingTag
		}
		return nil
	}
	if len(args) == 0 {
		_ = cmd.Usage()
		return ErrMissingTag
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func run(cmd *cobra.Command, tag string, opts *createOptions) (err error) {
	s, err := session.Start(cmd, opts.general)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	createOpts := release.CreateOptions{
		Owner:                s.Owner,
		Repo:                 s.Repo,
		Tag:                  tag,
		TargetCommitish:      opts.target,
		Name:                 opts.name,
		Body:                 opts.body,
		Draft:                opts.draft,
		Prerelease:           opts.prerelease,
		GenerateReleaseNotes: opts.generateNotes,
	}
	if createOpts.Name == "" {
		createOpts.Name = release.DefaultName(opts.product, tag)
	}
	if createOpts.Body == "" {
		createOpts.Body = release.DefaultBody(s.Owner, s.Repo, tag)
	}

	s.Printer.Info("Creating release %s on %s/%s", tag, s.Owner, s.Repo)
	rel, err := s.Client.CreateRelease(s.Ctx, createOpts)
	if err != nil {
		s.ReportFailure("create release", err)
		return err
	}
	s.Printer.Success("Release created successfully!")
	s.Printer.Detail("URL: %s", rel.GetHTMLURL())
	s.Printer.Detail("ID: %d", rel.GetID())

	if len(opts.assets) > 0 {
		if err := s.UploadAssets(rel.GetID(), opts.assets, opts.checksums); err != nil {
			return err
		}
	}

	s.Printer.Raw("")
	s.Printer.Success("Release %s created successfully!", tag)
	s.Printer.Detail("View at: %s", rel.GetHTMLURL())
	return nil
}
