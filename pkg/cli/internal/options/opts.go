package options

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/solo-io/ghrelease/pkg/cli/internal/defaults"
	"github.com/solo-io/ghrelease/pkg/release"
	"github.com/spf13/pflag"
)

func NewGeneralOptions(flags *pflag.FlagSet) *GeneralOptions {
	opts := &GeneralOptions{}
	opts.AddToFlags(flags)
	return opts
}

type GeneralOptions struct {
	Debug       bool
	NoTTY       bool
	MetricsFile string
	Timeout     time.Duration

	RepoOptions RepoOptions
	AuthOptions AuthOptions
}

func (opts *GeneralOptions) AddToFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&opts.Debug, "debug", "d", false, "Create a log file 'debug.log' with debug logs of the GitHub API calls")
	flags.BoolVar(&opts.NoTTY, "no-tty", false, "Set to true for running without a tty allocated, so no spinners or colors are printed")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write request metrics in the Prometheus text format to this file")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Abort the whole run after this long, 0 means no limit")
	opts.RepoOptions.addToFlags(flags)
	opts.AuthOptions.addToFlags(flags)
}

type RepoOptions struct {
	Owner     string
	Repo      string
	APIURL    string
	UploadURL string
}

func (opts *RepoOptions) addToFlags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.Owner, "owner", "", "Repository owner, defaults to the owner in $GITHUB_REPOSITORY")
	flags.StringVar(&opts.Repo, "repo", "", "Repository name, defaults to the name in $GITHUB_REPOSITORY")
	flags.StringVar(&opts.APIURL, "api-url", "", "GitHub API base url, e.g. https://github.example.com/api/v3/")
	flags.StringVar(&opts.UploadURL, "upload-url", "", "GitHub upload base url, e.g. https://github.example.com/api/uploads/")
}

// Resolve returns the owner and repository to release, filling blanks from
// $GITHUB_REPOSITORY ("owner/repo") and then from the built-in defaults.
func (opts *RepoOptions) Resolve() (string, string, error) {
	owner, repo := opts.Owner, opts.Repo
	if env := os.Getenv(defaults.RepositoryEnv); env != "" && (owner == "" || repo == "") {
		parts := strings.SplitN(env, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", errors.Errorf("%s=%q is not in owner/repo form", defaults.RepositoryEnv, env)
		}
		if owner == "" {
			owner = parts[0]
		}
		if repo == "" {
			repo = parts[1]
		}
	}
	if owner == "" {
		owner = defaults.Owner
	}
	if repo == "" {
		repo = defaults.Repo
	}
	return owner, repo, nil
}

type AuthOptions struct {
	Token string
}

func (opts *AuthOptions) addToFlags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.Token, "token", "", "GitHub token, overrides $GITHUB_TOKEN and $PAT")
}

// ResolveToken picks the flag, then $GITHUB_TOKEN, then $PAT.
func (opts *AuthOptions) ResolveToken() (string, error) {
	for _, token := range []string{
		opts.Token,
		os.Getenv(defaults.TokenEnv),
		os.Getenv(defaults.TokenEnvAlt),
	} {
		if token != "" {
			return token, nil
		}
	}
	return "", release.ErrNoToken
}
