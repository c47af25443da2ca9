package session

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/solo-io/ghrelease/pkg/cli/internal/defaults"
	"github.com/solo-io/ghrelease/pkg/cli/internal/options"
	"github.com/solo-io/ghrelease/pkg/logger"
	"github.com/solo-io/ghrelease/pkg/printer"
	"github.com/solo-io/ghrelease/pkg/release"
	"github.com/solo-io/ghrelease/pkg/stats"
	"github.com/solo-io/go-utils/contextutils"
	"github.com/spf13/cobra"
)

// Session holds everything a command needs to talk to one repository.
type Session struct {
	Ctx     context.Context
	Client  *release.Client
	Printer *printer.Printer
	Owner   string
	Repo    string

	metrics     stats.MetricsProvider
	metricsFile string
	cleanup     func()
}

// Start resolves configuration and builds the client. Missing configuration
// is reported and returned before any network call is made.
func Start(cmd *cobra.Command, opts *options.GeneralOptions) (*Session, error) {
	p := printer.New(cmd.OutOrStdout(), !opts.NoTTY)

	token, err := opts.AuthOptions.ResolveToken()
	if err != nil {
		p.Failure("GitHub token not set!")
		p.Detail("Set %s or %s environment variable", defaults.TokenEnv, defaults.TokenEnvAlt)
		return nil, err
	}

	owner, repo, err := opts.RepoOptions.Resolve()
	if err != nil {
		p.Failure("%v", err)
		return nil, err
	}

	ctx, cleanup, err := logger.BuildContext(cmd.Context(), opts.Debug, opts.Timeout)
	if err != nil {
		return nil, err
	}

	metrics := stats.NewPrometheusMetricsProvider(ctx, nil)
	client, err := release.NewClient(ctx, release.ClientOptions{
		Token:     token,
		APIURL:    opts.RepoOptions.APIURL,
		UploadURL: opts.RepoOptions.UploadURL,
		Metrics:   metrics,
	})
	if err != nil {
		cleanup()
		p.Failure("%v", err)
		return nil, err
	}
	contextutils.LoggerFrom(ctx).Infow("session started", "owner", owner, "repo", repo)

	return &Session{
		Ctx:         ctx,
		Client:      client,
		Printer:     p,
		Owner:       owner,
		Repo:        repo,
		metrics:     metrics,
		metricsFile: opts.MetricsFile,
		cleanup:     cleanup,
	}, nil
}

// Close writes the metrics file, if one was requested, and releases the
// run context.
func (s *Session) Close() error {
	defer s.cleanup()
	if s.metricsFile == "" {
		return nil
	}
	return s.metrics.WriteTextfile(s.metricsFile)
}

// ReportFailure prints what went wrong with the named action, including the
// status code and body of a non-201 response.
func (s *Session) ReportFailure(action string, err error) {
	var se *release.StatusError
	if errors.As(err, &se) {
		s.Printer.Failure("Failed to %s: %d", action, se.StatusCode)
		if se.Body != "" {
			s.Printer.Raw(se.Body)
		}
		return
	}
	s.Printer.Failure("Failed to %s: %v", action, err)
}

// UploadAssets uploads every path to the release in order. A failed upload
// does not stop the ones after it; all failures are returned together.
func (s *Session) UploadAssets(releaseID int64, paths []string, checksums bool) error {
	var result *multierror.Error
	for _, path := range paths {
		if err := s.uploadAsset(releaseID, path, checksums); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (s *Session) uploadAsset(releaseID int64, path string, checksum bool) error {
	asset, err := release.OpenAsset(path)
	if err != nil {
		s.Printer.Failure("Failed to read %s: %v", path, errors.Cause(err))
		return err
	}
	defer asset.Close()

	if err := s.upload(releaseID, asset); err != nil {
		return err
	}
	if !checksum {
		return nil
	}

	sum, err := release.ChecksumAsset(path)
	if err != nil {
		s.Printer.Failure("Failed to checksum %s: %v", path, errors.Cause(err))
		return err
	}
	defer sum.Close()
	return s.upload(releaseID, sum)
}

func (s *Session) upload(releaseID int64, asset *release.Asset) error {
	step := s.Printer.Start(fmt.Sprintf("Uploading %s (%d bytes)...", asset.Name, asset.Size))
	if _, err := s.Client.UploadAsset(s.Ctx, s.Owner, s.Repo, releaseID, asset); err != nil {
		if code := release.StatusCode(err); code != 0 {
			step.Fail(fmt.Sprintf("Failed to upload %s: %d", asset.Name, code))
		} else {
			step.Fail(fmt.Sprintf("Failed to upload %s: %v", asset.Name, err))
		}
		return err
	}
	step.Success(fmt.Sprintf("Uploaded %s", asset.Name))
	return nil
}
