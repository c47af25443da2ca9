package release

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v32/github"
	"github.com/pkg/errors"
	"github.com/solo-io/ghrelease/internal/version"
	"github.com/solo-io/ghrelease/pkg/stats"
	"golang.org/x/oauth2"
)

// ClientOptions configures the GitHub API client. Empty URLs keep the
// github.com defaults.
type ClientOptions struct {
	Token     string
	APIURL    string
	UploadURL string
	Metrics   stats.MetricsProvider
}

// Client wraps a go-github client with the two calls this tool makes.
type Client struct {
	gh *github.Client

	requests stats.IncrementInstrument
	uploaded stats.SetInstrument
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrNoToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))
	gh.UserAgent = version.UserAgent()

	if opts.APIURL != "" {
		u, err := parseBaseURL(opts.APIURL)
		if err != nil {
			return nil, errors.Wrap(err, "api url")
		}
		gh.BaseURL = u
	}
	if opts.UploadURL != "" {
		u, err := parseBaseURL(opts.UploadURL)
		if err != nil {
			return nil, errors.Wrap(err, "upload url")
		}
		gh.UploadURL = u
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = stats.NewPrometheusMetricsProvider(ctx, nil)
	}

	return &Client{
		gh:       gh,
		requests: metrics.NewIncrementCounter("requests_total", nil, "operation", "code"),
		uploaded: metrics.NewGauge("uploaded_bytes", nil, "asset"),
	}, nil
}

// go-github refuses base URLs without a trailing slash.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("%q is not an absolute url", raw)
	}
	return u, nil
}

func (c *Client) record(ctx context.Context, operation string, resp *github.Response) {
	code := "error"
	if resp != nil && resp.Response != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.requests.Increment(ctx, map[string]string{
		"operation": operation,
		"code":      code,
	})
}
