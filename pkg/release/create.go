package release

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v32/github"
	"github.com/pkg/errors"
	"github.com/solo-io/go-utils/contextutils"
)

// CreateOptions describes the release to publish. Name and Body are sent
// verbatim; use DefaultName and DefaultBody to fill them.
type CreateOptions struct {
	Owner string
	Repo  string

	Tag             string
	TargetCommitish string
	Name            string
	Body            string

	Draft                bool
	Prerelease           bool
	GenerateReleaseNotes bool
}

// createReleaseRequest mirrors the POST /repos/{owner}/{repo}/releases
// payload. go-github v32 predates generate_release_notes, so the body is
// encoded here instead of through github.RepositoryRelease.
type createReleaseRequest struct {
	TagName              string `json:"tag_name"`
	TargetCommitish      string `json:"target_commitish,omitempty"`
	Name                 string `json:"name"`
	Body                 string `json:"body"`
	Draft                bool   `json:"draft"`
	Prerelease           bool   `json:"prerelease"`
	GenerateReleaseNotes bool   `json:"generate_release_notes"`
}

func DefaultName(product, tag string) string {
	if product == "" {
		return tag
	}
	return fmt.Sprintf("%s %s", product, tag)
}

func DefaultBody(owner, repo, tag string) string {
	return fmt.Sprintf("See https://github.com/%s/%s/releases/tag/%s for release notes", owner, repo, tag)
}

func (o CreateOptions) validate() error {
	if o.Owner == "" || o.Repo == "" {
		return errors.New("repository owner and name are required")
	}
	if o.Tag == "" {
		return errors.New("tag is required")
	}
	return nil
}

// CreateRelease issues a single POST to the releases endpoint. Only 201
// Created counts as success; any other answer yields a nil release and a
// *StatusError.
func (c *Client) CreateRelease(ctx context.Context, opts CreateOptions) (*github.RepositoryRelease, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := contextutils.LoggerFrom(ctx)

	u := fmt.Sprintf("repos/%s/%s/releases", opts.Owner, opts.Repo)
	req, err := c.gh.NewRequest(http.MethodPost, u, &createReleaseRequest{
		TagName:              opts.Tag,
		TargetCommitish:      opts.TargetCommitish,
		Name:                 opts.Name,
		Body:                 opts.Body,
		Draft:                opts.Draft,
		Prerelease:           opts.Prerelease,
		GenerateReleaseNotes: opts.GenerateReleaseNotes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building create release request")
	}
	logger.Debugw("creating release", "url", req.URL.String(), "tag", opts.Tag)

	rel := new(github.RepositoryRelease)
	resp, err := c.gh.Do(ctx, req, rel)
	c.record(ctx, "create_release", resp)
	if err != nil {
		return nil, responseError("create release", resp, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, responseError("create release", resp, nil)
	}

	logger.Debugw("release created", "id", rel.GetID(), "url", rel.GetHTMLURL())
	return rel, nil
}
