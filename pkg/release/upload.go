package release

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/go-github/v32/github"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/solo-io/go-utils/contextutils"
)

const octetStream = "application/octet-stream"

// Asset is a local file ready to be attached to a release. Name and Size
// are read from the filesystem when the asset is opened.
type Asset struct {
	Path string
	Name string
	Size int64

	content io.ReadCloser
}

// OpenAsset stats and opens path. A missing or unreadable file fails here,
// before any request is made.
func OpenAsset(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening asset %s", path)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading asset %s", path)
	}
	if stat.IsDir() {
		f.Close()
		return nil, errors.Errorf("asset %s is a directory", path)
	}
	return &Asset{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    stat.Size(),
		content: f,
	}, nil
}

// NewAsset builds an in-memory asset.
func NewAsset(name string, content []byte) *Asset {
	return &Asset{
		Name:    name,
		Size:    int64(len(content)),
		content: ioutil.NopCloser(bytes.NewReader(content)),
	}
}

func (a *Asset) Close() error {
	return a.content.Close()
}

// ChecksumAsset returns a "<name>.sha256" asset in sha256sum format for the
// file at path.
func ChecksumAsset(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening asset %s", path)
	}
	defer f.Close()

	dig, err := digest.SHA256.FromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "hashing asset %s", path)
	}
	name := filepath.Base(path)
	line := fmt.Sprintf("%s  %s\n", dig.Encoded(), name)
	return NewAsset(name+".sha256", []byte(line)), nil
}

// UploadAsset streams the asset to the release's upload endpoint as an
// octet-stream with the filename in the name query parameter. The asset is
// consumed but not closed.
func (c *Client) UploadAsset(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
	asset *Asset,
) (*github.ReleaseAsset, error) {
	logger := contextutils.LoggerFrom(ctx)

	u := fmt.Sprintf("repos/%s/%s/releases/%d/assets?%s",
		owner, repo, releaseID, url.Values{"name": {asset.Name}}.Encode())
	var body io.Reader = asset.content
	if asset.Size == 0 {
		// a zero length non-nil body would be sent chunked
		body = http.NoBody
	}
	req, err := c.gh.NewUploadRequest(u, body, asset.Size, octetStream)
	if err != nil {
		return nil, errors.Wrap(err, "building upload request")
	}
	logger.Debugw("uploading asset", "url", req.URL.String(), "size", asset.Size)

	uploaded := new(github.ReleaseAsset)
	op := fmt.Sprintf("upload %s", asset.Name)
	resp, err := c.gh.Do(ctx, req, uploaded)
	c.record(ctx, "upload_asset", resp)
	if err != nil {
		return nil, responseError(op, resp, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, responseError(op, resp, nil)
	}

	c.uploaded.Set(ctx, asset.Size, map[string]string{"asset": asset.Name})
	logger.Debugw("asset uploaded", "id", uploaded.GetID(), "name", uploaded.GetName())
	return uploaded, nil
}
