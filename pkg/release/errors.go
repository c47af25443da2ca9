package release

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/google/go-github/v32/github"
	"github.com/pkg/errors"
)

var ErrNoToken = errors.New("github token not set")

// StatusError is returned when GitHub answers with anything other than
// 201 Created. Body holds the error payload GitHub sent back, if any.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// StatusCode reports the HTTP status carried by err, or 0 when err did not
// come from an HTTP response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// responseError turns a failed round trip into an error. For HTTP failures
// the raw response body is kept; go-github's CheckResponse puts it back on
// resp.Body after decoding it.
func responseError(op string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return errors.Wrap(err, op)
	}

	se := &StatusError{Op: op, StatusCode: resp.StatusCode}
	if resp.Body != nil {
		byt, readErr := ioutil.ReadAll(resp.Body)
		if readErr != nil {
			return errors.Wrapf(se, "reading response body: %v", readErr)
		}
		se.Body = strings.TrimSpace(string(byt))
	}
	if se.Body != "" {
		return se
	}

	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
	)
	switch {
	case errors.As(err, &errResp):
		se.Body = errResp.Message
	case errors.As(err, &rateErr):
		se.Body = rateErr.Message
	case errors.As(err, &abuseErr):
		se.Body = abuseErr.Message
	}
	return se
}
