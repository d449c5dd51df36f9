package session

import (
	"fmt"
	"net/url"

	"github.com/johanforsgren/repobrowser/internal/provider/common"
)

type Callback struct {
	Code  string
	State string
}

// ParseCallback extracts the authorization code from a redirect such as
// myapp://callback?code=...&state=...
func ParseCallback(rawURL string) (Callback, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Callback{}, fmt.Errorf("invalid callback URL: %w", err)
	}

	query := u.Query()
	if reason := query.Get("error"); reason != "" {
		if description := query.Get("error_description"); description != "" {
			reason = description
		}
		return Callback{}, fmt.Errorf("authorization denied: %s", reason)
	}

	code := query.Get("code")
	if code == "" {
		return Callback{}, common.ErrMissingCode
	}

	return Callback{
		Code:  code,
		State: query.Get("state"),
	}, nil
}
