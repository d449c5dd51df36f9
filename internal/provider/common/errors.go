package common

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	ErrInvalidRepositoryFormat = errors.New("invalid repository format")
	ErrNotLoggedIn             = errors.New("not logged in")
	ErrMissingCode             = errors.New("callback carried no authorization code")
	ErrStateMismatch           = errors.New("callback state does not match the login in progress")
	ErrInvalidSortKey          = errors.New("unsupported sort key")
)

// NetworkError is every failure reported by the GitHub layer. Status is the HTTP
// status of the response, or 0 when no response arrived.
type NetworkError struct {
	Status  int
	Message string
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *NetworkError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func (e *NetworkError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Status
	}
	return 0
}

var apiMessageRegex = regexp.MustCompile(`Message:([^\]}]+)`)

// ExtractErrorMessage turns an error into the short string shown to the user.
// go-github formats validation failures as "... [{Resource: Field: Code: Message:...}]";
// only the message part is kept.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}

	msg := err.Error()
	if matches := apiMessageRegex.FindStringSubmatch(msg); len(matches) == 2 {
		if extracted := strings.TrimSpace(matches[1]); extracted != "" {
			return extracted
		}
	}
	return msg
}
