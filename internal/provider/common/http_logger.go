package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/johanforsgren/repobrowser/internal/logger"
)

const maxLoggedBody = 10000

// LoggingTransport wraps an http.RoundTripper to log all requests and responses
type LoggingTransport struct {
	Transport http.RoundTripper
}

// NewLoggingTransport creates a new logging transport wrapper
func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	t.logRequest(req)

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Path), err)
		logger.Log("HTTP: %s %s - ERROR after %v: %v", req.Method, req.URL.Path, duration, err)
		return nil, err
	}

	t.logResponse(req, resp, duration)

	return resp, nil
}

func (t *LoggingTransport) logRequest(req *http.Request) {
	var buf bytes.Buffer

	buf.WriteString("=== HTTP REQUEST ===\n")
	fmt.Fprintf(&buf, "%s %s %s\n", req.Method, RedactURL(req.URL.String()), req.Proto)

	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.ContentLength > 0 && req.ContentLength < maxLoggedBody {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			fmt.Fprintf(&buf, "Body (%d bytes):\n", len(bodyBytes))
			buf.WriteString(RedactBody(string(bodyBytes)))
			buf.WriteString("\n")
		}
	} else if req.ContentLength > 0 {
		fmt.Fprintf(&buf, "Body: (%d bytes, too large to log)\n", req.ContentLength)
	}

	buf.WriteString("===================\n")

	logger.Log("%s", buf.String())
}

func (t *LoggingTransport) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	var buf bytes.Buffer

	buf.WriteString("=== HTTP RESPONSE ===\n")
	fmt.Fprintf(&buf, "%s %s - %s (%v)\n", req.Method, req.URL.Path, resp.Status, duration)

	writeHeaders(&buf, resp.Header)

	if resp.Body != nil && resp.ContentLength != 0 {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err == nil {
			resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			if len(bodyBytes) > 0 && len(bodyBytes) < maxLoggedBody {
				fmt.Fprintf(&buf, "Body (%d bytes):\n", len(bodyBytes))
				buf.WriteString(RedactBody(string(bodyBytes)))
				buf.WriteString("\n")
			} else if len(bodyBytes) > 0 {
				fmt.Fprintf(&buf, "Body: (%d bytes, too large to log)\n", len(bodyBytes))
			}
		}
	}

	buf.WriteString("====================\n")

	logger.Log("%s", buf.String())
}

func writeHeaders(buf *bytes.Buffer, header http.Header) {
	buf.WriteString("Headers:\n")
	for name, values := range header {
		if isSensitiveHeader(name) {
			fmt.Fprintf(buf, "  %s: [REDACTED]\n", name)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "  %s: %s\n", name, value)
		}
	}
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key", "api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

var (
	sensitiveFormField = regexp.MustCompile(`((?:^|&)(?:client_secret|code|access_token|refresh_token)=)[^&]*`)
	sensitiveJSONField = regexp.MustCompile(`("(?:client_secret|code|access_token|refresh_token)"\s*:\s*")[^"]*(")`)
)

// RedactBody masks OAuth secrets in form-encoded and JSON bodies.
func RedactBody(body string) string {
	body = sensitiveFormField.ReplaceAllString(body, "${1}[REDACTED]")
	return sensitiveJSONField.ReplaceAllString(body, "${1}[REDACTED]${2}")
}

// RedactURL masks OAuth secrets in a URL's query string.
func RedactURL(raw string) string {
	before, query, found := strings.Cut(raw, "?")
	if !found {
		return raw
	}
	return before + "?" + RedactBody(query)
}

// HeaderTransport sets fixed headers on every outgoing request.
type HeaderTransport struct {
	Transport http.RoundTripper
	Header    http.Header
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	for name, values := range t.Header {
		clone.Header.Del(name)
		for _, value := range values {
			clone.Header.Add(name, value)
		}
	}
	return base.RoundTrip(clone)
}
