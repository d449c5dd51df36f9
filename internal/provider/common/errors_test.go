package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "GitHub API error with Message field",
			err:      errors.New("POST https://api.github.com/user/repos: 422 Unprocessable Entity [{Resource:Repository Field:name Code:custom Message:name already exists on this account}]"),
			expected: "name already exists on this account",
		},
		{
			name:     "Simple error message",
			err:      errors.New("connection timeout"),
			expected: "connection timeout",
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "Network error",
			err:      &NetworkError{Status: 404, Message: "Not Found"},
			expected: "404 Not Found: Not Found",
		},
		{
			name:     "Wrapped network error",
			err:      fmt.Errorf("failed to get user: %w", &NetworkError{Status: 401, Message: "Bad credentials"}),
			expected: "401 Unauthorized: Bad credentials",
		},
		{
			name:     "Transport failure",
			err:      &NetworkError{Message: "dial tcp: connection refused"},
			expected: "network error: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractErrorMessage(tt.err)
			if result != tt.expected {
				t.Errorf("ExtractErrorMessage() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "network error", err: &NetworkError{Status: 401}, want: 401},
		{name: "wrapped", err: fmt.Errorf("outer: %w", &NetworkError{Status: 404}), want: 404},
		{name: "plain error", err: errors.New("boom"), want: 0},
		{name: "nil", err: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNetworkErrorPredicates(t *testing.T) {
	unauthorized := &NetworkError{Status: 401}
	if !unauthorized.Unauthorized() || unauthorized.NotFound() {
		t.Errorf("401 predicates wrong: unauthorized=%v notFound=%v", unauthorized.Unauthorized(), unauthorized.NotFound())
	}

	notFound := &NetworkError{Status: 404}
	if notFound.Unauthorized() || !notFound.NotFound() {
		t.Errorf("404 predicates wrong: unauthorized=%v notFound=%v", notFound.Unauthorized(), notFound.NotFound())
	}
}
