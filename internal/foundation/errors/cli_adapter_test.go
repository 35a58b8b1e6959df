package errors

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("malformed data file").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "fetch error", err: FetchError("HTTP 500").Build(), expected: 8},
		{name: "internal error", err: InternalError("bug").Build(), expected: 10},
		{name: "io error", err: IOError("permission denied").Build(), expected: 11},
		{name: "runtime error", err: RuntimeError("canceled").Build(), expected: 12},
		{name: "wrapped fetch error", err: fmt.Errorf("stage fetch: %w", FetchError("x").Build()), expected: 8},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	fetchErr := FetchError("unexpected HTTP status").
		WithCause(errors.New("HTTP 404")).
		WithContext("url", "https://example.com/README.md").
		Build()

	tests := []struct {
		name     string
		adapter  *CLIErrorAdapter
		err      error
		contains string
	}{
		{name: "nil error", adapter: adapter, err: nil, contains: ""},
		{name: "classified error shows message and cause", adapter: adapter, err: fetchErr, contains: "unexpected HTTP status: HTTP 404"},
		{name: "verbose adds context", adapter: verbose, err: fetchErr, contains: "https://example.com/README.md"},
		{name: "unclassified error", adapter: adapter, err: &customError{msg: "unknown error"}, contains: "Error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.adapter.FormatError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("FormatError() = %q, want empty string", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var stderr bytes.Buffer
	var code = -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.stderr = &stderr
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(nil)
	if code != -1 {
		t.Fatalf("expected nil error to skip exit, got code %d", code)
	}

	adapter.HandleError(IOError("write data file").Build())
	if code != 11 {
		t.Errorf("expected exit code 11, got %d", code)
	}
	if !strings.Contains(stderr.String(), "write data file") {
		t.Errorf("expected message on stderr, got %q", stderr.String())
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
