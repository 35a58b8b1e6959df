package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
)

const readme = "# 科技爱好者周刊\n\n- [第 360 期](docs/issue-360.md) Dan Wang 的新书\n"

func TestFetch_WritesBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(readme))
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "tmp", "nested", "README.md")
	f := New(NewHTTPClient(0))

	require.NoError(t, f.Fetch(context.Background(), server.URL+"/README.md", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, readme, string(data))
}

func TestFetch_OverwritesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("short"))
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(dest, []byte(strings.Repeat("old content ", 50)), 0o600))

	require.NoError(t, New(nil).Fetch(context.Background(), server.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestFetch_NonSuccessStatusIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "README.md")
	err := New(nil).Fetch(context.Background(), server.URL, dest)
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryNetwork, classified.Category())
	assert.False(t, classified.CanRetry())
	code, _ := classified.Context().Get("status_code")
	assert.Equal(t, http.StatusNotFound, code)

	_, statErr := os.Stat(dest)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing may be written on failure")
}

func TestFetch_NoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	err := New(nil).Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "README.md"))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetch_TransportFailureIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	err := New(nil).Fetch(context.Background(), url, filepath.Join(t.TempDir(), "README.md"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
	classified, _ := ferrors.AsClassified(err)
	assert.NotNil(t, classified.Cause())
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	t.Cleanup(server.Close)

	err := New(nil, WithMaxBodyBytes(32)).Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "README.md"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}

func TestFetch_UnwritableDestinationIsIOError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(readme))
	}))
	t.Cleanup(server.Close)

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := New(nil).Fetch(context.Background(), server.URL, filepath.Join(blocker, "README.md"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://raw.githubusercontent.com/ruanyf/weekly/master/README.md", false},
		{"http://localhost:8080/README.md", false},
		{"ftp://example.com/README.md", true},
		{"file:///etc/passwd", true},
		{"README.md", true},
		{"http://%zz", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			err := ValidateURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewHTTPClient_BlocksCrossHostRedirect(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(readme))
	}))
	t.Cleanup(other.Close)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 127.0.0.1 vs localhost keeps the port but changes the host.
		http.Redirect(w, r, strings.Replace(other.URL, "127.0.0.1", "localhost", 1), http.StatusFound)
	}))
	t.Cleanup(server.Close)

	err := New(NewHTTPClient(0)).Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "README.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect to different host blocked")
}
