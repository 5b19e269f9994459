package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Age,Male,Female\n0-9,10,9\n"

func TestResolve(t *testing.T) {
	assert.Equal(t, File{Path: DefaultPath}, Resolve("", ""))
	assert.Equal(t, File{Path: filepath.Join("base", "data.csv")}, Resolve("data.csv", "base"))
	assert.Equal(t, File{Path: "/abs/data.csv"}, Resolve("/abs/data.csv", "base"))
	assert.Equal(t, HTTP{URL: "HTTPS://example.org/data.csv"}, Resolve("HTTPS://example.org/data.csv", "base"))
}

func TestFileReadAll(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o644))

	b, err := ReadAll(context.Background(), File{Path: p})
	require.NoError(t, err)
	assert.Equal(t, sample, string(b))

	_, err = ReadAll(context.Background(), File{Path: filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := File{Path: "whatever.csv"}.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPReadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	b, err := ReadAll(context.Background(), HTTP{URL: srv.URL + "/data.csv"})
	require.NoError(t, err)
	assert.Equal(t, sample, string(b))

	_, err = ReadAll(context.Background(), HTTP{URL: srv.URL + "/other.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
}
