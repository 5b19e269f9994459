// Package source opens the CSV document behind a population pyramid, either
// from disk or over HTTP.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPath is the fixed resource the viewer loads when nothing else is configured.
const DefaultPath = "data.csv"

// ErrStatus is returned for non-2xx HTTP responses.
var ErrStatus = errors.New("unexpected http status")

// Source opens the tabular data for one read.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the resource in logs and UI labels.
	Name() string
}

// File reads a CSV document from the local filesystem.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return fh, nil
}

// HTTP fetches a CSV document with a GET request.
type HTTP struct {
	URL    string
	Client *http.Client
}

func (h HTTP) Name() string { return h.URL }

func (h HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", h.URL, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", h.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: %w: %s", h.URL, ErrStatus, resp.Status)
	}
	return resp.Body, nil
}

// Resolve picks an HTTP source for http(s) URLs and a file source otherwise.
// Relative file paths are taken relative to baseDir when it is non-empty.
func Resolve(ref, baseDir string) Source {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultPath
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return HTTP{URL: ref}
	}
	if baseDir != "" && !filepath.IsAbs(ref) {
		ref = filepath.Join(baseDir, ref)
	}
	return File{Path: ref}
}

// ReadAll opens src and returns its whole body.
func ReadAll(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	return b, nil
}
