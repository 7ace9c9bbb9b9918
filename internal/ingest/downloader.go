package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// HTTPDownloader fetches manuals over HTTP into a working directory.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader creates a downloader with a sensible timeout.
func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPDownloader{client: &http.Client{Timeout: timeout}}
}

// Download fetches url into dir and returns the local path and byte size.
func (d *HTTPDownloader) Download(ctx context.Context, url, dir string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, domain.IOError("build download request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, domain.IOError(fmt.Sprintf("download %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, domain.IOError(fmt.Sprintf("download %s: HTTP %d", url, resp.StatusCode), nil)
	}

	f, err := os.CreateTemp(dir, "manual-*"+filepath.Ext(url))
	if err != nil {
		return "", 0, domain.IOError("create download file", err)
	}
	defer f.Close()

	size, err := io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, domain.IOError("write download file", err)
	}

	return f.Name(), size, nil
}
