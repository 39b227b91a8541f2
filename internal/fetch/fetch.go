// Package fetch implements single-attempt streaming HTTP downloads with
// temp-file-then-rename semantics, so a destination path never observes a
// partially written file.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/heartmarshall/dictforge/internal/dicterr"
)

const minChunkSize = 1 << 20 // 1 MiB

// ProgressReporter receives download progress updates. Total is the
// content-length hint, or 0 if the server did not provide one.
type ProgressReporter interface {
	SetTotal(total int64)
	Advance(n int64)
}

// noopReporter discards progress updates; used when the caller passes nil.
type noopReporter struct{}

func (noopReporter) SetTotal(int64) {}
func (noopReporter) Advance(int64)  {}

// Fetcher performs single-attempt streaming downloads.
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
	source string
}

// New creates a Fetcher. source names the component using it, for
// DownloadError diagnostics (e.g. "kaikki", "stardict").
func New(source string, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, log: logger, source: source}
}

// Fetch streams url into dest via dest+".tmp", renaming into place only on
// full success. Any transport or I/O failure removes the temp file and
// returns a *dicterr.DownloadError.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string, reporter ProgressReporter) error {
	if reporter == nil {
		reporter = noopReporter{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: unexpectedStatus(resp.StatusCode)}
	}

	if resp.ContentLength > 0 {
		reporter.SetTotal(resp.ContentLength)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	if err := f.copy(out, resp.Body, reporter); err != nil {
		out.Close()
		os.Remove(tmp)
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return &dicterr.DownloadError{Source: f.source, URL: url, Cause: err}
	}

	if f.log != nil {
		f.log.Debug("fetch complete", slog.String("url", url), slog.String("dest", dest))
	}

	return nil
}

func (f *Fetcher) copy(dst io.Writer, src io.Reader, reporter ProgressReporter) error {
	buf := make([]byte, minChunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
			reporter.Advance(int64(n))
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

type statusError struct{ code int }

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

func unexpectedStatus(code int) error {
	return statusError{code: code}
}
