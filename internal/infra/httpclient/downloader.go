package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jugl/opencv-setup/internal/buildinfo"
	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/infra/logger"
	"github.com/jugl/opencv-setup/internal/ports"
)

const defaultBufferSize = 32 * 1024

// Downloader streams a response body straight to disk in fixed-size chunks.
type Downloader struct {
	client  *http.Client
	bufSize int
	log     *slog.Logger
}

// DownloaderOption allows configuring a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) { d.client = client }
}

// WithBufferSize sets the chunk size used while copying the body.
func WithBufferSize(n int) DownloaderOption {
	return func(d *Downloader) {
		if n > 0 {
			d.bufSize = n
		}
	}
}

// WithLogger sets the logger used for transfer diagnostics.
func WithLogger(l *slog.Logger) DownloaderOption {
	return func(d *Downloader) { d.log = l }
}

// NewDownloader builds a Downloader with a client from DownloadConfig.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:  New(DownloadConfig()),
		bufSize: defaultBufferSize,
		log:     logger.L(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.Downloader = (*Downloader)(nil)

// Download writes the body of a GET to url into dst. On failure a partially
// written dst is left behind for the caller to deal with.
func (d *Downloader) Download(ctx context.Context, url, dst string, progress ports.ProgressFunc) (domain.Transfer, error) {
	start := time.Now()
	tr := domain.Transfer{URL: url, Path: dst, ExpectedBytes: domain.UnknownSize}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return tr, transferError("httpclient.request", dst, err)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		tr.Duration = time.Since(start)
		return tr, transferError("httpclient.get", dst, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tr.Duration = time.Since(start)
		return tr, transferError("httpclient.get", dst, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if resp.ContentLength >= 0 {
		tr.ExpectedBytes = resp.ContentLength
		d.log.Info("download.expected_size",
			"mib", fmt.Sprintf("%.2f", float64(resp.ContentLength)/(1<<20)),
			"size", humanize.IBytes(uint64(resp.ContentLength)),
		)
	} else {
		d.log.Info("download.expected_size", "size", "unknown")
	}
	d.log.Info("download.started", "url", url, "path", dst, "note", "this might take a while")

	f, err := os.Create(dst)
	if err != nil {
		return tr, transferError("httpclient.create", dst, err)
	}

	cw := &countingWriter{w: f, total: tr.ExpectedBytes, progress: progress}
	n, err := io.CopyBuffer(cw, resp.Body, make([]byte, d.bufSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	tr.WrittenBytes = n
	tr.Duration = time.Since(start)
	if err != nil {
		return tr, transferError("httpclient.stream", dst, err)
	}
	if tr.ExpectedBytes >= 0 && n != tr.ExpectedBytes {
		return tr, transferError("httpclient.stream", dst,
			fmt.Errorf("short body: wrote %d of %d bytes: %w", n, tr.ExpectedBytes, io.ErrUnexpectedEOF))
	}

	d.log.Info("download.finished", "bytes", n, "duration", tr.Duration.Round(time.Millisecond).String())
	return tr, nil
}

type countingWriter struct {
	w        io.Writer
	written  int64
	total    int64
	progress ports.ProgressFunc
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	if c.progress != nil && n > 0 {
		c.progress(c.written, c.total)
	}
	return n, err
}

func transferError(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindTransfer,
		Path: path,
		Err:  err,
	}
}
