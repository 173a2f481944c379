// Package thumbnail downloads the preview image of the current link into a
// fixed file inside a per-session directory.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// FileName is the name of the cached thumbnail inside the thumbnail directory
const FileName = "temp.jpg"

// ErrNotReady is returned when the ready signal ends without usable metadata
var ErrNotReady = errors.New("metadata not ready for thumbnail")

// Fetcher downloads thumbnails into dir/temp.jpg
type Fetcher struct {
	dir       string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewFetcher creates a fetcher writing into dir; a nil client means http.DefaultClient
func NewFetcher(dir string, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{dir: dir, client: client, logger: logger}
}

// SetUserAgent sets the User-Agent header of thumbnail requests
func (f *Fetcher) SetUserAgent(ua string) {
	f.userAgent = ua
}

// Dir returns the thumbnail directory
func (f *Fetcher) Dir() string {
	return f.dir
}

// Path returns the fixed path of the cached thumbnail
func (f *Fetcher) Path() string {
	return filepath.Join(f.dir, FileName)
}

// Await blocks until ready delivers the metadata, then downloads its thumbnail.
// A closed channel, metadata that is not ready, or a done ctx end the task without a request.
func (f *Fetcher) Await(ctx context.Context, ready <-chan model.MediaInfo) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case info, ok := <-ready:
		if !ok || !info.IsReady() || info.ThumbnailURL == "" {
			return "", ErrNotReady
		}
		return f.Fetch(ctx, info.ThumbnailURL)
	}
}

// Fetch downloads url over any previous thumbnail and returns the file path
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.logger.Info("downloading thumbnail", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create thumbnail request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("thumbnail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail request: unexpected status %d", resp.StatusCode)
	}

	if err := platform.CreateDirectoryIfNotExists(f.dir); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "thumb-*.part")
	if err != nil {
		return "", fmt.Errorf("create thumbnail file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close thumbnail: %w", err)
	}

	// a superseded fetch must not replace the thumbnail of a newer link
	if err := ctx.Err(); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	path := f.Path()
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replace thumbnail: %w", err)
	}

	abs, _ := filepath.Abs(path)
	f.logger.Info("thumbnail saved", "path", abs)
	return path, nil
}

// Clear removes the thumbnail directory with everything in it
func (f *Fetcher) Clear() error {
	if err := os.RemoveAll(f.dir); err != nil {
		return fmt.Errorf("remove thumbnail dir: %w", err)
	}
	return nil
}
