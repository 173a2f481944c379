package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is the yt-dlp executable looked up on PATH
const DefaultBinary = "yt-dlp"

// DefaultProbeTimeout bounds one yt-dlp invocation
const DefaultProbeTimeout = 60 * time.Second

// Messages in yt-dlp's stderr that mean the content is not viewable
var unavailableMarkers = []string{
	"private video",
	"video unavailable",
	"this video is unavailable",
	"this video has been removed",
	"members-only",
	"join this channel",
	"sign in to confirm your age",
	"not available in your country",
	"account associated with this video has been terminated",
	"this live event will begin",
}

// Client implements Extractor on top of the yt-dlp binary
type Client struct {
	binary  string
	runner  Runner
	lister  Lister
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client; an empty binary means DefaultBinary, a nil runner means ExecRunner
func NewClient(binary string, runner Runner) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{
		binary:  binary,
		runner:  runner,
		timeout: DefaultProbeTimeout,
		logger:  slog.Default(),
	}
}

// SetLister sets the collection item lister used before the flat dump entries
func (c *Client) SetLister(l Lister) {
	c.lister = l
}

// SetTimeout sets the timeout of one yt-dlp invocation
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.timeout = timeout
	}
}

// SetLogger sets the logger
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Available reports whether the binary can be found
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Video dumps one item's JSON
func (c *Client) Video(ctx context.Context, link string) (*VideoInfo, error) {
	if strings.TrimSpace(link) == "" {
		return nil, fmt.Errorf("video link is required")
	}
	out, err := c.run(ctx, "-J", "--no-playlist", "--no-warnings", link)
	if err != nil {
		return nil, err
	}
	var info VideoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode video json: %w", err)
	}
	if info.ID == "" && info.Title == "" {
		return nil, fmt.Errorf("decode video json: %w", ErrEmptyOutput)
	}
	return &info, nil
}

// Collection dumps the flat collection JSON. When a Lister is set its items
// replace the flat entries; durations already known from the dump are kept.
func (c *Client) Collection(ctx context.Context, link string) (*CollectionInfo, error) {
	if strings.TrimSpace(link) == "" {
		return nil, fmt.Errorf("collection link is required")
	}
	out, err := c.run(ctx, "-J", "--flat-playlist", "--no-warnings", link)
	if err != nil {
		return nil, err
	}
	var info CollectionInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode collection json: %w", err)
	}
	if info.ID == "" && info.Title == "" {
		return nil, fmt.Errorf("decode collection json: %w", ErrEmptyOutput)
	}

	if c.lister != nil {
		items, err := c.lister.Items(ctx, link)
		switch {
		case err != nil:
			c.logger.Warn("collection lister failed, using flat entries", "link", link, "error", err)
		case len(items) == 0:
			c.logger.Warn("collection lister returned no items, using flat entries", "link", link)
		default:
			info.Entries = mergeEntries(items, info.Entries)
		}
	}
	return &info, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.runner.Run(ctx, c.binary, args...)
	c.logger.Debug("yt-dlp finished", "args", args, "elapsed", time.Since(start), "bytes", len(out), "error", err)
	if err != nil {
		return nil, classifyRunError(err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, ErrEmptyOutput
	}
	return out, nil
}

// classifyRunError maps yt-dlp failures onto ErrUnavailable where the message says so
func classifyRunError(err error) error {
	var runErr *RunError
	if errors.As(err, &runErr) {
		msg := strings.ToLower(runErr.Stderr)
		for _, marker := range unavailableMarkers {
			if strings.Contains(msg, marker) {
				return fmt.Errorf("%w: %s", ErrUnavailable, runErr.Stderr)
			}
		}
	}
	return fmt.Errorf("yt-dlp failed: %w", err)
}

// mergeEntries keeps the lister's order and titles, filling durations from the flat entries
func mergeEntries(items, flat []Entry) []Entry {
	durations := make(map[string]float64, len(flat))
	for _, e := range flat {
		if e.ID != "" && e.Duration > 0 {
			durations[e.ID] = e.Duration
		}
	}
	merged := make([]Entry, 0, len(items))
	for _, it := range items {
		if it.Duration <= 0 {
			it.Duration = durations[it.ID]
		}
		merged = append(merged, it)
	}
	return merged
}
