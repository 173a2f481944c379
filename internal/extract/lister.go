package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytget/ytdlp/v2"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// LibraryLister enumerates collection items with the ytdlp library
type LibraryLister struct{}

// NewLibraryLister creates a lister
func NewLibraryLister() *LibraryLister {
	return &LibraryLister{}
}

// Items returns every item of the collection link in order
func (l *LibraryLister) Items(ctx context.Context, link string) ([]Entry, error) {
	playlistID := ExtractPlaylistID(link)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", link)
	}

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		entries = append(entries, Entry{
			ID:    it.VideoID,
			URL:   fmt.Sprintf(VideoURLTemplate, it.VideoID),
			Title: it.Title,
		})
	}
	return entries, nil
}

// ExtractPlaylistID returns the value of the list= parameter
func ExtractPlaylistID(link string) string {
	if !strings.Contains(link, PlaylistParam) {
		return ""
	}
	parts := strings.SplitN(link, PlaylistParam, 2)
	playlistPart := parts[1]
	if strings.Contains(playlistPart, ParamSeparator) {
		playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
	}
	if i := strings.IndexAny(playlistPart, "#/"); i >= 0 {
		playlistPart = playlistPart[:i]
	}
	return strings.TrimSpace(playlistPart)
}
