package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable means the content exists but cannot be viewed (private, removed, restricted)
	ErrUnavailable = errors.New("content unavailable")

	// ErrNoStream means no format matched the requested stream selection
	ErrNoStream = errors.New("no matching stream")

	// ErrEmptyOutput means the extractor produced nothing to decode
	ErrEmptyOutput = errors.New("extractor returned empty output")
)

// Availability values reported by yt-dlp that mark content as not viewable
var restrictedAvailability = map[string]bool{
	"private":         true,
	"premium_only":    true,
	"subscriber_only": true,
	"needs_auth":      true,
	"unavailable":     true,
}

// VideoURLTemplate builds a watch link from an item id
const VideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// Extractor is the metadata and stream capability used by the rest of the application
type Extractor interface {
	// Video returns metadata and formats of a single item without checking availability
	Video(ctx context.Context, link string) (*VideoInfo, error)
	// Collection returns the collection header and its item handles
	Collection(ctx context.Context, link string) (*CollectionInfo, error)
}

// Lister enumerates collection items
type Lister interface {
	Items(ctx context.Context, link string) ([]Entry, error)
}

// VideoInfo mirrors the subset of yt-dlp's item JSON this application uses
type VideoInfo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	WebpageURL   string   `json:"webpage_url"`
	Thumbnail    string   `json:"thumbnail"`
	Duration     float64  `json:"duration"`
	ViewCount    int64    `json:"view_count"`
	UploadDate   string   `json:"upload_date"`
	Channel      string   `json:"channel"`
	ChannelURL   string   `json:"channel_url"`
	Uploader     string   `json:"uploader"`
	UploaderURL  string   `json:"uploader_url"`
	Availability string   `json:"availability"`
	LiveStatus   string   `json:"live_status"`
	Formats      []Format `json:"formats"`
}

// Available reports whether the item can be viewed and streamed
func (v *VideoInfo) Available() bool {
	if v == nil {
		return false
	}
	if restrictedAvailability[strings.ToLower(v.Availability)] {
		return false
	}
	if v.LiveStatus == "is_upcoming" && len(v.Formats) == 0 {
		return false
	}
	return true
}

// ChannelName returns the channel, falling back to the uploader
func (v *VideoInfo) ChannelName() string {
	if v.Channel != "" {
		return v.Channel
	}
	return v.Uploader
}

// ChannelLink returns the channel URL, falling back to the uploader URL
func (v *VideoInfo) ChannelLink() string {
	if v.ChannelURL != "" {
		return v.ChannelURL
	}
	return v.UploaderURL
}

// Format is one encoded representation of an item
type Format struct {
	FormatID       string  `json:"format_id"`
	URL            string  `json:"url"`
	Ext            string  `json:"ext"`
	Protocol       string  `json:"protocol"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	ABR            float64 `json:"abr"`
}

// HasVideo reports whether the format carries a video track
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio track
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// IsMuxed reports whether the format carries both audio and video
func (f Format) IsMuxed() bool {
	return f.HasVideo() && f.HasAudio()
}

// Size returns the exact size when known, otherwise the approximation
func (f Format) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	if f.FilesizeApprox > 0 {
		return f.FilesizeApprox
	}
	return 0
}

// directHTTP reports whether the format can be fetched with a single GET
func (f Format) directHTTP() bool {
	if f.URL == "" {
		return false
	}
	switch f.Protocol {
	case "", "http", "https":
		return true
	default:
		return false
	}
}

// CollectionInfo mirrors the flat collection JSON
type CollectionInfo struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	WebpageURL  string      `json:"webpage_url"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	ViewCount   int64       `json:"view_count"`
	Channel     string      `json:"channel"`
	ChannelURL  string      `json:"channel_url"`
	Uploader    string      `json:"uploader"`
	UploaderURL string      `json:"uploader_url"`
	Entries     []Entry     `json:"entries"`
}

// Thumbnail is one preview image candidate
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ThumbnailURL returns the largest thumbnail of the collection
func (c *CollectionInfo) ThumbnailURL() string {
	best := ""
	bestArea := -1
	for _, th := range c.Thumbnails {
		if th.URL == "" {
			continue
		}
		if area := th.Width * th.Height; area > bestArea {
			best, bestArea = th.URL, area
		}
	}
	return best
}

// OwnerName returns the channel, falling back to the uploader
func (c *CollectionInfo) OwnerName() string {
	if c.Channel != "" {
		return c.Channel
	}
	return c.Uploader
}

// OwnerURL returns the channel URL, falling back to the uploader URL
func (c *CollectionInfo) OwnerURL() string {
	if c.ChannelURL != "" {
		return c.ChannelURL
	}
	return c.UploaderURL
}

// Entry is a collection item handle
type Entry struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Link returns a link that Extractor.Video accepts for this item
func (e Entry) Link() string {
	if strings.HasPrefix(e.URL, "http://") || strings.HasPrefix(e.URL, "https://") {
		return e.URL
	}
	return fmt.Sprintf(VideoURLTemplate, e.ID)
}

// Stream is a resolved, directly fetchable stream of one item
type Stream struct {
	ItemTitle string
	FormatID  string
	URL       string
	Ext       string
	Size      int64 // 0 when unknown until the response arrives
	Height    int
	AudioOnly bool
}

// DefaultFileName is the output name the stream is saved under, before sanitising
func (s Stream) DefaultFileName() string {
	ext := s.Ext
	if ext == "" {
		ext = "mp4"
	}
	return s.ItemTitle + "." + ext
}
