package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/ytget/ytd/internal/model"
)

type fakeRunner struct {
	out      []byte
	err      error
	lastName string
	lastArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.lastName = name
	f.lastArgs = args
	return f.out, f.err
}

type fakeLister struct {
	items []Entry
	err   error
}

func (f *fakeLister) Items(context.Context, string) ([]Entry, error) {
	return f.items, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const videoJSON = `{
  "id": "abc123",
  "title": "Test Video",
  "thumbnail": "https://i.ytimg.com/vi/abc123/hq.jpg",
  "duration": 212,
  "view_count": 1234567,
  "upload_date": "20240131",
  "channel": "Channel",
  "channel_url": "https://www.youtube.com/@channel",
  "availability": "public",
  "formats": [
    {"format_id": "18", "url": "https://cdn/18", "ext": "mp4", "protocol": "https", "vcodec": "avc1", "acodec": "mp4a", "height": 360, "filesize": 1000}
  ]
}`

func TestClientVideo(t *testing.T) {
	runner := &fakeRunner{out: []byte(videoJSON)}
	c := NewClient("", runner)
	c.SetLogger(quietLogger())

	info, err := c.Video(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("Video() error = %v", err)
	}
	if runner.lastName != DefaultBinary {
		t.Errorf("binary = %q, want %q", runner.lastName, DefaultBinary)
	}
	if !reflect.DeepEqual(runner.lastArgs[:2], []string{"-J", "--no-playlist"}) {
		t.Errorf("unexpected args %v", runner.lastArgs)
	}
	if info.Title != "Test Video" || info.ViewCount != 1234567 || info.Duration != 212 {
		t.Errorf("unexpected info %+v", info)
	}
	if len(info.Formats) != 1 || info.Formats[0].Size() != 1000 {
		t.Errorf("unexpected formats %+v", info.Formats)
	}
	if !info.Available() {
		t.Error("public video should be available")
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name            string
		runner          *fakeRunner
		wantUnavailable bool
	}{
		{
			name:            "private video",
			runner:          &fakeRunner{err: &RunError{Err: errors.New("exit status 1"), Stderr: "ERROR: [youtube] abc: Private video. Sign in if you've been granted access"}},
			wantUnavailable: true,
		},
		{
			name:            "removed video",
			runner:          &fakeRunner{err: &RunError{Err: errors.New("exit status 1"), Stderr: "ERROR: [youtube] abc: Video unavailable"}},
			wantUnavailable: true,
		},
		{
			name:   "unsupported url",
			runner: &fakeRunner{err: &RunError{Err: errors.New("exit status 1"), Stderr: "ERROR: Unsupported URL: https://example.com"}},
		},
		{
			name:   "empty output",
			runner: &fakeRunner{out: []byte("  \n")},
		},
		{
			name:   "garbage output",
			runner: &fakeRunner{out: []byte("not json")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("yt-dlp", tt.runner)
			c.SetLogger(quietLogger())
			_, err := c.Video(context.Background(), "https://example.com/x")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(err, ErrUnavailable) = %v, want %v (err=%v)", got, tt.wantUnavailable, err)
			}
		})
	}
}

func TestClientVideoRequiresLink(t *testing.T) {
	c := NewClient("", &fakeRunner{})
	if _, err := c.Video(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty link")
	}
}

const collectionJSON = `{
  "id": "PL1",
  "title": "My Playlist",
  "view_count": 42,
  "uploader": "Owner",
  "uploader_url": "https://www.youtube.com/@owner",
  "thumbnails": [
    {"url": "https://i/small.jpg", "width": 120, "height": 90},
    {"url": "https://i/big.jpg", "width": 480, "height": 360}
  ],
  "entries": [
    {"id": "a", "url": "https://www.youtube.com/watch?v=a", "title": "A", "duration": 10},
    {"id": "b", "url": "https://www.youtube.com/watch?v=b", "title": "B", "duration": 20}
  ]
}`

func TestClientCollection(t *testing.T) {
	c := NewClient("", &fakeRunner{out: []byte(collectionJSON)})
	c.SetLogger(quietLogger())

	info, err := c.Collection(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if info.Title != "My Playlist" || len(info.Entries) != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := info.ThumbnailURL(); got != "https://i/big.jpg" {
		t.Errorf("ThumbnailURL() = %q", got)
	}
	if info.OwnerName() != "Owner" || info.OwnerURL() != "https://www.youtube.com/@owner" {
		t.Errorf("owner fallback failed: %q %q", info.OwnerName(), info.OwnerURL())
	}
}

func TestClientCollectionUsesLister(t *testing.T) {
	c := NewClient("", &fakeRunner{out: []byte(collectionJSON)})
	c.SetLogger(quietLogger())
	c.SetLister(&fakeLister{items: []Entry{
		{ID: "b", Title: "B"},
		{ID: "a", Title: "A"},
		{ID: "c", Title: "C"},
	}})

	info, err := c.Collection(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	want := []Entry{
		{ID: "b", Title: "B", Duration: 20},
		{ID: "a", Title: "A", Duration: 10},
		{ID: "c", Title: "C"},
	}
	if !reflect.DeepEqual(info.Entries, want) {
		t.Errorf("entries = %+v, want %+v", info.Entries, want)
	}
}

func TestClientCollectionListerFailureFallsBack(t *testing.T) {
	c := NewClient("", &fakeRunner{out: []byte(collectionJSON)})
	c.SetLogger(quietLogger())
	c.SetLister(&fakeLister{err: errors.New("boom")})

	info, err := c.Collection(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if len(info.Entries) != 2 || info.Entries[0].ID != "a" {
		t.Errorf("expected flat entries, got %+v", info.Entries)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "playlist page", url: "https://www.youtube.com/playlist?list=PLabc", want: "PLabc"},
		{name: "watch with list", url: "https://www.youtube.com/watch?v=x&list=PLabc&index=2", want: "PLabc"},
		{name: "fragment", url: "https://www.youtube.com/playlist?list=PLabc#top", want: "PLabc"},
		{name: "no list", url: "https://www.youtube.com/watch?v=x", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestEntryLink(t *testing.T) {
	if got := (Entry{ID: "abc"}).Link(); got != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("Link() = %q", got)
	}
	if got := (Entry{ID: "abc", URL: "https://example.com/v/abc"}).Link(); got != "https://example.com/v/abc" {
		t.Errorf("Link() = %q", got)
	}
}

func TestVideoInfoAvailable(t *testing.T) {
	tests := []struct {
		name string
		info *VideoInfo
		want bool
	}{
		{name: "nil", info: nil, want: false},
		{name: "public", info: &VideoInfo{Availability: "public"}, want: true},
		{name: "unknown", info: &VideoInfo{}, want: true},
		{name: "private", info: &VideoInfo{Availability: "private"}, want: false},
		{name: "needs auth", info: &VideoInfo{Availability: "needs_auth"}, want: false},
		{name: "upcoming without formats", info: &VideoInfo{LiveStatus: "is_upcoming"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Available(); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func testFormats() []Format {
	return []Format{
		{FormatID: "140", URL: "https://cdn/140", Ext: "m4a", Protocol: "https", VCodec: "none", ACodec: "mp4a", ABR: 128, Filesize: 300},
		{FormatID: "251", URL: "https://cdn/251", Ext: "webm", Protocol: "https", VCodec: "none", ACodec: "opus", ABR: 160, Filesize: 350},
		{FormatID: "18", URL: "https://cdn/18", Ext: "mp4", Protocol: "https", VCodec: "avc1", ACodec: "mp4a", Height: 360, TBR: 500, Filesize: 1000},
		{FormatID: "22", URL: "https://cdn/22", Ext: "mp4", Protocol: "https", VCodec: "avc1", ACodec: "mp4a", Height: 720, TBR: 1500, FilesizeApprox: 4000},
		{FormatID: "43", URL: "https://cdn/43", Ext: "webm", Protocol: "https", VCodec: "vp8", ACodec: "vorbis", Height: 720, TBR: 1200},
		{FormatID: "137", URL: "https://cdn/137", Ext: "mp4", Protocol: "https", VCodec: "avc1", ACodec: "none", Height: 1080, TBR: 4000},
		{FormatID: "hls-1080", URL: "https://cdn/m3u8", Ext: "mp4", Protocol: "m3u8_native", VCodec: "avc1", ACodec: "mp4a", Height: 1080},
	}
}

func TestSelectStream(t *testing.T) {
	info := &VideoInfo{Title: "Clip", Formats: testFormats()}

	tests := []struct {
		name     string
		opts     model.DownloadOptions
		wantID   string
		wantSize int64
	}{
		{name: "audio prefers m4a", opts: model.DownloadOptions{AudioOnly: true}, wantID: "140", wantSize: 300},
		{name: "auto takes highest muxed direct", opts: model.DownloadOptions{Quality: model.QualityAuto}, wantID: "22", wantSize: 4000},
		{name: "empty quality is auto", opts: model.DownloadOptions{}, wantID: "22", wantSize: 4000},
		{name: "specific mp4 height", opts: model.DownloadOptions{Quality: "360p"}, wantID: "18", wantSize: 1000},
		{name: "specific 720 skips webm", opts: model.DownloadOptions{Quality: "720p"}, wantID: "22", wantSize: 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SelectStream(info, tt.opts)
			if err != nil {
				t.Fatalf("SelectStream() error = %v", err)
			}
			if s.FormatID != tt.wantID || s.Size != tt.wantSize {
				t.Errorf("got format %s size %d, want %s size %d", s.FormatID, s.Size, tt.wantID, tt.wantSize)
			}
			if s.AudioOnly != tt.opts.AudioOnly {
				t.Errorf("AudioOnly = %v", s.AudioOnly)
			}
		})
	}
}

func TestSelectStreamNoMatch(t *testing.T) {
	info := &VideoInfo{Title: "Clip", Formats: testFormats()}
	_, err := SelectStream(info, model.DownloadOptions{Quality: "1080p"})
	if !errors.Is(err, ErrNoStream) {
		t.Fatalf("expected ErrNoStream, got %v", err)
	}
	if !strings.Contains(err.Error(), "Clip") {
		t.Errorf("error should name the item: %v", err)
	}

	if _, err := SelectStream(nil, model.DownloadOptions{}); !errors.Is(err, ErrNoStream) {
		t.Errorf("nil info: expected ErrNoStream, got %v", err)
	}
}

func TestStreamDefaultFileName(t *testing.T) {
	if got := (Stream{ItemTitle: "Song", Ext: "m4a"}).DefaultFileName(); got != "Song.m4a" {
		t.Errorf("DefaultFileName() = %q", got)
	}
	if got := (Stream{ItemTitle: "Clip"}).DefaultFileName(); got != "Clip.mp4" {
		t.Errorf("DefaultFileName() = %q", got)
	}
}
