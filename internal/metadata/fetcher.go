package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// Fetcher retrieves the MediaInfo of a link
type Fetcher struct {
	classifier *Classifier
	extractor  extract.Extractor
	now        func() time.Time
	logger     *slog.Logger
}

// NewFetcher creates a fetcher
func NewFetcher(ex extract.Extractor, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		classifier: NewClassifier(ex, logger),
		extractor:  ex,
		now:        time.Now,
		logger:     logger,
	}
}

// SetClock replaces the time source used for relative dates
func (f *Fetcher) SetClock(now func() time.Time) {
	if now != nil {
		f.now = now
	}
}

// Fetch classifies raw and returns its metadata. On error the MediaInfo is the zero value,
// the kind is LinkInvalid and the error is a *model.Error of kind InvalidLink or UnavailableContent.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (model.MediaInfo, model.LinkKind, error) {
	const op = "metadata.Fetch"

	link := model.CleanLink(raw)
	if link == "" {
		return model.MediaInfo{}, model.LinkInvalid, model.NewError(model.KindInvalidLink, op, errors.New("empty link"))
	}

	f.logger.Info("loading information", "link", link)
	p := f.classifier.probe(ctx, link)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.MediaInfo{}, model.LinkInvalid, model.NewError(model.KindInvalidLink, op, ctxErr)
	}

	switch p.kind {
	case model.LinkSingle:
		if !p.video.Available() {
			f.logger.Info("video is unavailable", "link", link, "availability", p.video.Availability)
			return model.MediaInfo{}, model.LinkInvalid,
				model.NewError(model.KindUnavailableContent, op, fmt.Errorf("%s: %w", p.video.Availability, extract.ErrUnavailable))
		}
		info := f.singleInfo(p.video)
		f.logger.Info("link is a single video", "channel", info.ChannelName, "views", info.Views)
		return info, model.LinkSingle, nil

	case model.LinkCollection:
		info, err := f.collectionInfo(ctx, p.collection)
		if err != nil {
			return model.MediaInfo{}, model.LinkInvalid, model.NewError(model.KindInvalidLink, op, err)
		}
		f.logger.Info("link is a collection", "items", info.ItemCount, "duration", info.Duration)
		return info, model.LinkCollection, nil

	default:
		if errors.Is(p.err, extract.ErrUnavailable) {
			return model.MediaInfo{}, model.LinkInvalid, model.NewError(model.KindUnavailableContent, op, p.err)
		}
		f.logger.Warn("failed to get information, the link is invalid", "link", link)
		return model.MediaInfo{}, model.LinkInvalid, model.NewError(model.KindInvalidLink, op, p.err)
	}
}

func (f *Fetcher) singleInfo(v *extract.VideoInfo) model.MediaInfo {
	published := ""
	if t, err := platform.ParseUploadDate(v.UploadDate); err == nil {
		published = platform.RelativeDate(t, f.now())
	} else {
		f.logger.Debug("no usable upload date", "upload_date", v.UploadDate, "error", err)
	}

	return model.MediaInfo{
		Kind:         model.LinkSingle,
		Title:        v.Title,
		ThumbnailURL: v.Thumbnail,
		Duration:     platform.FormatDuration(int64(v.Duration)),
		Views:        platform.FormatViews(v.ViewCount),
		Published:    published,
		ChannelName:  v.ChannelName(),
		ChannelURL:   v.ChannelLink(),
	}
}

// collectionInfo walks every item to count them and sum their durations.
// Items whose duration cannot be fetched are logged and contribute nothing.
func (f *Fetcher) collectionInfo(ctx context.Context, c *extract.CollectionInfo) (model.MediaInfo, error) {
	var total float64
	for i, entry := range c.Entries {
		if err := ctx.Err(); err != nil {
			return model.MediaInfo{}, err
		}
		if entry.Duration > 0 {
			total += entry.Duration
			continue
		}
		v, err := f.extractor.Video(ctx, entry.Link())
		if err != nil {
			f.logger.Warn("failed to get item duration", "index", i+1, "id", entry.ID, "error", err)
			continue
		}
		total += v.Duration
	}

	return model.MediaInfo{
		Kind:         model.LinkCollection,
		Title:        c.Title,
		ThumbnailURL: c.ThumbnailURL(),
		Duration:     platform.FormatDuration(int64(total)),
		Views:        platform.FormatViews(c.ViewCount),
		ItemCount:    len(c.Entries),
		ChannelName:  c.OwnerName(),
		ChannelURL:   c.OwnerURL(),
	}, nil
}
