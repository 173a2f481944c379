package metadata

import (
	"context"
	"log/slog"

	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/model"
)

// Classifier decides whether a link is a single item, a collection, or not resolvable
type Classifier struct {
	extractor extract.Extractor
	logger    *slog.Logger
}

// NewClassifier creates a classifier probing links with ex
func NewClassifier(ex extract.Extractor, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{extractor: ex, logger: logger}
}

// probe is the result of one metadata request for a link
type probe struct {
	kind       model.LinkKind
	video      *extract.VideoInfo
	collection *extract.CollectionInfo
	err        error
}

// Classify probes raw and returns its kind. Probe failures are logged and yield LinkInvalid.
func (c *Classifier) Classify(ctx context.Context, raw string) model.LinkKind {
	return c.probe(ctx, raw).kind
}

func (c *Classifier) probe(ctx context.Context, raw string) probe {
	link := model.CleanLink(raw)
	if link == "" {
		return probe{kind: model.LinkInvalid}
	}

	if model.HasCollectionMarker(link) {
		info, err := c.extractor.Collection(ctx, link)
		if err != nil {
			c.logger.Warn("collection probe failed", "link", link, "error", err)
			return probe{kind: model.LinkInvalid, err: err}
		}
		return probe{kind: model.LinkCollection, collection: info}
	}

	info, err := c.extractor.Video(ctx, link)
	if err != nil {
		c.logger.Warn("video probe failed", "link", link, "error", err)
		return probe{kind: model.LinkInvalid, err: err}
	}
	return probe{kind: model.LinkSingle, video: info}
}
