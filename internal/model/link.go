package model

import "strings"

// LinkKind is the classification of a submitted link
type LinkKind string

const (
	// LinkSingle is an individually downloadable item
	LinkSingle LinkKind = "single"

	// LinkCollection is an ordered group of items (playlist)
	LinkCollection LinkKind = "collection"

	// LinkInvalid means the link could not be resolved
	LinkInvalid LinkKind = "invalid"
)

// CollectionMarker is the query parameter that marks a playlist link
const CollectionMarker = "list="

// String returns the string representation of LinkKind
func (k LinkKind) String() string {
	return string(k)
}

// IsDownloadable reports whether a job may be started for this kind
func (k LinkKind) IsDownloadable() bool {
	return k == LinkSingle || k == LinkCollection
}

// MediaLink is a user-supplied link plus its derived classification.
// The classification belongs to Raw only; a new Raw value always gets a new MediaLink.
type MediaLink struct {
	Raw  string
	Kind LinkKind
}

// NewMediaLink normalizes raw input into an unclassified link
func NewMediaLink(raw string) MediaLink {
	return MediaLink{Raw: CleanLink(raw)}
}

// IsEmpty reports whether nothing was submitted
func (l MediaLink) IsEmpty() bool {
	return l.Raw == ""
}

// HasCollectionMarker reports whether raw contains the playlist query parameter
func HasCollectionMarker(raw string) bool {
	return strings.Contains(raw, CollectionMarker)
}

// CleanLink strips line breaks, tabs and surrounding blanks that come with pasted text
func CleanLink(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}
