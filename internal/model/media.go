package model

// InvalidTitle is the sentinel title text that never counts as ready metadata
const InvalidTitle = "Invalid link."

// MediaInfo is the metadata snapshot for the currently classified link.
// It is either fully populated or the zero value; callers never see a partial snapshot.
type MediaInfo struct {
	Kind         LinkKind
	Title        string
	ThumbnailURL string
	Duration     string // H:MM:SS
	Views        string // comma grouped
	Published    string // relative date, single items only
	ItemCount    int    // collections only
	ChannelName  string
	ChannelURL   string
}

// IsEmpty reports whether the snapshot carries no metadata
func (m MediaInfo) IsEmpty() bool {
	return m == MediaInfo{}
}

// IsReady reports whether the snapshot can be displayed and its thumbnail fetched
func (m MediaInfo) IsReady() bool {
	return m.Title != "" && m.Title != InvalidTitle
}

// IsCollection reports whether the snapshot describes a playlist
func (m MediaInfo) IsCollection() bool {
	return m.Kind == LinkCollection
}
