package extract

import (
	"fmt"

	"github.com/ytget/ytd/internal/model"
)

// Container and extension preferences of stream selection
const (
	MuxedContainer    = "mp4"
	PreferredAudioExt = "m4a"
)

// SelectStream picks one format of info according to opts:
// audio-only takes the best audio-only format (m4a first), a specific quality takes the
// muxed mp4 of that height, and Auto takes the highest-resolution muxed format.
func SelectStream(info *VideoInfo, opts model.DownloadOptions) (Stream, error) {
	if info == nil {
		return Stream{}, fmt.Errorf("select stream: %w", ErrNoStream)
	}

	var (
		best  Format
		found bool
	)
	for _, f := range info.Formats {
		if !f.directHTTP() {
			continue
		}
		switch {
		case opts.AudioOnly:
			if f.HasVideo() || !f.HasAudio() {
				continue
			}
			if !found || betterAudio(f, best) {
				best, found = f, true
			}
		case !opts.Quality.IsAuto():
			if !f.IsMuxed() || f.Ext != MuxedContainer || f.Height != opts.Quality.Height() {
				continue
			}
			if !found || f.TBR > best.TBR {
				best, found = f, true
			}
		default:
			if !f.IsMuxed() {
				continue
			}
			if !found || betterMuxed(f, best) {
				best, found = f, true
			}
		}
	}

	if !found {
		return Stream{}, fmt.Errorf("select stream for %q (audio=%t quality=%s): %w",
			info.Title, opts.AudioOnly, opts.Quality, ErrNoStream)
	}
	return Stream{
		ItemTitle: info.Title,
		FormatID:  best.FormatID,
		URL:       best.URL,
		Ext:       best.Ext,
		Size:      best.Size(),
		Height:    best.Height,
		AudioOnly: opts.AudioOnly,
	}, nil
}

func betterAudio(f, cur Format) bool {
	fPref, curPref := f.Ext == PreferredAudioExt, cur.Ext == PreferredAudioExt
	if fPref != curPref {
		return fPref
	}
	return bitrate(f) > bitrate(cur)
}

func betterMuxed(f, cur Format) bool {
	if f.Height != cur.Height {
		return f.Height > cur.Height
	}
	fPref, curPref := f.Ext == MuxedContainer, cur.Ext == MuxedContainer
	if fPref != curPref {
		return fPref
	}
	return f.TBR > cur.TBR
}

func bitrate(f Format) float64 {
	if f.ABR > 0 {
		return f.ABR
	}
	return f.TBR
}
