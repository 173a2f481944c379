package download

import (
	"context"
	"os"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// AudioOutputExt is the extension of finished audio-only downloads
const AudioOutputExt = ".mp3"

// finalizeAudio gives a finished audio file the .mp3 extension, deleting a stale .mp3 first.
// With transcoding enabled and ffmpeg present the file is converted instead of renamed.
func (s *Service) finalizeAudio(ctx context.Context, path string, tr *tracker) (string, error) {
	const op = "download.finalizeAudio"

	target := platform.ReplaceExt(path, AudioOutputExt)
	if target == path {
		return path, nil
	}
	if err := platform.RemoveIfExists(target); err != nil {
		return "", model.NewError(model.KindFilesystemFailure, op, err)
	}

	if s.transcode.Load() && s.converter != nil && s.converter.Available() {
		prev := tr.text
		tr.setText(model.StatusConverting)
		err := s.converter.ToMP3(ctx, path, target, nil)
		tr.setText(prev)
		if err == nil {
			if rmErr := os.Remove(path); rmErr != nil {
				s.logger.Warn("failed to remove source audio", "path", path, "error", rmErr)
			}
			return target, nil
		}
		if ctx.Err() != nil {
			return "", model.NewError(model.KindTransferFailure, op, ctx.Err())
		}
		s.logger.Warn("audio transcode failed, renaming instead", "path", path, "error", err)
	}

	if err := os.Rename(path, target); err != nil {
		return "", model.NewError(model.KindFilesystemFailure, op, err)
	}
	return target, nil
}
