package download

import (
	"context"

	"github.com/ytget/ytd/internal/model"
)

// Downloader runs download jobs, one at a time
type Downloader interface {
	Run(ctx context.Context, job *model.DownloadJob, onProgress func(model.Progress)) (*Result, error)
	Active() bool
}

// Converter transcodes an audio file into mp3
type Converter interface {
	Available() bool
	ToMP3(ctx context.Context, inputPath, outputPath string, onProgress func(float64)) error
}

// Recorder stores finished downloads
type Recorder interface {
	Record(ctx context.Context, rec model.DownloadRecord) error
}
