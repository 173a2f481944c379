package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// JobIDPrefix prefixes generated job ids
const JobIDPrefix = "job-"

var _ Downloader = (*Service)(nil)

// ErrJobActive is returned by Run while another job is running
var ErrJobActive = errors.New("a download is already in progress")

// Result is the outcome of a finished job
type Result struct {
	JobID   string
	Files   []string
	Skipped int
	Written int64
	Text    string // terminal status text
}

// Service handles download operations
type Service struct {
	extractor extract.Extractor
	client    *http.Client
	chunkSize int
	userAgent string
	transcode atomic.Bool
	converter Converter
	recorder  Recorder
	now       func() time.Time
	logger    *slog.Logger
	active    atomic.Bool
}

// NewService creates a new download service; a nil client means http.DefaultClient
func NewService(ex extract.Extractor, client *http.Client, logger *slog.Logger) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: ex,
		client:    client,
		chunkSize: DefaultChunkSize,
		now:       time.Now,
		logger:    logger,
	}
}

// SetChunkSize sets the read size of transfers
func (s *Service) SetChunkSize(n int) {
	if n > 0 {
		s.chunkSize = n
	}
}

// SetUserAgent sets the User-Agent header of stream requests
func (s *Service) SetUserAgent(ua string) {
	s.userAgent = ua
}

// SetConverter sets the audio converter used when transcoding is enabled
func (s *Service) SetConverter(c Converter) {
	s.converter = c
}

// SetTranscodeAudio enables real mp3 transcoding of audio-only downloads
func (s *Service) SetTranscodeAudio(enabled bool) {
	s.transcode.Store(enabled)
}

// SetRecorder sets the history recorder
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// Active reports whether a job is running
func (s *Service) Active() bool {
	return s.active.Load()
}

// NewJob creates a job for link with a fresh id
func NewJob(link model.MediaLink, title string, opts model.DownloadOptions, outputDir string) *model.DownloadJob {
	return &model.DownloadJob{
		ID:        generateJobID(),
		Link:      link,
		Title:     title,
		Options:   opts,
		OutputDir: outputDir,
		StartedAt: time.Now(),
	}
}

// Run executes job and returns its terminal text in Result.Text.
// The error, when set, is a *model.Error; Result is never nil.
func (s *Service) Run(ctx context.Context, job *model.DownloadJob, onProgress func(model.Progress)) (*Result, error) {
	if !s.active.CompareAndSwap(false, true) {
		return &Result{JobID: job.ID, Text: model.StatusDownloadFailed}, ErrJobActive
	}
	defer s.active.Store(false)

	s.logger.Info("download started",
		"job", job.ID, "link", job.Link.Raw, "kind", job.Link.Kind,
		"audio", job.Options.AudioOnly, "quality", job.Options.Quality)

	tr := newTracker(job, onProgress)
	var (
		res *Result
		err error
	)
	switch job.Link.Kind {
	case model.LinkSingle:
		res, err = s.runSingle(ctx, job, tr)
	case model.LinkCollection:
		res, err = s.runCollection(ctx, job, tr)
	default:
		res = &Result{Text: model.StatusInvalidLink}
		err = model.NewError(model.KindInvalidLink, "download.Run", fmt.Errorf("link kind %q is not downloadable", job.Link.Kind))
	}
	res.JobID = job.ID

	if err != nil {
		s.logger.Error("download failed", "job", job.ID, "kind", model.KindOf(err), "error", err)
	} else {
		s.logger.Info("download finished", "job", job.ID, "files", len(res.Files),
			"skipped", res.Skipped, "size", platform.FormatBytes(res.Written))
	}
	return res, err
}

func (s *Service) runSingle(ctx context.Context, job *model.DownloadJob, tr *tracker) (*Result, error) {
	const op = "download.single"

	if job.Options.AudioOnly {
		tr.setText(model.StatusFetchingAudio)
	} else {
		tr.setText(model.StatusFetchingVideo)
	}

	st, err := s.resolve(ctx, job.Link.Raw, job.Options)
	if err != nil {
		// nothing to transfer without a stream
		return &Result{Text: model.StatusNoStream}, model.NewError(model.KindStreamResolutionFailure, op, err)
	}
	if st.ItemTitle == "" {
		st.ItemTitle = job.Title
	}

	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		return &Result{Text: model.StatusDownloadFailed}, model.NewError(model.KindFilesystemFailure, op, err)
	}

	tr.plan([]int64{st.Size})
	tr.setText(model.StatusDownloading)

	path := outputPath(job.OutputDir, st)
	final, written, err := s.fetchItem(ctx, job, "", st, path, 1, tr)
	if err != nil {
		return &Result{Written: written, Text: model.StatusDownloadFailed}, err
	}

	return &Result{Files: []string{final}, Written: written, Text: model.StatusDownloadDone}, nil
}

func (s *Service) runCollection(ctx context.Context, job *model.DownloadJob, tr *tracker) (*Result, error) {
	const op = "download.collection"

	header, err := s.extractor.Collection(ctx, job.Link.Raw)
	if err != nil {
		return &Result{Text: model.StatusDownloadAborted}, model.NewError(model.KindStreamResolutionFailure, op, err)
	}
	title := job.Title
	if title == "" {
		title = header.Title
	}

	res := &Result{}
	type resolved struct {
		entry  extract.Entry
		stream extract.Stream
	}

	// phase 1: resolve every item, skipping failures
	count := len(header.Entries)
	streams := make([]resolved, 0, count)
	for i, entry := range header.Entries {
		if ctx.Err() != nil {
			res.Text = model.StatusDownloadAborted
			return res, model.NewError(model.KindTransferFailure, op, ctx.Err())
		}
		format := model.StatusResolvingVideoItem
		if job.Options.AudioOnly {
			format = model.StatusResolvingAudioItem
		}
		tr.setText(fmt.Sprintf(format, i+1, count))

		st, err := s.resolve(ctx, entry.Link(), job.Options)
		if err != nil {
			s.logger.Warn("unable to get stream, skipping item",
				"job", job.ID, "index", i+1, "id", entry.ID, "title", entry.Title, "error", err)
			res.Skipped++
			continue
		}
		if st.ItemTitle == "" {
			st.ItemTitle = entry.Title
		}
		streams = append(streams, resolved{entry: entry, stream: st})
	}

	if len(streams) == 0 {
		res.Text = model.StatusNoStream
		return res, model.NewError(model.KindStreamResolutionFailure, op, fmt.Errorf("no item of %q could be resolved", title))
	}

	dir := filepath.Join(job.OutputDir, platform.SanitizeFileName(title))
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		res.Text = model.StatusDownloadFailed
		return res, model.NewError(model.KindFilesystemFailure, op, err)
	}

	sizes := make([]int64, len(streams))
	for i, r := range streams {
		sizes[i] = r.stream.Size
	}
	tr.plan(sizes)

	// phase 2: transfer in order, skipping failures
	var lastErr error
	for i, r := range streams {
		tr.setText(fmt.Sprintf(model.StatusDownloadingItem, i+1, len(streams)))

		final, written, err := s.fetchItem(ctx, job, title, r.stream, outputPath(dir, r.stream), i+1, tr)
		res.Written += written
		if err != nil {
			if ctx.Err() != nil {
				res.Text = model.StatusDownloadAborted
				return res, model.NewError(model.KindTransferFailure, op, ctx.Err())
			}
			s.logger.Warn("download failed, skipping item",
				"job", job.ID, "index", i+1, "id", r.entry.ID, "error", err)
			res.Skipped++
			lastErr = err
			continue
		}
		res.Files = append(res.Files, final)
	}

	if len(res.Files) == 0 {
		res.Text = model.StatusDownloadFailed
		return res, model.NewError(model.KindTransferFailure, op, lastErr)
	}
	res.Text = model.StatusDownloadDone
	return res, nil
}

// fetchItem transfers one stream, finalises audio and records the file
func (s *Service) fetchItem(ctx context.Context, job *model.DownloadJob, collection string, st extract.Stream, path string, index int, tr *tracker) (string, int64, error) {
	written, err := s.transfer(ctx, st, path, index, tr)
	if err != nil {
		return "", written, err
	}

	final := path
	if job.Options.AudioOnly {
		final, err = s.finalizeAudio(ctx, path, tr)
		if err != nil {
			os.Remove(path)
			return "", written, err
		}
	}

	s.record(ctx, job, collection, st, final, written)
	return final, written, nil
}

// resolve fetches link's formats and selects a stream per opts
func (s *Service) resolve(ctx context.Context, link string, opts model.DownloadOptions) (extract.Stream, error) {
	info, err := s.extractor.Video(ctx, link)
	if err != nil {
		return extract.Stream{}, err
	}
	if !info.Available() {
		return extract.Stream{}, fmt.Errorf("%s: %w", info.Availability, extract.ErrUnavailable)
	}
	return extract.SelectStream(info, opts)
}

func (s *Service) record(ctx context.Context, job *model.DownloadJob, collection string, st extract.Stream, path string, written int64) {
	if s.recorder == nil {
		return
	}
	rec := model.DownloadRecord{
		JobID:      job.ID,
		Link:       job.Link.Raw,
		Title:      st.ItemTitle,
		Collection: collection,
		Path:       path,
		Bytes:      written,
		AudioOnly:  job.Options.AudioOnly,
		Quality:    job.Options.Quality,
		FinishedAt: s.now(),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record download", "path", path, "error", err)
	}
}

// outputPath returns dir/<sanitised title>.<ext>
func outputPath(dir string, st extract.Stream) string {
	name := st.DefaultFileName()
	ext := filepath.Ext(name)
	return filepath.Join(dir, platform.SanitizeFileName(strings.TrimSuffix(name, ext))+ext)
}

// generateJobID generates a unique job ID using UUID v7 for time ordering
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
