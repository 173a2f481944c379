package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/status"
)

// RecentLimit is the number of history entries returned by Recent by default
const RecentLimit = 5

// ErrClosed is returned by operations issued after Close
var ErrClosed = errors.New("controller closed")

// ErrNotReady is returned by StartDownload when no downloadable link is loaded
var ErrNotReady = errors.New("no downloadable link loaded")

// MetadataSource fetches the metadata of a raw link
type MetadataSource interface {
	Fetch(ctx context.Context, raw string) (model.MediaInfo, model.LinkKind, error)
}

// ThumbnailSource downloads the preview image once metadata is ready
type ThumbnailSource interface {
	Await(ctx context.Context, ready <-chan model.MediaInfo) (string, error)
	Clear() error
}

// HistorySource lists finished downloads
type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]model.DownloadRecord, error)
}

// Preferences are the persisted user choices the controller reads and writes
type Preferences interface {
	GetDownloadDirectory() string
	GetQuality() model.Quality
	SetQuality(q model.Quality)
	GetAudioOnly() bool
	SetAudioOnly(audioOnly bool)
	GetAutoRevealOnComplete() bool
}

// State is the presentation state rendered by the UI
type State struct {
	Generation  uint64
	Link        model.MediaLink
	Info        model.MediaInfo
	Thumbnail   string // local path of the preview image, empty until fetched
	Options     model.DownloadOptions
	Downloading bool
	LastResult  *download.Result
	Status      model.StatusReport
}

// CanDownload reports whether a download may be started from this state
func (s State) CanDownload() bool {
	return !s.Downloading && s.Link.Kind.IsDownloadable() && s.Info.IsReady()
}

// Controller applies user intents and worker results to State from one goroutine
type Controller struct {
	metadata   MetadataSource
	thumbnails ThumbnailSource
	downloader download.Downloader
	reporter   *status.Reporter
	prefs      Preferences
	history    HistorySource
	logger     *slog.Logger

	openFolder func(string) error
	openURL    func(string) error

	// owned by the loop goroutine
	state       State
	cancelFetch context.CancelFunc

	snapshot atomic.Pointer[State]
	events   chan func(*State)
	quit     chan struct{}
	stopped  chan struct{}
	closing  atomic.Bool
	tasks    sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc

	mu        sync.Mutex
	listeners []func(State)
}

// NewController creates a controller and starts its event loop
func NewController(meta MetadataSource, thumbs ThumbnailSource, dl download.Downloader,
	reporter *status.Reporter, prefs Preferences, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		metadata:   meta,
		thumbnails: thumbs,
		downloader: dl,
		reporter:   reporter,
		prefs:      prefs,
		logger:     logger,
		openFolder: platform.OpenFolder,
		openURL:    platform.OpenURL,
		events:     make(chan func(*State), 64),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	c.state = State{
		Options: model.DownloadOptions{
			Quality:   prefs.GetQuality(),
			AudioOnly: prefs.GetAudioOnly(),
		},
		Status: reporter.Snapshot(),
	}
	c.publish()
	reporter.Subscribe(func(model.StatusReport) { c.notify() })

	go c.loop()
	return c
}

// SetHistory sets the source used by Recent
func (c *Controller) SetHistory(h HistorySource) {
	c.history = h
}

// SetOpeners replaces the functions that open a folder and a web link
func (c *Controller) SetOpeners(folder, url func(string) error) {
	if folder != nil {
		c.openFolder = folder
	}
	if url != nil {
		c.openURL = url
	}
}

// Subscribe registers fn to be called with the new state after every change
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns the current state without blocking
func (c *Controller) Snapshot() State {
	s := *c.snapshot.Load()
	s.Status = c.reporter.Snapshot()
	return s
}

// Submit replaces the current link with raw and starts loading its metadata.
// Empty input clears the metadata and returns the status to Idle without starting tasks.
func (c *Controller) Submit(raw string) error {
	link := model.NewMediaLink(raw)
	return c.do(func(s *State) {
		prevOwner := metadataOwner(s.Generation)
		c.resetLink(s)
		c.reporter.Reset(prevOwner, model.StatusIdle)

		if link.IsEmpty() {
			c.logger.Debug("empty link submitted")
			return
		}
		s.Link = link
		c.startMetadata(s.Generation, link.Raw)
	})
}

// Clear drops the current link, its metadata and the cached thumbnail
func (c *Controller) Clear() error {
	return c.do(func(s *State) {
		prevOwner := metadataOwner(s.Generation)
		c.resetLink(s)
		c.reporter.Reset(prevOwner, model.StatusIdle)
		if err := c.thumbnails.Clear(); err != nil {
			c.logger.Warn("failed to clear thumbnail", "error", err)
		}
		c.logger.Info("cleared")
	})
}

// SetAudioOnly toggles audio-only downloads and persists the choice
func (c *Controller) SetAudioOnly(audioOnly bool) error {
	return c.do(func(s *State) {
		s.Options.AudioOnly = audioOnly
		c.prefs.SetAudioOnly(audioOnly)
	})
}

// SetQuality selects the video resolution and persists the choice
func (c *Controller) SetQuality(q model.Quality) error {
	if q == "" {
		q = model.QualityAuto
	}
	return c.do(func(s *State) {
		s.Options.Quality = q
		c.prefs.SetQuality(q)
	})
}

// StartDownload starts a job for the loaded link. It fails with status.ErrBusy while
// another job or task holds the status, and with ErrNotReady without loaded metadata.
func (c *Controller) StartDownload() error {
	var startErr error
	err := c.do(func(s *State) {
		if s.Downloading || c.downloader.Active() {
			startErr = status.ErrBusy
			return
		}
		if !s.Link.Kind.IsDownloadable() || !s.Info.IsReady() {
			startErr = ErrNotReady
			return
		}

		link := s.Link
		title := s.Info.Title
		job := download.NewJob(link, title, s.Options, c.prefs.GetDownloadDirectory())
		if err := c.reporter.Begin(job.ID, model.StatusStarting); err != nil {
			startErr = err
			return
		}
		s.Downloading = true
		s.LastResult = nil
		c.runDownload(job)
	})
	if err != nil {
		return err
	}
	return startErr
}

// OpenDownloadFolder opens the download directory in the system file manager
func (c *Controller) OpenDownloadFolder() error {
	dir := c.prefs.GetDownloadDirectory()
	if err := c.openFolder(dir); err != nil {
		return fmt.Errorf("open download folder: %w", err)
	}
	return nil
}

// OpenLink opens url in the default browser
func (c *Controller) OpenLink(url string) error {
	if url == "" {
		return nil
	}
	if err := c.openURL(url); err != nil {
		return fmt.Errorf("open link: %w", err)
	}
	return nil
}

// Recent returns the latest finished downloads, newest first
func (c *Controller) Recent(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	if c.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = RecentLimit
	}
	return c.history.Recent(ctx, limit)
}

// Close cancels running tasks, waits for them and stops the event loop
func (c *Controller) Close() {
	if !c.closing.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.tasks.Wait()
	close(c.quit)
	<-c.stopped
}

func (c *Controller) loop() {
	defer close(c.stopped)
	for {
		select {
		case apply := <-c.events:
			apply(&c.state)
			c.publish()
			c.notify()
		case <-c.quit:
			if c.cancelFetch != nil {
				c.cancelFetch()
			}
			return
		}
	}
}

// do runs apply on the loop and waits for it
func (c *Controller) do(apply func(*State)) error {
	if c.closing.Load() {
		return ErrClosed
	}
	done := make(chan struct{})
	ev := func(s *State) {
		defer close(done)
		apply(s)
	}
	select {
	case c.events <- ev:
	case <-c.quit:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-c.quit:
		return ErrClosed
	}
}

// post queues apply from a worker without waiting
func (c *Controller) post(apply func(*State)) {
	select {
	case c.events <- apply:
	case <-c.quit:
	}
}

func (c *Controller) publish() {
	s := c.state
	c.snapshot.Store(&s)
}

func (c *Controller) notify() {
	c.mu.Lock()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()
	if len(listeners) == 0 {
		return
	}
	s := c.Snapshot()
	for _, fn := range listeners {
		fn(s)
	}
}

// resetLink starts a new generation so results of earlier submissions are dropped
func (c *Controller) resetLink(s *State) {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	s.Generation++
	s.Link = model.MediaLink{}
	s.Info = model.MediaInfo{}
	s.Thumbnail = ""
}

func (c *Controller) startMetadata(gen uint64, raw string) {
	if c.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel
	owner := metadataOwner(gen)

	// a running download keeps the status, the metadata still loads
	ownsStatus := c.reporter.Begin(owner, model.StatusLoading) == nil
	ready := make(chan model.MediaInfo, 1)

	c.tasks.Add(2)
	go func() {
		defer c.tasks.Done()
		path, err := c.thumbnails.Await(ctx, ready)
		if err != nil {
			c.logger.Debug("thumbnail not fetched", "generation", gen, "error", err)
			return
		}
		c.post(func(s *State) {
			if s.Generation == gen {
				s.Thumbnail = path
			}
		})
	}()

	go func() {
		defer c.tasks.Done()
		info, kind, err := c.metadata.Fetch(ctx, raw)
		if err == nil {
			ready <- info
		}
		close(ready)

		if ctx.Err() != nil {
			c.logger.Debug("metadata fetch superseded", "generation", gen)
			return
		}

		c.post(func(s *State) {
			if s.Generation != gen {
				return
			}
			s.Link.Kind = kind
			s.Info = info
		})
		if ownsStatus {
			c.reporter.Finish(owner, metadataText(err), model.KindOf(err))
		}
	}()
}

func (c *Controller) runDownload(job *model.DownloadJob) {
	if c.ctx.Err() != nil {
		return
	}
	reveal := c.prefs.GetAutoRevealOnComplete()

	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		res, err := c.downloader.Run(c.ctx, job, func(p model.Progress) {
			if p.StatusText != "" {
				c.reporter.SetText(job.ID, p.StatusText)
			}
			c.reporter.SetProgress(job.ID, p.Fraction())
		})
		c.reporter.Finish(job.ID, res.Text, model.KindOf(err))

		if err == nil && reveal && len(res.Files) > 0 {
			if openErr := c.openFolder(job.OutputDir); openErr != nil {
				c.logger.Warn("failed to reveal download folder", "dir", job.OutputDir, "error", openErr)
			}
		}
		c.post(func(s *State) {
			s.Downloading = false
			s.LastResult = res
		})
	}()
}

func metadataOwner(gen uint64) string {
	return fmt.Sprintf("metadata-%d", gen)
}

func metadataText(err error) string {
	if err == nil {
		return model.StatusDone
	}
	switch model.KindOf(err) {
	case model.KindUnavailableContent:
		return model.StatusUnavailable
	case model.KindInvalidLink:
		return model.StatusInvalidLink
	default:
		return model.StatusFetchError
	}
}
