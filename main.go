package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/ytd/internal/app"
	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/convert"
	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/history"
	"github.com/ytget/ytd/internal/logging"
	"github.com/ytget/ytd/internal/metadata"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/status"
	"github.com/ytget/ytd/internal/thumbnail"
	"github.com/ytget/ytd/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.ytd"
	AppName = "YT Downloader"

	// ConfigEnv names the optional YAML runtime config file
	ConfigEnv = "YTD_CONFIG"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(ConfigEnv))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		File:       cfg.InDataDir(cfg.LogFile),
		Level:      cfg.LogLevel,
		MaxSizeKB:  cfg.LogMaxSizeKB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	logging.Banner(logger, AppName, version)

	lock, err := platform.AcquireInstanceLock(cfg.DataDir)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Warn("another instance is already running, exiting")
		return nil
	}
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	defer lock.Release()

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.ResponseTimeout,
		},
	}

	thumbs := thumbnail.NewFetcher(cfg.InDataDir(cfg.ThumbnailDir), httpClient, logger.With("component", "thumbnail"))
	thumbs.SetUserAgent(cfg.UserAgent)
	if err := thumbs.Clear(); err != nil {
		logger.Warn("failed to remove stale thumbnails", "error", err)
	}
	defer func() {
		if err := thumbs.Clear(); err != nil {
			logger.Warn("failed to remove thumbnails", "error", err)
		}
	}()

	store, err := history.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	extractor := extract.NewClient(cfg.YtDlpBinary, nil)
	extractor.SetTimeout(cfg.ProbeTimeout)
	extractor.SetLogger(logger.With("component", "extract"))
	if cfg.UseLibraryList {
		extractor.SetLister(extract.NewLibraryLister())
	}
	if !extractor.Available() {
		logger.Error("yt-dlp binary not found, links cannot be resolved", "binary", cfg.YtDlpBinary)
	}

	a := fyneapp.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())
	settings := config.NewSettings(a)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		logger.Warn("failed to ensure download directory", "error", err)
	}

	downloads := download.NewService(extractor, httpClient, logger.With("component", "download"))
	downloads.SetChunkSize(cfg.ChunkSize)
	downloads.SetUserAgent(cfg.UserAgent)
	downloads.SetConverter(convert.NewService(logger.With("component", "convert")))
	downloads.SetTranscodeAudio(settings.GetTranscodeAudio())
	downloads.SetRecorder(store)

	reporter := status.NewReporter(cfg.SuccessDelay, cfg.FailureDelay, logger.With("component", "status"))
	defer reporter.Close()

	fetcher := metadata.NewFetcher(extractor, logger.With("component", "metadata"))
	ctrl := app.NewController(fetcher, thumbs, downloads, reporter, settings, logger.With("component", "app"))
	ctrl.SetHistory(store)
	defer ctrl.Close()

	window := a.NewWindow(AppName)
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	root := ui.NewRootUI(window, ctrl, settings, version, logger.With("component", "ui"))
	root.SetOnSettingsSaved(func() {
		downloads.SetTranscodeAudio(settings.GetTranscodeAudio())
	})

	window.ShowAndRun()
	logger.Info("exiting")
	return nil
}
