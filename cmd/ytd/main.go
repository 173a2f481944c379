package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"

	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/convert"
	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/history"
	"github.com/ytget/ytd/internal/logging"
	"github.com/ytget/ytd/internal/metadata"
	"github.com/ytget/ytd/internal/model"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

type args struct {
	Links     []string `arg:"positional" help:"video or playlist links"`
	Audio     bool     `arg:"-a,--audio" help:"download the audio track only (saved as .mp3)"`
	Quality   string   `arg:"-q,--quality" default:"auto" help:"video resolution: auto, 144p ... 2160p"`
	Out       string   `arg:"-o,--out" help:"download directory, created if missing (default from config)"`
	Info      bool     `arg:"-i,--info" help:"print metadata without downloading"`
	History   bool     `arg:"--history" help:"list recent downloads and exit"`
	Limit     int      `arg:"-n,--limit" default:"10" help:"number of history entries to list"`
	Transcode bool     `arg:"--transcode" help:"convert audio with ffmpeg instead of renaming"`
	Config    string   `arg:"-c,--config,env:YTD_CONFIG" help:"YAML runtime config file"`
	Verbose   bool     `arg:"-v,--verbose" help:"mirror the log to stderr"`
}

func (args) Version() string {
	return "ytd " + version
}

func (args) Description() string {
	return "ytd downloads videos and playlists through yt-dlp.\n"
}

func main() {
	var a args
	p := arg.MustParse(&a)
	if !a.History && len(a.Links) == 0 {
		p.Fail("at least one link is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, a, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ytd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a args, stdout io.Writer) error {
	quality, err := model.ParseQuality(a.Quality)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.Out != "" {
		cfg.DownloadDir = a.Out
	}

	logger, logCloser, err := logging.New(logging.Options{
		File:       cfg.InDataDir(cfg.LogFile),
		Level:      cfg.LogLevel,
		MaxSizeKB:  cfg.LogMaxSizeKB,
		MaxBackups: cfg.LogMaxBackups,
		Stderr:     a.Verbose,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	logging.Banner(logger, "ytd", version)

	store, err := history.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if a.History {
		return printHistory(ctx, stdout, store, a.Limit)
	}

	extractor := extract.NewClient(cfg.YtDlpBinary, nil)
	extractor.SetTimeout(cfg.ProbeTimeout)
	extractor.SetLogger(logger.With("component", "extract"))
	if cfg.UseLibraryList {
		extractor.SetLister(extract.NewLibraryLister())
	}
	if !extractor.Available() {
		return fmt.Errorf("yt-dlp binary %q not found", cfg.YtDlpBinary)
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.ResponseTimeout,
		},
	}
	downloads := download.NewService(extractor, httpClient, logger.With("component", "download"))
	downloads.SetChunkSize(cfg.ChunkSize)
	downloads.SetUserAgent(cfg.UserAgent)
	downloads.SetConverter(convert.NewService(logger.With("component", "convert")))
	downloads.SetTranscodeAudio(a.Transcode)
	downloads.SetRecorder(store)

	fetcher := metadata.NewFetcher(extractor, logger.With("component", "metadata"))
	opts := model.DownloadOptions{Quality: quality, AudioOnly: a.Audio}
	printer := newProgressPrinter(stdout)

	var failed int
	for _, raw := range a.Links {
		if err := processLink(ctx, stdout, fetcher, downloads, printer, raw, opts, cfg.DownloadDir, a.Info, logger); err != nil {
			failed++
			fmt.Fprintf(stdout, "%s: %v\n", raw, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d links failed", failed, len(a.Links))
	}
	return nil
}

func processLink(ctx context.Context, w io.Writer, fetcher *metadata.Fetcher, downloads *download.Service,
	printer *progressPrinter, raw string, opts model.DownloadOptions, outDir string, infoOnly bool, logger *slog.Logger) error {
	info, kind, err := fetcher.Fetch(ctx, raw)
	if err != nil {
		if model.KindOf(err) == model.KindUnavailableContent {
			return errors.New(model.StatusUnavailable)
		}
		return fmt.Errorf("%s %w", model.StatusInvalidLink, err)
	}
	printInfo(w, info)
	if infoOnly {
		return nil
	}

	link := model.NewMediaLink(raw)
	link.Kind = kind
	job := download.NewJob(link, info.Title, opts, outDir)

	res, err := downloads.Run(ctx, job, printer.Update)
	printer.Done()
	if err != nil {
		logger.Error("download failed", "link", link.Raw, "error", err)
		return errors.New(res.Text)
	}
	fmt.Fprintf(w, "%s %d file(s), %s", res.Text, len(res.Files), humanize.Bytes(uint64(res.Written)))
	if res.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", res.Skipped)
	}
	fmt.Fprintln(w)
	return nil
}

func printInfo(w io.Writer, info model.MediaInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", info.Title)
	fmt.Fprintf(tw, "Channel:\t%s\n", info.ChannelName)
	fmt.Fprintf(tw, "Duration:\t%s\n", info.Duration)
	fmt.Fprintf(tw, "Views:\t%s\n", info.Views)
	if info.IsCollection() {
		fmt.Fprintf(tw, "Items:\t%d\n", info.ItemCount)
	} else {
		fmt.Fprintf(tw, "Published:\t%s\n", info.Published)
	}
	tw.Flush()
}

type historyLister interface {
	Recent(ctx context.Context, limit int) ([]model.DownloadRecord, error)
	Count(ctx context.Context) (int, error)
}

func printHistory(ctx context.Context, w io.Writer, store historyLister, limit int) error {
	records, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No downloads yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tSIZE\tTITLE\tPATH")
	for _, r := range records {
		title := r.Title
		if r.Collection != "" {
			title = r.Collection + " / " + title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			humanize.Time(r.FinishedAt), humanize.Bytes(uint64(r.Bytes)), title, r.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	if total > len(records) {
		fmt.Fprintf(w, "Showing %d of %s downloads.\n", len(records), humanize.Comma(int64(total)))
	}
	return nil
}
