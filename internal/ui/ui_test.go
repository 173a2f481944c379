package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytd/internal/app"
	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/status"
)

type idleMetadata struct{}

func (idleMetadata) Fetch(context.Context, string) (model.MediaInfo, model.LinkKind, error) {
	return model.MediaInfo{}, model.LinkInvalid, nil
}

type idleThumbnails struct{}

func (idleThumbnails) Await(ctx context.Context, _ <-chan model.MediaInfo) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (idleThumbnails) Clear() error { return nil }

type idleDownloader struct{}

func (idleDownloader) Run(_ context.Context, job *model.DownloadJob, _ func(model.Progress)) (*download.Result, error) {
	return &download.Result{JobID: job.ID, Text: model.StatusDownloadDone}, nil
}

func (idleDownloader) Active() bool { return false }

func newTestRoot(t *testing.T) *RootUI {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := config.NewSettings(a)
	reporter := status.NewReporter(time.Hour, time.Hour, logger)
	ctrl := app.NewController(idleMetadata{}, idleThumbnails{}, idleDownloader{}, reporter, settings, logger)
	t.Cleanup(func() {
		ctrl.Close()
		reporter.Close()
	})

	w := test.NewWindow(nil)
	t.Cleanup(w.Close)
	return NewRootUI(w, ctrl, settings, "test", logger)
}

func TestRootUIInitialState(t *testing.T) {
	root := newTestRoot(t)

	if root.titleLink.Text != DashPlaceholder {
		t.Errorf("title = %q, want placeholder", root.titleLink.Text)
	}
	if !root.downloadBtn.Disabled() {
		t.Error("download button enabled without metadata")
	}
	if root.statusLabel.Text != model.StatusIdle {
		t.Errorf("status = %q, want %q", root.statusLabel.Text, model.StatusIdle)
	}
	if root.progressBar.Visible() {
		t.Error("progress bar visible while idle")
	}
	if root.window.Title() != "YT Downloader vtest" {
		t.Errorf("window title = %q", root.window.Title())
	}
}

func TestRootUIRendersState(t *testing.T) {
	root := newTestRoot(t)

	thumb := filepath.Join(t.TempDir(), "temp.jpg")
	if err := os.WriteFile(thumb, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	root.render(app.State{
		Generation: 3,
		Link:       model.MediaLink{Raw: "https://v/1", Kind: model.LinkSingle},
		Info: model.MediaInfo{
			Kind:        model.LinkSingle,
			Title:       "Song",
			Duration:    "0:03:20",
			Views:       "1,024",
			Published:   "2 days ago.",
			ChannelName: "Artist",
		},
		Thumbnail: thumb,
		Options:   model.DownloadOptions{Quality: "720p", AudioOnly: true},
		Status: model.StatusReport{
			Phase:      model.PhaseBusy,
			Text:       model.StatusDownloading,
			InProgress: true,
			Progress:   0.42,
		},
	})

	if root.titleLink.Text != "Song" || root.channelLink.Text != "Artist" {
		t.Errorf("title/channel = %q/%q", root.titleLink.Text, root.channelLink.Text)
	}
	wantDetails := IconClock + " 0:03:20" + MiddleDotSeparator + IconEye + " 1,024" + MiddleDotSeparator + IconCalendar + " 2 days ago."
	if root.detailsLabel.Text != wantDetails {
		t.Errorf("details = %q, want %q", root.detailsLabel.Text, wantDetails)
	}
	if !root.thumbnail.Visible() || root.thumbnail.Resource == nil {
		t.Error("thumbnail not shown")
	}
	if !root.audioCheck.Checked || root.qualitySelect.Selected != "720p" || !root.qualitySelect.Disabled() {
		t.Errorf("options not rendered: audio=%v quality=%q", root.audioCheck.Checked, root.qualitySelect.Selected)
	}
	if root.downloadBtn.Disabled() {
		t.Error("download button disabled for a ready link")
	}
	if !root.progressBar.Visible() || root.progressBar.Value != 0.42 || root.percentLabel.Text != "42%" {
		t.Errorf("progress = %v %q", root.progressBar.Value, root.percentLabel.Text)
	}

	root.render(app.State{Generation: 4, Status: model.IdleReport()})
	if root.thumbnail.Visible() || root.titleLink.Text != DashPlaceholder {
		t.Error("cleared state still shows the previous link")
	}
}

func TestFormatDetailsCollection(t *testing.T) {
	info := model.MediaInfo{Kind: model.LinkCollection, Title: "List", Duration: "1:02:03", ItemCount: 12, Published: "ignored"}
	want := IconClock + " 1:02:03" + MiddleDotSeparator + IconList + " 12 items"
	if got := formatDetails(info, "items"); got != want {
		t.Errorf("formatDetails() = %q, want %q", got, want)
	}
}

func TestStatusImportance(t *testing.T) {
	tests := []struct {
		name string
		rep  model.StatusReport
		want widget.Importance
	}{
		{name: "idle", rep: model.IdleReport(), want: widget.LowImportance},
		{name: "busy", rep: model.StatusReport{Phase: model.PhaseBusy, Text: model.StatusDownloading}, want: widget.MediumImportance},
		{name: "done", rep: model.StatusReport{Phase: model.PhaseResult, Text: model.StatusDownloadDone}, want: widget.SuccessImportance},
		{name: "failed", rep: model.StatusReport{Phase: model.PhaseResult, Text: model.StatusDownloadFailed, ErrKind: model.KindTransferFailure}, want: widget.DangerImportance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusImportance(tt.rep); got != tt.want {
				t.Errorf("statusImportance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatRecent(t *testing.T) {
	if got := formatRecent(nil, "Recent"); got != "" {
		t.Errorf("formatRecent(nil) = %q", got)
	}
	records := []model.DownloadRecord{{Title: "b"}, {Title: "a"}}
	if got := formatRecent(records, "Recent"); got != "Recent: b, a" {
		t.Errorf("formatRecent() = %q", got)
	}
}

func TestLocalization(t *testing.T) {
	l := NewLocalization()
	if got := l.GetText(KeyDownload); got != "Download" {
		t.Errorf("en download = %q", got)
	}

	l.SetLanguage("ru")
	if got := l.GetText(KeyDownload); got != "Скачать" {
		t.Errorf("ru download = %q", got)
	}
	if got := l.GetText(model.StatusDownloadDone); got != "Загрузка завершена." {
		t.Errorf("ru status = %q", got)
	}
	if got := l.GetText("Downloading... (2/5)"); got != "Downloading... (2/5)" {
		t.Errorf("unknown key = %q, want key itself", got)
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("unsupported language changed current to %q", l.GetCurrentLanguage())
	}

	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "pt_BR.UTF-8")
	l.SetLanguage("system")
	if l.GetCurrentLanguage() != "pt" {
		t.Errorf("system language = %q, want pt", l.GetCurrentLanguage())
	}
}

func TestSettingsDialogApply(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := test.NewWindow(nil)
	defer w.Close()

	settings := config.NewSettings(a)
	sd := NewSettingsDialog(settings, NewLocalization(), w, nil)
	sd.loadCurrentSettings()

	dir := t.TempDir()
	sd.downloadDirEntry.SetText(dir)
	sd.transcodeCheck.SetChecked(true)
	sd.autoRevealCheck.SetChecked(true)
	sd.languageSelect.SetSelected("Português")
	sd.apply()

	if settings.GetDownloadDirectory() != dir {
		t.Errorf("download dir = %q, want %q", settings.GetDownloadDirectory(), dir)
	}
	if !settings.GetTranscodeAudio() || !settings.GetAutoRevealOnComplete() {
		t.Error("boolean settings not stored")
	}
	if settings.GetLanguage() != "pt" {
		t.Errorf("language = %q, want pt", settings.GetLanguage())
	}
}
