package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytd/internal/app"
	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/status"
)

// recentTimeout bounds the history query behind the Recent line
const recentTimeout = 2 * time.Second

// RootUI represents the main UI structure
type RootUI struct {
	window          fyne.Window
	ctrl            *app.Controller
	settings        *config.Settings
	localization    *Localization
	version         string
	logger          *slog.Logger
	onSettingsSaved func()

	linkEntry   *widget.Entry
	loadBtn     *widget.Button
	clearBtn    *widget.Button
	downloadBtn *widget.Button
	folderBtn   *widget.Button
	settingsBtn *widget.Button

	titleLink    *widget.Hyperlink
	channelLink  *widget.Hyperlink
	detailsLabel *widget.Label
	thumbnail    *canvas.Image

	audioCheck    *widget.Check
	qualityLabel  *widget.Label
	qualitySelect *widget.Select

	statusLabel  *widget.Label
	percentLabel *widget.Label
	progressBar  *widget.ProgressBar
	recentLabel  *widget.Label

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSeq       int

	// last rendered state, touched on the UI thread only
	state          app.State
	shownThumbnail string
	shownResult    *download.Result
}

// NewRootUI creates the main window content and binds it to the controller
func NewRootUI(window fyne.Window, ctrl *app.Controller, settings *config.Settings, version string, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		ctrl:         ctrl,
		settings:     settings,
		localization: localization,
		version:      version,
		logger:       logger,
	}

	ui.setupUI()
	ui.refreshUITexts()

	ctrl.Subscribe(func(app.State) {
		fyne.Do(ui.refresh)
	})
	ui.refresh()
	ui.refreshRecent()

	logger.Debug("ui setup completed")
	return ui
}

// SetOnSettingsSaved registers fn to run after the settings dialog stores new values
func (ui *RootUI) SetOnSettingsSaved(fn func()) {
	ui.onSettingsSaved = fn
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.linkEntry = widget.NewEntry()
	ui.linkEntry.OnSubmitted = func(string) { ui.onLoad() }

	ui.loadBtn = widget.NewButton("", ui.onLoad)
	ui.loadBtn.Importance = widget.HighImportance
	ui.clearBtn = widget.NewButton("", ui.onClear)

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance

	logo := canvas.NewImageFromResource(LoadLogoResource())
	logo.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
	logo.FillMode = canvas.ImageFillContain

	topPanel := container.NewBorder(nil, nil,
		container.NewHBox(logo, ui.settingsBtn),
		container.NewHBox(ui.loadBtn, ui.clearBtn),
		ui.linkEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.thumbnail = canvas.NewImageFromResource(nil)
	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))
	ui.thumbnail.Hide()

	ui.titleLink = widget.NewHyperlink(DashPlaceholder, nil)
	ui.titleLink.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLink.Truncation = fyne.TextTruncateEllipsis
	ui.titleLink.OnTapped = func() { ui.openLink(ui.state.Link.Raw) }

	ui.channelLink = widget.NewHyperlink("", nil)
	ui.channelLink.OnTapped = func() { ui.openLink(ui.state.Info.ChannelURL) }

	ui.detailsLabel = widget.NewLabel("")

	ui.audioCheck = widget.NewCheck("", ui.onAudioOnlyChanged)
	ui.qualityLabel = widget.NewLabel("")
	qualities := make([]string, 0, len(model.Resolutions))
	for _, q := range ui.settings.GetQualityOptions() {
		qualities = append(qualities, string(q))
	}
	ui.qualitySelect = widget.NewSelect(qualities, ui.onQualityChanged)

	ui.downloadBtn = widget.NewButton("", ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.folderBtn = widget.NewButton("", ui.onOpenFolder)

	infoPanel := container.NewVBox(
		ui.titleLink,
		ui.channelLink,
		ui.detailsLabel,
		container.NewHBox(ui.audioCheck, ui.qualityLabel, ui.qualitySelect),
		container.NewHBox(ui.downloadBtn, ui.folderBtn),
	)
	middle := container.NewBorder(nil, nil, ui.thumbnail, nil, infoPanel)

	ui.statusLabel = widget.NewLabel("")
	ui.percentLabel = widget.NewLabel("")
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string { return "" }
	ui.recentLabel = widget.NewLabel("")
	ui.recentLabel.Truncation = fyne.TextTruncateEllipsis

	bottom := container.NewVBox(
		widget.NewSeparator(),
		ui.progressBar,
		container.NewBorder(nil, nil, nil, ui.percentLabel, ui.statusLabel),
		ui.recentLabel,
	)

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		bottom,
		nil,
		nil,
		container.NewPadded(middle),
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	folderItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), folderItem, settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
	ui.refresh()
	ui.refreshRecent()
}

// refreshUITexts updates all static texts with the current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText
	ui.window.SetTitle(fmt.Sprintf("%s v%s", t(KeyAppTitle), ui.version))
	ui.linkEntry.SetPlaceHolder(t(KeyEnterURL))
	ui.loadBtn.SetText(t(KeyLoad))
	ui.clearBtn.SetText(IconClose + " " + t(KeyClear))
	ui.downloadBtn.SetText(t(KeyDownload))
	ui.folderBtn.SetText(IconFolder + " " + t(KeyOpenFolder))
	ui.audioCheck.Text = IconMusic + " " + t(KeyAudioOnly)
	ui.audioCheck.Refresh()
	ui.qualityLabel.SetText(t(KeyQuality) + ":")
}

// refresh renders the controller's latest state; UI thread only
func (ui *RootUI) refresh() {
	ui.render(ui.ctrl.Snapshot())
}

func (ui *RootUI) render(s app.State) {
	prev := ui.state
	ui.state = s

	ui.renderInfo(s.Info)
	if s.Generation != prev.Generation || s.Thumbnail == "" {
		ui.shownThumbnail = ""
		if s.Thumbnail == "" {
			ui.thumbnail.Hide()
		}
	}
	if s.Thumbnail != "" && ui.shownThumbnail == "" {
		ui.loadThumbnail(s.Generation, s.Thumbnail)
	}

	if ui.audioCheck.Checked != s.Options.AudioOnly {
		ui.audioCheck.SetChecked(s.Options.AudioOnly)
	}
	if ui.qualitySelect.Selected != string(s.Options.Quality) {
		ui.qualitySelect.SetSelected(string(s.Options.Quality))
	}
	if s.Options.AudioOnly {
		ui.qualitySelect.Disable()
	} else {
		ui.qualitySelect.Enable()
	}

	if s.CanDownload() {
		ui.downloadBtn.Enable()
	} else {
		ui.downloadBtn.Disable()
	}
	if s.Downloading {
		ui.linkEntry.Disable()
		ui.loadBtn.Disable()
		ui.clearBtn.Disable()
	} else {
		ui.linkEntry.Enable()
		ui.loadBtn.Enable()
		ui.clearBtn.Enable()
	}

	ui.renderStatus(s.Status)

	if s.LastResult != nil && s.LastResult != ui.shownResult {
		ui.shownResult = s.LastResult
		ui.refreshRecent()
	}
}

func (ui *RootUI) renderInfo(info model.MediaInfo) {
	if info.IsEmpty() {
		ui.titleLink.SetText(DashPlaceholder)
		ui.channelLink.SetText("")
		ui.detailsLabel.SetText("")
		return
	}

	ui.titleLink.SetText(info.Title)
	ui.channelLink.SetText(info.ChannelName)
	ui.detailsLabel.SetText(formatDetails(info, ui.localization.GetText(KeyItems)))
}

// formatDetails joins duration, views and the published date or item count
func formatDetails(info model.MediaInfo, itemsWord string) string {
	var parts []string
	if info.Duration != "" {
		parts = append(parts, IconClock+" "+info.Duration)
	}
	if info.Views != "" {
		parts = append(parts, IconEye+" "+info.Views)
	}
	if info.IsCollection() {
		parts = append(parts, fmt.Sprintf("%s %d %s", IconList, info.ItemCount, itemsWord))
	} else if info.Published != "" {
		parts = append(parts, IconCalendar+" "+info.Published)
	}
	return strings.Join(parts, MiddleDotSeparator)
}

func (ui *RootUI) renderStatus(rep model.StatusReport) {
	ui.statusLabel.Importance = statusImportance(rep)
	ui.statusLabel.SetText(ui.localization.GetText(rep.Text))

	if rep.InProgress || (rep.Phase.IsFinished() && rep.Progress > 0) {
		ui.progressBar.SetValue(rep.Progress)
		ui.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, rep.Percent()))
		ui.progressBar.Show()
		return
	}
	ui.progressBar.SetValue(0)
	ui.percentLabel.SetText("")
	ui.progressBar.Hide()
}

// statusImportance colours the status: muted when idle, red for a failed result
func statusImportance(rep model.StatusReport) widget.Importance {
	switch {
	case rep.Phase.IsActive():
		return widget.MediumImportance
	case rep.Phase.IsFinished() && rep.ErrKind != model.KindNone:
		return widget.DangerImportance
	case rep.Phase.IsFinished():
		return widget.SuccessImportance
	default:
		return widget.LowImportance
	}
}

// loadThumbnail reads the image into a resource named per generation,
// so the fixed file path is never served from the image cache
func (ui *RootUI) loadThumbnail(gen uint64, path string) {
	ui.shownThumbnail = path
	data, err := os.ReadFile(path)
	if err != nil {
		ui.logger.Warn("failed to read thumbnail", "path", path, "error", err)
		return
	}
	ui.thumbnail.Resource = fyne.NewStaticResource(fmt.Sprintf("thumbnail-%d.jpg", gen), data)
	ui.thumbnail.Show()
	ui.thumbnail.Refresh()
}

func (ui *RootUI) refreshRecent() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recentTimeout)
		defer cancel()

		records, err := ui.ctrl.Recent(ctx, RecentEntries)
		if err != nil {
			ui.logger.Warn("failed to load recent downloads", "error", err)
			return
		}
		text := formatRecent(records, ui.localization.GetText(KeyRecent))
		fyne.Do(func() { ui.recentLabel.SetText(text) })
	}()
}

// formatRecent renders "Recent: a, b" or an empty string without records
func formatRecent(records []model.DownloadRecord, label string) string {
	if len(records) == 0 {
		return ""
	}
	titles := make([]string, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	return label + ": " + strings.Join(titles, RecentSeparator)
}

func (ui *RootUI) onLoad() {
	if err := ui.ctrl.Submit(ui.linkEntry.Text); err != nil {
		ui.logger.Error("failed to submit link", "error", err)
	}
}

func (ui *RootUI) onClear() {
	ui.linkEntry.SetText("")
	if err := ui.ctrl.Clear(); err != nil {
		ui.logger.Error("failed to clear", "error", err)
	}
}

func (ui *RootUI) onAudioOnlyChanged(checked bool) {
	if checked == ui.state.Options.AudioOnly {
		return
	}
	if err := ui.ctrl.SetAudioOnly(checked); err != nil {
		ui.logger.Error("failed to set audio only", "error", err)
	}
}

func (ui *RootUI) onQualityChanged(selected string) {
	if selected == "" || model.Quality(selected) == ui.state.Options.Quality {
		return
	}
	if err := ui.ctrl.SetQuality(model.Quality(selected)); err != nil {
		ui.logger.Error("failed to set quality", "error", err)
	}
}

func (ui *RootUI) onDownload() {
	err := ui.ctrl.StartDownload()
	switch {
	case err == nil:
	case errors.Is(err, status.ErrBusy):
		ui.showNotification(ui.localization.GetText(KeyAlreadyRunning))
	case errors.Is(err, app.ErrNotReady):
		ui.showNotification(ui.localization.GetText(KeyNothingToDownload))
	default:
		ui.logger.Error("failed to start download", "error", err)
		ui.showNotification(err.Error())
	}
}

func (ui *RootUI) onOpenFolder() {
	if err := ui.ctrl.OpenDownloadFolder(); err != nil {
		ui.logger.Error("failed to open download folder", "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningDir) + ": " + err.Error())
	}
}

func (ui *RootUI) openLink(url string) {
	if err := ui.ctrl.OpenLink(url); err != nil {
		ui.logger.Error("failed to open link", "url", url, "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningLink) + ": " + err.Error())
	}
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		ui.refresh()
		if ui.onSettingsSaved != nil {
			ui.onSettingsSaved()
		}
	})
}

// showNotification displays a message under the link entry and hides it after a while
func (ui *RootUI) showNotification(message string) {
	ui.notificationSeq++
	seq := ui.notificationSeq
	ui.notificationLabel.SetText(message)
	ui.notificationContainer.Show()

	time.AfterFunc(NotificationAutoHide, func() {
		fyne.Do(func() {
			if ui.notificationSeq == seq {
				ui.notificationContainer.Hide()
			}
		})
	})
}
