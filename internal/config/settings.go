package config

import (
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyQuality            = "video_quality"
	KeyAudioOnly          = "audio_only"
	KeyLanguage           = "app_language"
	KeyTranscodeAudio     = "transcode_audio"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultDownloadDirName    = "YTDownloads"
	DefaultQuality            = model.QualityAuto
	DefaultAudioOnly          = false
	DefaultLanguage           = "system"
	DefaultTranscodeAudio     = false
	DefaultAutoRevealComplete = false
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir := DefaultDownloadDirectory()
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// DefaultDownloadDirectory returns ~/Downloads/YTDownloads, or ./YTDownloads without a home
func DefaultDownloadDirectory() string {
	downloads, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return DefaultDownloadDirName
	}
	return filepath.Join(downloads, DefaultDownloadDirName)
}

// GetQuality returns the selected video quality
func (s *Settings) GetQuality() model.Quality {
	q, err := model.ParseQuality(s.app.Preferences().String(KeyQuality))
	if err != nil {
		s.SetQuality(DefaultQuality)
		return DefaultQuality
	}
	return q
}

// SetQuality sets the video quality
func (s *Settings) SetQuality(q model.Quality) {
	s.app.Preferences().SetString(KeyQuality, string(q))
}

// GetQualityOptions returns the selectable qualities
func (s *Settings) GetQualityOptions() []model.Quality {
	return model.Resolutions
}

// GetAudioOnly returns whether downloads fetch audio only
func (s *Settings) GetAudioOnly() bool {
	return s.app.Preferences().BoolWithFallback(KeyAudioOnly, DefaultAudioOnly)
}

// SetAudioOnly sets whether downloads fetch audio only
func (s *Settings) SetAudioOnly(audioOnly bool) {
	s.app.Preferences().SetBool(KeyAudioOnly, audioOnly)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetTranscodeAudio returns whether audio downloads are transcoded with ffmpeg
func (s *Settings) GetTranscodeAudio() bool {
	return s.app.Preferences().BoolWithFallback(KeyTranscodeAudio, DefaultTranscodeAudio)
}

// SetTranscodeAudio sets whether audio downloads are transcoded with ffmpeg
func (s *Settings) SetTranscodeAudio(enabled bool) {
	s.app.Preferences().SetBool(KeyTranscodeAudio, enabled)
}

// GetAutoRevealOnComplete returns whether to open the download folder after a download
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the download folder after a download
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}
