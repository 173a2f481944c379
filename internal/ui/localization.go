package ui

import (
	"os"
	"strings"

	"github.com/ytget/ytd/internal/model"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyLoad              = "load"
	KeyClear             = "clear"
	KeyDownload          = "download"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyTranscodeAudio    = "transcode_audio"
	KeyAutoReveal        = "auto_reveal"
	KeyDownloadSettings  = "download_settings"
	KeyInterfaceSettings = "interface_settings"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyAudioOnly         = "audio_only"
	KeyQuality           = "quality"
	KeyItems             = "items"
	KeyRecent            = "recent"
	KeyAlreadyRunning    = "already_running"
	KeyNothingToDownload = "nothing_to_download"
	KeyErrorOpeningDir   = "error_opening_dir"
	KeyErrorOpeningLink  = "error_opening_link"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language; "system" picks the language of $LANG when supported
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); len(v) >= 2 {
			return strings.ToLower(v[:2])
		}
	}
	return "en"
}

// initializeTexts initializes all text translations.
// Status texts are keyed by their English wording and fall back to it.
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Downloader",
		KeyLoad:              "Load",
		KeyClear:             "Clear",
		KeyDownload:          "Download",
		KeyOpenFolder:        "Open folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyTranscodeAudio:    "Convert audio to MP3 with ffmpeg",
		KeyAutoReveal:        "Open folder when a download completes",
		KeyDownloadSettings:  "Download Settings",
		KeyInterfaceSettings: "Interface Settings",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter video or playlist URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyAudioOnly:         "Audio only",
		KeyQuality:           "Quality",
		KeyItems:             "items",
		KeyRecent:            "Recent",
		KeyAlreadyRunning:    "A download is already in progress",
		KeyNothingToDownload: "Load a link first",
		KeyErrorOpeningDir:   "Error opening folder",
		KeyErrorOpeningLink:  "Error opening link",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Загрузчик",
		KeyLoad:              "Загрузить",
		KeyClear:             "Очистить",
		KeyDownload:          "Скачать",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyTranscodeAudio:    "Конвертировать аудио в MP3 через ffmpeg",
		KeyAutoReveal:        "Открывать папку после загрузки",
		KeyDownloadSettings:  "Настройки загрузки",
		KeyInterfaceSettings: "Настройки интерфейса",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL видео или плейлиста (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyAudioOnly:         "Только аудио",
		KeyQuality:           "Качество",
		KeyItems:             "видео",
		KeyRecent:            "Недавние",
		KeyAlreadyRunning:    "Загрузка уже выполняется",
		KeyNothingToDownload: "Сначала загрузите ссылку",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
		KeyErrorOpeningLink:  "Ошибка открытия ссылки",

		model.StatusIdle:         "Ожидание.",
		model.StatusReady:        "Готово к работе.",
		model.StatusLoading:      "Загрузка информации...",
		model.StatusDone:         "Готово.",
		model.StatusUnavailable:  "Это видео недоступно!",
		model.StatusInvalidLink:  "Неверная ссылка.",
		model.StatusStarting:     "Начало загрузки...",
		model.StatusDownloadDone: "Загрузка завершена.",
		model.StatusNoStream:     "Не удалось получить поток.",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Downloader",
		KeyLoad:              "Carregar",
		KeyClear:             "Limpar",
		KeyDownload:          "Baixar",
		KeyOpenFolder:        "Abrir pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyTranscodeAudio:    "Converter áudio para MP3 com ffmpeg",
		KeyAutoReveal:        "Abrir pasta ao concluir o download",
		KeyDownloadSettings:  "Configurações de Download",
		KeyInterfaceSettings: "Configurações de Interface",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite a URL do vídeo ou playlist (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyAudioOnly:         "Somente áudio",
		KeyQuality:           "Qualidade",
		KeyItems:             "vídeos",
		KeyRecent:            "Recentes",
		KeyAlreadyRunning:    "Um download já está em andamento",
		KeyNothingToDownload: "Carregue um link primeiro",
		KeyErrorOpeningDir:   "Erro ao abrir pasta",
		KeyErrorOpeningLink:  "Erro ao abrir link",

		model.StatusIdle:         "Ocioso.",
		model.StatusReady:        "Pronto.",
		model.StatusLoading:      "Carregando informações...",
		model.StatusDone:         "Concluído.",
		model.StatusUnavailable:  "Este vídeo não está disponível!",
		model.StatusInvalidLink:  "Link inválido.",
		model.StatusStarting:     "Iniciando download...",
		model.StatusDownloadDone: "Download concluído.",
		model.StatusNoStream:     "Não foi possível obter o stream.",
	}
}
