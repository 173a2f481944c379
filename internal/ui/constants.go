package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconClose    = "×"
	IconMusic    = "🎵"
	IconClock    = "⏱"
	IconEye      = "👁"
	IconCalendar = "📅"
	IconList     = "☰"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	RecentSeparator     = ", "
)

// Window and layout sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 460

	ThumbnailWidth  float32 = 320
	ThumbnailHeight float32 = 180

	LogoSize float32 = 32

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360
)

// Notification behavior
const (
	NotificationAutoHide = 4 * time.Second
)

// RecentEntries is the number of finished downloads shown under the status line
const RecentEntries = 3
