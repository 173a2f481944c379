package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	AppIcon = "ytd.png"
)

// LoadLogoResource loads the logo next to the executable, falling back to the theme's download icon
func LoadLogoResource() fyne.Resource {
	res, err := fyne.LoadResourceFromPath(AppIcon)
	if err != nil {
		return theme.DownloadIcon()
	}
	return res
}
