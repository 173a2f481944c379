package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Quality selects the video resolution of a download
type Quality string

// QualityAuto requests the highest available resolution
const QualityAuto Quality = "Auto"

// Resolutions lists the selectable qualities in display order
var Resolutions = []Quality{
	QualityAuto,
	"144p",
	"240p",
	"360p",
	"480p",
	"720p",
	"1080p",
	"1440p",
	"2160p",
}

// Height returns the pixel height of the quality, 0 for Auto or unknown values
func (q Quality) Height() int {
	s := strings.TrimSuffix(string(q), "p")
	h, err := strconv.Atoi(s)
	if err != nil || h <= 0 {
		return 0
	}
	return h
}

// IsAuto reports whether no specific resolution was chosen
func (q Quality) IsAuto() bool {
	return q == "" || q == QualityAuto || q.Height() == 0
}

// ParseQuality accepts "720", "720p" or "auto" and returns a known quality
func ParseQuality(s string) (Quality, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" || s == "best" {
		return QualityAuto, nil
	}
	if !strings.HasSuffix(s, "p") {
		s += "p"
	}
	for _, q := range Resolutions {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality %q", s)
}

// DownloadOptions carries the user's choices for a download
type DownloadOptions struct {
	Quality   Quality
	AudioOnly bool
}

// DownloadJob represents the one in-flight download
type DownloadJob struct {
	ID        string
	Link      MediaLink
	Title     string // collection title, names the collection subdirectory
	Options   DownloadOptions
	OutputDir string
	StartedAt time.Time
}

// Progress is a byte-level progress update for the active job
type Progress struct {
	JobID      string
	FilePath   string // file currently being written
	ItemIndex  int    // 1-based index of the item being transferred
	ItemCount  int    // number of items being transferred
	Written    int64  // bytes written across the job
	Total      int64  // expected bytes across the job
	ItemBytes  int64  // bytes written for the current item
	ItemTotal  int64  // expected bytes for the current item
	StatusText string
}

// Fraction returns Written/Total clamped to [0,1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Written) / float64(p.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// FileName returns the base name of the file being written
func (p Progress) FileName() string {
	if p.FilePath == "" {
		return ""
	}
	return filepath.Base(p.FilePath)
}

// DownloadRecord describes one finished file for the download history
type DownloadRecord struct {
	JobID      string
	Link       string
	Title      string
	Collection string // collection title, empty for single items
	Path       string
	Bytes      int64
	AudioOnly  bool
	Quality    Quality
	FinishedAt time.Time
}
