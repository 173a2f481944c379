package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// UploadDateLayout is the compact date layout used by extractor metadata (YYYYMMDD)
const UploadDateLayout = "20060102"

// FormatDuration renders seconds as H:MM:SS; hours are not bounded
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// ParseDuration parses H:MM:SS (or MM:SS) back into seconds
func ParseDuration(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total int64
	for i, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid duration %q: field out of range", s)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatViews renders a view count with comma thousands separators
func FormatViews(views int64) string {
	return humanize.Comma(views)
}

// FormatBytes renders a byte count for people (e.g. "12 MB")
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// ParseUploadDate parses a YYYYMMDD date in UTC
func ParseUploadDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty upload date")
	}
	t, err := time.ParseInLocation(UploadDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse upload date %q: %w", s, err)
	}
	return t, nil
}

// RelativeDate describes how long ago published was, relative to now.
// Whole calendar years are preferred, then whole months, then days.
func RelativeDate(published, now time.Time) string {
	from := truncateDay(published)
	to := truncateDay(now.In(published.Location()))
	if !from.Before(to) {
		return plural(0, "day")
	}

	years := to.Year() - from.Year()
	if from.AddDate(years, 0, 0).After(to) {
		years--
	}
	if years > 0 {
		return plural(years, "year")
	}

	months := int(to.Month()) - int(from.Month()) + 12*(to.Year()-from.Year())
	if from.AddDate(0, months, 0).After(to) {
		months--
	}
	if months > 0 {
		return plural(months, "month")
	}

	days := int(to.Sub(from).Hours() / 24)
	return plural(days, "day")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago.", unit)
	}
	return fmt.Sprintf("%d %ss ago.", n, unit)
}
