package model

import "testing"

func TestQuality_Height(t *testing.T) {
	tests := []struct {
		quality  Quality
		expected int
	}{
		{QualityAuto, 0},
		{"", 0},
		{"144p", 144},
		{"720p", 720},
		{"2160p", 2160},
		{"garbage", 0},
	}

	for _, test := range tests {
		if got := test.quality.Height(); got != test.expected {
			t.Errorf("Quality(%q).Height() = %d, expected %d", test.quality, got, test.expected)
		}
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Quality
		wantErr  bool
	}{
		{name: "empty is auto", input: "", expected: QualityAuto},
		{name: "auto keyword", input: "Auto", expected: QualityAuto},
		{name: "best keyword", input: "best", expected: QualityAuto},
		{name: "bare height", input: "720", expected: "720p"},
		{name: "with suffix", input: "1080p", expected: "1080p"},
		{name: "unknown height", input: "999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuality(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseQuality(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestProgress_Fraction(t *testing.T) {
	tests := []struct {
		name     string
		written  int64
		total    int64
		expected float64
	}{
		{name: "unknown total", written: 10, total: 0, expected: 0},
		{name: "half", written: 50, total: 100, expected: 0.5},
		{name: "complete", written: 100, total: 100, expected: 1},
		{name: "clamped above", written: 150, total: 100, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress{Written: tt.written, Total: tt.total}
			if got := p.Fraction(); got != tt.expected {
				t.Errorf("Fraction() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestProgress_FileName(t *testing.T) {
	p := Progress{FilePath: "/downloads/list/Song.mp3"}
	if got := p.FileName(); got != "Song.mp3" {
		t.Errorf("FileName() = %q, expected %q", got, "Song.mp3")
	}
	if got := (Progress{}).FileName(); got != "" {
		t.Errorf("FileName() on empty progress = %q, expected empty", got)
	}
}
