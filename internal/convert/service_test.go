package convert

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/in.m4a", "/out.mp3")

	expectedArgs := []string{
		"-y",
		"-i", "/in.m4a",
		"-vn",
		"-c:a", AudioCodec,
		"-q:a", AudioQuality,
		"-progress", "pipe:2",
		"-nostats",
		"/out.mp3",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}
	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		duration float64
		want     float64
		ok       bool
	}{
		{name: "half", line: "out_time_us=5000000", duration: 10, want: 0.5, ok: true},
		{name: "clamped", line: "out_time_us=20000000", duration: 10, want: 1, ok: true},
		{name: "padded", line: "  out_time_us=1000000 ", duration: 4, want: 0.25, ok: true},
		{name: "other key", line: "frame=10", duration: 10},
		{name: "unknown duration", line: "out_time_us=1000", duration: 0},
		{name: "garbage value", line: "out_time_us=N/A", duration: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProgressLine(tt.line, tt.duration)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseProgressLine(%q) = (%v, %v), want (%v, %v)", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMonitorProgress(t *testing.T) {
	input := strings.Join([]string{
		"frame=1",
		"out_time_us=1000000",
		"out_time_us=2000000",
		"progress=end",
	}, "\n")

	var got []float64
	monitorProgress(strings.NewReader(input), 4, func(p float64) { got = append(got, p) })
	if len(got) != 2 || got[0] != 0.25 || got[1] != 0.5 {
		t.Errorf("progress values = %v", got)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("212.345000\n")
	if err != nil || d != 212.345 {
		t.Errorf("parseDuration = %v, %v", d, err)
	}
	if _, err := parseDuration("N/A"); err == nil {
		t.Error("expected error")
	}
}

func TestToMP3MissingInput(t *testing.T) {
	s := NewService(nil)
	err := s.ToMP3(context.Background(), filepath.Join(t.TempDir(), "missing.m4a"), "/tmp/out.mp3", nil)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
