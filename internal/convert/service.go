package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg constants for audio transcoding
const (
	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioQuality = "2"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// ErrFFmpegMissing is returned when ffmpeg or ffprobe is not on PATH
var ErrFFmpegMissing = errors.New("ffmpeg not found")

// Service converts audio files with ffmpeg
type Service struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// NewService creates a converter using ffmpeg and ffprobe from PATH
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ffmpeg:  FFmpegCommand,
		ffprobe: FFprobeCommand,
		logger:  logger,
	}
}

// Available reports whether ffmpeg and ffprobe can be found
func (s *Service) Available() bool {
	if _, err := exec.LookPath(s.ffmpeg); err != nil {
		return false
	}
	_, err := exec.LookPath(s.ffprobe)
	return err == nil
}

// ToMP3 transcodes inputPath into outputPath. onProgress, when set, receives
// values in [0,1]. A partial output is removed on failure.
func (s *Service) ToMP3(ctx context.Context, inputPath, outputPath string, onProgress func(float64)) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	if !s.Available() {
		return ErrFFmpegMissing
	}

	duration, err := s.getDuration(ctx, inputPath)
	if err != nil {
		// progress is unknown but the transcode can still run
		s.logger.Warn("failed to get audio duration", "path", inputPath, "error", err)
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg, BuildFFmpegArgs(inputPath, outputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitorProgress(stderr, duration, onProgress)
	}()

	<-done
	err = cmd.Wait()
	if err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	if onProgress != nil {
		onProgress(1)
	}
	s.logger.Info("audio converted", "input", inputPath, "output", outputPath)
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",                            // Overwrite output file
		"-i", inputPath,                 // Input file
		"-vn",                           // Drop any video track
		"-c:a", AudioCodec,              // Audio codec
		"-q:a", AudioQuality,            // VBR quality
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",                      // No stats output
		outputPath,                      // Output file
	}
}

// getDuration gets the duration of a media file using ffprobe
func (s *Service) getDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg progress lines until r is drained
func monitorProgress(r io.Reader, totalDuration float64, onProgress func(float64)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		progress, ok := parseProgressLine(scanner.Text(), totalDuration)
		if ok && onProgress != nil {
			onProgress(progress)
		}
	}
}

// parseProgressLine parses out_time_us=123456 into a fraction of totalDuration seconds
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalDuration <= 0 {
		return 0, false
	}
	timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || timeMicroseconds < 0 {
		return 0, false
	}
	progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return progress, true
}
