// Package convert transcodes downloaded audio with ffmpeg, reporting progress
// from ffmpeg's machine-readable progress output.
package convert
