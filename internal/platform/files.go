package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
	WindowsCmdFlag  = "/c"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// Filename limits
const (
	MaxFileNameLength = 200
	FallbackFileName  = "download"
)

// invalidFileNameChars are replaced when a title becomes a file or directory name
var invalidFileNameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "'", "<", "_", ">", "_", "|", "_",
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// RemoveIfExists deletes a file, ignoring a missing one
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ReplaceExt swaps the extension of path for ext (ext includes the dot)
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// SanitizeFileName turns a title into a safe single path element
func SanitizeFileName(name string) string {
	cleaned := invalidFileNameChars.Replace(name)
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	if len(cleaned) > MaxFileNameLength {
		cleaned = strings.TrimSpace(truncateUTF8(cleaned, MaxFileNameLength))
	}
	if cleaned == "" {
		return FallbackFileName
	}
	return cleaned
}

func truncateUTF8(s string, max int) string {
	for i := range s {
		if i > max {
			return s[:prevRuneStart(s, max)]
		}
	}
	return s
}

func prevRuneStart(s string, limit int) int {
	last := 0
	for i := range s {
		if i > limit {
			break
		}
		last = i
	}
	return last
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// OpenFolder opens a directory in the system file manager, creating it first
func OpenFolder(dir string) error {
	if dir == "" {
		return fmt.Errorf("folder path is empty")
	}
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Start()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Start()
	case OSLinux:
		return openFolderLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFolderLinux tries xdg-open, then the common file managers
func openFolderLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Start(); err == nil {
		return nil
	}
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Start()
		}
	}
	return fmt.Errorf("no suitable file manager found")
}

// OpenURL opens a web link with the default browser
func OpenURL(link string) error {
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return fmt.Errorf("not a web link: %q", link)
	}
	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, link).Start()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", link).Start()
	default:
		return exec.Command(XDGOpenCommand, link).Start()
	}
}
