package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".webm": true,
	".avi": true, ".mov": true, ".m4v": true,
	".ts": true, ".flv": true,
}

// IsVideoFile reports whether path has a recognized video file extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// FormatBytesReadable renders a byte count as a human-readable size, e.g. "1.5 GB".
func FormatBytesReadable(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}
