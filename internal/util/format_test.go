package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("movie.mkv"))
	assert.True(t, IsVideoFile("MOVIE.MP4"))
	assert.False(t, IsVideoFile("notes.txt"))
	assert.False(t, IsVideoFile("noextension"))
}

func TestFormatBytesReadable(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytesReadable(512))
	assert.Equal(t, "1.0 KB", FormatBytesReadable(1024))
	assert.Equal(t, "1.5 MB", FormatBytesReadable(1536*1024))
	assert.Equal(t, "2.0 GB", FormatBytesReadable(2<<30))
}
