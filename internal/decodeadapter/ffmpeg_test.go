package decodeadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtractArgsHardware(t *testing.T) {
	args := buildExtractArgs("/videos/a.mkv", 10, 15, 1920, 1080, true)
	assert.Contains(t, args, "-hwaccel")
	assert.Contains(t, args, "auto")
	assert.Contains(t, args, "/videos/a.mkv")
}

func TestBuildExtractArgsSoftwareOmitsHwaccel(t *testing.T) {
	args := buildExtractArgs("/videos/a.mkv", 10, 15, 1920, 1080, false)
	assert.NotContains(t, args, "-hwaccel")
}

func TestSplitFramesExactMultiple(t *testing.T) {
	frameSize := 2 * 2 * 4
	raw := make([]byte, frameSize*3)
	frames, err := splitFrames(raw, 5, 8, 2, 2)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, uint32(5), frames[0].Index)
	assert.Equal(t, uint32(7), frames[2].Index)
}

func TestSplitFramesRejectsPartialFrame(t *testing.T) {
	_, err := splitFrames(make([]byte, 10), 0, 1, 2, 2)
	assert.Error(t, err)
}

func TestExtractWindowRejectsInvalidGeometry(t *testing.T) {
	a := NewFFmpegAdapter()
	_, err := a.ExtractWindow(context.Background(), "/videos/a.mkv", 0, 10, 0, 1080)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
