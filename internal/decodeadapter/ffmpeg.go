package decodeadapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/five82/framecached/internal/emptyframe"
	"golang.org/x/sync/semaphore"
)

const ffmpegBinary = "ffmpeg"

// hwSemaphore serializes hardware-accelerated decode attempts across every
// FFmpegAdapter in the process, matching the spec's note that the
// single-decoder path serializes hardware access.
var hwSemaphore = semaphore.NewWeighted(1)

// FFmpegAdapter extracts frame windows by shelling out to ffmpeg, trying a
// hardware decode path first and falling back to software on failure.
type FFmpegAdapter struct {
	binary string
}

// NewFFmpegAdapter creates an adapter invoking the ffmpeg binary found on
// PATH.
func NewFFmpegAdapter() *FFmpegAdapter {
	return &FFmpegAdapter{binary: ffmpegBinary}
}

// IsFFmpegAvailable checks if ffmpeg is available in PATH.
func IsFFmpegAvailable() bool {
	_, err := exec.LookPath(ffmpegBinary)
	return err == nil
}

// ExtractWindow decodes frames [start, endInclusive] as RGBA, trying
// hardware acceleration first and falling back to software decode. A
// success with zero frames is substituted with a single empty frame at
// start, matching the EmptyResult handling in the error-handling design.
func (a *FFmpegAdapter) ExtractWindow(ctx context.Context, path string, start, endInclusive, width, height uint32) ([]WindowFrame, error) {
	if err := validateGeometry(width, height); err != nil {
		return nil, err
	}

	endExclusive := endInclusive + 1

	if err := hwSemaphore.Acquire(ctx, 1); err == nil {
		frames, hwErr := a.extractFrames(ctx, path, start, endExclusive, width, height, true)
		hwSemaphore.Release(1)
		if hwErr == nil {
			return substituteEmpty(frames, start, width, height), nil
		}

		frames, swErr := a.extractFrames(ctx, path, start, endExclusive, width, height, false)
		if swErr != nil {
			return nil, fmt.Errorf("hwaccel failed: %v; software failed: %w", hwErr, swErr)
		}
		return substituteEmpty(frames, start, width, height), nil
	}

	// Context cancelled while waiting on the hardware semaphore: fall
	// straight through to software decode rather than failing outright.
	frames, swErr := a.extractFrames(ctx, path, start, endExclusive, width, height, false)
	if swErr != nil {
		return nil, fmt.Errorf("software failed: %w", swErr)
	}
	return substituteEmpty(frames, start, width, height), nil
}

func substituteEmpty(frames []WindowFrame, start, width, height uint32) []WindowFrame {
	if len(frames) > 0 {
		return frames
	}
	return []WindowFrame{{Index: start, RGBA: emptyframe.Generate(width, height)}}
}

func (a *FFmpegAdapter) extractFrames(ctx context.Context, path string, start, endExclusive, width, height uint32, hwaccel bool) ([]WindowFrame, error) {
	args := buildExtractArgs(path, start, endExclusive, width, height, hwaccel)
	cmd := exec.CommandContext(ctx, a.binary, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg (hwaccel=%v): %w: %s", hwaccel, err, stderr.String())
	}

	return splitFrames(stdout.Bytes(), start, endExclusive, width, height)
}

// buildExtractArgs constructs the ffmpeg argument list for decoding a frame
// range to raw RGBA on stdout, separated from command construction the way
// the teacher's encoder package separates buildSvtArgs from MakeSvtCmd.
func buildExtractArgs(path string, start, endExclusive, width, height uint32, hwaccel bool) []string {
	args := []string{}
	if hwaccel {
		args = append(args, "-hwaccel", "auto")
	}
	args = append(args,
		"-i", path,
		"-vf", fmt.Sprintf("select='between(n\\,%d\\,%d)',scale=%d:%d", start, endExclusive-1, width, height),
		"-vsync", "0",
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"-",
	)
	return args
}

// splitFrames slices a raw RGBA byte stream into per-frame buffers, tagging
// each with its absolute index in [start, endExclusive).
func splitFrames(raw []byte, start, endExclusive, width, height uint32) ([]WindowFrame, error) {
	frameSize := int(width) * int(height) * 4
	if frameSize == 0 {
		return nil, fmt.Errorf("invalid frame size for %dx%d", width, height)
	}
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("ffmpeg output %d bytes is not a multiple of frame size %d", len(raw), frameSize)
	}

	count := len(raw) / frameSize
	maxCount := int(endExclusive - start)
	if count > maxCount {
		count = maxCount
	}

	frames := make([]WindowFrame, 0, count)
	r := bytes.NewReader(raw)
	for i := 0; i < count; i++ {
		buf := make([]byte, frameSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", i, err)
		}
		frames = append(frames, WindowFrame{Index: start + uint32(i), RGBA: buf})
	}
	return frames, nil
}
