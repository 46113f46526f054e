// Package decodeadapter extracts windows of decoded RGBA frames from a video
// file via an external decoder process.
package decodeadapter

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned synchronously, before any process is
// spawned, when width or height is zero.
var ErrInvalidGeometry = errors.New("decodeadapter: width and height must be non-zero")

// WindowFrame is one decoded frame within a requested window, tagged with
// its absolute frame index.
type WindowFrame struct {
	Index uint32
	RGBA  []byte
}

// Adapter extracts a contiguous window of frames, [start, endInclusive], as
// RGBA buffers. Implementations return an error for invalid geometry and
// when the decode itself fails; the cache treats such an error like an
// empty result and never passes it on, per its liveness guarantee that
// GetFrame never returns an error to its caller.
type Adapter interface {
	ExtractWindow(ctx context.Context, path string, start, endInclusive, width, height uint32) ([]WindowFrame, error)
}

func validateGeometry(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGeometry, width, height)
	}
	return nil
}
