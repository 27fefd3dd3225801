package probe

import "context"

// Probe inspects media stream metadata without decoding the file
type Probe interface {
	// HasAudio reports whether path carries at least one audio stream.
	// It never fails: any inspection error is logged and reported as false.
	HasAudio(ctx context.Context, path string) bool
}
