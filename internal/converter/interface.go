package converter

import "context"

// Converter transcodes a source media file into the playback container/codec pair.
// It does not verify its own output; callers check existence, size and audio.
type Converter interface {
	Convert(ctx context.Context, sourcePath, targetPath string) error
}
