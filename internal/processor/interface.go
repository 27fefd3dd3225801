package processor

import "context"

// Processor runs the per-file pipeline: validate, probe, prepare output,
// convert, transcribe, persist, then clean up or leave an error note.
type Processor interface {
	// Process never panics and never returns an error: every failure is
	// classified in the returned Outcome and evidenced on disk.
	Process(ctx context.Context, sourcePath string) Outcome
}
