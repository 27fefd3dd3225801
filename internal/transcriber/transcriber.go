package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Transcribe runs the backend and substitutes text for every failure mode:
// errors and panics become an error description, silence becomes NoSpeechText.
func (t *implTranscriber) Transcribe(ctx context.Context, mediaPath string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error(ctx, "Transcriber %s panicked on %s: %v", t.backend.Name(), mediaPath, r)
			text = failureText(fmt.Errorf("panic: %v", r))
		}
	}()

	t.logger.Info(ctx, "Transcribing %s with %s", mediaPath, t.backend.Name())
	start := time.Now()

	raw, err := t.backend.Transcribe(ctx, mediaPath)
	if err != nil {
		t.logger.Error(ctx, "Transcription failed for %s after %s: %v", mediaPath, time.Since(start), err)
		return failureText(err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.logger.Info(ctx, "No speech detected in %s", mediaPath)
		return NoSpeechText
	}

	t.logger.Info(ctx, "Transcription completed in %s: %d characters", time.Since(start), len(raw))
	return raw
}

func failureText(err error) string {
	return fmt.Sprintf("Transcription failed: %v", err)
}
