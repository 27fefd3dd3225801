package transcriber

import "context"

// NoSpeechText is the transcript written when the audio decodes but contains no speech.
const NoSpeechText = "No speech detected in the audio."

// Transcriber turns a media file's audio track into text. It never fails:
// backend errors come back as descriptive text so the caller can still persist a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) string
}

// Backend is one speech-to-text engine. Unlike Transcriber it reports errors.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}
