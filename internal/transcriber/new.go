package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

type implTranscriber struct {
	backend Backend
	logger  logger.Logger
}

// New wraps backend so that it never fails the caller's flow
func New(backend Backend, log logger.Logger) Transcriber {
	return &implTranscriber{
		backend: backend,
		logger:  log,
	}
}

// NewBackend builds the backend selected by cfg.Transcription.Provider.
// It is meant to be called once at startup and the result shared by every run.
func NewBackend(cfg *config.Config, exec executor.Executor, log logger.Logger) (Backend, error) {
	audio := &audioExtractor{
		ffmpeg:   cfg.FFmpeg.BinaryPath,
		tempDir:  cfg.Paths.Temp,
		executor: exec,
	}
	tc := cfg.Transcription

	switch tc.Provider {
	case config.ProviderWhisperCpp:
		return newWhisperCppBackend(tc.Whisper, tc.Language, audio, exec, log)
	case config.ProviderOpenAI:
		if tc.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return newOpenAIBackend(tc.OpenAI, tc.Language, audio, log), nil
	case config.ProviderGemini:
		if len(tc.Gemini.APIKeys) == 0 {
			return nil, fmt.Errorf("at least one Gemini API key required")
		}
		return newGeminiBackend(tc.Gemini, tc.Language, audio, log), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", tc.Provider)
	}
}
