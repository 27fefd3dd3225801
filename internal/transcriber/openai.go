package transcriber

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

type openAIBackend struct {
	client   *openai.Client
	model    string
	language string
	audio    *audioExtractor
	logger   logger.Logger
}

func newOpenAIBackend(cfg config.OpenAIConfig, language string, audio *audioExtractor, log logger.Logger) *openAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	// the API expects ISO-639-1 or nothing
	if language == "auto" {
		language = ""
	}
	return &openAIBackend{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: language,
		audio:    audio,
		logger:   log,
	}
}

func (b *openAIBackend) Name() string { return config.ProviderOpenAI }

func (b *openAIBackend) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	audioPath, cleanup, err := b.audio.extract(ctx, mediaPath, formatMP3)
	if err != nil {
		return "", err
	}
	defer cleanup()

	resp, err := b.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    b.model,
		FilePath: audioPath,
		Language: b.language,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	b.logger.Debug(ctx, "OpenAI returned %d characters for %s", len(resp.Text), mediaPath)
	return resp.Text, nil
}
