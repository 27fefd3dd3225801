package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

const geminiPrompt = `Transcribe the spoken words in this audio verbatim.
Return only the transcript as plain text, without timestamps, speaker labels or commentary.
If the audio contains no speech, return an empty response.`

// errQuota marks responses that should move on to the next API key.
var errQuota = errors.New("gemini quota exhausted")

type generateFunc func(ctx context.Context, apiKey, model, prompt string, audio []byte, mimeType string) (string, error)

type geminiBackend struct {
	apiKeys  []string
	model    string
	language string
	audio    *audioExtractor
	generate generateFunc
	logger   logger.Logger

	mu         sync.Mutex
	currentKey int
}

func newGeminiBackend(cfg config.GeminiConfig, language string, audio *audioExtractor, log logger.Logger) *geminiBackend {
	return &geminiBackend{
		apiKeys:  cfg.APIKeys,
		model:    cfg.Model,
		language: language,
		audio:    audio,
		generate: geminiGenerate,
		logger:   log,
	}
}

func (b *geminiBackend) Name() string { return config.ProviderGemini }

func (b *geminiBackend) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	audioPath, cleanup, err := b.audio.extract(ctx, mediaPath, formatMP3)
	if err != nil {
		return "", err
	}
	defer cleanup()

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read extracted audio: %w", err)
	}

	prompt := geminiPrompt
	if b.language != "" && b.language != "auto" {
		prompt += "\nThe spoken language is " + b.language + "."
	}

	return b.callWithRotation(ctx, prompt, data, formatMP3.mime)
}

// callWithRotation tries each key at most once, rotating on quota errors.
func (b *geminiBackend) callWithRotation(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	var lastErr error

	for range len(b.apiKeys) {
		idx, key := b.key()

		text, err := b.generate(ctx, key, b.model, prompt, data, mimeType)
		if err == nil {
			return text, nil
		}
		if !isQuotaError(err) {
			return "", fmt.Errorf("generate content: %w", err)
		}

		b.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
		b.rotate(idx)
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (b *geminiBackend) key() (int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentKey, b.apiKeys[b.currentKey]
}

// rotate advances past idx unless a concurrent run already did.
func (b *geminiBackend) rotate(idx int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentKey == idx {
		b.currentKey = (b.currentKey + 1) % len(b.apiKeys)
	}
}

func isQuotaError(err error) bool {
	if errors.Is(err, errQuota) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func geminiGenerate(ctx context.Context, apiKey, model, prompt string, audio []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	if content := result.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}
	return text.String(), nil
}
