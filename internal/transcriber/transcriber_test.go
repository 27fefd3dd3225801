package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

type fakeBackend struct {
	text  string
	err   error
	panic bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	if f.panic {
		panic("model exploded")
	}
	return f.text, f.err
}

// fakeExecutor records calls; ffmpeg calls create their output file so later steps can read it.
type fakeExecutor struct {
	mu     sync.Mutex
	calls  [][]string
	stdout map[string]string
	errs   map[string]error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if err := f.errs[name]; err != nil {
		return "", err
	}
	if name == "ffmpeg" && len(args) > 0 {
		if err := os.WriteFile(args[len(args)-1], []byte("audio"), 0644); err != nil {
			return "", err
		}
	}
	return f.stdout[name], nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func TestTranscribeNeverFails(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		want    string
	}{
		{"speech", &fakeBackend{text: "  hello world \n"}, "hello world"},
		{"silence", &fakeBackend{text: ""}, NoSpeechText},
		{"whitespace only", &fakeBackend{text: " \n\t"}, NoSpeechText},
		{"backend error", &fakeBackend{err: errors.New("model not loaded")}, "Transcription failed: model not loaded"},
		{"backend panic", &fakeBackend{panic: true}, "Transcription failed: panic: model exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.backend, logger.Nop())
			assert.Equal(t, tt.want, tr.Transcribe(context.Background(), "/share/clip/clip.mp4"))
		})
	}
}

func TestCleanWhisperOutput(t *testing.T) {
	out := " [BLANK_AUDIO]\n Hello there.\n\n  General Kenobi. \n"
	assert.Equal(t, "Hello there.\nGeneral Kenobi.", cleanWhisperOutput(out))
	assert.Equal(t, "", cleanWhisperOutput(" [BLANK_AUDIO]\n"))
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-base.bin")
	require.NoError(t, os.WriteFile(path, []byte("model"), 0644))
	return path
}

func TestWhisperCppBackend(t *testing.T) {
	exec := &fakeExecutor{stdout: map[string]string{"whisper-cli": " Hello from the clip.\n"}}
	temp := t.TempDir()
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: temp, executor: exec}

	b, err := newWhisperCppBackend(config.WhisperConfig{
		ModelPath:  writeModel(t),
		BinaryPath: "whisper-cli",
		Threads:    8,
		Prompt:     "standup meeting",
	}, "en", audio, exec, logger.Nop())
	require.NoError(t, err)

	text, err := b.Transcribe(context.Background(), "/share/clip/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "Hello from the clip.", text)

	require.Len(t, exec.calls, 2)
	ffmpeg := exec.calls[0]
	assert.Equal(t, "ffmpeg", ffmpeg[0])
	assert.Contains(t, ffmpeg, "pcm_s16le")
	assert.True(t, strings.HasSuffix(ffmpeg[len(ffmpeg)-1], "clip.wav"))

	whisper := exec.calls[1]
	assert.Equal(t, "whisper-cli", whisper[0])
	assert.Contains(t, whisper, "-nt")
	assert.Contains(t, whisper, "standup meeting")
	assert.Contains(t, whisper, "8")

	entries, err := os.ReadDir(temp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp audio should be removed")
}

func TestWhisperCppBackendMissingModel(t *testing.T) {
	_, err := newWhisperCppBackend(config.WhisperConfig{ModelPath: "/nonexistent/model.bin"}, "en", &audioExtractor{}, &fakeExecutor{}, logger.Nop())
	require.Error(t, err)
}

func TestWhisperCppBackendExtractFailure(t *testing.T) {
	exec := &fakeExecutor{errs: map[string]error{"ffmpeg": errors.New("no audio")}}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b, err := newWhisperCppBackend(config.WhisperConfig{ModelPath: writeModel(t), BinaryPath: "whisper-cli"}, "", audio, exec, logger.Nop())
	require.NoError(t, err)

	_, err = b.Transcribe(context.Background(), "clip.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg extract audio")
	assert.Len(t, exec.calls, 1)
}

func TestOpenAIBackend(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"transcribed by api"}`))
	}))
	defer srv.Close()

	exec := &fakeExecutor{}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b := newOpenAIBackend(config.OpenAIConfig{APIKey: "sk-test", Model: "whisper-1", BaseURL: srv.URL + "/v1"}, "auto", audio, logger.Nop())

	text, err := b.Transcribe(context.Background(), "/share/clip/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "transcribed by api", text)
	assert.Equal(t, "/v1/audio/transcriptions", gotPath)
	assert.Equal(t, "", b.language)
}

func TestOpenAIBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	exec := &fakeExecutor{}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b := newOpenAIBackend(config.OpenAIConfig{APIKey: "sk-bad", Model: "whisper-1", BaseURL: srv.URL + "/v1"}, "en", audio, logger.Nop())

	tr := New(b, logger.Nop())
	assert.True(t, strings.HasPrefix(tr.Transcribe(context.Background(), "clip.mp4"), "Transcription failed: "))
}

func TestGeminiKeyRotation(t *testing.T) {
	exec := &fakeExecutor{}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b := newGeminiBackend(config.GeminiConfig{APIKeys: []string{"k1", "k2", "k3"}, Model: "gemini-2.5-flash"}, "en", audio, logger.Nop())

	var keys []string
	b.generate = func(ctx context.Context, apiKey, model, prompt string, data []byte, mimeType string) (string, error) {
		keys = append(keys, apiKey)
		assert.Equal(t, "audio/mpeg", mimeType)
		assert.Equal(t, []byte("audio"), data)
		assert.Contains(t, prompt, "The spoken language is en.")
		if apiKey != "k3" {
			return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return "from gemini", nil
	}

	text, err := b.Transcribe(context.Background(), "/share/clip/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "from gemini", text)
	assert.Equal(t, []string{"k1", "k2", "k3"}, keys)
	assert.Equal(t, 2, b.currentKey)
}

func TestGeminiAllKeysExhausted(t *testing.T) {
	exec := &fakeExecutor{}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b := newGeminiBackend(config.GeminiConfig{APIKeys: []string{"k1", "k2"}}, "", audio, logger.Nop())

	calls := 0
	b.generate = func(ctx context.Context, apiKey, model, prompt string, data []byte, mimeType string) (string, error) {
		calls++
		return "", errQuota
	}

	_, err := b.Transcribe(context.Background(), "clip.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all API keys exhausted")
	assert.Equal(t, 2, calls)
}

func TestGeminiNonQuotaErrorStops(t *testing.T) {
	exec := &fakeExecutor{}
	audio := &audioExtractor{ffmpeg: "ffmpeg", tempDir: t.TempDir(), executor: exec}
	b := newGeminiBackend(config.GeminiConfig{APIKeys: []string{"k1", "k2"}}, "", audio, logger.Nop())

	calls := 0
	b.generate = func(ctx context.Context, apiKey, model, prompt string, data []byte, mimeType string) (string, error) {
		calls++
		return "", errors.New("invalid argument")
	}

	_, err := b.Transcribe(context.Background(), "clip.mp4")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Whisper.ModelPath = writeModel(t)

	b, err := NewBackend(cfg, &fakeExecutor{}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.ProviderWhisperCpp, b.Name())

	cfg.Transcription.Provider = config.ProviderOpenAI
	cfg.Transcription.OpenAI.APIKey = ""
	_, err = NewBackend(cfg, &fakeExecutor{}, logger.Nop())
	require.Error(t, err)

	cfg.Transcription.Provider = config.ProviderGemini
	cfg.Transcription.Gemini.APIKeys = []string{"k"}
	b, err = NewBackend(cfg, &fakeExecutor{}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGemini, b.Name())

	cfg.Transcription.Provider = "nope"
	_, err = NewBackend(cfg, &fakeExecutor{}, logger.Nop())
	require.Error(t, err)
}
