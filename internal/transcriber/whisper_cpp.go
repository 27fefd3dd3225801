package transcriber

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/videotranscoder/internal/config"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

// whisper.cpp marks silent windows with this token
const blankAudioToken = "[BLANK_AUDIO]"

type whisperCppBackend struct {
	binary    string
	modelPath string
	language  string
	prompt    string
	threads   int
	audio     *audioExtractor
	executor  executor.Executor
	logger    logger.Logger
}

func newWhisperCppBackend(cfg config.WhisperConfig, language string, audio *audioExtractor, exec executor.Executor, log logger.Logger) (*whisperCppBackend, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model %s: %w", cfg.ModelPath, err)
	}
	if language == "" {
		language = "auto"
	}
	return &whisperCppBackend{
		binary:    cfg.BinaryPath,
		modelPath: cfg.ModelPath,
		language:  language,
		prompt:    cfg.Prompt,
		threads:   cfg.Threads,
		audio:     audio,
		executor:  exec,
		logger:    log,
	}, nil
}

func (b *whisperCppBackend) Name() string { return config.ProviderWhisperCpp }

func (b *whisperCppBackend) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	wavPath, cleanup, err := b.audio.extract(ctx, mediaPath, formatWAV)
	if err != nil {
		return "", err
	}
	defer cleanup()

	// -nt: no timestamps, -np: no progress; stdout is then the bare transcript
	args := []string{
		"-m", b.modelPath,
		"-l", b.language,
		"-nt",
		"-np",
		"-f", wavPath,
	}
	if b.threads > 0 {
		args = append(args, "-t", strconv.Itoa(b.threads))
	}
	if b.prompt != "" {
		args = append(args, "--prompt", b.prompt)
	}

	b.logger.Debug(ctx, "whisper-cli args: %v", args)
	out, err := b.executor.Execute(ctx, b.binary, args...)
	if err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	return cleanWhisperOutput(out), nil
}

func cleanWhisperOutput(out string) string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, blankAudioToken, ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
