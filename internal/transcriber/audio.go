package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

type audioFormat struct {
	ext  string
	mime string
	args []string
}

var (
	// 16kHz mono PCM, what whisper.cpp expects
	formatWAV = audioFormat{
		ext:  ".wav",
		mime: "audio/wav",
		args: []string{"-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le"},
	}
	// compact mono mp3 for upload size limits of hosted APIs
	formatMP3 = audioFormat{
		ext:  ".mp3",
		mime: "audio/mpeg",
		args: []string{"-ar", "16000", "-ac", "1", "-c:a", "libmp3lame", "-b:a", "32k"},
	}
)

type audioExtractor struct {
	ffmpeg   string
	tempDir  string
	executor executor.Executor
}

// extract writes the audio track of mediaPath into a private temp dir.
// The returned cleanup removes that dir and must always be called.
func (a *audioExtractor) extract(ctx context.Context, mediaPath string, format audioFormat) (string, func(), error) {
	if a.tempDir != "" {
		if err := os.MkdirAll(a.tempDir, 0755); err != nil {
			return "", func() {}, fmt.Errorf("create temp dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(a.tempDir, "transcribe-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(dir, stem+format.ext)

	args := []string{"-y", "-i", mediaPath, "-vn"}
	args = append(args, format.args...)
	args = append(args, audioPath)

	ffmpeg := a.ffmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if _, err := a.executor.Execute(ctx, ffmpeg, args...); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return audioPath, cleanup, nil
}
