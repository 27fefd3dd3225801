package probe

import (
	"context"
	"encoding/json"
	"fmt"
)

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

// HasAudio asks ffprobe for the audio streams of path.
// -select_streams a limits the listing to audio, so only container headers are read.
func (p *implProbe) HasAudio(ctx context.Context, path string) bool {
	args := []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index,codec_type,codec_name",
		"-of", "json",
		path,
	}

	out, err := p.executor.Execute(ctx, p.binary, args...)
	if err != nil {
		p.logger.Warn(ctx, "Probe failed for %s, treating as no audio: %v", path, err)
		return false
	}

	streams, err := parseStreams(out)
	if err != nil {
		p.logger.Warn(ctx, "Probe output unreadable for %s, treating as no audio: %v", path, err)
		return false
	}

	for _, s := range streams {
		if s.CodecType == "audio" {
			p.logger.Debug(ctx, "Audio stream found in %s: #%d %s", path, s.Index, s.CodecName)
			return true
		}
	}

	p.logger.Info(ctx, "No audio stream in %s", path)
	return false
}

func parseStreams(out string) ([]ffprobeStream, error) {
	var parsed ffprobeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("decode ffprobe json: %w", err)
	}
	return parsed.Streams, nil
}
