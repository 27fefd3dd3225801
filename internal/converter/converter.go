package converter

import (
	"context"
	"fmt"
	"strconv"
)

const softwareVideoCodec = "libx264"

// Convert transcodes sourcePath into targetPath, overwriting any existing target.
// A configured hardware encoder that fails is retried once with libx264.
func (c *implConverter) Convert(ctx context.Context, sourcePath, targetPath string) error {
	c.logger.Info(ctx, "Converting %s -> %s (video=%s audio=%s)", sourcePath, targetPath, c.opts.VideoCodec, c.opts.AudioCodec)

	err := c.run(ctx, sourcePath, targetPath, c.opts.VideoCodec)
	if err == nil {
		return nil
	}
	if c.opts.VideoCodec == softwareVideoCodec {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}

	c.logger.Warn(ctx, "Encoder %s failed, trying software encoder: %v", c.opts.VideoCodec, err)
	if err := c.run(ctx, sourcePath, targetPath, softwareVideoCodec); err != nil {
		return fmt.Errorf("both %s and %s encoders failed: %w", c.opts.VideoCodec, softwareVideoCodec, err)
	}
	return nil
}

func (c *implConverter) run(ctx context.Context, sourcePath, targetPath, videoCodec string) error {
	_, err := c.executor.Execute(ctx, c.opts.BinaryPath, c.args(sourcePath, targetPath, videoCodec)...)
	return err
}

// args builds the ffmpeg invocation. Streams and codecs are always explicit:
// relying on the container's default codec choice can silently drop the audio track.
func (c *implConverter) args(sourcePath, targetPath, videoCodec string) []string {
	args := []string{
		"-y",
		"-i", sourcePath,
		"-map", "0:v:0?",
		"-map", "0:a:0?",
		"-c:v", videoCodec,
	}
	if videoCodec == softwareVideoCodec {
		args = append(args,
			"-preset", c.opts.Preset,
			"-crf", strconv.Itoa(c.crf),
		)
	}
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-c:a", c.opts.AudioCodec,
		"-b:a", c.opts.AudioBitrate,
		"-movflags", "+faststart",
		targetPath,
	)
	return args
}
