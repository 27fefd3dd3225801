package converter

import (
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

// Options selects the binary and the explicit codec parameters.
type Options struct {
	BinaryPath   string
	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	Preset       string
	// CRF defaults to 23 when nil; 0 is lossless.
	CRF          *int
}

type implConverter struct {
	opts     Options
	crf      int
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new ffmpeg-backed Converter
func New(opts Options, exec executor.Executor, log logger.Logger) Converter {
	if opts.BinaryPath == "" {
		opts.BinaryPath = "ffmpeg"
	}
	if opts.VideoCodec == "" {
		opts.VideoCodec = softwareVideoCodec
	}
	if opts.AudioCodec == "" {
		opts.AudioCodec = "aac"
	}
	if opts.AudioBitrate == "" {
		opts.AudioBitrate = "128k"
	}
	if opts.Preset == "" {
		opts.Preset = "medium"
	}
	crf := 23
	if opts.CRF != nil {
		crf = *opts.CRF
	}
	return &implConverter{
		opts:     opts,
		crf:      crf,
		executor: exec,
		logger:   log,
	}
}
