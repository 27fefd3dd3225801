package processor

import (
	"os"
	"time"

	"github.com/nguyentantai21042004/videotranscoder/internal/converter"
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/internal/probe"
	"github.com/nguyentantai21042004/videotranscoder/internal/transcriber"
)

// Options tunes a Processor. The zero value is usable.
type Options struct {
	// ConvertedExt is the extension of the converted file, ".mp4" by default.
	ConvertedExt string
	// SettleDelay is waited before validation so writers can finish the file.
	SettleDelay time.Duration
	// Now is the processing clock, time.Now by default.
	Now func() time.Time
}

type implProcessor struct {
	probe       probe.Probe
	converter   converter.Converter
	transcriber transcriber.Transcriber
	logger      logger.Logger

	convertedExt string
	settleDelay  time.Duration
	now          func() time.Time
	remove       func(name string) error
}

// New creates a Processor from capabilities constructed once at startup
func New(opts Options, pr probe.Probe, conv converter.Converter, tr transcriber.Transcriber, log logger.Logger) Processor {
	if opts.ConvertedExt == "" {
		opts.ConvertedExt = ".mp4"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &implProcessor{
		probe:        pr,
		converter:    conv,
		transcriber:  tr,
		logger:       log,
		convertedExt: opts.ConvertedExt,
		settleDelay:  opts.SettleDelay,
		now:          opts.Now,
		remove:       os.Remove,
	}
}
