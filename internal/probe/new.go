package probe

import (
	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/pkg/executor"
)

type implProbe struct {
	binary   string
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Probe backed by ffprobe
func New(binary string, exec executor.Executor, log logger.Logger) Probe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &implProbe{
		binary:   binary,
		executor: exec,
		logger:   log,
	}
}
