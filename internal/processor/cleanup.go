package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/videotranscoder/internal/metrics"
)

// cleanup removes the original source after a successful run.
// A failure is reported but never changes the outcome.
func (p *implProcessor) cleanup(ctx context.Context, sourcePath string) error {
	defer metrics.ObserveStep(StepCleanup, time.Now())

	p.logger.Info(ctx, "Cleaning up: %s", sourcePath)
	if err := p.remove(sourcePath); err != nil {
		err = newStepError(StepCleanup, ErrDeletion, err)
		p.logger.Warn(ctx, "Failed to delete original %s: %v", sourcePath, err)
		return err
	}
	return nil
}

// writeNote writes an error-note artifact. Failing to write it is only logged:
// there is nowhere left to report to.
func (p *implProcessor) writeNote(ctx context.Context, path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.logger.Error(ctx, "Failed to write error note %s: %v", path, err)
		return
	}
	p.logger.Info(ctx, "Error note written: %s", path)
}

func noAudioNote(sourcePath string, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "No valid audio stream found in %s\n", sourcePath)
	fmt.Fprintf(&b, "Checked: %s\n", at.Format(time.RFC3339))
	b.WriteString("The file was not converted and has been left in place.\n")
	return b.String()
}

func processingErrorNote(sourcePath string, at time.Time, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error processing %s\n", sourcePath)
	fmt.Fprintf(&b, "Time: %s\n", at.Format(time.RFC3339))
	var se *StepError
	if errors.As(err, &se) {
		fmt.Fprintf(&b, "Step: %s\n", se.Step)
	}
	fmt.Fprintf(&b, "Reason: %v\n", err)
	b.WriteString("The original file has been left in place. Copy it into the watch directory again to retry.\n")
	return b.String()
}
