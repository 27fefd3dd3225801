package processor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
	"github.com/nguyentantai21042004/videotranscoder/internal/metrics"
)

// Process orchestrates the entire pipeline for one source file
func (p *implProcessor) Process(ctx context.Context, sourcePath string) (outcome Outcome) {
	ctx = logger.WithRunID(ctx, uuid.NewString()[:8])
	startTime := time.Now()
	step := StepValidate

	metrics.RunsInFlight.Inc()
	defer metrics.RunsInFlight.Dec()

	// Last-resort boundary: nothing escapes a run.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "Panic during %s of %s: %v", step, sourcePath, r)
			outcome = p.fail(ctx, sourcePath, outcome.Item, newStepError(step, ErrUnexpected, fmt.Errorf("panic: %v", r)))
		}
		metrics.RecordOutcome(outcome.Status.String())
		p.logger.Info(ctx, "Finished %s: %s in %s", sourcePath, outcome.Status, time.Since(startTime).Round(time.Millisecond))
	}()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting video processing: %s", sourcePath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Validate
	p.waitSettle(ctx)
	if err := p.validate(ctx, sourcePath); err != nil {
		p.logger.Warn(ctx, "Skipping %s: %v", sourcePath, err)
		return Outcome{Status: StatusRejected, Reason: err}
	}

	// Step 2: Probe the raw source
	step = StepProbeSource
	probeStart := time.Now()
	hasAudio := p.probe.HasAudio(ctx, sourcePath)
	metrics.ObserveStep(StepProbeSource, probeStart)
	if !hasAudio {
		err := newStepError(StepProbeSource, ErrNoAudio, nil)
		p.writeNote(ctx, NoAudioNotePath(sourcePath), noAudioNote(sourcePath, p.now()))
		return Outcome{Status: StatusSkippedNoAudio, Reason: err}
	}

	// Step 3: Prepare output directory
	step = StepPrepareOutput
	item, err := p.prepareOutput(ctx, sourcePath)
	outcome.Item = item
	if err != nil {
		return p.fail(ctx, sourcePath, item, err)
	}

	// Step 4: Convert and verify
	step = StepConvert
	if err := p.convert(ctx, item); err != nil {
		return p.fail(ctx, sourcePath, item, err)
	}

	// Step 5: Transcribe (cannot fail by contract)
	step = StepTranscribe
	transcribeStart := time.Now()
	text := p.transcriber.Transcribe(ctx, item.ConvertedPath)
	metrics.ObserveStep(StepTranscribe, transcribeStart)

	// Step 6: Persist transcript
	step = StepPersist
	if err := p.persist(ctx, item, text); err != nil {
		return p.fail(ctx, sourcePath, item, err)
	}

	// Step 7: Cleanup
	step = StepCleanup
	cleanupErr := p.cleanup(ctx, item.SourcePath)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Output video: %s", item.ConvertedPath)
	p.logger.Info(ctx, "Transcript: %s", item.TranscriptPath)
	p.logger.Info(ctx, "========================================")

	return Outcome{Status: StatusSuccess, CleanupErr: cleanupErr, Item: item}
}

func (p *implProcessor) waitSettle(ctx context.Context) {
	if p.settleDelay <= 0 {
		return
	}
	t := time.NewTimer(p.settleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// validate guards against notifications that arrive while the file is still being created
func (p *implProcessor) validate(ctx context.Context, sourcePath string) error {
	defer metrics.ObserveStep(StepValidate, time.Now())

	if Stem(sourcePath) == "" {
		return newStepError(StepValidate, ErrValidation, fmt.Errorf("empty file name stem"))
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return newStepError(StepValidate, ErrValidation, err)
	}
	if info.IsDir() {
		return newStepError(StepValidate, ErrValidation, fmt.Errorf("is a directory"))
	}
	if info.Size() == 0 {
		return newStepError(StepValidate, ErrValidation, fmt.Errorf("file is empty"))
	}

	p.logger.Debug(ctx, "Validated %s (%d bytes)", sourcePath, info.Size())
	return nil
}

// prepareOutput derives the work item and creates its output directory.
// MkdirAll leaves an existing directory and its contents untouched.
func (p *implProcessor) prepareOutput(ctx context.Context, sourcePath string) (*WorkItem, error) {
	defer metrics.ObserveStep(StepPrepareOutput, time.Now())

	item := NewWorkItem(sourcePath, p.now(), p.convertedExt)
	if err := os.MkdirAll(item.OutputDir, 0755); err != nil {
		return &item, newStepError(StepPrepareOutput, ErrUnexpected, fmt.Errorf("create output dir: %w", err))
	}

	p.logger.Info(ctx, "Output directory ready: %s", item.OutputDir)
	return &item, nil
}

// convert runs the converter and checks its postconditions: the target exists,
// is non-empty and still carries audio.
func (p *implProcessor) convert(ctx context.Context, item *WorkItem) error {
	defer metrics.ObserveStep(StepConvert, time.Now())

	if err := p.converter.Convert(ctx, item.SourcePath, item.ConvertedPath); err != nil {
		return newStepError(StepConvert, ErrConversion, err)
	}

	info, err := os.Stat(item.ConvertedPath)
	if err != nil {
		return newStepError(StepConvert, ErrConversion, fmt.Errorf("converted file missing: %w", err))
	}
	if info.Size() == 0 {
		return newStepError(StepConvert, ErrConversion, fmt.Errorf("converted file is empty: %s", item.ConvertedPath))
	}
	if !p.probe.HasAudio(ctx, item.ConvertedPath) {
		return newStepError(StepConvert, ErrConversion, fmt.Errorf("converted file has no audio stream: %s", item.ConvertedPath))
	}

	p.logger.Info(ctx, "Converted %s (%d bytes)", item.ConvertedPath, info.Size())
	return nil
}

func (p *implProcessor) persist(ctx context.Context, item *WorkItem, text string) error {
	defer metrics.ObserveStep(StepPersist, time.Now())

	text = norm.NFC.String(strings.ToValidUTF8(text, "\uFFFD"))
	if err := os.WriteFile(item.TranscriptPath, []byte(text), 0644); err != nil {
		return newStepError(StepPersist, ErrPersistence, err)
	}

	p.logger.Info(ctx, "Transcript saved: %s", item.TranscriptPath)
	return nil
}

// fail leaves the failure note next to the source; the source itself is never touched.
func (p *implProcessor) fail(ctx context.Context, sourcePath string, item *WorkItem, err error) Outcome {
	p.logger.Error(ctx, "Processing failed for %s: %v", sourcePath, err)
	p.writeNote(ctx, ProcessingErrorNotePath(sourcePath), processingErrorNote(sourcePath, p.now(), err))
	return Outcome{Status: StatusFailed, Reason: err, Item: item}
}
