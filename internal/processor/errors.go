package processor

import (
	"errors"
	"fmt"
)

// Pipeline steps, in order.
const (
	StepValidate      = "validate"
	StepProbeSource   = "probe_source"
	StepPrepareOutput = "prepare_output"
	StepConvert       = "convert"
	StepTranscribe    = "transcribe"
	StepPersist       = "persist"
	StepCleanup       = "cleanup"
)

var (
	// ErrValidation: source missing or empty. No artifact is written.
	ErrValidation = errors.New("source file not ready")
	// ErrNoAudio: source has no audio stream. A skip note is written.
	ErrNoAudio = errors.New("no valid audio stream found")
	// ErrConversion: conversion failed or produced an empty or silent file.
	ErrConversion = errors.New("conversion failed")
	// ErrPersistence: the transcript could not be written.
	ErrPersistence = errors.New("transcript could not be written")
	// ErrDeletion: the source could not be removed after success. Logged only.
	ErrDeletion = errors.New("source file could not be deleted")
	// ErrUnexpected covers anything outside the taxonomy, including panics.
	ErrUnexpected = errors.New("unexpected error")
)

// StepError ties a failure to the step it happened in.
// errors.Is matches both the taxonomy sentinel and the underlying cause.
type StepError struct {
	Step string
	Kind error
	Err  error
}

func newStepError(step string, kind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
