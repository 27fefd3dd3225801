package processor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the MM-DD-YYYY date used in transcript file names.
const DateLayout = "01-02-2006"

const (
	noAudioNoteSuffix         = "_ERROR.txt"
	processingErrorNoteSuffix = "_processing_error.txt"
)

// WorkItem is the context of one pipeline run. It is owned by that run only.
type WorkItem struct {
	SourcePath     string
	OutputDir      string
	ConvertedPath  string
	TranscriptPath string
	Title          string
	// CreationDate is the processing date, not the source file's timestamp.
	CreationDate time.Time
}

// NewWorkItem derives every artifact path of sourcePath for a run happening at now.
func NewWorkItem(sourcePath string, now time.Time, convertedExt string) WorkItem {
	dir := filepath.Dir(sourcePath)
	title := Stem(sourcePath)
	outputDir := filepath.Join(dir, title)

	return WorkItem{
		SourcePath:     sourcePath,
		OutputDir:      outputDir,
		ConvertedPath:  filepath.Join(outputDir, title+convertedExt),
		TranscriptPath: filepath.Join(outputDir, fmt.Sprintf("%s - %s.txt", title, now.Format(DateLayout))),
		Title:          title,
		CreationDate:   now,
	}
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NoAudioNotePath is where the skip note for a source without audio is written.
func NoAudioNotePath(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), Stem(sourcePath)+noAudioNoteSuffix)
}

// ProcessingErrorNotePath is where the failure note for sourcePath is written.
func ProcessingErrorNotePath(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), Stem(sourcePath)+processingErrorNoteSuffix)
}

// Status is the terminal classification of a run.
type Status int

const (
	// StatusRejected: the source was missing or empty; nothing was written.
	StatusRejected Status = iota
	StatusSuccess
	StatusSkippedNoAudio
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusSuccess:
		return "success"
	case StatusSkippedNoAudio:
		return "skipped_no_audio"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of one run.
type Outcome struct {
	Status Status
	// Reason is set for every status except StatusSuccess.
	Reason error
	// CleanupErr is set when a successful run could not delete its source.
	CleanupErr error
	// Item is nil when the run stopped before PrepareOutput.
	Item *WorkItem
}
