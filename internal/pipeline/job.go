package pipeline

import (
	"sync"

	"github.com/garyjia/keihi-ai/internal/report"
	"github.com/google/uuid"
)

// Pipeline steps, strictly sequential. A job that fails keeps the step
// it reached; partial progress stays visible.
const (
	StepReceived   = 0
	StepStaged     = 1
	StepExtracted  = 2
	StepClassified = 3
	StepNormalized = 4
	StepRendered   = 5
)

// Status is the progress snapshot callers poll. It mirrors the job
// state at the moment of the query; Done and Error are terminal.
type Status struct {
	Step       int    `json:"step"`
	Done       bool   `json:"done"`
	Error      string `json:"error"`
	Count      int    `json:"count"`
	Total      int    `json:"total"`
	Categories int    `json:"categories"`
	Format     string `json:"format"`
}

// UploadedFile is one uploaded receipt held in memory until staged.
type UploadedFile struct {
	Name string
	Data []byte
}

// Job is one submitted batch with its mutable progress record. The
// status is guarded by a mutex because the worker mutates it while
// HTTP handlers snapshot it.
type Job struct {
	ID        string
	Files     []UploadedFile
	Month     string
	Applicant string
	Format    string

	mu     sync.RWMutex
	status Status
}

// NewJob creates a job in the received state. Unknown format selectors
// collapse onto the default format immediately so status and download
// always refer to a real artifact.
func NewJob(files []UploadedFile, month, applicant, format string) *Job {
	format = report.NormalizeFormat(format)
	return &Job{
		ID:        uuid.New().String(),
		Files:     files,
		Month:     month,
		Applicant: applicant,
		Format:    format,
		status:    Status{Step: StepReceived, Format: format},
	}
}

// Snapshot returns a copy of the current status.
func (j *Job) Snapshot() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

func (j *Job) setStep(step int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status.Step = step
}

// fail records the error message verbatim and halts the job short of
// done. Fields already advanced are left as they are.
func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status.Error = err.Error()
}

// complete marks the job done with its final aggregates.
func (j *Job) complete(count, total, categories int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status.Done = true
	j.status.Count = count
	j.status.Total = total
	j.status.Categories = categories
}
