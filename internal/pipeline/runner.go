package pipeline

import (
	"context"
	"strings"

	"github.com/garyjia/keihi-ai/internal/expense"
	"github.com/garyjia/keihi-ai/internal/extraction"
	"github.com/garyjia/keihi-ai/internal/report"
	"github.com/garyjia/keihi-ai/internal/storage"
	"go.uber.org/zap"
)

// Runner executes one job end to end: stage uploads, extract or fall
// back per file, classify, render the selected format, publish the
// final aggregates. Steps never retry; staging and rendering failures
// end the job with the error recorded, while per-file extraction
// failures are absorbed by the extractor's no-result contract.
type Runner struct {
	extractor extraction.Extractor
	staging   *storage.Staging
	renderers *report.Factory
	logger    *zap.Logger
}

// NewRunner creates the pipeline runner.
func NewRunner(extractor extraction.Extractor, staging *storage.Staging, renderers *report.Factory, logger *zap.Logger) *Runner {
	return &Runner{
		extractor: extractor,
		staging:   staging,
		renderers: renderers,
		logger:    logger,
	}
}

// Run drives a job through steps 1..5 and marks it done or failed.
func (r *Runner) Run(ctx context.Context, job *Job) {
	r.logger.Info("Job started",
		zap.String("job_id", job.ID),
		zap.Int("files", len(job.Files)),
		zap.String("format", job.Format))

	// Step 1: stage uploads into the job's own folder.
	job.setStep(StepStaged)
	staged, err := r.stage(job)
	if err != nil {
		r.finishWithError(job, err)
		return
	}
	defer r.staging.Cleanup(job.ID)

	// Step 2: extraction with per-file fallback. Every file yields
	// exactly one record.
	job.setStep(StepExtracted)
	records := r.extract(ctx, job, staged)

	// Step 3: classify records the extractor left uncategorized.
	job.setStep(StepClassified)
	r.classify(records)

	// Step 4: normalization placeholder.
	job.setStep(StepNormalized)

	// Step 5: render the selected artifact.
	job.setStep(StepRendered)
	renderer := r.renderers.ForFormat(job.Format)
	total, categories, err := renderer.Render(records, job.Month, job.Applicant)
	if err != nil {
		r.finishWithError(job, err)
		return
	}

	job.complete(len(records), total, categories)
	r.logger.Info("Job completed",
		zap.String("job_id", job.ID),
		zap.Int("count", len(records)),
		zap.Int("total", total),
		zap.Int("categories", categories))
}

type stagedFile struct {
	name string
	path string
}

func (r *Runner) stage(job *Job) ([]stagedFile, error) {
	staged := make([]stagedFile, 0, len(job.Files))
	for _, f := range job.Files {
		path, err := r.staging.SaveUpload(job.ID, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		staged = append(staged, stagedFile{name: f.Name, path: path})
	}
	return staged, nil
}

func (r *Runner) extract(ctx context.Context, job *Job, staged []stagedFile) []expense.Record {
	records := make([]expense.Record, 0, len(staged))
	for _, f := range staged {
		if rec := r.extractor.Extract(ctx, f.path); rec != nil {
			records = append(records, *rec)
			continue
		}
		r.logger.Debug("Using fallback record",
			zap.String("job_id", job.ID),
			zap.String("file", f.name))
		records = append(records, extraction.Fallback(f.name))
	}
	return records
}

// classify assigns a category to records whose category is empty or
// the catch-all, matching keyword rules against merchant plus notes.
func (r *Runner) classify(records []expense.Record) {
	for i := range records {
		cat := records[i].Category
		if cat != "" && cat != expense.CategoryOther {
			continue
		}
		text := records[i].Merchant + records[i].Notes
		records[i].Category = expense.Classify(strings.TrimSpace(text))
	}
}

func (r *Runner) finishWithError(job *Job, err error) {
	job.fail(err)
	r.logger.Error("Job failed",
		zap.String("job_id", job.ID),
		zap.Int("step", job.Snapshot().Step),
		zap.Error(err))
}
