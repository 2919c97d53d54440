// Package http is the HTTP adapter: it translates requests into
// pipeline submissions and status queries.
package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/garyjia/keihi-ai/internal/pipeline"
	"github.com/garyjia/keihi-ai/internal/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains all HTTP request handlers.
type Handlers struct {
	store     *pipeline.Store
	pool      *pipeline.Pool
	outputDir string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *pipeline.Store, pool *pipeline.Pool, outputDir string, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:     store,
		pool:      pool,
		outputDir: outputDir,
		logger:    logger,
	}
}

// SubmitResponse acknowledges a job submission.
type SubmitResponse struct {
	OK    bool   `json:"ok"`
	JobID string `json:"job_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "keihi-ai",
	})
}

// SubmitJob handles POST /analyze: it reads the uploaded receipts into
// memory, registers a job, and hands it to the worker pool. The call
// returns as soon as the job is queued; processing failures surface
// later through the status endpoint.
func (h *Handlers) SubmitJob(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Error("Invalid multipart form", zap.Error(err))
		c.JSON(http.StatusBadRequest, SubmitResponse{Error: "invalid multipart form"})
		return
	}

	files, err := readUploads(form.File["files"])
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, SubmitResponse{Error: "failed to read uploaded file"})
		return
	}

	month := c.PostForm("month")
	applicant := c.PostForm("applicant")
	format := c.PostForm("format")

	job := pipeline.NewJob(files, month, applicant, format)
	h.store.Add(job)

	if err := h.pool.Submit(job); err != nil {
		h.logger.Warn("Job submission rejected",
			zap.String("job_id", job.ID),
			zap.Error(err))
		msg := "server shutting down"
		if errors.Is(err, pipeline.ErrQueueFull) {
			msg = "server busy, try again later"
		}
		c.JSON(http.StatusServiceUnavailable, SubmitResponse{Error: msg})
		return
	}

	h.logger.Info("Job accepted",
		zap.String("job_id", job.ID),
		zap.Int("files", len(files)),
		zap.String("format", job.Format))

	c.JSON(http.StatusOK, SubmitResponse{OK: true, JobID: job.ID})
}

// Status handles GET /status_expense. An explicit job_id query selects
// a job by handle; without one the most recent submission is reported,
// which keeps the single-job polling pattern working unchanged.
func (h *Handlers) Status(c *gin.Context) {
	job, ok := h.resolveJob(c)
	if !ok {
		if c.Query("job_id") != "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		// No job submitted yet: report a fresh zero state.
		c.JSON(http.StatusOK, pipeline.Status{})
		return
	}

	c.JSON(http.StatusOK, job.Snapshot())
}

// Download handles GET /download_expense: it serves the artifact of
// the resolved job's format under its canonical download name. Missing
// artifacts yield a not-found response without touching job state.
func (h *Handlers) Download(c *gin.Context) {
	job, ok := h.resolveJob(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	format := job.Snapshot().Format
	path := report.ArtifactPath(h.outputDir, format)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report file not found"})
		return
	}

	c.FileAttachment(path, report.DownloadName(format))
}

// resolveJob picks the job addressed by the request: the job_id query
// parameter when present, otherwise the latest submission.
func (h *Handlers) resolveJob(c *gin.Context) (*pipeline.Job, bool) {
	if id := c.Query("job_id"); id != "" {
		return h.store.Get(id)
	}
	return h.store.Latest()
}

func readUploads(headers []*multipart.FileHeader) ([]pipeline.UploadedFile, error) {
	files := make([]pipeline.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, pipeline.UploadedFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}
