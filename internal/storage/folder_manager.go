package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// JobFolders manages per-job staging folders. Each submitted batch of
// receipts gets its own folder under the base directory so concurrent
// jobs with identical filenames never clobber each other.
type JobFolders struct {
	baseDir string
	logger  *zap.Logger
}

// NewJobFolders creates a new JobFolders rooted at baseDir.
func NewJobFolders(baseDir string, logger *zap.Logger) *JobFolders {
	return &JobFolders{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Create makes the staging folder for a job and returns its path.
func (m *JobFolders) Create(jobID string) (string, error) {
	if jobID == "" {
		return "", fmt.Errorf("cannot create folder: empty job ID")
	}

	folderPath := m.Path(jobID)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create job folder",
			zap.String("job_id", jobID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	m.logger.Debug("Created job folder",
		zap.String("job_id", jobID),
		zap.String("folder_path", folderPath))

	return folderPath, nil
}

// Path returns the staging folder path for a job without creating it.
func (m *JobFolders) Path(jobID string) string {
	return filepath.Join(m.baseDir, sanitizeFolderName(jobID))
}

// Remove deletes a job's staging folder and everything in it.
func (m *JobFolders) Remove(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("cannot remove folder: empty job ID")
	}

	folderPath := m.Path(jobID)
	if err := os.RemoveAll(folderPath); err != nil {
		m.logger.Error("Failed to remove job folder",
			zap.String("job_id", jobID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return fmt.Errorf("failed to remove folder: %w", err)
	}

	m.logger.Debug("Removed job folder", zap.String("job_id", jobID))
	return nil
}

var unsafeFolderChars = regexp.MustCompile(`[^a-zA-Z0-9._\-]`)

// sanitizeFolderName reduces a job ID to a safe single path segment.
func sanitizeFolderName(name string) string {
	name = filepath.Base(name)
	name = unsafeFolderChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return name
}
