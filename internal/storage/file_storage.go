package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Staging persists uploaded receipt files for the duration of one job.
// Files land in a per-job folder, and uploaded names are flattened to
// their base name so a crafted filename cannot escape the staging area.
type Staging struct {
	baseDir string
	folders *JobFolders
	logger  *zap.Logger
}

// NewStaging creates a staging store rooted at baseDir.
func NewStaging(baseDir string, logger *zap.Logger) *Staging {
	return &Staging{
		baseDir: baseDir,
		folders: NewJobFolders(baseDir, logger),
		logger:  logger,
	}
}

// SaveUpload writes one uploaded file into the job's staging folder and
// returns its full path.
func (s *Staging) SaveUpload(jobID, name string, content []byte) (string, error) {
	dir, err := s.folders.Create(jobID)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(dir, filepath.Base(name))
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write staged file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to stage upload %s: %w", name, err)
	}

	s.logger.Debug("Upload staged",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// Cleanup removes a job's staging folder once its receipts have been
// processed.
func (s *Staging) Cleanup(jobID string) {
	if err := s.folders.Remove(jobID); err != nil {
		s.logger.Warn("Staging cleanup failed",
			zap.String("job_id", jobID),
			zap.Error(err))
	}
}

// validatePath checks that the path resolves inside the base directory.
func (s *Staging) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes staging directory: %s", fullPath)
	}

	return nil
}
