package upload

import (
	"context"

	"ats-console/internal/backend"
	"ats-console/internal/common/config"
	apperrors "ats-console/internal/common/errors"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/logger"
)

type Backend interface {
	UploadResumes(ctx context.Context, field string, files []httpclient.File) (*backend.MutationResult, error)
}

type Uploader struct {
	backend Backend
	field   string
	logger  logger.Logger
}

func NewUploader(b Backend, cfg config.UploadConfig, log logger.Logger) *Uploader {
	field := cfg.FormField
	if field == "" {
		field = config.DefaultUploadField
	}
	return &Uploader{backend: b, field: field, logger: log}
}

// Upload sends every file in the batch. The batch is cleared only on success.
func (u *Uploader) Upload(ctx context.Context, batch *Batch) (int, error) {
	files := batch.Files()
	if len(files) == 0 {
		return 0, apperrors.NewValidationError("Please select at least one file.", "files")
	}

	parts := make([]httpclient.File, len(files))
	for i, f := range files {
		parts[i] = httpclient.File{Filename: f.Name, ContentType: f.ContentType, Content: f.Content}
	}
	if _, err := u.backend.UploadResumes(ctx, u.field, parts); err != nil {
		u.logger.Warn("Resume upload failed", map[string]interface{}{
			"files": len(files),
			"error": err.Error(),
		})
		return 0, err
	}

	batch.Clear()
	u.logger.Info("Resumes uploaded", map[string]interface{}{"files": len(files)})
	return len(files), nil
}
