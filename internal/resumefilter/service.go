package resumefilter

import (
	"context"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
)

// Backend is the slice of the backend client this package uses.
type Backend interface {
	GetResumeFilter(ctx context.Context, jobID string) (*models.ResumeFilter, error)
	UpsertResumeFilter(ctx context.Context, f models.ResumeFilter) (*backend.MutationResult, error)
	RefineResumeFilter(ctx context.Context, conds []models.ResumeFilterCondition) ([]models.ResumeFilterCondition, error)
}

type Service struct {
	backend Backend
	logger  logger.Logger
}

func NewService(b Backend, log logger.Logger) *Service {
	return &Service{backend: b, logger: log}
}

// Get returns the job's filter. A job without one yields an empty filter, not an
// error.
func (s *Service) Get(ctx context.Context, jobID string) (models.ResumeFilter, error) {
	f, err := s.backend.GetResumeFilter(ctx, jobID)
	if apperrors.IsNotFound(err) {
		s.logger.Debug("No resume filter for job", map[string]interface{}{"jobId": jobID})
		return Empty(jobID), nil
	}
	if err != nil {
		return models.ResumeFilter{}, err
	}
	out := f.Clone()
	if out.Conditions == nil {
		out.Conditions = []models.ResumeFilterCondition{}
	}
	return out, nil
}

// Save replaces the stored conditions with f's complete list.
func (s *Service) Save(ctx context.Context, f models.ResumeFilter) error {
	if f.JobID == "" {
		return apperrors.NewValidationError("Job is required to save a filter", "jobId")
	}
	f = f.Clone()
	if _, err := s.backend.UpsertResumeFilter(ctx, f); err != nil {
		return err
	}
	s.logger.Info("Resume filter saved", map[string]interface{}{
		"jobId":      f.JobID,
		"conditions": len(f.Conditions),
	})
	return nil
}

// Refine asks the backend to reinterpret conds. An empty list is returned as-is
// without a backend call.
func (s *Service) Refine(ctx context.Context, conds []models.ResumeFilterCondition) ([]models.ResumeFilterCondition, error) {
	if len(conds) == 0 {
		return []models.ResumeFilterCondition{}, nil
	}
	in := make([]models.ResumeFilterCondition, len(conds))
	copy(in, conds)
	return s.backend.RefineResumeFilter(ctx, in)
}

func Empty(jobID string) models.ResumeFilter {
	return models.ResumeFilter{JobID: jobID, Conditions: []models.ResumeFilterCondition{}}
}
