package jobs

import (
	"context"
	"strings"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
)

type Backend interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	CreateJob(ctx context.Context, job models.JobPayload) (*backend.MutationResult, error)
	UpdateJob(ctx context.Context, id string, job models.JobPayload) (*backend.MutationResult, error)
	DeleteJob(ctx context.Context, id string) (*backend.MutationResult, error)
}

type Service struct {
	backend Backend
	logger  logger.Logger
}

func NewService(b Backend, log logger.Logger) *Service {
	return &Service{backend: b, logger: log}
}

func (s *Service) List(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.backend.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("Job id is required", "id")
	}
	return s.backend.GetJob(ctx, id)
}

// Create validates f before anything is sent.
func (s *Service) Create(ctx context.Context, f Form) error {
	payload, err := f.ToPayload()
	if err != nil {
		return err
	}
	if _, err := s.backend.CreateJob(ctx, payload); err != nil {
		return err
	}
	s.logger.Info("Job created", map[string]interface{}{"title": payload.Title})
	return nil
}

func (s *Service) Update(ctx context.Context, id string, f Form) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("Job id is required", "id")
	}
	payload, err := f.ToPayload()
	if err != nil {
		return err
	}
	if _, err := s.backend.UpdateJob(ctx, id, payload); err != nil {
		return err
	}
	s.logger.Info("Job updated", map[string]interface{}{"jobId": id})
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.backend.DeleteJob(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Job deleted", map[string]interface{}{"jobId": id})
	return nil
}

// ==========================
// Applications
// ==========================

type ApplicationBackend interface {
	CreateApplication(ctx context.Context, app models.Application) (*backend.MutationResult, error)
	UpdateApplicationStatus(ctx context.Context, applicantID, jobID, status string) (*backend.MutationResult, error)
}

// Applications forwards application writes. Status transitions are decided by the
// backend; this only relays them.
type Applications struct {
	backend ApplicationBackend
	logger  logger.Logger
}

func NewApplications(b ApplicationBackend, log logger.Logger) *Applications {
	return &Applications{backend: b, logger: log}
}

func (a *Applications) Create(ctx context.Context, app models.Application) error {
	if strings.TrimSpace(app.Applicant.ID) == "" && strings.TrimSpace(app.Applicant.Email) == "" {
		return apperrors.NewValidationError("Applicant is required", "applicant")
	}
	_, err := a.backend.CreateApplication(ctx, app)
	return err
}

func (a *Applications) UpdateStatus(ctx context.Context, applicantID, jobID, status string) error {
	switch {
	case strings.TrimSpace(applicantID) == "":
		return apperrors.NewValidationError("Applicant is required", "applicantId")
	case strings.TrimSpace(jobID) == "":
		return apperrors.NewValidationError("Job id is required", "jobId")
	case strings.TrimSpace(status) == "":
		return apperrors.NewValidationError("Status is required", "status")
	}
	if _, err := a.backend.UpdateApplicationStatus(ctx, applicantID, jobID, status); err != nil {
		return err
	}
	a.logger.Info("Application status forwarded", map[string]interface{}{
		"applicantId": applicantID,
		"jobId":       jobID,
		"status":      status,
	})
	return nil
}
