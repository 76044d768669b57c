// Package verification relays the candidate's captcha answer from the emailed
// verification link.
package verification

import (
	"context"
	"strings"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
)

const (
	MsgCaptchaRequired = "Please complete the captcha"
	MsgFailed          = "Verification failed"
)

type Backend interface {
	SubmitVerification(ctx context.Context, sub models.CaptchaSubmission) (*backend.MutationResult, error)
}

type Service struct {
	backend Backend
	logger  logger.Logger
}

func NewService(b Backend, log logger.Logger) *Service {
	return &Service{backend: b, logger: log}
}

// Submit returns the backend's confirmation text. A missing captcha token is
// rejected without a backend call.
func (s *Service) Submit(ctx context.Context, token, captchaToken string) (string, error) {
	if strings.TrimSpace(captchaToken) == "" {
		return "", apperrors.NewValidationError(MsgCaptchaRequired, "captchaToken")
	}
	res, err := s.backend.SubmitVerification(ctx, models.CaptchaSubmission{Token: token, CaptchaToken: captchaToken})
	if err != nil {
		s.logger.Warn("Captcha verification rejected", map[string]interface{}{"error": err})
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return res.Message, nil
}
