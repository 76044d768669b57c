package pipeline

import (
	"context"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
	"ats-console/internal/notice"
)

type VerificationBackend interface {
	StartVerification(ctx context.Context, req models.VerificationRequest) (*backend.MutationResult, error)
}

// Verifier sends verification emails to every screened candidate of a job.
type Verifier struct {
	backend VerificationBackend
	logger  logger.Logger
}

func NewVerifier(b VerificationBackend, log logger.Logger) *Verifier {
	return &Verifier{backend: b, logger: log}
}

// StartVerification reports its outcome as a notice. It makes no backend call when
// the Screened column is empty.
func (v *Verifier) StartVerification(ctx context.Context, board *Board, notices *notice.Center) notice.Notice {
	ids := board.ApplicantIDsByStage(StageScreened)
	if len(ids) == 0 {
		return notices.Info("No Verification Sent", "No candidates to verify.")
	}

	res, err := v.backend.StartVerification(ctx, models.VerificationRequest{JobID: board.JobID, Applicants: ids})
	if err != nil {
		v.logger.Warn("Verification request failed", map[string]interface{}{
			"jobId":      board.JobID,
			"applicants": len(ids),
			"error":      err,
		})
		return notices.Error("Verification Failed", apperrors.UserMessage(err, err.Error()))
	}

	msg := "Verification successful!"
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	v.logger.Info("Verification sent", map[string]interface{}{"jobId": board.JobID, "applicants": len(ids)})
	return notices.Success("Verification Sent", msg)
}
