package inbox

import (
	"context"
	"strings"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
)

type Backend interface {
	SyncMessages(ctx context.Context) error
	FetchMessages(ctx context.Context) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id string, byThreadID bool) error
	SendMessage(ctx context.Context, m backend.OutgoingMail) error
	ReplyToMessage(ctx context.Context, m backend.ReplyMail) error
}

// Compose is the new-message dialog. To is a comma-separated list.
type Compose struct {
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Attachments []httpclient.File `json:"-"`
}

type Service struct {
	backend Backend
	logger  logger.Logger
}

func NewService(b Backend, log logger.Logger) *Service {
	return &Service{backend: b, logger: log}
}

// Load syncs the mailbox and then reads it. A failed sync is returned as syncErr
// and does not stop the read.
func (s *Service) Load(ctx context.Context) (msgs []models.Message, syncErr error, err error) {
	if syncErr = s.backend.SyncMessages(ctx); syncErr != nil {
		s.logger.Warn("Mailbox sync failed", map[string]interface{}{"error": syncErr})
	}
	msgs, err = s.Fetch(ctx)
	return msgs, syncErr, err
}

func (s *Service) Fetch(ctx context.Context) ([]models.Message, error) {
	msgs, err := s.backend.FetchMessages(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch messages", map[string]interface{}{"error": err})
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

func (s *Service) Send(ctx context.Context, c Compose) error {
	to := SplitRecipients(c.To)
	if len(to) == 0 {
		return apperrors.NewValidationError("Please enter a recipient email.", "to")
	}
	if err := s.backend.SendMessage(ctx, backend.OutgoingMail{
		To:          to,
		Subject:     c.Subject,
		Body:        c.Body,
		Attachments: c.Attachments,
	}); err != nil {
		return err
	}
	s.logger.Info("Email sent", map[string]interface{}{"recipients": len(to), "attachments": len(c.Attachments)})
	return nil
}

func (s *Service) Reply(ctx context.Context, d ReplyDraft, body string, attachments []httpclient.File) error {
	if strings.TrimSpace(body) == "" {
		return apperrors.NewValidationError("Reply body cannot be empty", "body")
	}
	if err := s.backend.ReplyToMessage(ctx, backend.ReplyMail{
		To:                d.To,
		Subject:           d.Subject,
		BodyText:          body,
		ThreadID:          d.ThreadID,
		OriginalMessageID: d.MessageID,
		ReplyToMessageID:  d.MessageID,
		Attachments:       attachments,
	}); err != nil {
		return err
	}
	s.logger.Info("Reply sent", map[string]interface{}{"threadId": d.ThreadID})
	return nil
}

// DeleteThread always deletes by thread id.
func (s *Service) DeleteThread(ctx context.Context, threadID string) error {
	if threadID == "" {
		return apperrors.NewValidationError("Thread is required", "threadId")
	}
	return s.backend.DeleteMessage(ctx, threadID, true)
}
