package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/grouping"
	"ats-console/internal/models"
	"ats-console/internal/notice"
)

type Backend interface {
	CreateEvent(ctx context.Context, ev models.EventRequest) (*backend.MutationResult, error)
	GetEvents(ctx context.Context, email string) ([]models.Event, error)
	AddAvailableDates(ctx context.Context, userID string, dates []models.DateRange) (*backend.MutationResult, error)
	GetHREmail(ctx context.Context) (string, error)
}

type Service struct {
	backend Backend
	logger  logger.Logger
}

func NewService(b Backend, log logger.Logger) *Service {
	return &Service{backend: b, logger: log}
}

// CreateEvent validates f and creates the calendar event.
func (s *Service) CreateEvent(ctx context.Context, f Form) (models.EventRequest, error) {
	req, err := f.Validate()
	if err != nil {
		return req, err
	}
	if _, err := s.backend.CreateEvent(ctx, req); err != nil {
		return req, err
	}
	s.logger.Info("Calendar event created", map[string]interface{}{
		"summary":   req.Summary,
		"attendees": len(req.Email),
	})
	return req, nil
}

// Events lists the calendar of email, or of the HR mailbox when email is blank.
func (s *Service) Events(ctx context.Context, email string) ([]models.Event, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		hr, err := s.backend.GetHREmail(ctx)
		if err != nil {
			return nil, "", err
		}
		email = hr
	}
	events, err := s.backend.GetEvents(ctx, email)
	if err != nil {
		return nil, email, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, email, nil
}

// AddAvailableDates offers interview slots for userID. Every range must end after
// it starts.
func (s *Service) AddAvailableDates(ctx context.Context, userID string, dates []models.DateRange) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.NewValidationError("User is required", "userId")
	}
	if len(dates) == 0 {
		return apperrors.NewValidationError("Add at least one date range", "dates")
	}
	for i, d := range dates {
		start, end := grouping.ParseTimestamp(d.Start), grouping.ParseTimestamp(d.End)
		if start.IsZero() || end.IsZero() {
			return apperrors.NewValidationError("Start and end times are required", fmt.Sprintf("dates[%d]", i))
		}
		if !end.After(start) {
			return apperrors.NewValidationError("End time must be after start time", fmt.Sprintf("dates[%d]", i))
		}
	}
	if _, err := s.backend.AddAvailableDates(ctx, userID, dates); err != nil {
		return err
	}
	s.logger.Info("Interview dates added", map[string]interface{}{"userId": userID, "ranges": len(dates)})
	return nil
}

// ==========================
// Calendar page
// ==========================

// Page is the standalone calendar page: an event form plus the event list of the
// address typed into it.
type Page struct {
	mu      sync.Mutex
	service *Service
	form    Form
	email   string
	events  []models.Event
	Notices *notice.Center
}

func NewPage(s *Service) *Page {
	return &Page{service: s, events: []models.Event{}, Notices: notice.NewCenter()}
}

// Load fetches events for email. A failure keeps the previous list.
func (p *Page) Load(ctx context.Context, email string) {
	events, resolved, err := p.service.Events(ctx, email)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.Notices.FromError("Failed to fetch events", err, "Failed to fetch events")
		return
	}
	p.email = resolved
	p.events = events
}

// Create submits f. On success the form is cleared except for the attendee list,
// and the event list is refreshed.
func (p *Page) Create(ctx context.Context, f Form) error {
	p.mu.Lock()
	p.form = f
	p.mu.Unlock()

	if _, err := p.service.CreateEvent(ctx, f); err != nil {
		if apperrors.IsValidation(err) {
			p.Notices.Error("Invalid event", apperrors.UserMessage(err, ""))
		} else {
			p.Notices.FromError("Failed to create event", err, "Failed to create event")
		}
		return err
	}

	p.mu.Lock()
	p.form = Form{Emails: f.Emails}
	p.mu.Unlock()
	p.Notices.Success("Event created!", "")

	p.Load(ctx, firstEmail(f.Emails))
	return nil
}

func firstEmail(list string) string {
	if emails := SplitEmails(list); len(emails) > 0 {
		return emails[0]
	}
	return ""
}

type PageView struct {
	Form    Form            `json:"form"`
	Email   string          `json:"email"`
	Events  []models.Event  `json:"events"`
	Notices []notice.Notice `json:"notices"`
}

func (p *Page) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := make([]models.Event, len(p.events))
	copy(events, p.events)
	return PageView{Form: p.form, Email: p.email, Events: events, Notices: p.Notices.List()}
}
