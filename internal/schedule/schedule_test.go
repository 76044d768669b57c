package schedule

import (
	"context"
	"testing"

	"ats-console/internal/backend"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
	"ats-console/internal/notice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateEvent(ctx context.Context, ev models.EventRequest) (*backend.MutationResult, error) {
	args := m.Called(ctx, ev)
	return &backend.MutationResult{}, args.Error(0)
}

func (m *MockBackend) GetEvents(ctx context.Context, email string) ([]models.Event, error) {
	args := m.Called(ctx, email)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *MockBackend) AddAvailableDates(ctx context.Context, userID string, dates []models.DateRange) (*backend.MutationResult, error) {
	args := m.Called(ctx, userID, dates)
	return &backend.MutationResult{}, args.Error(0)
}

func (m *MockBackend) GetHREmail(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func validForm() Form {
	return Form{
		Summary: "Interview - Go Engineer",
		Start:   "2026-10-20T09:00",
		End:     "2026-10-20T10:00",
		Emails:  "a@x.com; b@x.com;;",
	}
}

// ==========================
// Form
// ==========================

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Form)
		wantMsg string
	}{
		{"valid", func(*Form) {}, ""},
		{"blank summary", func(f *Form) { f.Summary = "   " }, "Summary is required"},
		{"summary checked before times", func(f *Form) { f.Summary = ""; f.Start = "" }, "Summary is required"},
		{"missing start", func(f *Form) { f.Start = "" }, "Start and end times are required"},
		{"missing end", func(f *Form) { f.End = "" }, "Start and end times are required"},
		{"unparseable time", func(f *Form) { f.End = "tomorrow" }, "Start and end times are required"},
		{"end before start", func(f *Form) { f.End = "2026-10-20T08:00" }, "End time must be after start time"},
		{"end equals start", func(f *Form) { f.End = f.Start }, "End time must be after start time"},
		{"no emails", func(f *Form) { f.Emails = "" }, "Attendee email is required"},
		{"only separators", func(f *Form) { f.Emails = " ; ; " }, "Attendee email is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)

			req, err := f.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, []string{"a@x.com", "b@x.com"}, req.Email)
				assert.Equal(t, f.Summary, req.Summary)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
		})
	}
}

func TestNewInterviewForm(t *testing.T) {
	f := NewInterviewForm("Go Engineer", []string{"a@x.com", "b@x.com"}, "Bring your portfolio")
	assert.Equal(t, "Interview - Go Engineer", f.Summary)
	assert.Equal(t, "Bring your portfolio", f.Description)
	assert.Equal(t, "a@x.com;b@x.com", f.Emails)
	assert.Empty(t, f.Start)
}

// ==========================
// Service
// ==========================

func TestService_CreateEvent(t *testing.T) {
	b := new(MockBackend)
	b.On("CreateEvent", mock.Anything, mock.MatchedBy(func(ev models.EventRequest) bool {
		return len(ev.Email) == 2 && ev.Email[0] == "a@x.com"
	})).Return(nil)
	s := NewService(b, logger.NewTestLogger(t))

	_, err := s.CreateEvent(context.Background(), validForm())
	require.NoError(t, err)
	b.AssertExpectations(t)
}

func TestService_CreateEventInvalidSkipsBackend(t *testing.T) {
	b := new(MockBackend)
	s := NewService(b, logger.NewTestLogger(t))

	_, err := s.CreateEvent(context.Background(), Form{})
	require.Error(t, err)
	b.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestService_EventsFallsBackToHRMailbox(t *testing.T) {
	b := new(MockBackend)
	b.On("GetHREmail", mock.Anything).Return("hr@x.com", nil)
	b.On("GetEvents", mock.Anything, "hr@x.com").Return(nil, nil)
	s := NewService(b, logger.NewTestLogger(t))

	events, email, err := s.Events(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "hr@x.com", email)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestService_AddAvailableDates(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		dates   []models.DateRange
		wantMsg string
	}{
		{"valid", "u1", []models.DateRange{{Start: "2026-10-20T09:00", End: "2026-10-20T12:00"}}, ""},
		{"no user", "", []models.DateRange{{Start: "2026-10-20T09:00", End: "2026-10-20T12:00"}}, "User is required"},
		{"no ranges", "u1", nil, "Add at least one date range"},
		{"reversed range", "u1", []models.DateRange{{Start: "2026-10-20T12:00", End: "2026-10-20T09:00"}}, "End time must be after start time"},
		{"blank range", "u1", []models.DateRange{{}}, "Start and end times are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBackend)
			b.On("AddAvailableDates", mock.Anything, tt.userID, tt.dates).Return(nil)
			s := NewService(b, logger.NewTestLogger(t))

			err := s.AddAvailableDates(context.Background(), tt.userID, tt.dates)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				b.AssertExpectations(t)
				return
			}
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
			b.AssertNotCalled(t, "AddAvailableDates", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// ==========================
// Page
// ==========================

func TestPage_CreateKeepsEmailsAndRefreshes(t *testing.T) {
	b := new(MockBackend)
	b.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)
	b.On("GetEvents", mock.Anything, "a@x.com").Return([]models.Event{{Summary: "Interview - Go Engineer"}}, nil)
	p := NewPage(NewService(b, logger.NewTestLogger(t)))

	require.NoError(t, p.Create(context.Background(), validForm()))

	v := p.View()
	assert.Equal(t, Form{Emails: "a@x.com; b@x.com;;"}, v.Form)
	assert.Equal(t, "a@x.com", v.Email)
	require.Len(t, v.Events, 1)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, notice.LevelSuccess, v.Notices[0].Level)
	assert.Equal(t, "Event created!", v.Notices[0].Title)
}

func TestPage_CreateFailureKeepsForm(t *testing.T) {
	b := new(MockBackend)
	b.On("CreateEvent", mock.Anything, mock.Anything).Return(apperrors.NewBackendError("/calendar/createEvent", 500, "calendar down"))
	p := NewPage(NewService(b, logger.NewTestLogger(t)))

	require.Error(t, p.Create(context.Background(), validForm()))

	v := p.View()
	assert.Equal(t, validForm(), v.Form)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, "Failed to create event", v.Notices[0].Title)
	assert.Equal(t, "calendar down", v.Notices[0].Message)
	b.AssertNotCalled(t, "GetEvents", mock.Anything, mock.Anything)
}

func TestPage_LoadFailureKeepsEvents(t *testing.T) {
	b := new(MockBackend)
	b.On("GetEvents", mock.Anything, "a@x.com").Return([]models.Event{{Summary: "one"}}, nil).Once()
	b.On("GetEvents", mock.Anything, "a@x.com").Return(nil, apperrors.NewBackendUnavailableError("/calendar/getEvent", assert.AnError)).Once()
	p := NewPage(NewService(b, logger.NewTestLogger(t)))

	p.Load(context.Background(), "a@x.com")
	p.Load(context.Background(), "a@x.com")

	v := p.View()
	require.Len(t, v.Events, 1)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, "Failed to fetch events", v.Notices[0].Message)
}
