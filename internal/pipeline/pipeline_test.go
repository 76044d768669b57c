package pipeline

import (
	"bytes"
	"context"
	"testing"

	"ats-console/internal/backend"
	"ats-console/internal/common/config"
	apperrors "ats-console/internal/common/errors"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/logger"
	"ats-console/internal/models"
	"ats-console/internal/notice"
	"ats-console/internal/resumefilter"
	"ats-console/internal/schedule"
	"ats-console/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetJob(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockBackend) ListApplicants(ctx context.Context, jobID string) ([]models.Application, error) {
	args := m.Called(ctx, jobID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *MockBackend) StartVerification(ctx context.Context, req models.VerificationRequest) (*backend.MutationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*backend.MutationResult)
	return res, args.Error(1)
}

func (m *MockBackend) GetResumeFilter(ctx context.Context, jobID string) (*models.ResumeFilter, error) {
	args := m.Called(ctx, jobID)
	f, _ := args.Get(0).(*models.ResumeFilter)
	return f, args.Error(1)
}

func (m *MockBackend) UpsertResumeFilter(ctx context.Context, f models.ResumeFilter) (*backend.MutationResult, error) {
	args := m.Called(ctx, f)
	return &backend.MutationResult{}, args.Error(0)
}

func (m *MockBackend) RefineResumeFilter(ctx context.Context, conds []models.ResumeFilterCondition) ([]models.ResumeFilterCondition, error) {
	args := m.Called(ctx, conds)
	out, _ := args.Get(0).([]models.ResumeFilterCondition)
	return out, args.Error(1)
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

func (m *MockBackend) UploadResumes(ctx context.Context, field string, files []httpclient.File) (*backend.MutationResult, error) {
	args := m.Called(ctx, field, files)
	return &backend.MutationResult{}, args.Error(0)
}

func app(id, email, status, at string) models.Application {
	return models.Application{Applicant: models.Candidate{ID: id, Name: "Name " + id, Email: email}, Status: status, AppliedAt: at}
}

func newTestPage(t *testing.T, b *MockBackend) *Page {
	log := logger.NewTestLogger(t)
	return NewPage(Deps{
		Backend:        b,
		Filters:        resumefilter.NewService(b, log),
		Schedule:       schedule.NewService(b, log),
		Uploader:       upload.NewUploader(b, config.UploadConfig{}, log),
		InterviewNotes: "Notes",
		Logger:         log,
	}, "j1")
}

// ==========================
// Board
// ==========================

func TestBuildBoard_AlwaysFourColumns(t *testing.T) {
	b := BuildBoard("j1", nil)

	require.Len(t, b.Columns, 4)
	for i, c := range b.Columns {
		assert.Equal(t, Stages[i], c.Stage)
		assert.True(t, c.Empty)
		assert.Equal(t, EmptyColumnText, c.EmptyText)
		assert.NotNil(t, c.Applications)
	}
	assert.Empty(t, b.Other)
}

func TestBuildBoard_NormalizesStatus(t *testing.T) {
	apps := []models.Application{
		app("1", "a@x.com", "Screened", ""),
		app("2", "b@x.com", "verified", ""),
		app("3", "c@x.com", " Screened ", ""),
		app("4", "", "Hired", ""),
	}

	b := BuildBoard("j1", apps)

	screened, _ := b.Column(StageScreened)
	assert.Equal(t, 2, screened.Count)
	assert.Equal(t, "1", screened.Applications[0].Applicant.ID)
	assert.Equal(t, "3", screened.Applications[1].Applicant.ID)

	verified, _ := b.Column(StageVerified)
	assert.Equal(t, 1, verified.Count)
	assert.False(t, verified.Empty)
	assert.Empty(t, verified.EmptyText)

	require.Len(t, b.Other, 1)
	assert.Equal(t, "4", b.Other[0].Applicant.ID)
	assert.Equal(t, 4, b.Total())

	assert.Equal(t, []string{"1", "3"}, b.ApplicantIDsByStage(StageScreened))
	assert.Equal(t, []string{"b@x.com"}, b.EmailsByStage(StageVerified))
}

func TestBuildBoard_EmailsSkipBlank(t *testing.T) {
	b := BuildBoard("j1", []models.Application{
		app("1", "", "Verified", ""),
		app("2", "b@x.com", "VERIFIED", ""),
	})
	assert.Equal(t, []string{"b@x.com"}, b.EmailsByStage(StageVerified))
	assert.Equal(t, []string{}, b.EmailsByStage(StageApplied))
}

func TestStageActions(t *testing.T) {
	tests := []struct {
		stage Stage
		want  StageAction
	}{
		{StageApplied, StageAction{"Filter", "bi-funnel", "primary", ActionOpenFilter}},
		{StageScreened, StageAction{"Verify", "bi-check-circle", "info", ActionStartVerification}},
		{StageVerified, StageAction{"Schedule Interview", "bi-calendar-event", "success", ActionOpenScheduling}},
		{StageInterviewScheduled, StageAction{"Mark Interviewed", "bi-check2-all", "warning", ActionNone}},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			got, ok := ActionFor(tt.stage)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ==========================
// Verification
// ==========================

func TestVerifier_SendsScreenedIDs(t *testing.T) {
	b := new(MockBackend)
	b.On("StartVerification", mock.Anything, models.VerificationRequest{JobID: "j1", Applicants: []string{"1", "3"}}).
		Return(&backend.MutationResult{Message: "Emails queued"}, nil)
	v := NewVerifier(b, logger.NewTestLogger(t))
	notices := notice.NewCenter()

	board := BuildBoard("j1", []models.Application{
		app("1", "a@x.com", "Screened", ""),
		app("2", "b@x.com", "verified", ""),
		app("3", "c@x.com", "Screened", ""),
	})
	n := v.StartVerification(context.Background(), board, notices)

	assert.Equal(t, notice.LevelSuccess, n.Level)
	assert.Equal(t, "Verification Sent", n.Title)
	assert.Equal(t, "Emails queued", n.Message)
	b.AssertExpectations(t)
}

func TestVerifier_FallbackMessage(t *testing.T) {
	b := new(MockBackend)
	b.On("StartVerification", mock.Anything, mock.Anything).Return(&backend.MutationResult{}, nil)
	v := NewVerifier(b, logger.NewTestLogger(t))

	n := v.StartVerification(context.Background(), BuildBoard("j1", []models.Application{app("1", "", "screened", "")}), notice.NewCenter())
	assert.Equal(t, "Verification successful!", n.Message)
}

func TestVerifier_NoScreenedMakesNoCall(t *testing.T) {
	b := new(MockBackend)
	v := NewVerifier(b, logger.NewTestLogger(t))
	notices := notice.NewCenter()

	n := v.StartVerification(context.Background(), BuildBoard("j1", []models.Application{app("1", "", "Applied", "")}), notices)

	assert.Equal(t, notice.LevelInfo, n.Level)
	assert.Equal(t, "No Verification Sent", n.Title)
	assert.Equal(t, "No candidates to verify.", n.Message)
	assert.Equal(t, 1, notices.Len())
	b.AssertNotCalled(t, "StartVerification", mock.Anything, mock.Anything)
}

func TestVerifier_Failure(t *testing.T) {
	b := new(MockBackend)
	b.On("StartVerification", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewBackendError("/verification/start", 500, "mailer offline"))
	v := NewVerifier(b, logger.NewTestLogger(t))

	n := v.StartVerification(context.Background(), BuildBoard("j1", []models.Application{app("1", "", "Screened", "")}), notice.NewCenter())
	assert.Equal(t, notice.LevelError, n.Level)
	assert.Equal(t, "Verification Failed", n.Title)
	assert.Equal(t, "mailer offline", n.Message)
}

// ==========================
// Page
// ==========================

func TestPage_Load(t *testing.T) {
	b := new(MockBackend)
	b.On("GetJob", mock.Anything, "j1").Return(&models.Job{ID: "j1", Title: "Go Engineer"}, nil)
	b.On("ListApplicants", mock.Anything, "j1").Return([]models.Application{app("1", "a@x.com", "Verified", "")}, nil)
	b.On("GetResumeFilter", mock.Anything, "j1").Return(nil, apperrors.NewNotFoundError("filter", ""))
	p := newTestPage(t, b)

	require.NoError(t, p.Load(context.Background()))

	v := p.View()
	assert.Equal(t, "Go Engineer", v.Job.Title)
	verified, _ := v.Board.Column(StageVerified)
	assert.Equal(t, 1, verified.Count)
	assert.Equal(t, "j1", v.Filter.JobID)
	assert.Empty(t, v.Filter.Conditions)
	assert.Empty(t, v.Notices)
}

func TestPage_LoadPartialFailureKeepsOtherParts(t *testing.T) {
	b := new(MockBackend)
	b.On("GetJob", mock.Anything, "j1").Return(&models.Job{ID: "j1", Title: "Go Engineer"}, nil)
	b.On("ListApplicants", mock.Anything, "j1").Return(nil, apperrors.NewBackendError("/applications", 500, "db down"))
	b.On("GetResumeFilter", mock.Anything, "j1").Return(&models.ResumeFilter{JobID: "j1"}, nil)
	p := newTestPage(t, b)

	require.Error(t, p.Load(context.Background()))

	v := p.View()
	assert.Equal(t, "Go Engineer", v.Job.Title)
	assert.Len(t, v.Board.Columns, 4)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, "Error loading applicants", v.Notices[0].Title)
	assert.Equal(t, "db down", v.Notices[0].Message)
}

func TestPage_SchedulingFromVerified(t *testing.T) {
	b := new(MockBackend)
	b.On("GetJob", mock.Anything, "j1").Return(&models.Job{ID: "j1", Title: "Go Engineer"}, nil)
	b.On("ListApplicants", mock.Anything, "j1").Return([]models.Application{
		app("1", "a@x.com", "Verified", ""),
		app("2", "", "verified", ""),
		app("3", "c@x.com", "Screened", ""),
	}, nil)
	b.On("GetResumeFilter", mock.Anything, "j1").Return(&models.ResumeFilter{JobID: "j1"}, nil)
	b.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)
	p := newTestPage(t, b)
	require.NoError(t, p.Load(context.Background()))

	form := p.OpenScheduling()
	assert.Equal(t, "Interview - Go Engineer", form.Summary)
	assert.Equal(t, "a@x.com", form.Emails)
	assert.Equal(t, "Notes", form.Description)
	assert.True(t, p.ScheduleDialog.Visible())

	form.Start, form.End = "2026-10-20T09:00", "2026-10-20T10:00"
	require.NoError(t, p.ScheduleInterview(context.Background(), form))
	assert.False(t, p.ScheduleDialog.Visible())
	assert.Equal(t, schedule.Form{}, p.ScheduleDialog.Form())
}

func TestPage_ScheduleInvalidKeepsDialogOpen(t *testing.T) {
	b := new(MockBackend)
	p := newTestPage(t, b)

	err := p.ScheduleInterview(context.Background(), schedule.Form{Summary: "x"})
	require.Error(t, err)
	assert.True(t, p.ScheduleDialog.Visible())
	assert.Equal(t, "x", p.ScheduleDialog.Form().Summary)
	b.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestPage_ScheduleBackendFailureStillResets(t *testing.T) {
	b := new(MockBackend)
	b.On("CreateEvent", mock.Anything, mock.Anything).Return(apperrors.NewBackendUnavailableError("/calendar/createEvent", assert.AnError))
	p := newTestPage(t, b)

	err := p.ScheduleInterview(context.Background(), schedule.Form{
		Summary: "x", Start: "2026-10-20T09:00", End: "2026-10-20T10:00", Emails: "a@x.com",
	})
	require.Error(t, err)
	assert.False(t, p.ScheduleDialog.Visible())
	assert.Equal(t, schedule.Form{}, p.ScheduleDialog.Form())
	n := p.Notices.List()
	require.Len(t, n, 1)
	assert.Equal(t, "Failed to create event", n[0].Message)
}

func TestPage_FilterDialog(t *testing.T) {
	b := new(MockBackend)
	conds := []models.ResumeFilterCondition{{Field: "Skills", Requirement: "Go"}}
	refined := []models.ResumeFilterCondition{{Field: "Skills", Requirement: "Go, 3+ years", InterpretedByLLM: "clarified"}}
	b.On("RefineResumeFilter", mock.Anything, conds).Return(refined, nil)
	b.On("UpsertResumeFilter", mock.Anything, models.ResumeFilter{JobID: "j1", Conditions: refined}).Return(nil)
	p := newTestPage(t, b)

	p.OpenFilter()
	f, err := p.EditFilter(func(f models.ResumeFilter) (models.ResumeFilter, error) {
		return resumefilter.Add(f), nil
	})
	require.NoError(t, err)
	require.Len(t, f.Conditions, 1)

	got, err := p.RefineFilter(context.Background(), conds)
	require.NoError(t, err)
	assert.Equal(t, refined, got.Conditions)
	assert.True(t, p.FilterDialog.Visible())

	require.NoError(t, p.SaveFilter(context.Background(), got.Conditions))
	assert.False(t, p.FilterDialog.Visible())
	assert.Equal(t, refined, p.Filter().Conditions)
	b.AssertExpectations(t)
}

func TestPage_Uploads(t *testing.T) {
	b := new(MockBackend)
	b.On("UploadResumes", mock.Anything, "resumes", mock.Anything).Return(nil)
	p := newTestPage(t, b)

	rejected := p.AddUploads([]upload.File{
		{Name: "a.pdf", ContentType: "application/pdf", Size: 10},
		{Name: "big.pdf", ContentType: "application/pdf", Size: 6 * 1024 * 1024},
		{Name: "cv.docx", ContentType: "application/msword", Size: 2 * 1024 * 1024},
	})
	assert.Len(t, rejected, 2)
	assert.Equal(t, 2, p.Notices.Len())

	n, err := p.SubmitUploads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, p.Uploads.Len())
	list := p.Notices.List()
	assert.Equal(t, "Upload successful", list[len(list)-1].Title)
}

func TestPage_UploadFailureNotice(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"backend message", apperrors.NewBackendError("/upload/resumes", 413, "Storage quota exceeded"), "Storage quota exceeded"},
		{"unreachable", apperrors.NewBackendUnavailableError("/upload/resumes", assert.AnError), "Upload failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBackend)
			b.On("UploadResumes", mock.Anything, "resumes", mock.Anything).Return(tt.err)
			p := newTestPage(t, b)
			p.AddUploads([]upload.File{{Name: "a.pdf", ContentType: "application/pdf", Size: 10}})

			_, err := p.SubmitUploads(context.Background())
			require.Error(t, err)
			list := p.Notices.List()
			require.NotEmpty(t, list)
			assert.Equal(t, "Upload failed", list[len(list)-1].Title)
			assert.Equal(t, tt.message, list[len(list)-1].Message)
		})
	}
}

// ==========================
// Export
// ==========================

func TestExportBoard(t *testing.T) {
	board := BuildBoard("j1", []models.Application{
		app("1", "a@x.com", "Applied", "2026-10-01T10:00:00Z"),
		app("2", "b@x.com", "Hired", ""),
	})
	data, err := ExportBoard(board, &models.Job{Title: "Go Engineer", Status: models.JobOpen})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Candidates"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", title)

	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Stage", "Name", "Email", "Applied At", "Skills"}, rows[0])
	assert.Equal(t, "Applied", rows[1][0])
	assert.Equal(t, "a@x.com", rows[1][2])
	assert.Equal(t, "Other", rows[2][0])
}
