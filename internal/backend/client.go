// Package backend is the typed client for the ATS REST backend.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	httpclient "ats-console/internal/common/http"
	"ats-console/internal/models"
)

// Client has one method per backend endpoint. It never retries; a failed call is
// returned as a StandardError for the caller to surface.
type Client struct {
	http *httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func esc(s string) string { return url.PathEscape(s) }

// ==========================
// Jobs
// ==========================

func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var out struct {
		Jobs []models.Job `json:"jobs"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "jobs.list", Method: http.MethodGet, Path: "/jobs/get-jobs"}, &out)
	return out.Jobs, err
}

func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var out struct {
		Job *models.Job `json:"job"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "jobs.get", Method: http.MethodGet, Path: "/jobs/get-jobs/" + esc(id)}, &out)
	if err != nil {
		return nil, err
	}
	if out.Job == nil {
		return nil, notFound("job", id)
	}
	return out.Job, nil
}

func (c *Client) CreateJob(ctx context.Context, job models.JobPayload) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "jobs.create", Method: http.MethodPost, Path: "/jobs/create-job", Body: job}, &out)
	return &out, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, job models.JobPayload) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "jobs.update", Method: http.MethodPost, Path: "/jobs/update-job/" + esc(id), Body: job}, &out)
	return &out, err
}

// DeleteJob uses GET; that is the backend's contract.
func (c *Client) DeleteJob(ctx context.Context, id string) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "jobs.delete", Method: http.MethodGet, Path: "/jobs/delete-job/" + esc(id)}, &out)
	return &out, err
}

// MutationResult is the common acknowledgement body.
type MutationResult struct {
	Message string      `json:"message,omitempty"`
	Job     *models.Job `json:"job,omitempty"`
}

// ==========================
// Applications & verification
// ==========================

func (c *Client) ListApplicants(ctx context.Context, jobID string) ([]models.Application, error) {
	var out struct {
		Applicants []models.Application `json:"applicants"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "applications.list", Method: http.MethodGet, Path: "/applications/get-applicants/" + esc(jobID)}, &out)
	return out.Applicants, err
}

func (c *Client) CreateApplication(ctx context.Context, app models.Application) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "applications.create", Method: http.MethodPost, Path: "/applications/", Body: app}, &out)
	return &out, err
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, applicantID, jobID, status string) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{
		Name:   "applications.update_status",
		Method: http.MethodPut,
		Path:   "/applications/update-status/" + esc(applicantID) + "/" + esc(jobID),
		Body:   map[string]string{"status": status},
	}, &out)
	return &out, err
}

func (c *Client) StartVerification(ctx context.Context, req models.VerificationRequest) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "verification.start", Method: http.MethodPost, Path: "/verification/start", Body: req}, &out)
	return &out, err
}

func (c *Client) SubmitVerification(ctx context.Context, sub models.CaptchaSubmission) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "verification.submit", Method: http.MethodPost, Path: "/verification/submit", Body: sub}, &out)
	return &out, err
}

// ==========================
// Resume filters
// ==========================

// GetResumeFilter accepts the filter either bare or wrapped as {"filter": {...}}.
func (c *Client) GetResumeFilter(ctx context.Context, jobID string) (*models.ResumeFilter, error) {
	var out struct {
		models.ResumeFilter
		Filter *models.ResumeFilter `json:"filter"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "filters.get", Method: http.MethodGet, Path: "/resume-filters/get-filters/" + esc(jobID)}, &out)
	if err != nil {
		return nil, err
	}
	f := out.ResumeFilter
	if out.Filter != nil {
		f = *out.Filter
	}
	if f.JobID == "" {
		f.JobID = jobID
	}
	return &f, nil
}

func (c *Client) UpsertResumeFilter(ctx context.Context, f models.ResumeFilter) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "filters.upsert", Method: http.MethodPost, Path: "/resume-filters/upsert-filter", Body: f}, &out)
	return &out, err
}

func (c *Client) RefineResumeFilter(ctx context.Context, conds []models.ResumeFilterCondition) ([]models.ResumeFilterCondition, error) {
	var out struct {
		Conditions []models.ResumeFilterCondition `json:"conditions"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{
		Name:   "filters.refine",
		Method: http.MethodPost,
		Path:   "/resume-filters/refine-filter",
		Body:   map[string]interface{}{"conditions": conds},
	}, &out)
	return out.Conditions, err
}

// ==========================
// Messages
// ==========================

func (c *Client) SyncMessages(ctx context.Context) error {
	return c.http.DoJSON(ctx, httpclient.Request{Name: "messages.sync", Method: http.MethodGet, Path: "/messages/sync-messages"}, nil)
}

func (c *Client) FetchMessages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "messages.list", Method: http.MethodGet, Path: "/messages/db-messages"}, &out)
	return out, err
}

func (c *Client) DeleteMessage(ctx context.Context, id string, byThreadID bool) error {
	return c.http.DoJSON(ctx, httpclient.Request{
		Name:   "messages.delete",
		Method: http.MethodDelete,
		Path:   "/messages/delete/" + esc(id),
		Query:  url.Values{"byThreadId": {strconv.FormatBool(byThreadID)}},
	}, nil)
}

// OutgoingMail is a new message. Attachments go out as "attachments" file parts.
type OutgoingMail struct {
	To          []string
	Subject     string
	Body        string
	Attachments []httpclient.File
}

func (c *Client) SendMessage(ctx context.Context, m OutgoingMail) error {
	form := httpclient.Multipart{
		Fields: map[string][]string{
			"to":      m.To,
			"subject": {m.Subject},
			"body":    {m.Body},
		},
		Files: withField(m.Attachments, "attachments"),
	}
	return c.http.DoMultipart(ctx, httpclient.Request{Name: "messages.send", Method: http.MethodPost, Path: "/messages/send"}, form, nil)
}

// ReplyMail answers inside an existing thread.
type ReplyMail struct {
	To                string
	Subject           string
	BodyText          string
	ThreadID          string
	OriginalMessageID string
	ReplyToMessageID  string
	Attachments       []httpclient.File
}

func (c *Client) ReplyToMessage(ctx context.Context, m ReplyMail) error {
	form := httpclient.Multipart{
		Fields: map[string][]string{
			"to":                {m.To},
			"subject":           {m.Subject},
			"bodyText":          {m.BodyText},
			"threadId":          {m.ThreadID},
			"originalMessageId": {m.OriginalMessageID},
			"replyToMessageId":  {m.ReplyToMessageID},
		},
		Files: withField(m.Attachments, "attachments"),
	}
	return c.http.DoMultipart(ctx, httpclient.Request{Name: "messages.reply", Method: http.MethodPost, Path: "/messages/reply-to"}, form, nil)
}

func withField(files []httpclient.File, field string) []httpclient.File {
	out := make([]httpclient.File, len(files))
	for i, f := range files {
		f.Field = field
		out[i] = f
	}
	return out
}

// ==========================
// Calendar, schedules, HR
// ==========================

func (c *Client) CreateEvent(ctx context.Context, ev models.EventRequest) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "calendar.create", Method: http.MethodPost, Path: "/calendar/createEvent", Body: ev}, &out)
	return &out, err
}

func (c *Client) GetEvents(ctx context.Context, email string) ([]models.Event, error) {
	var out []models.Event
	err := c.http.DoJSON(ctx, httpclient.Request{
		Name:   "calendar.list",
		Method: http.MethodGet,
		Path:   "/calendar/getEvent",
		Query:  url.Values{"email": {email}},
	}, &out)
	return out, err
}

func (c *Client) AddAvailableDates(ctx context.Context, userID string, dates []models.DateRange) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoJSON(ctx, httpclient.Request{
		Name:   "schedules.add_dates",
		Method: http.MethodPost,
		Path:   "/schedules/add-dates/" + esc(userID),
		Body:   map[string]interface{}{"dates": dates},
	}, &out)
	return &out, err
}

func (c *Client) GetHREmail(ctx context.Context) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{Name: "hr.email", Method: http.MethodGet, Path: "/hr/get-email"}, &out)
	return out.Email, err
}

// ==========================
// Resumes
// ==========================

// UploadResumes posts files as repeated form parts named field.
func (c *Client) UploadResumes(ctx context.Context, field string, files []httpclient.File) (*MutationResult, error) {
	var out MutationResult
	err := c.http.DoMultipart(ctx, httpclient.Request{Name: "resumes.upload", Method: http.MethodPost, Path: "/api/resumes/upload"},
		httpclient.Multipart{Files: withField(files, field)}, &out)
	return &out, err
}
