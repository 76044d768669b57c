package pipeline

import (
	"context"
	"sync"
	"time"

	"ats-console/internal/common/config"
	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/common/observability"
	"ats-console/internal/modal"
	"ats-console/internal/models"
	"ats-console/internal/notice"
	"ats-console/internal/resumefilter"
	"ats-console/internal/schedule"
	"ats-console/internal/upload"

	"golang.org/x/sync/errgroup"
)

type Backend interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListApplicants(ctx context.Context, jobID string) ([]models.Application, error)
	VerificationBackend
}

// Deps are shared by every job page.
type Deps struct {
	Backend        Backend
	Filters        *resumefilter.Service
	Schedule       *schedule.Service
	Uploader       *upload.Uploader
	Uploads        config.UploadConfig
	InterviewNotes string
	Observability  *observability.Observability
	Logger         logger.Logger
}

// Page is the state of one open job page.
type Page struct {
	mu     sync.Mutex
	deps   Deps
	jobID  string
	job    *models.Job
	board  *Board
	filter models.ResumeFilter

	verifier       *Verifier
	FilterDialog   *modal.Dialog[models.ResumeFilter]
	ScheduleDialog *modal.Dialog[schedule.Form]
	Uploads        *upload.Batch
	Notices        *notice.Center
}

func NewPage(deps Deps, jobID string) *Page {
	return &Page{
		deps:           deps,
		jobID:          jobID,
		board:          BuildBoard(jobID, nil),
		filter:         resumefilter.Empty(jobID),
		verifier:       NewVerifier(deps.Backend, deps.Logger),
		FilterDialog:   modal.NewDialog("filter-configuration", func() models.ResumeFilter { return resumefilter.Empty(jobID) }),
		ScheduleDialog: modal.NewDialog("schedule-interview", func() schedule.Form { return schedule.Form{} }),
		Uploads:        upload.NewBatch(deps.Uploads),
		Notices:        notice.NewCenter(),
	}
}

func (p *Page) JobID() string { return p.jobID }

// Load fetches the job, its applicants and its resume filter concurrently. A part
// that fails keeps its previous state and adds an error notice.
func (p *Page) Load(ctx context.Context) error {
	started := time.Now()
	defer p.deps.Observability.RecordView(ctx, "job", started)

	var g errgroup.Group
	g.Go(func() error {
		job, err := p.deps.Backend.GetJob(ctx, p.jobID)
		if err != nil {
			p.Notices.FromError("Failed to load job", err, "Failed to load job")
			return err
		}
		p.mu.Lock()
		p.job = job
		p.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		apps, err := p.deps.Backend.ListApplicants(ctx, p.jobID)
		if err != nil {
			p.Notices.Error("Error loading applicants", apperrors.UserMessage(err, "An unexpected error occurred"))
			return err
		}
		p.mu.Lock()
		p.board = BuildBoard(p.jobID, apps)
		p.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		f, err := p.deps.Filters.Get(ctx, p.jobID)
		if err != nil {
			p.Notices.FromError("Failed to load resume filter", err, "Failed to load resume filter")
			return err
		}
		p.mu.Lock()
		p.filter = f
		p.mu.Unlock()
		return nil
	})

	err := g.Wait()
	if err != nil {
		p.deps.Logger.Warn("Job page loaded partially", map[string]interface{}{"jobId": p.jobID, "error": err})
	}
	return err
}

func (p *Page) Board() *Board {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board
}

func (p *Page) Job() *models.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.job
}

// ==========================
// Column actions
// ==========================

func (p *Page) Verify(ctx context.Context) notice.Notice {
	return p.verifier.StartVerification(ctx, p.Board(), p.Notices)
}

// OpenScheduling prefills the interview dialog with the Verified candidates.
func (p *Page) OpenScheduling() schedule.Form {
	p.mu.Lock()
	title := ""
	if p.job != nil {
		title = p.job.Title
	}
	emails := p.board.EmailsByStage(StageVerified)
	p.mu.Unlock()

	form := schedule.NewInterviewForm(title, emails, p.deps.InterviewNotes)
	p.ScheduleDialog.ShowWith(form)
	return form
}

// ScheduleInterview creates the event described by form. An invalid form leaves the
// dialog open; once the backend is called the dialog closes whatever the outcome.
func (p *Page) ScheduleInterview(ctx context.Context, form schedule.Form) error {
	if _, err := form.Validate(); err != nil {
		p.ScheduleDialog.ShowWith(form)
		p.Notices.Error("Invalid event", apperrors.UserMessage(err, ""))
		return err
	}
	p.ScheduleDialog.Update(func(f *schedule.Form) { *f = form })

	return p.ScheduleDialog.Submit(func(f schedule.Form) error {
		if _, err := p.deps.Schedule.CreateEvent(ctx, f); err != nil {
			p.Notices.FromError("Failed to create event", err, "Failed to create event")
			return err
		}
		p.Notices.Success("Event created!", "")
		return nil
	})
}

// ==========================
// Filter configuration
// ==========================

func (p *Page) Filter() models.ResumeFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter.Clone()
}

// OpenFilter shows the filter dialog with a copy of the saved conditions.
func (p *Page) OpenFilter() models.ResumeFilter {
	f := p.Filter()
	p.FilterDialog.ShowWith(f)
	return f
}

// EditFilter applies an editor operation to the open dialog's conditions.
func (p *Page) EditFilter(op func(models.ResumeFilter) (models.ResumeFilter, error)) (models.ResumeFilter, error) {
	next, err := op(p.FilterDialog.Form())
	if err != nil {
		return models.ResumeFilter{}, err
	}
	p.FilterDialog.Update(func(f *models.ResumeFilter) { *f = next })
	return next, nil
}

// RefineFilter replaces the dialog's conditions with the backend's reinterpretation.
// The dialog stays open so the result can be reviewed before saving.
func (p *Page) RefineFilter(ctx context.Context, conds []models.ResumeFilterCondition) (models.ResumeFilter, error) {
	refined, err := p.deps.Filters.Refine(ctx, conds)
	if err != nil {
		p.Notices.FromError("Failed to refine filter", err, "Failed to refine filter")
		return models.ResumeFilter{}, err
	}
	current := p.FilterDialog.Form()
	current.JobID = p.jobID
	next := resumefilter.Replace(current, refined)
	p.FilterDialog.ShowWith(next)
	return next, nil
}

// SaveFilter upserts the complete condition list and closes the dialog.
func (p *Page) SaveFilter(ctx context.Context, conds []models.ResumeFilterCondition) error {
	p.FilterDialog.Update(func(f *models.ResumeFilter) {
		*f = resumefilter.Replace(models.ResumeFilter{JobID: p.jobID}, conds)
	})
	return p.FilterDialog.Submit(func(f models.ResumeFilter) error {
		if err := p.deps.Filters.Save(ctx, f); err != nil {
			p.Notices.FromError("Failed to save filter", err, "Failed to save filter")
			return err
		}
		p.mu.Lock()
		p.filter = f.Clone()
		p.mu.Unlock()
		p.Notices.Success("Filter saved", "")
		return nil
	})
}

// ==========================
// Resume uploads
// ==========================

// AddUploads adds files to the batch and warns about every skipped one.
func (p *Page) AddUploads(files []upload.File) []upload.Rejection {
	rejected := p.Uploads.Add(files)
	for _, r := range rejected {
		p.Notices.Warn("File skipped", r.Message)
	}
	return rejected
}

func (p *Page) RemoveUpload(index int) error {
	return p.Uploads.Remove(index)
}

func (p *Page) SubmitUploads(ctx context.Context) (int, error) {
	n, err := p.deps.Uploader.Upload(ctx, p.Uploads)
	if err != nil {
		if apperrors.IsValidation(err) {
			p.Notices.Warn("Upload", apperrors.UserMessage(err, ""))
		} else {
			p.Notices.FromError("Upload failed", err, "Upload failed")
		}
		return 0, err
	}
	p.Notices.Success("Upload successful", "")
	return n, nil
}

// ==========================
// Rendering
// ==========================

func (p *Page) Export() ([]byte, error) {
	p.mu.Lock()
	board, job := p.board, p.job
	p.mu.Unlock()
	return ExportBoard(board, job)
}

type PageView struct {
	JobID          string                          `json:"jobId"`
	Job            *models.Job                     `json:"job"`
	Board          *Board                          `json:"board"`
	Filter         models.ResumeFilter             `json:"filter"`
	FilterDialog   modal.View[models.ResumeFilter] `json:"filterDialog"`
	ScheduleDialog modal.View[schedule.Form]       `json:"scheduleDialog"`
	Uploads        upload.View                     `json:"uploads"`
	Notices        []notice.Notice                 `json:"notices"`
}

func (p *Page) View() PageView {
	p.mu.Lock()
	v := PageView{JobID: p.jobID, Job: p.job, Board: p.board, Filter: p.filter.Clone()}
	p.mu.Unlock()

	v.FilterDialog = p.FilterDialog.View()
	v.ScheduleDialog = p.ScheduleDialog.View()
	v.Uploads = p.Uploads.View()
	v.Notices = p.Notices.List()
	return v
}

// Close releases the page's transient state when it is unmounted.
func (p *Page) Close() {
	p.FilterDialog.Hide()
	p.ScheduleDialog.Hide()
	p.Uploads.Clear()
	p.Notices.Clear()
}
