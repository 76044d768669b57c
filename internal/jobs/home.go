package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/logger"
	"ats-console/internal/common/observability"
	"ats-console/internal/modal"
	"ats-console/internal/models"
	"ats-console/internal/notice"
)

// EditForm is the edit dialog: the job being edited and its form.
type EditForm struct {
	JobID string `json:"jobId"`
	Form  Form   `json:"form"`
}

// HomeDeps are shared by every home page.
type HomeDeps struct {
	Service       *Service
	Cache         Cache
	TTL           time.Duration
	KeyPrefix     string
	Observability *observability.Observability
	Logger        logger.Logger
}

// HomePage is one open home page. Its job list is cached under the page id and the
// reload token; every successful mutation bumps the token.
type HomePage struct {
	deps   HomeDeps
	pageID string

	mu      sync.Mutex
	reload  int
	jobs    []models.Job
	loadErr string

	CreateDialog *modal.Dialog[Form]
	EditDialog   *modal.Dialog[EditForm]
	DeleteDialog *modal.Dialog[models.Job]
	Notices      *notice.Center
}

func NewHomePage(deps HomeDeps, pageID string) *HomePage {
	return &HomePage{
		deps:         deps,
		pageID:       pageID,
		jobs:         []models.Job{},
		CreateDialog: modal.NewDialog("add-job", NewForm),
		EditDialog:   modal.NewDialog("edit-job", func() EditForm { return EditForm{Form: NewForm()} }),
		DeleteDialog: modal.NewDialog("delete-job", func() models.Job { return models.Job{} }),
		Notices:      notice.NewCenter(),
	}
}

func (h *HomePage) pagePrefix() string {
	return fmt.Sprintf("%s:jobs:%s:", h.deps.KeyPrefix, h.pageID)
}

func (h *HomePage) cacheKey() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("%s%d", h.pagePrefix(), h.reload)
}

func (h *HomePage) ReloadToken() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reload
}

// Load reads the job list for the current reload token, from the cache when it
// has it.
func (h *HomePage) Load(ctx context.Context) error {
	started := time.Now()
	defer h.deps.Observability.RecordView(ctx, "home", started)

	key := h.cacheKey()
	if h.deps.Cache != nil {
		jobs, ok, err := h.deps.Cache.Get(ctx, key)
		if err != nil {
			h.deps.Logger.Warn("Job list cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		if ok {
			h.setJobs(jobs, "")
			return nil
		}
	}

	jobs, err := h.deps.Service.List(ctx)
	if err != nil {
		h.mu.Lock()
		h.loadErr = "Failed to load jobs"
		h.mu.Unlock()
		h.Notices.FromError("Failed to load jobs", err, "")
		return err
	}
	h.setJobs(jobs, "")

	if h.deps.Cache != nil {
		if err := h.deps.Cache.Set(ctx, key, jobs, h.deps.TTL); err != nil {
			h.deps.Logger.Warn("Job list cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return nil
}

func (h *HomePage) setJobs(jobs []models.Job, loadErr string) {
	h.mu.Lock()
	h.jobs = jobs
	h.loadErr = loadErr
	h.mu.Unlock()
}

// Reload bumps the token, drops the page's cached lists and loads again.
func (h *HomePage) Reload(ctx context.Context) error {
	h.mu.Lock()
	h.reload++
	h.mu.Unlock()
	if h.deps.Cache != nil {
		if err := h.deps.Cache.DeletePrefix(ctx, h.pagePrefix()); err != nil {
			h.deps.Logger.Warn("Job list cache invalidation failed", map[string]interface{}{"page": h.pageID, "error": err})
		}
	}
	return h.Load(ctx)
}

// refreshAfterMutation reloads the list once a mutation has succeeded. A failed
// reload raises its own notice and does not fail the mutation.
func (h *HomePage) refreshAfterMutation(ctx context.Context) {
	if err := h.Reload(ctx); err != nil {
		h.deps.Logger.Warn("Job list reload after mutation failed", map[string]interface{}{"page": h.pageID, "error": err})
	}
}

func (h *HomePage) Jobs() []models.Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Job, len(h.jobs))
	copy(out, h.jobs)
	return out
}

func (h *HomePage) find(id string) (models.Job, bool) {
	for _, j := range h.Jobs() {
		if j.ID == id {
			return j, true
		}
	}
	return models.Job{}, false
}

// ==========================
// Create
// ==========================

// Create submits the add dialog. Validation failures keep it open.
func (h *HomePage) Create(ctx context.Context, f Form) error {
	h.CreateDialog.ShowWith(f)
	if _, err := f.ToPayload(); err != nil {
		h.Notices.Error(apperrors.UserMessage(err, "Failed to add job"), "")
		return err
	}
	err := h.CreateDialog.Submit(func(f Form) error {
		if err := h.deps.Service.Create(ctx, f); err != nil {
			h.Notices.FromError("Failed to add job", err, "Failed to add job")
			return err
		}
		h.Notices.Success("Job Added", "")
		return nil
	})
	if err != nil {
		return err
	}
	h.refreshAfterMutation(ctx)
	return nil
}

// ==========================
// Edit
// ==========================

// OpenEdit prefills the edit dialog from the listed job.
func (h *HomePage) OpenEdit(jobID string) (EditForm, error) {
	j, ok := h.find(jobID)
	if !ok {
		return EditForm{}, apperrors.NewNotFoundError("job", fmt.Sprintf("Job %q is not on this page", jobID))
	}
	ef := EditForm{JobID: j.ID, Form: FormFromJob(j)}
	h.EditDialog.ShowWith(ef)
	return ef, nil
}

func (h *HomePage) Update(ctx context.Context, jobID string, f Form) error {
	ef := EditForm{JobID: jobID, Form: f}
	h.EditDialog.ShowWith(ef)
	if _, err := f.ToPayload(); err != nil {
		h.Notices.Error(apperrors.UserMessage(err, "Failed to update job"), "")
		return err
	}
	err := h.EditDialog.Submit(func(ef EditForm) error {
		if err := h.deps.Service.Update(ctx, ef.JobID, ef.Form); err != nil {
			h.Notices.FromError("Failed to update job", err, "Failed to update job")
			return err
		}
		h.Notices.Success("Job Updated", "")
		return nil
	})
	if err != nil {
		return err
	}
	h.refreshAfterMutation(ctx)
	return nil
}

// ==========================
// Delete
// ==========================

// RequestDelete opens the confirmation dialog for a listed job.
func (h *HomePage) RequestDelete(jobID string) (models.Job, error) {
	j, ok := h.find(jobID)
	if !ok {
		return models.Job{}, apperrors.NewNotFoundError("job", fmt.Sprintf("Job %q is not on this page", jobID))
	}
	h.DeleteDialog.ShowWith(j)
	return j, nil
}

// ConfirmDelete deletes the job held by the confirmation dialog.
func (h *HomePage) ConfirmDelete(ctx context.Context) error {
	if !h.DeleteDialog.Visible() {
		return apperrors.NewInvalidStateError("No job is awaiting deletion")
	}
	err := h.DeleteDialog.Submit(func(j models.Job) error {
		if err := h.deps.Service.Delete(ctx, j.ID); err != nil {
			n := h.Notices.FromError("Failed to delete job", err, "Failed to delete job (unknown error)")
			h.mu.Lock()
			h.loadErr = n.Message
			h.mu.Unlock()
			return err
		}
		h.Notices.Success(fmt.Sprintf(`Deleted job "%s" successfully.`, j.Title), "")
		return nil
	})
	if err != nil {
		return err
	}
	h.refreshAfterMutation(ctx)
	return nil
}

// Delete opens and confirms in one step.
func (h *HomePage) Delete(ctx context.Context, jobID string) error {
	if _, err := h.RequestDelete(jobID); err != nil {
		return err
	}
	return h.ConfirmDelete(ctx)
}

// ==========================
// Rendering
// ==========================

type HomeView struct {
	PageID       string                 `json:"pageId"`
	ReloadToken  int                    `json:"reloadToken"`
	Jobs         []models.Job           `json:"jobs"`
	Error        string                 `json:"error,omitempty"`
	CreateDialog modal.View[Form]       `json:"createDialog"`
	EditDialog   modal.View[EditForm]   `json:"editDialog"`
	DeleteDialog modal.View[models.Job] `json:"deleteDialog"`
	Notices      []notice.Notice        `json:"notices"`
}

func (h *HomePage) View() HomeView {
	h.mu.Lock()
	v := HomeView{PageID: h.pageID, ReloadToken: h.reload, Error: h.loadErr}
	h.mu.Unlock()
	v.Jobs = h.Jobs()
	v.CreateDialog = h.CreateDialog.View()
	v.EditDialog = h.EditDialog.View()
	v.DeleteDialog = h.DeleteDialog.View()
	v.Notices = h.Notices.List()
	return v
}

// Close drops the page's cached lists and dialog state.
func (h *HomePage) Close() {
	if h.deps.Cache != nil {
		if err := h.deps.Cache.DeletePrefix(context.Background(), h.pagePrefix()); err != nil {
			h.deps.Logger.Warn("Job list cache cleanup failed", map[string]interface{}{"page": h.pageID, "error": err})
		}
	}
	h.CreateDialog.Hide()
	h.EditDialog.Hide()
	h.DeleteDialog.Hide()
	h.Notices.Clear()
}
