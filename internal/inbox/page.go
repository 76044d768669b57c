package inbox

import (
	"context"
	"sync"
	"time"

	apperrors "ats-console/internal/common/errors"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/observability"
	"ats-console/internal/modal"
	"ats-console/internal/notice"
)

// Page is one open message page.
type Page struct {
	service *Service
	obs     *observability.Observability

	mu        sync.Mutex
	replyBody string

	Viewer        *Viewer
	ComposeDialog *modal.Dialog[Compose]
	Notices       *notice.Center
}

func NewPage(s *Service, obs *observability.Observability) *Page {
	return &Page{
		service:       s,
		obs:           obs,
		Viewer:        NewViewer(),
		ComposeDialog: modal.NewDialog("compose", func() Compose { return Compose{} }),
		Notices:       notice.NewCenter(),
	}
}

func (p *Page) Load(ctx context.Context) error {
	started := time.Now()
	defer p.obs.RecordView(ctx, "inbox", started)

	msgs, syncErr, err := p.service.Load(ctx)
	if syncErr != nil {
		p.Notices.Warn("Mailbox sync failed", apperrors.UserMessage(syncErr, "Showing the last synced messages."))
	}
	if err != nil {
		p.Notices.FromError("Failed to load messages", err, "Failed to load messages")
		return err
	}
	p.Viewer.SetMessages(msgs)
	return nil
}

func (p *Page) refresh(ctx context.Context) {
	msgs, err := p.service.Fetch(ctx)
	if err != nil {
		p.Notices.FromError("Failed to load messages", err, "Failed to load messages")
		return
	}
	p.Viewer.SetMessages(msgs)
}

// Reply sends body to the open thread. The draft is cleared after every attempt
// that reaches the backend.
func (p *Page) Reply(ctx context.Context, body string, attachments []httpclient.File) error {
	draft, err := p.Viewer.ReplyDraft()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.replyBody = body
	p.mu.Unlock()

	if err := p.service.Reply(ctx, draft, body, attachments); err != nil {
		if apperrors.IsValidation(err) {
			p.Notices.Warn("Reply", apperrors.UserMessage(err, ""))
			return err
		}
		p.clearReply()
		p.Notices.FromError("Failed to send reply.", err, "")
		return err
	}
	p.clearReply()
	p.Notices.Success("Reply sent!", "")
	p.refresh(ctx)
	return nil
}

func (p *Page) clearReply() {
	p.mu.Lock()
	p.replyBody = ""
	p.mu.Unlock()
}

// Send submits the compose dialog. A missing recipient keeps the dialog open;
// otherwise the dialog closes and resets whatever the outcome.
func (p *Page) Send(ctx context.Context, c Compose) error {
	p.ComposeDialog.ShowWith(c)
	if len(SplitRecipients(c.To)) == 0 {
		err := apperrors.NewValidationError("Please enter a recipient email.", "to")
		p.Notices.Warn("Compose", err.Message)
		return err
	}
	return p.ComposeDialog.Submit(func(c Compose) error {
		if err := p.service.Send(ctx, c); err != nil {
			p.Notices.FromError("Failed to send email.", err, "")
			return err
		}
		p.Notices.Success("Email sent!", "")
		p.refresh(ctx)
		return nil
	})
}

// DeleteThread removes the thread at the backend and then locally, without a
// re-fetch.
func (p *Page) DeleteThread(ctx context.Context, threadID string) error {
	if err := p.service.DeleteThread(ctx, threadID); err != nil {
		p.Notices.FromError("Failed to delete conversation.", err, "")
		return err
	}
	p.Viewer.RemoveThread(threadID)
	p.Notices.Success("Conversation deleted successfully.", "")
	return nil
}

type PageView struct {
	State         State               `json:"state"`
	Senders       []Sender            `json:"senders"`
	Sender        string              `json:"selectedSender,omitempty"`
	Threads       []ThreadSummary     `json:"threads"`
	Thread        *ThreadDetail       `json:"thread,omitempty"`
	Reply         *ReplyDraft         `json:"reply,omitempty"`
	ReplyBody     string              `json:"replyBody"`
	ComposeDialog modal.View[Compose] `json:"composeDialog"`
	Notices       []notice.Notice     `json:"notices"`
}

func (p *Page) View() PageView {
	sender, _ := p.Viewer.Selected()
	v := PageView{
		State:         p.Viewer.State(),
		Senders:       p.Viewer.Senders(),
		Sender:        sender,
		Threads:       []ThreadSummary{},
		ComposeDialog: p.ComposeDialog.View(),
		Notices:       p.Notices.List(),
	}
	if sender != "" {
		v.Threads = p.Viewer.Threads()
	}
	if d, ok := p.Viewer.Detail(); ok {
		v.Thread = &d
		if r, err := p.Viewer.ReplyDraft(); err == nil {
			v.Reply = &r
		}
	}
	p.mu.Lock()
	v.ReplyBody = p.replyBody
	p.mu.Unlock()
	return v
}

func (p *Page) Close() {
	p.ComposeDialog.Hide()
	p.clearReply()
	p.Notices.Clear()
}
