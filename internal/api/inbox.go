package api

import (
	"strings"

	httpclient "ats-console/internal/common/http"
	"ats-console/internal/inbox"

	"github.com/gin-gonic/gin"
)

func (s *Server) createInbox(c *gin.Context) {
	id, p := s.inbox.mount(func(string) *inbox.Page {
		return inbox.NewPage(s.deps.Inbox, s.deps.Observability)
	})
	// A failed load is reported through the page's notices.
	_ = p.Load(c.Request.Context())
	s.inbox.respondCreated(c, id, p)
}

func (s *Server) refreshInbox(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	_ = p.Load(c.Request.Context())
	s.inbox.respondView(c, p)
}

type selectSenderRequest struct {
	Sender string `json:"sender"`
}

func (s *Server) selectSender(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	var req selectSenderRequest
	if !bindJSON(c, &req) {
		return
	}
	s.inbox.respond(c, p, p.Viewer.SelectSender(req.Sender), "")
}

func (s *Server) selectThread(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	s.inbox.respond(c, p, p.Viewer.SelectThread(c.Param("threadId")), "")
}

func (s *Server) back(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	p.Viewer.Back()
	s.inbox.respondView(c, p)
}

func (s *Server) deleteThread(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	s.inbox.respond(c, p, p.DeleteThread(c.Request.Context(), c.Param("threadId")), "Failed to delete conversation.")
}

// ==========================
// Reply & compose
// ==========================

// mailForm is the body of reply and compose requests, sent either as JSON or as a
// multipart form carrying attachments.
type mailForm struct {
	To      string `json:"to" form:"to"`
	Subject string `json:"subject" form:"subject"`
	Body    string `json:"body" form:"body"`
}

func bindMail(c *gin.Context) (mailForm, []httpclient.File, bool) {
	var f mailForm
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		ok := bindJSON(c, &f)
		return f, nil, ok
	}
	f.To = c.PostForm("to")
	f.Subject = c.PostForm("subject")
	f.Body = c.PostForm("body")

	uploads, err := readUploads(c, "attachments")
	if err != nil {
		respondError(c, err, "")
		return f, nil, false
	}
	files := make([]httpclient.File, len(uploads))
	for i, u := range uploads {
		files[i] = httpclient.File{Field: "attachments", Filename: u.Name, ContentType: u.ContentType, Content: u.Content}
	}
	return f, files, true
}

func (s *Server) reply(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	f, files, ok := bindMail(c)
	if !ok {
		return
	}
	s.inbox.respond(c, p, p.Reply(c.Request.Context(), f.Body, files), "Failed to send reply.")
}

func (s *Server) compose(c *gin.Context) {
	p, ok := s.inbox.lookup(c)
	if !ok {
		return
	}
	f, files, ok := bindMail(c)
	if !ok {
		return
	}
	err := p.Send(c.Request.Context(), inbox.Compose{To: f.To, Subject: f.Subject, Body: f.Body, Attachments: files})
	s.inbox.respond(c, p, err, "Failed to send email.")
}
