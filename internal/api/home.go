package api

import (
	"net/http"

	"ats-console/internal/jobs"

	"github.com/gin-gonic/gin"
)

// ==========================
// Home page
// ==========================

func (s *Server) createHome(c *gin.Context) {
	id, p := s.home.mount(func(id string) *jobs.HomePage {
		return jobs.NewHomePage(s.deps.Home, id)
	})
	// A failed load is reported through the page's notices.
	_ = p.Load(c.Request.Context())
	s.home.respondCreated(c, id, p)
}

func (s *Server) reloadHome(c *gin.Context) {
	p, ok := s.home.lookup(c)
	if !ok {
		return
	}
	s.home.respond(c, p, p.Reload(c.Request.Context()), "Failed to load jobs")
}

func (s *Server) createJob(c *gin.Context) {
	p, ok := s.home.lookup(c)
	if !ok {
		return
	}
	var f jobs.Form
	if !bindJSON(c, &f) {
		return
	}
	s.home.respond(c, p, p.Create(c.Request.Context(), f), "Failed to add job")
}

func (s *Server) openEditJob(c *gin.Context) {
	p, ok := s.home.lookup(c)
	if !ok {
		return
	}
	_, err := p.OpenEdit(c.Param("jobId"))
	s.home.respond(c, p, err, "")
}

func (s *Server) updateJob(c *gin.Context) {
	p, ok := s.home.lookup(c)
	if !ok {
		return
	}
	var f jobs.Form
	if !bindJSON(c, &f) {
		return
	}
	s.home.respond(c, p, p.Update(c.Request.Context(), c.Param("jobId"), f), "Failed to update job")
}

func (s *Server) deleteJob(c *gin.Context) {
	p, ok := s.home.lookup(c)
	if !ok {
		return
	}
	s.home.respond(c, p, p.Delete(c.Request.Context(), c.Param("jobId")), "Failed to delete job (unknown error)")
}

// ==========================
// Applications
// ==========================

type statusRequest struct {
	ApplicantID string `json:"applicantId"`
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.deps.Applications.UpdateStatus(c.Request.Context(), req.ApplicantID, req.JobID, req.Status); err != nil {
		respondError(c, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
