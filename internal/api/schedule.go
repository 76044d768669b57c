package api

import (
	"net/http"

	"ats-console/internal/models"
	"ats-console/internal/schedule"
	"ats-console/internal/verification"

	"github.com/gin-gonic/gin"
)

type schedulePageRequest struct {
	Email string `json:"email"`
}

func (s *Server) createSchedule(c *gin.Context) {
	var req schedulePageRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	id, p := s.schedules.mount(func(string) *schedule.Page {
		return schedule.NewPage(s.deps.Schedule)
	})
	p.Load(c.Request.Context(), req.Email)
	s.schedules.respondCreated(c, id, p)
}

func (s *Server) listEvents(c *gin.Context) {
	p, ok := s.schedules.lookup(c)
	if !ok {
		return
	}
	p.Load(c.Request.Context(), c.Query("email"))
	s.schedules.respondView(c, p)
}

func (s *Server) createEvent(c *gin.Context) {
	p, ok := s.schedules.lookup(c)
	if !ok {
		return
	}
	var f schedule.Form
	if !bindJSON(c, &f) {
		return
	}
	s.schedules.respond(c, p, p.Create(c.Request.Context(), f), "Failed to create event")
}

type availabilityRequest struct {
	UserID string             `json:"userId"`
	Dates  []models.DateRange `json:"dates"`
}

func (s *Server) addAvailability(c *gin.Context) {
	var req availabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.deps.Schedule.AddAvailableDates(c.Request.Context(), req.UserID, req.Dates); err != nil {
		respondError(c, err, "Failed to add available dates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": len(req.Dates)})
}

// ==========================
// Candidate verification
// ==========================

type captchaRequest struct {
	Token        string `json:"token"`
	CaptchaToken string `json:"captchaToken"`
}

func (s *Server) submitVerification(c *gin.Context) {
	var req captchaRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := s.deps.Verification.Submit(c.Request.Context(), req.Token, req.CaptchaToken)
	if err != nil {
		respondError(c, err, verification.MsgFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
