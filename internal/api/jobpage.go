package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/models"
	"ats-console/internal/notice"
	"ats-console/internal/pipeline"
	"ats-console/internal/schedule"
	"ats-console/internal/upload"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) createJobPage(c *gin.Context) {
	jobID := c.Param("id")
	id, p := s.jobPages.mount(func(string) *pipeline.Page {
		return pipeline.NewPage(s.deps.Pipeline, jobID)
	})
	// Parts that fail to load are reported through the page's notices.
	_ = p.Load(c.Request.Context())
	s.jobPages.respondCreated(c, id, p)
}

func (s *Server) reloadJobPage(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	_ = p.Load(c.Request.Context())
	s.jobPages.respondView(c, p)
}

type verifyResponse struct {
	Notice notice.Notice     `json:"notice"`
	View   pipeline.PageView `json:"view"`
}

func (s *Server) verify(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	n := p.Verify(c.Request.Context())
	c.JSON(http.StatusOK, verifyResponse{Notice: n, View: p.View()})
}

// ==========================
// Scheduling
// ==========================

func (s *Server) openScheduling(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	p.OpenScheduling()
	s.jobPages.respondView(c, p)
}

func (s *Server) scheduleInterview(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	var f schedule.Form
	if !bindJSON(c, &f) {
		return
	}
	s.jobPages.respond(c, p, p.ScheduleInterview(c.Request.Context(), f), "Failed to create event")
}

// ==========================
// Resume filter
// ==========================

type filterRequest struct {
	Conditions []models.ResumeFilterCondition `json:"conditions"`
}

func (s *Server) openFilter(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	p.OpenFilter()
	s.jobPages.respondView(c, p)
}

func (s *Server) saveFilter(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	var req filterRequest
	if !bindJSON(c, &req) {
		return
	}
	s.jobPages.respond(c, p, p.SaveFilter(c.Request.Context(), req.Conditions), "Failed to save filter")
}

func (s *Server) refineFilter(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	var req filterRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := p.RefineFilter(c.Request.Context(), req.Conditions)
	s.jobPages.respond(c, p, err, "Failed to refine filter")
}

// ==========================
// Uploads
// ==========================

type addUploadsResponse struct {
	Rejected []upload.Rejection `json:"rejected"`
	View     pipeline.PageView  `json:"view"`
}

func (s *Server) addUploads(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	files, err := readUploads(c, "files")
	if err != nil {
		respondError(c, err, "")
		return
	}
	rejected := p.AddUploads(files)
	if rejected == nil {
		rejected = []upload.Rejection{}
	}
	c.JSON(http.StatusOK, addUploadsResponse{Rejected: rejected, View: p.View()})
}

func (s *Server) removeUpload(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("Index must be a number", "index"), "")
		return
	}
	s.jobPages.respond(c, p, p.RemoveUpload(index), "")
}

type submitUploadsResponse struct {
	Uploaded int               `json:"uploaded"`
	View     pipeline.PageView `json:"view"`
}

func (s *Server) submitUploads(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	n, err := p.SubmitUploads(c.Request.Context())
	if err != nil {
		respondErrorView(c, err, "Upload failed", p.View())
		return
	}
	c.JSON(http.StatusOK, submitUploadsResponse{Uploaded: n, View: p.View()})
}

// ==========================
// Export
// ==========================

func (s *Server) exportBoard(c *gin.Context) {
	p, ok := s.jobPages.lookup(c)
	if !ok {
		return
	}
	data, err := p.Export()
	if err != nil {
		respondError(c, apperrors.NewInternalError("Failed to export pipeline", err), "Failed to export pipeline")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pipeline-%s.xlsx"`, p.JobID()))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// readUploads reads every file of a multipart field into memory.
func readUploads(c *gin.Context, field string) ([]upload.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("Expected a multipart form", field)
	}
	headers := form.File[field]
	files := make([]upload.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to open upload", err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to read upload", err)
		}
		files = append(files, upload.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Content:     content,
		})
	}
	return files, nil
}
