package api

import (
	"net/http"

	apperrors "ats-console/internal/common/errors"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details string      `json:"details,omitempty"`
	View    interface{} `json:"view,omitempty"`
}

func newErrorBody(err error, fallback string) (int, errorBody) {
	status := apperrors.HTTPStatus(err)
	if fallback == "" {
		fallback = http.StatusText(status)
	}
	body := errorBody{
		Error: apperrors.UserMessage(err, fallback),
		Code:  string(apperrors.CodeOf(err)),
	}
	if se, ok := apperrors.AsStandard(err); ok {
		body.Details = se.Details
	}
	return status, body
}

func respondError(c *gin.Context, err error, fallback string) {
	status, body := newErrorBody(err, fallback)
	c.AbortWithStatusJSON(status, body)
}

func respondErrorView(c *gin.Context, err error, fallback string, view interface{}) {
	status, body := newErrorBody(err, fallback)
	body.View = view
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body into dst and answers 422 when it cannot.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.NewValidationError("Invalid request body", err.Error()), "")
		return false
	}
	return true
}
