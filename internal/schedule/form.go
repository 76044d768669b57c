package schedule

import (
	"strings"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/validation"
	"ats-console/internal/grouping"
	"ats-console/internal/models"
)

// Form is the event dialog. Emails is a ";"-separated attendee list.
type Form struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Emails      string `json:"email"`
}

// NewInterviewForm prefills the dialog opened from the Verified column.
func NewInterviewForm(jobTitle string, emails []string, description string) Form {
	return Form{
		Summary:     "Interview - " + jobTitle,
		Description: description,
		Emails:      strings.Join(emails, ";"),
	}
}

var formSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"summary": {Type: "string", Pattern: validation.NonBlank},
		"start":   {Type: "string", MinLength: validation.IntPtr(1)},
		"end":     {Type: "string", MinLength: validation.IntPtr(1)},
		"email":   {Type: "string", Pattern: validation.NonBlank},
	},
	Required: []string{"summary", "start", "end", "email"},
}

var (
	fieldOrder    = []string{"summary", "start", "end", "email"}
	fieldMessages = map[string]string{
		"summary": "Summary is required",
		"start":   "Start and end times are required",
		"end":     "Start and end times are required",
		"email":   "Attendee email is required",
	}
)

// Validate reports the first problem in field order and, on success, returns the
// request to send.
func (f Form) Validate() (models.EventRequest, error) {
	res, err := validation.Validate(f, formSchema)
	if err != nil {
		return models.EventRequest{}, apperrors.NewInternalError("form validation failed", err)
	}
	// the time-order check sits between the presence checks and the email check
	if res.HasErrors("summary") || res.HasErrors("start") || res.HasErrors("end") {
		msg, _ := res.FirstMessage(fieldOrder, fieldMessages)
		return models.EventRequest{}, apperrors.NewValidationError(msg, res.Fields()...)
	}

	start, end := grouping.ParseTimestamp(f.Start), grouping.ParseTimestamp(f.End)
	if start.IsZero() || end.IsZero() {
		return models.EventRequest{}, apperrors.NewValidationError("Start and end times are required", "start", "end")
	}
	if !end.After(start) {
		return models.EventRequest{}, apperrors.NewValidationError("End time must be after start time", "end")
	}

	emails := SplitEmails(f.Emails)
	if res.HasErrors("email") || len(emails) == 0 {
		return models.EventRequest{}, apperrors.NewValidationError(fieldMessages["email"], "email")
	}

	return models.EventRequest{
		Summary:     f.Summary,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		Email:       emails,
	}, nil
}

// SplitEmails splits on ";", trims and drops empties.
func SplitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
