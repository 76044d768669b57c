// Package jobs implements the home page: the job table and its create, edit and
// delete dialogs.
package jobs

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/validation"
	"ats-console/internal/models"
)

const DefaultCurrency = "MYR"

// Form is the add/edit job dialog. Requirements is comma-separated text and the
// salary bounds are the raw inputs.
type Form struct {
	Title          string `json:"title"`
	EmploymentType string `json:"employmentType"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
	MinSalary      string `json:"minSalary"`
	MaxSalary      string `json:"maxSalary"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
}

func NewForm() Form {
	return Form{Currency: DefaultCurrency, Status: string(models.JobOpen)}
}

// FormFromJob prefills the edit dialog.
func FormFromJob(j models.Job) Form {
	f := Form{
		Title:          j.Title,
		EmploymentType: string(j.EmploymentType),
		Description:    j.Description,
		Requirements:   strings.Join(j.Requirements, ", "),
		Currency:       j.SalaryRange.Currency,
		Status:         string(j.Status),
	}
	if j.SalaryRange.Min != 0 {
		f.MinSalary = strconv.FormatFloat(j.SalaryRange.Min, 'f', -1, 64)
	}
	if j.SalaryRange.Max != 0 {
		f.MaxSalary = strconv.FormatFloat(j.SalaryRange.Max, 'f', -1, 64)
	}
	if f.Currency == "" {
		f.Currency = DefaultCurrency
	}
	if f.Status == "" {
		f.Status = string(models.JobOpen)
	}
	return f
}

var formSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":          {Type: "string", Pattern: validation.NonBlank},
		"employmentType": {Type: "string", Pattern: validation.NonBlank},
		"status":         {Type: "string", Pattern: validation.NonBlank},
	},
	Required: []string{"title", "employmentType", "status"},
}

var (
	fieldOrder    = []string{"title", "employmentType", "status"}
	fieldMessages = map[string]string{
		"title":          "Job title is required",
		"employmentType": "Employment type is required",
		"status":         "Status is required",
	}
)

// ToPayload checks the required fields and builds the request body.
func (f Form) ToPayload() (models.JobPayload, error) {
	res, err := validation.Validate(f, formSchema)
	if err != nil {
		return models.JobPayload{}, apperrors.NewInternalError("form validation failed", err)
	}
	if msg, failed := res.FirstMessage(fieldOrder, fieldMessages); failed {
		return models.JobPayload{}, apperrors.NewValidationError(msg, res.Fields()...)
	}

	currency := strings.TrimSpace(f.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return models.JobPayload{
		Title:          f.Title,
		EmploymentType: f.EmploymentType,
		Description:    f.Description,
		Requirements:   SplitRequirements(f.Requirements),
		SalaryRange: models.SalaryRange{
			Min:      ParseSalary(f.MinSalary),
			Max:      ParseSalary(f.MaxSalary),
			Currency: currency,
		},
		Status: f.Status,
	}, nil
}

// SplitRequirements splits on ",", trims and drops empties.
func SplitRequirements(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseSalary reads the leading number of s. Input with no leading number is 0.
func ParseSalary(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
