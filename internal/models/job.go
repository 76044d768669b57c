// internal/models/job.go
package models

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "Full-Time"
	EmploymentPartTime   EmploymentType = "Part-Time"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
)

var EmploymentTypes = []EmploymentType{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship}

type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
	JobPaused JobStatus = "Paused"
)

var JobStatuses = []JobStatus{JobOpen, JobClosed, JobPaused}

type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Job is owned by the backend; the console only reads and forwards edits.
type Job struct {
	ID             string         `json:"_id"`
	Title          string         `json:"title"`
	EmploymentType EmploymentType `json:"employmentType"`
	Description    string         `json:"description"`
	Requirements   []string       `json:"requirements"`
	SalaryRange    SalaryRange    `json:"salaryRange"`
	Status         JobStatus      `json:"status"`
	CreatedAt      string         `json:"createdAt,omitempty"`
}

// JobPayload is the body of create and update requests.
type JobPayload struct {
	Title          string      `json:"title"`
	EmploymentType string      `json:"employmentType"`
	Description    string      `json:"description"`
	Requirements   []string    `json:"requirements"`
	SalaryRange    SalaryRange `json:"salaryRange"`
	Status         string      `json:"status"`
}
