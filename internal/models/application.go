// internal/models/application.go
package models

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

type WorkExperience struct {
	Company          string `json:"company"`
	JobTitle         string `json:"jobTitle"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Responsibilities string `json:"responsibilities"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Candidate is display-only.
type Candidate struct {
	ID             string           `json:"_id"`
	Name           string           `json:"name"`
	Gender         string           `json:"gender,omitempty"`
	Email          string           `json:"email"`
	DateOfBirth    string           `json:"dateOfBirth,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience,omitempty"`
	Skills         []string         `json:"skills,omitempty"`
	Languages      []Language       `json:"languages,omitempty"`
	ResumeURL      string           `json:"resumeUrl,omitempty"`
}

// Application carries its candidate embedded. Status is free text from the backend.
type Application struct {
	Applicant Candidate `json:"applicant"`
	AppliedAt string    `json:"appliedAt"`
	Status    string    `json:"status"`
}

type VerificationRequest struct {
	JobID      string   `json:"jobID"`
	Applicants []string `json:"applicants"`
}

type CaptchaSubmission struct {
	Token        string `json:"token"`
	CaptchaToken string `json:"captchaToken"`
}
