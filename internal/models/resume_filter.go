// internal/models/resume_filter.go
package models

type ResumeFilterCondition struct {
	Field            string `json:"field"`
	Requirement      string `json:"requirement"`
	InterpretedByLLM string `json:"interpretedByLLM"`
}

// ResumeFilter is always saved whole; the backend replaces the stored conditions.
type ResumeFilter struct {
	JobID      string                  `json:"jobId"`
	Conditions []ResumeFilterCondition `json:"conditions"`
}

// Clone copies the condition slice so edits never alias the caller's data.
func (f ResumeFilter) Clone() ResumeFilter {
	out := ResumeFilter{JobID: f.JobID, Conditions: make([]ResumeFilterCondition, len(f.Conditions))}
	copy(out.Conditions, f.Conditions)
	return out
}
