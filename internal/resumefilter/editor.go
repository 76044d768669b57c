package resumefilter

import (
	"fmt"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/models"
)

// Condition field names accepted by Set.
const (
	FieldField            = "field"
	FieldRequirement      = "requirement"
	FieldInterpretedByLLM = "interpretedByLLM"
)

// The edit helpers never modify their argument; each returns a new filter.

func Add(f models.ResumeFilter) models.ResumeFilter {
	out := f.Clone()
	out.Conditions = append(out.Conditions, models.ResumeFilterCondition{})
	return out
}

func Remove(f models.ResumeFilter, index int) (models.ResumeFilter, error) {
	if index < 0 || index >= len(f.Conditions) {
		return f, outOfRange(index)
	}
	out := models.ResumeFilter{JobID: f.JobID, Conditions: make([]models.ResumeFilterCondition, 0, len(f.Conditions)-1)}
	out.Conditions = append(out.Conditions, f.Conditions[:index]...)
	out.Conditions = append(out.Conditions, f.Conditions[index+1:]...)
	return out, nil
}

func Set(f models.ResumeFilter, index int, field, value string) (models.ResumeFilter, error) {
	if index < 0 || index >= len(f.Conditions) {
		return f, outOfRange(index)
	}
	out := f.Clone()
	c := &out.Conditions[index]
	switch field {
	case FieldField:
		c.Field = value
	case FieldRequirement:
		c.Requirement = value
	case FieldInterpretedByLLM:
		c.InterpretedByLLM = value
	default:
		return f, apperrors.NewValidationError(fmt.Sprintf("Unknown condition field %q", field), field)
	}
	return out, nil
}

// Replace swaps in a full condition list, e.g. after Refine.
func Replace(f models.ResumeFilter, conds []models.ResumeFilterCondition) models.ResumeFilter {
	out := models.ResumeFilter{JobID: f.JobID, Conditions: make([]models.ResumeFilterCondition, len(conds))}
	copy(out.Conditions, conds)
	return out
}

func outOfRange(index int) error {
	return apperrors.NewValidationError(fmt.Sprintf("No condition at position %d", index), "index")
}
