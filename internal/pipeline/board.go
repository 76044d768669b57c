package pipeline

import (
	"ats-console/internal/grouping"
	"ats-console/internal/models"
)

const EmptyColumnText = "No candidates in this stage"

type Column struct {
	Stage        Stage                `json:"stage"`
	Action       StageAction          `json:"action"`
	Applications []models.Application `json:"applications"`
	Count        int                  `json:"count"`
	Empty        bool                 `json:"empty"`
	EmptyText    string               `json:"emptyText,omitempty"`
}

// Board always has one column per stage, in stage order. Applications whose status
// matches no stage are kept in Other.
type Board struct {
	JobID   string               `json:"jobId"`
	Columns []Column             `json:"columns"`
	Other   []models.Application `json:"other"`

	groups *grouping.Groups[string, models.Application]
}

func statusKey(a models.Application) string { return grouping.NormalizeStatus(a.Status) }

func BuildBoard(jobID string, apps []models.Application) *Board {
	g := grouping.GroupBy(apps, statusKey)
	b := &Board{JobID: jobID, Columns: make([]Column, 0, len(Stages)), Other: []models.Application{}, groups: g}

	known := make(map[string]bool, len(Stages))
	for _, s := range Stages {
		known[s.Key()] = true
		items := g.Get(s.Key())
		if items == nil {
			items = []models.Application{}
		}
		action, _ := ActionFor(s)
		col := Column{Stage: s, Action: action, Applications: items, Count: len(items), Empty: len(items) == 0}
		if col.Empty {
			col.EmptyText = EmptyColumnText
		}
		b.Columns = append(b.Columns, col)
	}
	for _, k := range g.Keys() {
		if !known[k] {
			b.Other = append(b.Other, g.Get(k)...)
		}
	}
	return b
}

func (b *Board) Column(s Stage) (Column, bool) {
	for _, c := range b.Columns {
		if c.Stage == s {
			return c, true
		}
	}
	return Column{}, false
}

// EmailsByStage lists the non-empty applicant emails of a stage in board order.
func (b *Board) EmailsByStage(s Stage) []string {
	out := []string{}
	for _, a := range b.groups.Get(s.Key()) {
		if a.Applicant.Email != "" {
			out = append(out, a.Applicant.Email)
		}
	}
	return out
}

// ApplicantIDsByStage lists candidate ids whose normalized status is the stage.
func (b *Board) ApplicantIDsByStage(s Stage) []string {
	out := []string{}
	for _, a := range b.groups.Get(s.Key()) {
		out = append(out, a.Applicant.ID)
	}
	return out
}

// Total counts every application on the board, Other included.
func (b *Board) Total() int {
	n := len(b.Other)
	for _, c := range b.Columns {
		n += c.Count
	}
	return n
}
