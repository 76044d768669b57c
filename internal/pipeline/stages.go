// Package pipeline builds the job page: the four-stage candidate board, its column
// actions and the dialogs opened from them.
package pipeline

import "ats-console/internal/grouping"

type Stage string

const (
	StageApplied            Stage = "Applied"
	StageScreened           Stage = "Screened"
	StageVerified           Stage = "Verified"
	StageInterviewScheduled Stage = "Interview Scheduled"
)

// Stages is the column order of the board.
var Stages = []Stage{StageApplied, StageScreened, StageVerified, StageInterviewScheduled}

// Key is the grouping key applications of this stage carry.
func (s Stage) Key() string { return grouping.NormalizeStatus(string(s)) }

type ActionKind string

const (
	ActionOpenFilter        ActionKind = "open-filter"
	ActionStartVerification ActionKind = "start-verification"
	ActionOpenScheduling    ActionKind = "open-scheduling"
	ActionNone              ActionKind = "none"
)

// StageAction is the button rendered in a column footer.
type StageAction struct {
	Label string     `json:"label"`
	Icon  string     `json:"icon"`
	Color string     `json:"color"`
	Kind  ActionKind `json:"kind"`
}

var stageActions = map[Stage]StageAction{
	StageApplied:            {Label: "Filter", Icon: "bi-funnel", Color: "primary", Kind: ActionOpenFilter},
	StageScreened:           {Label: "Verify", Icon: "bi-check-circle", Color: "info", Kind: ActionStartVerification},
	StageVerified:           {Label: "Schedule Interview", Icon: "bi-calendar-event", Color: "success", Kind: ActionOpenScheduling},
	StageInterviewScheduled: {Label: "Mark Interviewed", Icon: "bi-check2-all", Color: "warning", Kind: ActionNone},
}

func ActionFor(s Stage) (StageAction, bool) {
	a, ok := stageActions[s]
	return a, ok
}
