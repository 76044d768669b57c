// internal/models/event.go
package models

type AttendeeStatus string

const (
	AttendeeAccepted    AttendeeStatus = "accepted"
	AttendeeDeclined    AttendeeStatus = "declined"
	AttendeeTentative   AttendeeStatus = "tentative"
	AttendeeNeedsAction AttendeeStatus = "needsAction"
)

type Attendee struct {
	Email  string         `json:"email"`
	Status AttendeeStatus `json:"status"`
}

type Event struct {
	Summary   string     `json:"summary"`
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Attendees []Attendee `json:"attendees"`
}

// EventRequest is the calendar create body; Email lists attendee addresses.
type EventRequest struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Email       []string `json:"email"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
