package models

import "time"

// ActivityType names the kind of record an Activity is about.
type ActivityType string

const (
	ActivityMember   ActivityType = "member"
	ActivityInvoice  ActivityType = "invoice"
	ActivityFollowUp ActivityType = "followup"
	ActivityCheckIn  ActivityType = "checkin"
	ActivityTrainer  ActivityType = "trainer"
	ActivityVisitor  ActivityType = "visitor"
	ActivityProtein  ActivityType = "protein"
)

// Activity is one entry of the audit log. Entries are never edited or removed.
type Activity struct {
	ID     string       `json:"id"`
	Type   ActivityType `json:"type"`
	Action string       `json:"action"`

	// Name is the display name of the subject at the time of the action.
	Name string `json:"name"`

	Time     time.Time `json:"time"`
	Details  string    `json:"details,omitempty"`
	MemberID string    `json:"memberId,omitempty"`
}
