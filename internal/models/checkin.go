package models

import "time"

// DayLayout formats CheckIn.Date.
const DayLayout = "2006-01-02"

// CheckIn records one member visit.
type CheckIn struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	MemberName  string    `json:"memberName"`
	CheckInTime time.Time `json:"checkInTime"`

	// Date is the calendar day of CheckInTime (DayLayout), used to group visits.
	Date string `json:"date"`
}

// CheckInPatch lists the updatable CheckIn fields.
type CheckInPatch struct {
	MemberID    *string
	MemberName  *string
	CheckInTime *time.Time
}

// Apply copies the supplied fields onto c. Date follows CheckInTime.
func (p CheckInPatch) Apply(c *CheckIn) {
	if p.MemberID != nil {
		c.MemberID = *p.MemberID
	}
	if p.MemberName != nil {
		c.MemberName = *p.MemberName
	}
	if p.CheckInTime != nil {
		c.CheckInTime = *p.CheckInTime
		c.Date = p.CheckInTime.Format(DayLayout)
	}
}
