package models

import (
	"time"

	"github.com/google/uuid"
)

type VisitorType string

const (
	VisitorTypeEmployee VisitorType = "employee"
	VisitorTypeVisitor  VisitorType = "visitor"
)

// Default placeholders for fields the kiosk form leaves blank.
const (
	UnspecifiedPurpose = "unspecified"
	UnspecifiedContact = "unspecified"
)

// Visitor is an identity record keyed by email. Visits holds one entry
// per physical visit, in check-in order. Visitors are mutated only
// through the presence ledger; entries are never deleted.
type Visitor struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Email        string       `json:"email" db:"email"`
	FirstName    string       `json:"first_name" db:"first_name"`
	LastName     string       `json:"last_name" db:"last_name"`
	PhotoKey     string       `json:"photo_key,omitempty" db:"photo_key"`
	Type         VisitorType  `json:"type" db:"type"`
	RegisteredAt time.Time    `json:"registered_at" db:"registered_at"`
	Visits       []VisitEntry `json:"visits"`
}

func (v Visitor) FullName() string {
	return v.FirstName + " " + v.LastName
}

// LastVisit returns the most recent entry, or nil if there is none.
func (v Visitor) LastVisit() *VisitEntry {
	if len(v.Visits) == 0 {
		return nil
	}
	return &v.Visits[len(v.Visits)-1]
}

// VisitEntry is one physical visit. Date is the organizational
// business date (YYYY-MM-DD), distinct from the raw check-in instant:
// a visit that starts at 23:50 and closes at 00:10 stays attached to
// the check-in's business date.
type VisitEntry struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	VisitorID    uuid.UUID  `json:"visitor_id" db:"visitor_id"`
	Date         string     `json:"date" db:"date"`
	TimeOfDay    string     `json:"time,omitempty" db:"time_of_day"`
	CheckInTime  *time.Time `json:"check_in_time" db:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time" db:"check_out_time"`
	Purpose      string     `json:"purpose" db:"purpose"`
	Language     string     `json:"language" db:"language"`
	Contact      string     `json:"contact" db:"contact"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Open reports whether the visit has a check-in but no check-out yet.
func (e VisitEntry) Open() bool {
	return e.CheckInTime != nil && e.CheckOutTime == nil
}

// Completed reports whether both instants are recorded.
func (e VisitEntry) Completed() bool {
	return e.CheckInTime != nil && e.CheckOutTime != nil
}

// Duration returns the dwell time of a completed visit.
func (e VisitEntry) Duration() time.Duration {
	if !e.Completed() {
		return 0
	}
	return e.CheckOutTime.Sub(*e.CheckInTime)
}
