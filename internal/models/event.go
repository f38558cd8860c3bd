package models

import "time"

type VisitEventType string

const (
	VisitRegistered VisitEventType = "registered"
	VisitCheckedIn  VisitEventType = "checked_in"
	VisitCheckedOut VisitEventType = "checked_out"
)

// VisitChange is the message published to NATS after a successful
// ledger transition. Downstream consumers (dashboard broadcast, the
// summary indexer) subscribe to it instead of hooking into storage.
type VisitChange struct {
	Type       VisitEventType `json:"type"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Entry      VisitEntry     `json:"entry"`
	OccurredAt time.Time      `json:"occurred_at"`
}
