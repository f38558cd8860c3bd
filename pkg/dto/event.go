package dto

// WSEvent is a WebSocket message for real-time visit delivery.
// Type is registered, checked_in or checked_out.
type WSEvent struct {
	Type  string             `json:"type"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
	Data  VisitEntryResponse `json:"data"`
}
