package dto

import "github.com/google/uuid"

// RegisterVisitorRequest is the kiosk registration form. Photo is a
// base64 JPEG, optionally as a data URL. Registration doubles as the
// first check-in of the day.
type RegisterVisitorRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Photo     string `json:"photo" binding:"required"`
	Purpose   string `json:"purpose"`
	Contact   string `json:"contact"`
	Language  string `json:"language"`
}

type RegisterVisitorResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PhotoURL string `json:"photo_url,omitempty"`
	Location string `json:"location,omitempty"`
	Guidance string `json:"guidance,omitempty"`
}

type CheckInRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Purpose   string `json:"purpose"`
	Contact   string `json:"contact"`
	Language  string `json:"language"`
}

type CheckInResponse struct {
	Success bool               `json:"success"`
	Visitor VisitorResponse    `json:"visitor"`
	Entry   VisitEntryResponse `json:"entry"`
}

type CheckOutRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CheckOutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VisitorResponse struct {
	ID           uuid.UUID            `json:"id"`
	Email        string               `json:"email"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	PhotoURL     string               `json:"photo_url,omitempty"`
	Type         string               `json:"type"`
	RegisteredAt string               `json:"registered_at"`
	Visits       []VisitEntryResponse `json:"visits,omitempty"`
}

type VisitEntryResponse struct {
	ID           uuid.UUID `json:"id"`
	Date         string    `json:"date"`
	Time         string    `json:"time,omitempty"`
	CheckInTime  string    `json:"check_in_time,omitempty"`
	CheckOutTime string    `json:"check_out_time,omitempty"`
	Purpose      string    `json:"purpose"`
	Language     string    `json:"language"`
	Contact      string    `json:"contact"`
}

type InsightResponse struct {
	Email           string   `json:"email"`
	TotalVisits     int      `json:"total_visits"`
	LastVisitDate   string   `json:"last_visit_date,omitempty"`
	FrequentPurpose string   `json:"frequent_purpose,omitempty"`
	FrequentContact string   `json:"frequent_contact,omitempty"`
	Recommendations []string `json:"recommendations"`
}
