package handlers

import (
	"time"

	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/pkg/dto"
)

func toVisitorResponse(v models.Visitor, withVisits bool) dto.VisitorResponse {
	resp := dto.VisitorResponse{
		ID:           v.ID,
		Email:        v.Email,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		Type:         string(v.Type),
		RegisteredAt: v.RegisteredAt.Format(time.RFC3339),
	}
	if v.PhotoKey != "" {
		resp.PhotoURL = "/v1/visitors/" + v.Email + "/photo"
	}
	if withVisits {
		resp.Visits = make([]dto.VisitEntryResponse, 0, len(v.Visits))
		for _, e := range v.Visits {
			resp.Visits = append(resp.Visits, toEntryResponse(e))
		}
	}
	return resp
}

func toEntryResponse(e models.VisitEntry) dto.VisitEntryResponse {
	resp := dto.VisitEntryResponse{
		ID:       e.ID,
		Date:     e.Date,
		Time:     e.TimeOfDay,
		Purpose:  e.Purpose,
		Language: e.Language,
		Contact:  e.Contact,
	}
	if e.CheckInTime != nil {
		resp.CheckInTime = e.CheckInTime.Format(time.RFC3339)
	}
	if e.CheckOutTime != nil {
		resp.CheckOutTime = e.CheckOutTime.Format(time.RFC3339)
	}
	return resp
}
