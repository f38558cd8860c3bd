package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/kiosk/internal/analytics"
	"github.com/your-org/kiosk/internal/storage"
	"github.com/your-org/kiosk/internal/visits"
	"github.com/your-org/kiosk/pkg/dto"
)

type VisitorHandler struct {
	db     *storage.PostgresStore
	minio  *storage.MinIOStore
	ledger *visits.Ledger
}

func NewVisitorHandler(db *storage.PostgresStore, minio *storage.MinIOStore, ledger *visits.Ledger) *VisitorHandler {
	return &VisitorHandler{db: db, minio: minio, ledger: ledger}
}

// Register handles the kiosk registration form: store the photo,
// upsert the visitor, record the check-in, and return guidance toward
// the contact employee.
func (h *VisitorHandler) Register(c *gin.Context) {
	var req dto.RegisterVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := decodePhoto(req.Photo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo encoding"})
		return
	}

	photoKey := "visitors/" + req.Email + "/" + uuid.New().String() + ".jpg"
	if err := h.minio.PutObject(c.Request.Context(), photoKey, photo, "image/jpeg"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store photo failed"})
		return
	}

	_, _, err = h.ledger.CheckIn(c.Request.Context(), visits.CheckInRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhotoKey:  photoKey,
		Purpose:   req.Purpose,
		Contact:   req.Contact,
		Language:  req.Language,
		Register:  true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.RegisterVisitorResponse{
		Success:  true,
		Message:  "visitor registered",
		PhotoURL: "/v1/visitors/" + req.Email + "/photo",
	}
	if req.Contact != "" {
		if emp, err := h.db.FindEmployee(c.Request.Context(), req.Contact); err == nil && emp != nil {
			resp.Location = emp.Location
			resp.Guidance = emp.Guidance
			if resp.Guidance == "" {
				resp.Guidance = defaultGuidance(emp.Location)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// CheckIn records a check-in for an already known visitor. Repeated
// check-ins on the same business date update the open entry in place.
func (h *VisitorHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitor, entry, err := h.ledger.CheckIn(c.Request.Context(), visits.CheckInRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Purpose:   req.Purpose,
		Contact:   req.Contact,
		Language:  req.Language,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.CheckInResponse{
		Success: true,
		Visitor: toVisitorResponse(*visitor, false),
		Entry:   toEntryResponse(*entry),
	})
}

// CheckOut closes today's open visit for the given email.
func (h *VisitorHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.ledger.CheckOut(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, visits.ErrNoOpenVisit) {
			c.JSON(http.StatusNotFound, dto.CheckOutResponse{
				Success: false,
				Message: "visitor not found or no ongoing visit today",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.CheckOutResponse{Success: true, Message: "checked out"})
}

func (h *VisitorHandler) List(c *gin.Context) {
	all, err := h.db.ListVisitorsWithHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.VisitorResponse, 0, len(all))
	for _, v := range all {
		resp = append(resp, toVisitorResponse(v, true))
	}
	c.JSON(http.StatusOK, gin.H{"visitors": resp, "total": len(resp)})
}

func (h *VisitorHandler) Get(c *gin.Context) {
	visitor, err := h.db.GetVisitorByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if visitor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visitor not found"})
		return
	}

	c.JSON(http.StatusOK, toVisitorResponse(*visitor, true))
}

// Insight summarizes a visitor's history for the reception screen.
func (h *VisitorHandler) Insight(c *gin.Context) {
	visitor, err := h.db.GetVisitorByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if visitor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visitor not found"})
		return
	}

	ins := analytics.BuildInsight(*visitor)
	c.JSON(http.StatusOK, dto.InsightResponse{
		Email:           visitor.Email,
		TotalVisits:     ins.TotalVisits,
		LastVisitDate:   ins.LastVisitDate,
		FrequentPurpose: ins.FrequentPurpose,
		FrequentContact: ins.FrequentContact,
		Recommendations: ins.Recommendations,
	})
}

// Photo proxies the visitor photo from MinIO.
func (h *VisitorHandler) Photo(c *gin.Context) {
	visitor, err := h.db.GetVisitorByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if visitor == nil || visitor.PhotoKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), visitor.PhotoKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// decodePhoto accepts raw base64 or a data URL.
func decodePhoto(photo string) ([]byte, error) {
	if i := strings.Index(photo, "base64,"); i >= 0 {
		photo = photo[i+len("base64,"):]
	}
	return base64.StdEncoding.DecodeString(photo)
}

func defaultGuidance(location string) string {
	floor := "restez au rez-de-chaussée"
	switch {
	case strings.Contains(location, "Étage 1"):
		floor = "prenez l'ascenseur au 1er étage"
	case strings.Contains(location, "2ème"):
		floor = "prenez l'ascenseur au 2ème étage"
	}
	return fmt.Sprintf("Depuis l'accueil, %s, puis dirigez-vous vers %s.", floor, location)
}
