package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/internal/storage"
	"github.com/your-org/kiosk/pkg/dto"
)

type EmployeeHandler struct {
	db *storage.PostgresStore
}

func NewEmployeeHandler(db *storage.PostgresStore) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emp := models.Employee{
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Location:   req.Location,
		Guidance:   req.Guidance,
	}
	if err := h.db.CreateEmployee(c.Request.Context(), &emp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) List(c *gin.Context) {
	all, err := h.db.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.EmployeeResponse, 0, len(all))
	for _, emp := range all {
		resp = append(resp, toEmployeeResponse(emp))
	}
	c.JSON(http.StatusOK, gin.H{"employees": resp, "total": len(resp)})
}

func toEmployeeResponse(emp models.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         emp.ID,
		Email:      emp.Email,
		Name:       emp.Name,
		Role:       emp.Role,
		Department: emp.Department,
		Location:   emp.Location,
		Guidance:   emp.Guidance,
		CreatedAt:  emp.CreatedAt.Format(time.RFC3339),
	}
}
