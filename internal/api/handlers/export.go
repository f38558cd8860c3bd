package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/internal/storage"
)

var visitExportHeader = []string{
	"Email",
	"First Name",
	"Last Name",
	"Date",
	"Check-In",
	"Check-Out",
	"Purpose",
	"Contact",
	"Language",
}

type ExportHandler struct {
	db *storage.PostgresStore
}

func NewExportHandler(db *storage.PostgresStore) *ExportHandler {
	return &ExportHandler{db: db}
}

// Visits streams the full visit ledger as an XLSX workbook, one row per
// visit entry.
func (h *ExportHandler) Visits(c *gin.Context) {
	visitors, err := h.db.ListVisitorsWithHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, err := generateVisitExport(visitors)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("visits-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func generateVisitExport(visitors []models.Visitor) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Visits"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range visitExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	row := 2
	for _, v := range visitors {
		for _, entry := range v.Visits {
			values := []any{
				v.Email,
				v.FirstName,
				v.LastName,
				entry.Date,
				formatExportTime(entry.CheckInTime),
				formatExportTime(entry.CheckOutTime),
				entry.Purpose,
				entry.Contact,
				entry.Language,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("set row %d: %w", row, err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
