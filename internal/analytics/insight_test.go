package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/kiosk/internal/models"
)

func entryOn(date, purpose, contact string) models.VisitEntry {
	in := time.Now()
	return models.VisitEntry{Date: date, CheckInTime: &in, Purpose: purpose, Contact: contact}
}

func TestBuildInsightEmptyHistory(t *testing.T) {
	ins := BuildInsight(models.Visitor{Email: "a@x.com"})

	assert.Equal(t, 0, ins.TotalVisits)
	assert.Empty(t, ins.LastVisitDate)
	assert.Empty(t, ins.FrequentPurpose)
	assert.Empty(t, ins.Recommendations)
}

func TestBuildInsightFrequentValues(t *testing.T) {
	v := models.Visitor{
		Email: "a@x.com",
		Visits: []models.VisitEntry{
			entryOn("2024-01-10", "Réunion", "alaa"),
			entryOn("2024-01-11", "Livraison", "alaa"),
			entryOn("2024-01-12", "Réunion", "chaima"),
		},
	}

	ins := BuildInsight(v)

	assert.Equal(t, 3, ins.TotalVisits)
	assert.Equal(t, "2024-01-12", ins.LastVisitDate)
	assert.Equal(t, "Réunion", ins.FrequentPurpose)
	assert.Equal(t, "alaa", ins.FrequentContact)
	assert.Contains(t, ins.Recommendations, "Préparer la salle de réunion avant son arrivée.")
}

func TestBuildInsightRegularVisitor(t *testing.T) {
	v := models.Visitor{Email: "a@x.com"}
	for i := 0; i < 6; i++ {
		v.Visits = append(v.Visits, entryOn("2024-01-10", "Livraison", "alaa"))
	}

	ins := BuildInsight(v)

	assert.Contains(t, ins.Recommendations, "Visiteur régulier : proposer un badge permanent.")
}

func TestRenderSummary(t *testing.T) {
	v := models.Visitor{
		Email:     "a@x.com",
		FirstName: "Marie",
		LastName:  "Dupont",
		Visits: []models.VisitEntry{
			entryOn("2024-01-10", "Réunion", "mr zin"),
		},
	}

	doc := RenderSummary(v)

	assert.Contains(t, doc, "Marie Dupont")
	assert.Contains(t, doc, "a@x.com")
	assert.Contains(t, doc, "Nombre de visites : 1.")
	assert.Contains(t, doc, "Dernière visite : 2024-01-10.")
	assert.Contains(t, doc, "Mr Zine")
}
