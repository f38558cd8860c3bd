package analytics

import "github.com/your-org/kiosk/internal/models"

// Insight is a per-visitor profile derived from the visit history,
// used by reception to anticipate a returning visitor.
type Insight struct {
	TotalVisits     int      `json:"total_visits"`
	LastVisitDate   string   `json:"last_visit_date,omitempty"`
	FrequentPurpose string   `json:"frequent_purpose,omitempty"`
	FrequentContact string   `json:"frequent_contact,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// BuildInsight summarizes one visitor's history. Placeholder purposes
// and contacts still count as values; an empty history yields zeroes.
func BuildInsight(v models.Visitor) Insight {
	ins := Insight{
		TotalVisits:     len(v.Visits),
		Recommendations: []string{},
	}
	if last := v.LastVisit(); last != nil {
		ins.LastVisitDate = last.Date
	}

	purposes := make([]string, 0, len(v.Visits))
	contacts := make([]string, 0, len(v.Visits))
	for _, entry := range v.Visits {
		purposes = append(purposes, entry.Purpose)
		contacts = append(contacts, entry.Contact)
	}
	ins.FrequentPurpose = mostFrequent(purposes)
	ins.FrequentContact = mostFrequent(contacts)

	if ins.FrequentPurpose == "Réunion" {
		ins.Recommendations = append(ins.Recommendations, "Préparer la salle de réunion avant son arrivée.")
	}
	if ins.TotalVisits > 5 {
		ins.Recommendations = append(ins.Recommendations, "Visiteur régulier : proposer un badge permanent.")
	}
	return ins
}

func mostFrequent(values []string) string {
	counts := map[string]int{}
	best := ""
	bestCount := 0
	for _, val := range values {
		if val == "" {
			continue
		}
		counts[val]++
		if counts[val] > bestCount {
			bestCount = counts[val]
			best = val
		}
	}
	return best
}
