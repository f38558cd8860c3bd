package analytics

import (
	"fmt"
	"strings"

	"github.com/your-org/kiosk/internal/models"
)

// RenderSummary produces the plain-text profile document stored for a
// visitor, one sentence per fact, in the reception language.
func RenderSummary(v models.Visitor) string {
	ins := BuildInsight(v)

	var b strings.Builder
	fmt.Fprintf(&b, "Visiteur : %s (%s).\n", v.FullName(), v.Email)
	fmt.Fprintf(&b, "Nombre de visites : %d.\n", ins.TotalVisits)
	if ins.LastVisitDate != "" {
		fmt.Fprintf(&b, "Dernière visite : %s.\n", ins.LastVisitDate)
	}
	if ins.FrequentPurpose != "" {
		fmt.Fprintf(&b, "Motif habituel : %s.\n", ins.FrequentPurpose)
	}
	if ins.FrequentContact != "" {
		fmt.Fprintf(&b, "Contact habituel : %s.\n", NormalizeContact(ins.FrequentContact))
	}
	for _, rec := range ins.Recommendations {
		fmt.Fprintf(&b, "Recommandation : %s\n", rec)
	}
	return b.String()
}
