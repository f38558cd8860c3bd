package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/your-org/kiosk/internal/models"
)

// UnknownDepartment is returned when no strategy resolves a name.
// Absence of directory data is never an error.
const UnknownDepartment = "N/A"

// Departments is the fixed set the dashboard aggregates over.
var Departments = []string{"Ventes", "IT", "Marketing", "RH", "Finance", "Sécurité"}

// fallbackDepartments maps known first names of unregistered contacts
// to their department, for people visitors name informally before the
// directory record exists.
var fallbackDepartments = map[string]string{
	"chaima":  "Marketing",
	"alaa":    "IT",
	"mr zine": "Ventes",
	"aicha":   "RH",
	"ahmed":   "Finance",
	"mr zin":  "Sécurité",
}

// Source is the directory lookup the resolver consults first.
type Source interface {
	FindEmployee(ctx context.Context, nameOrEmail string) (*models.Employee, error)
}

// Strategy resolves a contact name to a department, reporting a miss
// with ok=false.
type Strategy func(ctx context.Context, name string) (string, bool)

// Resolver maps a free-text contact reference to a department through
// an ordered strategy chain: exact directory lookup, then the static
// fallback table, then UnknownDepartment. It never fails.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(src Source) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			sourceLookup(src),
			fallbackLookup,
		},
	}
}

// Resolve returns the department for a contact name or email,
// short-circuiting on the first strategy that hits.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	for _, s := range r.strategies {
		if dept, ok := s(ctx, name); ok {
			return dept
		}
	}
	return UnknownDepartment
}

func sourceLookup(src Source) Strategy {
	return func(ctx context.Context, name string) (string, bool) {
		if src == nil {
			return "", false
		}
		emp, err := src.FindEmployee(ctx, name)
		if err != nil {
			// A directory outage degrades to the fallback table.
			slog.Warn("directory lookup", "name", name, "error", err)
			return "", false
		}
		if emp == nil || emp.Department == "" {
			return "", false
		}
		return emp.Department, true
	}
}

func fallbackLookup(_ context.Context, name string) (string, bool) {
	dept, ok := fallbackDepartments[strings.ToLower(strings.TrimSpace(name))]
	return dept, ok
}
