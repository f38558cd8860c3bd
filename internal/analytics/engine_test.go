package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/kiosk/internal/models"
)

type staticResolver struct {
	departments map[string]string
}

func (r staticResolver) Resolve(_ context.Context, name string) string {
	if dept, ok := r.departments[name]; ok {
		return dept
	}
	return "N/A"
}

func testEngine(t *testing.T, now time.Time, departments map[string]string) *Engine {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	e := NewEngine(loc, staticResolver{departments: departments})
	e.now = func() time.Time { return now }
	return e
}

func parisTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	require.NoError(t, err)
	return ts
}

func visit(t *testing.T, checkIn string, checkOut string, contact string) models.VisitEntry {
	t.Helper()
	in := parisTime(t, checkIn)
	entry := models.VisitEntry{
		Date:        in.Format("2006-01-02"),
		CheckInTime: &in,
		Purpose:     "Réunion",
		Contact:     contact,
	}
	if checkOut != "" {
		out := parisTime(t, checkOut)
		entry.CheckOutTime = &out
	}
	return entry
}

func TestComputeDwellAndActive(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	visitors := []models.Visitor{
		{
			Email: "a@x.com",
			Visits: []models.VisitEntry{
				visit(t, "2024-01-10 09:00", "2024-01-10 09:45", "alaa"),
			},
		},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, 45, snap.Summary.AverageDuration)
	assert.Equal(t, 0, snap.Summary.ActiveVisitors, "checked-out visitor is not active")
	assert.Equal(t, 1, snap.Summary.TotalVisitors)
}

func TestComputeActiveVisitorsWindow(t *testing.T) {
	now := parisTime(t, "2024-01-15 12:00")
	e := testEngine(t, now, nil)

	visitors := []models.Visitor{
		{Email: "fresh@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-15 09:00", "", "alaa"),
		}},
		{Email: "stale@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-13 09:00", "", "alaa"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, 1, snap.Summary.ActiveVisitors, "open visits older than 24h are not active")
}

func TestHourlyHistogramAndPeak(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-10 09:05", "", "alaa"),
			visit(t, "2024-01-11 09:30", "", "alaa"),
			visit(t, "2024-01-12 14:10", "", "alaa"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	require.Len(t, snap.Hourly, 24)
	assert.Equal(t, "0h", snap.Hourly[0].Hour)
	assert.Equal(t, 2, snap.Hourly[9].Visitors)
	assert.Equal(t, 1, snap.Hourly[14].Visitors)
	assert.Equal(t, "9h", snap.Summary.PeakHour)
}

func TestPeakHourNoTraffic(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	snap := e.Compute(context.Background(), nil, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, "N/A", snap.Summary.PeakHour)
	assert.Equal(t, "N/A", snap.Summary.TopEmployee)
	assert.Equal(t, "N/A", snap.Summary.TopDepartment)
	assert.Equal(t, 0, snap.Summary.TotalVisitors)
	assert.Equal(t, 0, snap.Summary.AverageDuration)
}

func TestVisitorTrendFromZeroPrevious(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	// Five distinct visitors in January, none in December.
	var visitors []models.Visitor
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		visitors = append(visitors, models.Visitor{
			Email:  email,
			Visits: []models.VisitEntry{visit(t, "2024-01-10 10:00", "", "alaa")},
		})
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, 5, snap.Summary.TotalVisitors)
	assert.Equal(t, "100", snap.Summary.VisitorTrend)
}

func TestVisitorTrendFlat(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2023-12-10 10:00", "", "alaa"),
			visit(t, "2024-01-10 10:00", "", "alaa"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, "0", snap.Summary.VisitorTrend)
}

func TestEmployeeRollupAliasesAndOrder(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), map[string]string{
		"Mr Zine": "Ventes",
		"Alaa":    "IT",
	})

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-10 10:00", "", "mr zin"),
			visit(t, "2024-01-11 10:00", "", "MR ZINE"),
			visit(t, "2024-01-12 10:00", "", "zine"),
			visit(t, "2024-01-13 10:00", "", "alaa"),
			visit(t, "2024-01-14 10:00", "", "unspecified"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	require.Len(t, snap.Employees, 2, "aliases collapse and placeholders are excluded")
	assert.Equal(t, "Mr Zine", snap.Employees[0].Name)
	assert.Equal(t, 3, snap.Employees[0].Visits)
	assert.Equal(t, "Ventes", snap.Employees[0].Department)
	assert.Equal(t, "Alaa", snap.Employees[1].Name)
	assert.Equal(t, 1, snap.Employees[1].Visits)
	assert.Equal(t, "Mr Zine", snap.Summary.TopEmployee)
	assert.Equal(t, "Ventes", snap.Summary.TopDepartment)
}

func TestDepartmentRollupPercentages(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), map[string]string{
		"Alaa":   "IT",
		"Chaima": "Marketing",
	})

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-10 10:00", "", "alaa"),
			visit(t, "2024-01-11 10:00", "", "alaa"),
			visit(t, "2024-01-12 10:00", "", "alaa"),
			visit(t, "2024-01-13 10:00", "", "chaima"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	require.Len(t, snap.Departments, 6, "fixed department set")
	byName := map[string]DepartmentStat{}
	for _, d := range snap.Departments {
		byName[d.Name] = d
	}
	assert.Equal(t, 3, byName["IT"].Visitors)
	assert.Equal(t, 75, byName["IT"].Percentage)
	assert.Equal(t, 1, byName["Marketing"].Visitors)
	assert.Equal(t, 25, byName["Marketing"].Percentage)
	assert.Equal(t, 0, byName["Finance"].Visitors)
}

func TestDefaultRangeIsCurrentMonth(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-03-15 12:00"), nil)

	snap := e.Compute(context.Background(), nil, Range{})
	assert.Equal(t, "2024-03-01", snap.From)
	assert.Equal(t, "2024-03-15", snap.To)

	// Inverted range falls back as well.
	snap = e.Compute(context.Background(), nil, Range{From: "2024-03-20", To: "2024-03-01"})
	assert.Equal(t, "2024-03-01", snap.From)
	assert.Equal(t, "2024-03-15", snap.To)
}

func TestRangeAcceptsTimestamps(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	snap := e.Compute(context.Background(), nil, Range{
		From: "2024-01-01T00:00:00Z",
		To:   "2024-01-31T23:59:59Z",
	})

	assert.Equal(t, "2024-01-01", snap.From)
	assert.Equal(t, "2024-01-31", snap.To)
}

func TestPreviousPeriodIsPriorCalendarMonth(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-03-15 12:00"), nil)

	cur, prev := e.periods(Range{From: "2024-03-10", To: "2024-03-20"})

	assert.Equal(t, "2024-03-10", cur.from)
	assert.Equal(t, "2024-03-20", cur.to)
	assert.Equal(t, "2024-02-01", prev.from)
	assert.Equal(t, "2024-02-29", prev.to, "leap February clips to its last day")
}

func TestDistinctVisitorsPerPeriod(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2023-12-05 10:00", "", "alaa"),
			visit(t, "2024-01-10 10:00", "", "alaa"),
			visit(t, "2024-01-11 10:00", "", "alaa"),
		}},
		{Email: "b@x.com", Visits: []models.VisitEntry{
			visit(t, "2023-12-20 10:00", "", "alaa"),
		}},
	}

	cur, prev := e.periods(Range{From: "2024-01-01", To: "2024-01-31"})
	curCount, prevCount := e.distinctVisitors(visitors, cur, prev)

	assert.Equal(t, 1, curCount, "repeat visits count once")
	assert.Equal(t, 2, prevCount)
}

func TestAverageDwellIgnoresOpenVisits(t *testing.T) {
	e := testEngine(t, parisTime(t, "2024-01-15 12:00"), nil)

	visitors := []models.Visitor{
		{Email: "a@x.com", Visits: []models.VisitEntry{
			visit(t, "2024-01-10 09:00", "2024-01-10 10:30", "alaa"),
			visit(t, "2024-01-11 09:00", "", "alaa"),
		}},
	}

	snap := e.Compute(context.Background(), visitors, Range{From: "2024-01-01", To: "2024-01-31"})

	assert.Equal(t, 90, snap.Summary.AverageDuration)
}
