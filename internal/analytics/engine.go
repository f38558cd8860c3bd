package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/kiosk/internal/directory"
	"github.com/your-org/kiosk/internal/models"
)

// Range selects the business dates (inclusive) the metrics cover.
// A missing or inverted range falls back to the current calendar month.
type Range struct {
	From string
	To   string
}

type HourBucket struct {
	Hour     string `json:"hour"`
	Visitors int    `json:"visitors"`
}

type EmployeeStat struct {
	Name       string `json:"name"`
	Visits     int    `json:"visits"`
	Department string `json:"department"`
}

type DepartmentStat struct {
	Name       string `json:"name"`
	Visitors   int    `json:"visitors"`
	Percentage int    `json:"percentage"`
}

// Summary is the scalar dashboard block of a snapshot. Trends are the
// percentage change against the previous period, one decimal.
type Summary struct {
	TotalVisitors   int    `json:"total_visitors"`
	ActiveVisitors  int    `json:"active_visitors"`
	PeakHour        string `json:"peak_hour"`
	AverageDuration int    `json:"average_duration"`
	TopEmployee     string `json:"top_employee"`
	TopDepartment   string `json:"top_department"`
	VisitorTrend    string `json:"visitor_trend"`
	DurationTrend   string `json:"duration_trend"`
}

// Snapshot bundles every aggregate computed for one request. It is
// recomputed fully per call and never mutated afterwards.
type Snapshot struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Visitors    []models.Visitor `json:"visitors"`
	Hourly      []HourBucket     `json:"hourly"`
	Employees   []EmployeeStat   `json:"employees"`
	Departments []DepartmentStat `json:"departments"`
	Summary     Summary          `json:"summary"`
}

// DepartmentResolver attributes a contact name to a department.
type DepartmentResolver interface {
	Resolve(ctx context.Context, name string) string
}

// Engine computes dashboard metrics over an already-fetched visit
// corpus. It only reads its inputs; Compute is safe to call
// concurrently and repeatedly.
type Engine struct {
	loc      *time.Location
	resolver DepartmentResolver

	// now is swapped in tests for a fixed clock.
	now func() time.Time
}

func NewEngine(loc *time.Location, resolver DepartmentResolver) *Engine {
	return &Engine{loc: loc, resolver: resolver, now: time.Now}
}

// period is a resolved date range: inclusive business-date strings
// plus the boundary instants in the organizational timezone.
type period struct {
	from  string
	to    string
	start time.Time
	end   time.Time
}

func (p period) containsInstant(t time.Time) bool {
	return !t.Before(p.start) && !t.After(p.end)
}

// periods derives the current and previous periods. The previous
// period is the calendar month preceding the range start, clipped to
// its last day, matching the month-over-month dashboard comparison.
func (e *Engine) periods(rng Range) (period, period) {
	from, to, ok := e.parseRange(rng)
	if !ok {
		now := e.now().In(e.loc)
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, e.loc)
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
	}

	cur := period{
		from:  from.Format("2006-01-02"),
		to:    to.Format("2006-01-02"),
		start: from,
		end:   to.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}

	monthStart := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, e.loc)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.Add(-time.Nanosecond)
	prev := period{
		from:  prevStart.Format("2006-01-02"),
		to:    prevEnd.Format("2006-01-02"),
		start: prevStart,
		end:   prevEnd,
	}
	return cur, prev
}

func (e *Engine) parseRange(rng Range) (time.Time, time.Time, bool) {
	from, err := time.ParseInLocation("2006-01-02", dateOnly(rng.From), e.loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation("2006-01-02", dateOnly(rng.To), e.loc)
	if err != nil || to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// dateOnly drops the time part of an RFC 3339 timestamp, so callers
// may pass either form.
func dateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

// Compute derives the full metrics snapshot for the given corpus and
// range. Missing or sparse data collapses to zero/"N/A" defaults; the
// dashboard always renders.
func (e *Engine) Compute(ctx context.Context, visitors []models.Visitor, rng Range) Snapshot {
	cur, prev := e.periods(rng)

	hourly := e.hourlyHistogram(visitors, cur)
	employees := e.employeeRollup(ctx, visitors)
	departments := departmentRollup(employees)

	curCount, prevCount := e.distinctVisitors(visitors, cur, prev)
	avgDuration := e.averageDwellMinutes(visitors, cur)
	prevAvgDuration := e.averageDwellMinutes(visitors, prev)

	return Snapshot{
		From:        cur.from,
		To:          cur.to,
		Visitors:    visitors,
		Hourly:      hourly,
		Employees:   employees,
		Departments: departments,
		Summary: Summary{
			TotalVisitors:   curCount,
			ActiveVisitors:  e.activeVisitors(visitors),
			PeakHour:        peakHour(hourly),
			AverageDuration: avgDuration,
			TopEmployee:     topEmployee(employees),
			TopDepartment:   topDepartment(departments),
			VisitorTrend:    formatTrend(trendDelta(float64(curCount), float64(prevCount))),
			DurationTrend:   formatTrend(trendDelta(float64(avgDuration), float64(prevAvgDuration))),
		},
	}
}

// hourlyHistogram buckets check-ins within the period by their local
// hour in the organizational timezone, hour 0 first.
func (e *Engine) hourlyHistogram(visitors []models.Visitor, p period) []HourBucket {
	var counts [24]int
	for _, v := range visitors {
		for _, entry := range v.Visits {
			if entry.CheckInTime == nil {
				continue
			}
			t := *entry.CheckInTime
			if !p.containsInstant(t) {
				continue
			}
			counts[t.In(e.loc).Hour()]++
		}
	}

	buckets := make([]HourBucket, 24)
	for h := 0; h < 24; h++ {
		buckets[h] = HourBucket{Hour: fmt.Sprintf("%dh", h), Visitors: counts[h]}
	}
	return buckets
}

// employeeRollup counts visits per canonical contact name over the
// whole corpus, resolves each name's department, and sorts descending
// by count. Placeholder contacts are excluded. The sort is stable, so
// ties keep first-seen order.
func (e *Engine) employeeRollup(ctx context.Context, visitors []models.Visitor) []EmployeeStat {
	counts := map[string]int{}
	var order []string
	for _, v := range visitors {
		for _, entry := range v.Visits {
			name := NormalizeContact(entry.Contact)
			if !contactAttributed(name) {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	stats := make([]EmployeeStat, 0, len(order))
	for _, name := range order {
		stats = append(stats, EmployeeStat{
			Name:       name,
			Visits:     counts[name],
			Department: e.resolver.Resolve(ctx, name),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Visits > stats[j].Visits })
	return stats
}

// departmentRollup totals attributed visits over the fixed department
// set and computes each share of the total, rounded independently, so
// the percentages may not sum to exactly 100.
func departmentRollup(employees []EmployeeStat) []DepartmentStat {
	counts := map[string]int{}
	for _, emp := range employees {
		counts[emp.Department] += emp.Visits
	}

	stats := make([]DepartmentStat, 0, len(directory.Departments))
	total := 0
	for _, name := range directory.Departments {
		stats = append(stats, DepartmentStat{Name: name, Visitors: counts[name]})
		total += counts[name]
	}
	if total > 0 {
		for i := range stats {
			stats[i].Percentage = int(math.Round(float64(stats[i].Visitors) / float64(total) * 100))
		}
	}
	return stats
}

// distinctVisitors counts unique visitor identities with a check-in in
// each period. The current period compares business-date strings while
// the previous period compares raw instants against the boundary
// instants, preserving the behavior the dashboard was built against.
func (e *Engine) distinctVisitors(visitors []models.Visitor, cur, prev period) (int, int) {
	curSet := map[string]struct{}{}
	prevSet := map[string]struct{}{}
	for _, v := range visitors {
		for _, entry := range v.Visits {
			if entry.CheckInTime == nil {
				continue
			}
			t := *entry.CheckInTime
			localDate := t.In(e.loc).Format("2006-01-02")
			if localDate >= cur.from && localDate <= cur.to {
				curSet[v.Email] = struct{}{}
			}
			if prev.containsInstant(t) {
				prevSet[v.Email] = struct{}{}
			}
		}
	}
	return len(curSet), len(prevSet)
}

// averageDwellMinutes averages check-in to check-out over completed
// visits whose check-in falls in the period, rounded to whole minutes.
// No completed visits yields 0, never an error.
func (e *Engine) averageDwellMinutes(visitors []models.Visitor, p period) int {
	var total time.Duration
	n := 0
	for _, v := range visitors {
		for _, entry := range v.Visits {
			if !entry.Completed() || !p.containsInstant(*entry.CheckInTime) {
				continue
			}
			total += entry.Duration()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round((total / time.Duration(n)).Minutes()))
}

// activeVisitors counts visitors with an open visit checked in within
// the last 24 hours, independent of the requested range.
func (e *Engine) activeVisitors(visitors []models.Visitor) int {
	cutoff := e.now().Add(-24 * time.Hour)
	n := 0
	for _, v := range visitors {
		for _, entry := range v.Visits {
			if entry.Open() && entry.CheckInTime.After(cutoff) {
				n++
				break
			}
		}
	}
	return n
}

// trendDelta is the percentage change current vs previous, one
// decimal. A previous of zero yields +100 when anything happened now,
// else 0.
func trendDelta(cur, prev float64) float64 {
	if prev > 0 {
		return math.Round((cur-prev)/prev*1000) / 10
	}
	if cur > 0 {
		return 100
	}
	return 0
}

func formatTrend(delta float64) string {
	return strconv.FormatFloat(delta, 'f', -1, 64)
}

func peakHour(hourly []HourBucket) string {
	peak := "N/A"
	best := 0
	for _, b := range hourly {
		if b.Visitors > best {
			best = b.Visitors
			peak = b.Hour
		}
	}
	return peak
}

func topEmployee(employees []EmployeeStat) string {
	if len(employees) == 0 {
		return "N/A"
	}
	return employees[0].Name
}

func topDepartment(departments []DepartmentStat) string {
	top := "N/A"
	best := 0
	for _, d := range departments {
		if d.Visitors > best {
			best = d.Visitors
			top = d.Name
		}
	}
	return top
}
