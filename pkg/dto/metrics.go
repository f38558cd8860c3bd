package dto

// MetricsRequest selects the date range of the dashboard snapshot.
// A missing or inverted range falls back to the current month.
type MetricsRequest struct {
	DateRange *DateRange `json:"date_range,omitempty"`
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
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

type DashboardStats struct {
	TotalVisitors   int    `json:"total_visitors"`
	ActiveVisitors  int    `json:"active_visitors"`
	PeakHour        string `json:"peak_hour"`
	AverageDuration int    `json:"average_duration"`
	TopEmployee     string `json:"top_employee"`
	TopDepartment   string `json:"top_department"`
	VisitorTrend    string `json:"visitor_trend"`
	DurationTrend   string `json:"duration_trend"`
}

type MetricsResponse struct {
	From            string            `json:"from"`
	To              string            `json:"to"`
	VisitorData     []VisitorResponse `json:"visitor_data"`
	HourlyStats     []HourBucket      `json:"hourly_stats"`
	EmployeeStats   []EmployeeStat    `json:"employee_stats"`
	DepartmentStats []DepartmentStat  `json:"department_stats"`
	DashboardStats  DashboardStats    `json:"dashboard_stats"`
}
