package report

type MonthlyQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

type DailySummary struct {
	TotalEmployees int64 `json:"total_employees"`
	CheckedIn      int   `json:"checked_in"`
	Present        int   `json:"present"`
	Late           int   `json:"late"`
	Absent         int64 `json:"absent"`
	OnLeave        int   `json:"on_leave"`
}

type DailyDetail struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Status     string  `json:"status"`
}

type DailyReport struct {
	Date    string        `json:"date"`
	Summary DailySummary  `json:"summary"`
	Details []DailyDetail `json:"details"`
}

type EmployeeMonthly struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	Present        int    `json:"present"`
	Late           int    `json:"late"`
	Absent         int    `json:"absent"`
	AttendanceRate string `json:"attendance_rate"`
}

type DepartmentMonthly struct {
	Department     string `json:"department"`
	TotalEmployees int    `json:"total_employees"`
	Present        int    `json:"present"`
	Late           int    `json:"late"`
	Absent         int    `json:"absent"`
}

type MonthlySummary struct {
	TotalEmployees    int    `json:"total_employees"`
	TotalPresent      int    `json:"total_present"`
	TotalLate         int    `json:"total_late"`
	AverageAttendance string `json:"average_attendance"`
}

type MonthlyReport struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	WorkingDays  int                 `json:"working_days"`
	Summary      MonthlySummary      `json:"summary"`
	Employees    []EmployeeMonthly   `json:"employees"`
	ByDepartment []DepartmentMonthly `json:"by_department"`
}

type LeaveDetail struct {
	ID           string  `json:"id"`
	EmployeeName string  `json:"employee_name"`
	Department   string  `json:"department"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason"`
	DocumentURL  *string `json:"document_url,omitempty"`
}

type LeaveReport struct {
	TotalRequests int            `json:"total_requests"`
	TotalDays     int            `json:"total_days"`
	ByType        map[string]int `json:"by_type"`
	ByStatus      map[string]int `json:"by_status"`
	Details       []LeaveDetail  `json:"details"`
}

type DepartmentEmployee struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Status     string  `json:"status"`
	CheckIn    *string `json:"check_in"`
}

type DepartmentStats struct {
	Department     string               `json:"department"`
	TotalEmployees int                  `json:"total_employees"`
	CheckedIn      int                  `json:"checked_in"`
	Present        int                  `json:"present"`
	Late           int                  `json:"late"`
	Employees      []DepartmentEmployee `json:"employees"`
}

type DepartmentReport struct {
	Date             string            `json:"date"`
	TotalDepartments int               `json:"total_departments"`
	TotalEmployees   int               `json:"total_employees"`
	Departments      []DepartmentStats `json:"departments"`
}
