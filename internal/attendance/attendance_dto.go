package attendance

type MyAttendanceQuery struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

type ListAttendanceQuery struct {
	Date       string `form:"date"`
	Department string `form:"department"`
}

type EmployeeSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Position   string  `json:"position"`
}

type AttendanceResponse struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"`
	CheckIn    *string          `json:"check_in"`
	CheckOut   *string          `json:"check_out"`
	Status     string           `json:"status"`
	Notes      *string          `json:"notes,omitempty"`
	Employee   *EmployeeSummary `json:"employee,omitempty"`
}

type AttendanceSummary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
}

type MyAttendanceResponse struct {
	Attendance []AttendanceResponse `json:"attendance"`
	Summary    AttendanceSummary    `json:"summary"`
}

type TodaySummary struct {
	TotalEmployees int64 `json:"total_employees"`
	CheckedIn      int   `json:"checked_in"`
	NotCheckedIn   int64 `json:"not_checked_in"`
	Late           int   `json:"late"`
}

type TodayAttendanceResponse struct {
	Date       string               `json:"date"`
	Summary    TodaySummary         `json:"summary"`
	Attendance []AttendanceResponse `json:"attendance"`
}
