package report

import (
	"fmt"
	"sort"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/employee"
	"go-ems/internal/leave"
)

const Unassigned = "Unassigned"

// Percent renders num/den as a percentage with one decimal. A zero
// denominator yields "0.0%".
func Percent(num, den int) string {
	if den <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(num)/float64(den)*100)
}

func departmentOf(d *string) string {
	if d == nil || *d == "" {
		return Unassigned
	}
	return *d
}

// BuildMonthly aggregates one month of attendance rows per active employee.
// Absent days are counted against every calendar day of the month.
func BuildMonthly(year int, month time.Month, empls []employee.Employee, rows []attendance.Attendance) MonthlyReport {
	lastDay := attendance.DaysInMonth(year, month)

	type tally struct{ present, late int }
	perEmployee := make(map[string]*tally, len(empls))
	for _, e := range empls {
		perEmployee[e.ID.String()] = &tally{}
	}

	var totalPresent, totalLate int
	for _, r := range rows {
		switch r.Status {
		case attendance.StatusPresent:
			totalPresent++
		case attendance.StatusLate:
			totalLate++
		}
		t, ok := perEmployee[r.EmployeeID.String()]
		if !ok {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			t.present++
		case attendance.StatusLate:
			t.late++
		}
	}

	employees := make([]EmployeeMonthly, 0, len(empls))
	byDept := map[string]*DepartmentMonthly{}
	for _, e := range empls {
		t := perEmployee[e.ID.String()]
		attended := t.present + t.late
		dept := departmentOf(e.Department)

		employees = append(employees, EmployeeMonthly{
			EmployeeID:     e.ID.String(),
			EmployeeNumber: e.EmployeeNumber,
			Name:           e.Name,
			Department:     dept,
			Present:        t.present,
			Late:           t.late,
			Absent:         lastDay - attended,
			AttendanceRate: Percent(attended, lastDay),
		})

		d, ok := byDept[dept]
		if !ok {
			d = &DepartmentMonthly{Department: dept}
			byDept[dept] = d
		}
		d.TotalEmployees++
		d.Present += t.present
		d.Late += t.late
		d.Absent += lastDay - attended
	}

	return MonthlyReport{
		Year:        year,
		Month:       int(month),
		WorkingDays: lastDay,
		Summary: MonthlySummary{
			TotalEmployees:    len(empls),
			TotalPresent:      totalPresent,
			TotalLate:         totalLate,
			AverageAttendance: Percent(len(rows), len(empls)*lastDay),
		},
		Employees:    employees,
		ByDepartment: sortedDepartments(byDept),
	}
}

func sortedDepartments(m map[string]*DepartmentMonthly) []DepartmentMonthly {
	out := make([]DepartmentMonthly, 0, len(m))
	for _, d := range m {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// BuildDaily summarizes one day of attendance against the active headcount.
func BuildDaily(date time.Time, totalActive int64, rows []attendance.Attendance, onLeave int, policy attendance.Policy) DailyReport {
	sum := attendance.Summarize(rows)
	details := make([]DailyDetail, 0, len(rows))
	for _, r := range rows {
		d := DailyDetail{
			EmployeeID: r.EmployeeID.String(),
			CheckIn:    policy.FormatClock(r.CheckIn),
			CheckOut:   policy.FormatClock(r.CheckOut),
			Status:     r.Status,
			Department: Unassigned,
		}
		if r.Employee != nil {
			d.Name = r.Employee.Name
			d.Department = departmentOf(r.Employee.Department)
		}
		details = append(details, d)
	}

	return DailyReport{
		Date: date.Format(attendance.DateLayout),
		Summary: DailySummary{
			TotalEmployees: totalActive,
			CheckedIn:      len(rows),
			Present:        sum.Present,
			Late:           sum.Late,
			Absent:         totalActive - int64(len(rows)),
			OnLeave:        onLeave,
		},
		Details: details,
	}
}

// BuildLeave tallies leave requests by type and status.
func BuildLeave(leaves []leave.LeaveRequest) LeaveReport {
	rep := LeaveReport{
		ByType: make(map[string]int, len(leave.Types)),
		ByStatus: map[string]int{
			leave.StatusPending:  0,
			leave.StatusApproved: 0,
			leave.StatusRejected: 0,
		},
		Details: make([]LeaveDetail, 0, len(leaves)),
	}
	for _, t := range leave.Types {
		rep.ByType[t] = 0
	}

	for _, l := range leaves {
		rep.TotalRequests++
		rep.TotalDays += leave.InclusiveDays(l.StartDate, l.EndDate)
		rep.ByType[l.LeaveType]++
		rep.ByStatus[l.Status]++

		d := LeaveDetail{
			ID:          l.ID.String(),
			Department:  Unassigned,
			LeaveType:   l.LeaveType,
			StartDate:   l.StartDate.Format(attendance.DateLayout),
			EndDate:     l.EndDate.Format(attendance.DateLayout),
			TotalDays:   l.TotalDays,
			Status:      l.Status,
			Reason:      l.Reason,
			DocumentURL: l.DocumentURL,
		}
		if l.Employee != nil {
			d.EmployeeName = l.Employee.Name
			d.Department = departmentOf(l.Employee.Department)
		}
		rep.Details = append(rep.Details, d)
	}
	return rep
}

// BuildDepartments groups active employees by department and attaches
// today's status. Employees without a record are absent.
func BuildDepartments(date time.Time, empls []employee.Employee, rows []attendance.Attendance, policy attendance.Policy) DepartmentReport {
	byEmployee := make(map[string]attendance.Attendance, len(rows))
	for _, r := range rows {
		byEmployee[r.EmployeeID.String()] = r
	}

	groups := map[string]*DepartmentStats{}
	for _, e := range empls {
		dept := departmentOf(e.Department)
		g, ok := groups[dept]
		if !ok {
			g = &DepartmentStats{Department: dept}
			groups[dept] = g
		}

		de := DepartmentEmployee{
			EmployeeID: e.ID.String(),
			Name:       e.Name,
			Position:   e.Position,
			Status:     attendance.StatusAbsent,
		}
		if r, ok := byEmployee[e.ID.String()]; ok {
			de.Status = r.Status
			de.CheckIn = policy.FormatClock(r.CheckIn)
			g.CheckedIn++
			switch r.Status {
			case attendance.StatusPresent:
				g.Present++
			case attendance.StatusLate:
				g.Late++
			}
		}
		g.TotalEmployees++
		g.Employees = append(g.Employees, de)
	}

	depts := make([]DepartmentStats, 0, len(groups))
	for _, g := range groups {
		depts = append(depts, *g)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Department < depts[j].Department })

	return DepartmentReport{
		Date:             date.Format(attendance.DateLayout),
		TotalDepartments: len(depts),
		TotalEmployees:   len(empls),
		Departments:      depts,
	}
}
