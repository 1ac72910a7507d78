package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/employee"
	"go-ems/internal/leave"
	reporterrors "go-ems/internal/report/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const monthlyCacheTTL = time.Hour

type EmployeeSource interface {
	FindAllActive(ctx context.Context) ([]employee.Employee, error)
}

type AttendanceSource interface {
	FindAll(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error)
}

type LeaveSource interface {
	FindAll(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error)
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Daily(ctx context.Context, date string) (DailyReport, error)
	Monthly(ctx context.Context, q MonthlyQuery) (MonthlyReport, error)
	Leaves(ctx context.Context, status string) (LeaveReport, error)
	Departments(ctx context.Context) (DepartmentReport, error)
}

type service struct {
	employees  EmployeeSource
	attendance AttendanceSource
	leaves     LeaveSource
	policy     attendance.Policy
	rdb        *redis.Client
	sf         *singleflight.Group
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	employees EmployeeSource,
	attendanceSrc AttendanceSource,
	leaves LeaveSource,
	policy attendance.Policy,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		employees:  employees,
		attendance: attendanceSrc,
		leaves:     leaves,
		policy:     policy,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		now:        time.Now,
		logger:     l,
	}
}

func MonthlyCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("reports:monthly:%04d-%02d", year, int(month))
}

func (s *service) Daily(ctx context.Context, date string) (DailyReport, error) {
	day := s.policy.Today(s.now())
	if date != "" {
		d, err := time.Parse(attendance.DateLayout, date)
		if err != nil {
			return DailyReport{}, reporterrors.ErrInvalidDate
		}
		day = d
	}

	empls, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("daily report load employees failed", zap.Error(err))
		return DailyReport{}, err
	}
	rows, err := s.attendance.FindAll(ctx, attendance.Filter{Date: &day, WithEmployee: true})
	if err != nil {
		s.logger.Error("daily report load attendance failed", zap.Error(err))
		return DailyReport{}, err
	}
	onLeave, err := s.leaves.FindAll(ctx, leave.Filter{Status: leave.StatusApproved, ActiveOn: &day})
	if err != nil {
		s.logger.Error("daily report load leave failed", zap.Error(err))
		return DailyReport{}, err
	}

	return BuildDaily(day, int64(len(empls)), rows, len(onLeave), s.policy), nil
}

func (s *service) Monthly(ctx context.Context, q MonthlyQuery) (MonthlyReport, error) {
	today := s.policy.Today(s.now())
	year, month := q.Year, time.Month(q.Month)
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	if month < time.January || month > time.December {
		return MonthlyReport{}, reporterrors.ErrInvalidMonth
	}

	first, _ := attendance.MonthWindow(year, month)
	currentFirst, _ := attendance.MonthWindow(today.Year(), today.Month())
	cacheable := s.rdb != nil && first.Before(currentFirst)
	cacheKey := MonthlyCacheKey(year, month)

	if cacheable {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var rep MonthlyReport
			if err := json.Unmarshal([]byte(cached), &rep); err == nil {
				return rep, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("monthly report cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		// the build is shared by every waiting caller
		ctx := context.WithoutCancel(ctx)
		rep, err := s.buildMonthly(ctx, year, month)
		if err != nil {
			return nil, err
		}

		if cacheable {
			if data, err := json.Marshal(rep); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, monthlyCacheTTL).Err(); err != nil {
					s.logger.Warn("monthly report cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return rep, nil
	})
	if err != nil {
		return MonthlyReport{}, err
	}

	return v.(MonthlyReport), nil
}

func (s *service) buildMonthly(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	first, last := attendance.MonthWindow(year, month)

	empls, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("monthly report load employees failed", zap.Error(err))
		return MonthlyReport{}, err
	}
	rows, err := s.attendance.FindAll(ctx, attendance.Filter{From: &first, To: &last})
	if err != nil {
		s.logger.Error("monthly report load attendance failed", zap.Error(err))
		return MonthlyReport{}, err
	}

	return BuildMonthly(year, month, empls, rows), nil
}

func (s *service) Leaves(ctx context.Context, status string) (LeaveReport, error) {
	switch status {
	case "", leave.StatusPending, leave.StatusApproved, leave.StatusRejected:
	default:
		return LeaveReport{}, reporterrors.ErrInvalidStatus
	}

	leaves, err := s.leaves.FindAll(ctx, leave.Filter{Status: status, WithEmployee: true})
	if err != nil {
		s.logger.Error("leave report load failed", zap.Error(err))
		return LeaveReport{}, err
	}

	return BuildLeave(leaves), nil
}

func (s *service) Departments(ctx context.Context) (DepartmentReport, error) {
	today := s.policy.Today(s.now())

	empls, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("department report load employees failed", zap.Error(err))
		return DepartmentReport{}, err
	}
	rows, err := s.attendance.FindAll(ctx, attendance.Filter{Date: &today})
	if err != nil {
		s.logger.Error("department report load attendance failed", zap.Error(err))
		return DepartmentReport{}, err
	}

	return BuildDepartments(today, empls, rows, s.policy), nil
}
