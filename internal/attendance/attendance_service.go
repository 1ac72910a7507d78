package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-ems/internal/attendance/errors"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the slice of the employee directory the ledger reads.
type Directory interface {
	CountActive(ctx context.Context) (int64, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	GetMine(ctx context.Context, employeeID string, q MyAttendanceQuery) (MyAttendanceResponse, error)
	GetAll(ctx context.Context, q ListAttendanceQuery) ([]AttendanceResponse, error)
	GetToday(ctx context.Context) (TodayAttendanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory Directory
	policy    Policy
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory Directory,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		policy:    policy,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	now := s.now()
	today := s.policy.Today(now)
	log := s.logger.With(
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", employeeID),
		zap.String("date", today.Format(DateLayout)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check-in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today); err == nil {
		log.Warn("check-in rejected, record exists")
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("check-in lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	row := &Attendance{
		ID:         uuid.New(),
		EmployeeID: eid,
		Date:       today,
		CheckIn:    &now,
		Status:     s.policy.Classify(now),
	}
	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, attendanceerrors.ErrAlreadyCheckedIn) {
			log.Warn("check-in lost race on unique index")
		} else {
			log.Error("check-in persist failed", zap.Error(err))
		}
		return AttendanceResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		log.Error("check-in commit failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	log.Info("check-in recorded", zap.String("status", row.Status))
	return s.toResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	now := s.now()
	today := s.policy.Today(now)
	log := s.logger.With(
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", employeeID),
		zap.String("date", today.Format(DateLayout)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check-out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInFound
		}
		log.Error("check-out lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	ok, err := qtx.MarkCheckOut(ctx, row.ID, now)
	if err != nil {
		log.Error("check-out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !ok {
		log.Warn("check-out lost race on conditional update")
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}
	row.CheckOut = &now

	if err := tx.Commit(); err != nil {
		log.Error("check-out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("check-out recorded")
	return s.toResponse(*row), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string, q MyAttendanceQuery) (MyAttendanceResponse, error) {
	if q.Month != 0 && (q.Month < 1 || q.Month > 12) {
		return MyAttendanceResponse{}, attendanceerrors.ErrInvalidMonth
	}

	filter := Filter{EmployeeID: employeeID}
	// the window applies only when both parts are given
	if q.Month != 0 && q.Year != 0 {
		first, last := MonthWindow(q.Year, time.Month(q.Month))
		filter.From = &first
		filter.To = &last
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get own attendance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return MyAttendanceResponse{}, err
	}

	return MyAttendanceResponse{
		Attendance: s.toListResponse(rows),
		Summary:    Summarize(rows),
	}, nil
}

func (s *service) GetAll(ctx context.Context, q ListAttendanceQuery) ([]AttendanceResponse, error) {
	filter := Filter{Department: q.Department, WithEmployee: true}
	if q.Date != "" {
		d, err := time.Parse(DateLayout, q.Date)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		filter.Date = &d
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all attendance failed", zap.Error(err))
		return nil, err
	}

	return s.toListResponse(rows), nil
}

func (s *service) GetToday(ctx context.Context) (TodayAttendanceResponse, error) {
	today := s.policy.Today(s.now())

	total, err := s.directory.CountActive(ctx)
	if err != nil {
		s.logger.Error("get today attendance count employees failed", zap.Error(err))
		return TodayAttendanceResponse{}, err
	}

	rows, err := s.repo.FindAll(ctx, Filter{Date: &today, WithEmployee: true})
	if err != nil {
		s.logger.Error("get today attendance failed", zap.Error(err))
		return TodayAttendanceResponse{}, err
	}

	sum := Summarize(rows)
	return TodayAttendanceResponse{
		Date: today.Format(DateLayout),
		Summary: TodaySummary{
			TotalEmployees: total,
			CheckedIn:      len(rows),
			NotCheckedIn:   total - int64(len(rows)),
			Late:           sum.Late,
		},
		Attendance: s.toListResponse(rows),
	}, nil
}

// Summarize counts rows per status.
func Summarize(rows []Attendance) AttendanceSummary {
	sum := AttendanceSummary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case StatusPresent:
			sum.Present++
		case StatusLate:
			sum.Late++
		case StatusAbsent:
			sum.Absent++
		case StatusHalfDay:
			sum.HalfDay++
		}
	}
	return sum
}

func (s *service) toResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.Date.Format(DateLayout),
		CheckIn:    s.policy.FormatClock(a.CheckIn),
		CheckOut:   s.policy.FormatClock(a.CheckOut),
		Status:     a.Status,
		Notes:      a.Notes,
	}
	if a.Employee != nil {
		resp.Employee = &EmployeeSummary{
			ID:         a.Employee.ID.String(),
			Name:       a.Employee.Name,
			Email:      a.Employee.Email,
			Department: a.Employee.Department,
			Position:   a.Employee.Position,
		}
	}
	return resp
}

func (s *service) toListResponse(rows []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = s.toResponse(r)
	}
	return res
}
