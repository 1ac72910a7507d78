package leave

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"go-ems/internal/employee"
	"go-ems/internal/events"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/notification"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the part of the employee directory used to address
// notifications.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindByRole(ctx context.Context, role string) ([]employee.Employee, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, employeeID string, req RequestLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, id string) error
	Decide(ctx context.Context, adminID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, employeeID string, q MyLeaveQuery) (LeaveListResponse, error)
	ListAll(ctx context.Context, q ListLeaveQuery) (LeaveListResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory Directory
	publisher notification.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory Directory,
	publisher notification.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Request(ctx context.Context, employeeID string, req RequestLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("request leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, start, end, err := validateRequest(employeeID, req)
	if err != nil {
		s.logger.Warn("request leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	conflict, err := qtx.FindOverlapping(ctx, employeeID, start, end)
	switch {
	case err == nil:
		s.logger.Warn("request leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("conflicting_request_id", conflict.ID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap.WithDetails(map[string]string{
			"conflicting_request_id": conflict.ID.String(),
		})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("request leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   employeeUUID,
		LeaveType:    req.LeaveType,
		StartDate:    start,
		EndDate:      end,
		TotalDays:    InclusiveDays(start, end),
		Reason:       req.Reason,
		DocumentURL:  req.DocumentURL,
		DocumentName: req.DocumentName,
		Status:       StatusPending,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("request leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("request leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("request leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", l.TotalDays),
	)

	s.notifyAdmins(ctx, *l)
	return mapToResponse(*l), nil
}

func (s *service) notifyAdmins(ctx context.Context, l LeaveRequest) {
	requester, err := s.directory.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		s.logger.Warn("leave notification skipped, requester lookup failed", zap.Error(err))
		return
	}
	admins, err := s.directory.FindByRole(ctx, employee.RoleAdmin)
	if err != nil {
		s.logger.Warn("leave notification skipped, admin lookup failed", zap.Error(err))
		return
	}

	payload := notificationPayload(l, requester.Name)
	payload["total_days"] = strconv.Itoa(l.TotalDays)
	payload["reason"] = l.Reason

	evts := make([]events.NotificationRequestedEvent, 0, len(admins))
	for _, a := range admins {
		evts = append(evts, notification.NewEvent(
			ctx,
			notification.TemplateLeaveRequested,
			a.Email,
			"leave_request",
			l.ID.String(),
			payload,
		))
	}
	notification.Dispatch(ctx, s.publisher, s.logger, evts...)
}

func (s *service) Cancel(ctx context.Context, employeeID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	// someone else's request looks the same as a missing one
	if l.EmployeeID.String() != employeeID {
		return leaveerrors.ErrLeaveNotFound
	}
	if !l.IsPending() {
		return leaveerrors.ErrInvalidStatusTransition
	}

	deleted, err := qtx.DeletePending(ctx, employeeID, id)
	if err != nil {
		s.logger.Error("cancel leave delete failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return leaveerrors.ErrInvalidStatusTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("cancel leave success", zap.String("leave_id", id), zap.String("employee_id", employeeID))
	return nil
}

func (s *service) Decide(ctx context.Context, adminID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("admin_id", adminID),
		zap.String("target_status", req.Status),
	)

	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !l.IsPending() {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", req.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.now()
	ok, err := qtx.Decide(ctx, id, req.Status, adminUUID, now, req.Comments)
	if err != nil {
		s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = req.Status
	l.ApprovedBy = &adminUUID
	l.ApprovedAt = &now
	if req.Comments != nil {
		l.Comments = req.Comments
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
	)

	s.notifyEmployee(ctx, *l)
	return mapToResponse(*l), nil
}

func (s *service) notifyEmployee(ctx context.Context, l LeaveRequest) {
	empl, err := s.directory.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		s.logger.Warn("leave decision notification skipped, employee lookup failed", zap.Error(err))
		return
	}

	payload := notificationPayload(l, empl.Name)
	payload["status"] = l.Status
	if l.Comments != nil {
		payload["comments"] = *l.Comments
	}

	notification.Dispatch(ctx, s.publisher, s.logger, notification.NewEvent(
		ctx,
		notification.TemplateLeaveDecided,
		empl.Email,
		"leave_request",
		l.ID.String(),
		payload,
	))
}

func (s *service) ListMine(ctx context.Context, employeeID string, q MyLeaveQuery) (LeaveListResponse, error) {
	leaves, err := s.repo.FindAll(ctx, Filter{
		EmployeeID: employeeID,
		Status:     q.Status,
		Year:       q.Year,
	})
	if err != nil {
		s.logger.Error("list own leave failed", zap.String("employee_id", employeeID), zap.Error(err))
		return LeaveListResponse{}, err
	}

	return LeaveListResponse{
		Requests: mapToListResponse(leaves),
		Summary:  Summarize(leaves),
	}, nil
}

func (s *service) ListAll(ctx context.Context, q ListLeaveQuery) (LeaveListResponse, error) {
	leaves, err := s.repo.FindAll(ctx, Filter{
		Status:       q.Status,
		Department:   q.Department,
		WithEmployee: true,
	})
	if err != nil {
		s.logger.Error("list all leave failed", zap.Error(err))
		return LeaveListResponse{}, err
	}

	return LeaveListResponse{
		Requests: mapToListResponse(leaves),
		Summary:  Summarize(leaves),
	}, nil
}

// Summarize counts requests per status.
func Summarize(leaves []LeaveRequest) LeaveSummary {
	sum := LeaveSummary{Total: len(leaves)}
	for _, l := range leaves {
		switch l.Status {
		case StatusPending:
			sum.Pending++
		case StatusApproved:
			sum.Approved++
		case StatusRejected:
			sum.Rejected++
		}
	}
	return sum
}

func validateRequest(employeeID string, req RequestLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !IsValidType(req.LeaveType) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return employeeUUID, start, end, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func notificationPayload(l LeaveRequest, employeeName string) map[string]string {
	return map[string]string{
		"employee_name": employeeName,
		"leave_type":    l.LeaveType,
		"start_date":    l.StartDate.Format(dateLayout),
		"end_date":      l.EndDate.Format(dateLayout),
	}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		TotalDays:    l.TotalDays,
		Reason:       l.Reason,
		DocumentURL:  l.DocumentURL,
		DocumentName: l.DocumentName,
		Status:       l.Status,
		Comments:     l.Comments,
		CreatedAt:    l.CreatedAt,
	}
	if l.Employee != nil {
		resp.Employee = &EmployeeSummary{
			ID:         l.Employee.ID.String(),
			Name:       l.Employee.Name,
			Email:      l.Employee.Email,
			Department: l.Employee.Department,
			Position:   l.Employee.Position,
		}
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
