package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode"

	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/notification"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (EmployeeResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
	EnsureAdmin(ctx context.Context, seed AdminSeed) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	publisher notification.Publisher
	loginURL  string
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	publisher notification.Publisher,
	loginURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		counter:   counter,
		publisher: publisher,
		loginURL:  loginURL,
		logger:    l,
	}
}

func (s *service) Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	empl, err := s.create(ctx, req)
	if err != nil {
		return EmployeeResponse{}, err
	}

	notification.Dispatch(ctx, s.publisher, s.logger, notification.NewEvent(
		ctx,
		notification.TemplateWelcome,
		empl.Email,
		"employee",
		empl.ID.String(),
		map[string]string{
			"name":            empl.Name,
			"email":           empl.Email,
			"employee_number": empl.EmployeeNumber,
			"department":      derefString(empl.Department),
			"position":        empl.Position,
			"login_url":       s.loginURL,
		},
	))

	s.logger.Info("register employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) create(ctx context.Context, req RegisterEmployeeRequest) (*Employee, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Department != nil && !IsValidDepartment(*req.Department) {
		return nil, employeeerrors.ErrInvalidDepartment
	}
	if !isStrongPassword(req.Password) {
		return nil, employeeerrors.ErrWeakPassword
	}

	joinDate := time.Now().UTC()
	if req.JoinDate != "" {
		d, err := time.Parse("2006-01-02", req.JoinDate)
		if err != nil {
			return nil, employeeerrors.ErrInvalidJoinDate
		}
		joinDate = d
	}

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("register employee hash password failed", zap.Error(err))
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register employee begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByEmail(ctx, email); err == nil {
		s.logger.Warn("register employee duplicate email", zap.String("email", email))
		return nil, employeeerrors.ErrEmployeeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("register employee lookup email failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, counter.TypeEmployeeNumber)
	if err != nil {
		s.logger.Error("register employee generate number failed", zap.Error(err))
		return nil, err
	}

	empl := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: counter.FormatEmployeeNumber(nextVal),
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		Role:           role,
		Department:     req.Department,
		Position:       req.Position,
		Status:         StatusActive,
		JoinDate:       joinDate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("register employee persist failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register employee commit failed", zap.Error(err))
		return nil, err
	}

	return empl, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested",
		zap.String("status", filter.Status),
		zap.String("department", filter.Department),
	)
	empls, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (EmployeeResponse, error) {
	if !actor.IsAdmin() && actor.EmployeeID != id {
		return EmployeeResponse{}, apperror.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.String("employee_id", id),
	)

	if !actor.IsAdmin() {
		if actor.EmployeeID != id {
			return EmployeeResponse{}, apperror.ErrForbidden
		}
		if req.touchesAdminFields() {
			return EmployeeResponse{}, employeeerrors.ErrSelfServiceField
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.Department != nil && *req.Department != "" && !IsValidDepartment(*req.Department) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDepartment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != empl.Email {
			existing, err := qtx.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != empl.ID:
				return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return EmployeeResponse{}, mapRepositoryError(err)
			}
			empl.Email = email
		}
	}
	if req.Name != nil {
		empl.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		empl.Phone = req.Phone
	}
	if req.Position != nil {
		empl.Position = *req.Position
	}
	if req.Role != nil {
		empl.Role = *req.Role
	}
	if req.Department != nil {
		if *req.Department == "" {
			empl.Department = nil
		} else {
			dept := *req.Department
			empl.Department = &dept
		}
	}
	if req.Status != nil {
		empl.Status = *req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

// Deactivate flips status to inactive. Attendance and leave history stay.
func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	affected, err := s.repo.UpdateStatus(ctx, id, StatusInactive)
	if err != nil {
		s.logger.Error("deactivate employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}

	s.logger.Info("deactivate employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) EnsureAdmin(ctx context.Context, seed AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		s.logger.Warn("admin seed not configured, skipping bootstrap")
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, seed.Email)
	if err == nil {
		s.logger.Debug("admin already present", zap.String("email", seed.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	empl, err := s.create(ctx, RegisterEmployeeRequest{
		Name:     seed.Name,
		Email:    seed.Email,
		Password: seed.Password,
		Role:     RoleAdmin,
		Position: "System Administrator",
	})
	if err != nil {
		return err
	}

	s.logger.Info("admin bootstrapped", zap.String("employee_id", empl.ID.String()), zap.String("email", empl.Email))
	return nil
}

func isStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		Name:           empl.Name,
		Email:          empl.Email,
		Phone:          empl.Phone,
		Role:           empl.Role,
		Department:     empl.Department,
		Position:       empl.Position,
		Status:         empl.Status,
		JoinDate:       empl.JoinDate.Format("2006-01-02"),
		CreatedAt:      empl.CreatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
