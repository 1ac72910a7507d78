package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-ems/internal/auth/errors"
	"go-ems/internal/config"
	"go-ems/internal/employee"
	"go-ems/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Directory is the slice of the employee repository login needs.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindByEmail(ctx context.Context, email string) (*employee.Employee, error)
}

type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Me(ctx context.Context, employeeID string) (MeResponse, error)
}

type service struct {
	directory Directory
	rbac      rbac.Service
	jwt       config.JWTConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(directory Directory, rbacService rbac.Service, jwtCfg config.JWTConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if jwtCfg.TTL <= 0 {
		jwtCfg.TTL = 24 * time.Hour
	}
	return &service{
		directory: directory,
		rbac:      rbacService,
		jwt:       jwtCfg,
		logger:    l,
		now:       time.Now,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	empl, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return LoginResponse{}, err
		}
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	// Password dicek dulu supaya status akun tidak bocor ke penebak.
	if err := bcrypt.CompareHashAndPassword([]byte(empl.PasswordHash), []byte(password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !empl.IsActive() {
		return LoginResponse{}, autherrors.ErrAccountInactive
	}

	expiresAt := s.now().Add(s.jwt.TTL)
	token, err := s.generateToken(empl.ID.String(), empl.Role, expiresAt)
	if err != nil {
		s.logger.Error("sign token failed", zap.String("employee_id", empl.ID.String()), zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("employee logged in",
		zap.String("employee_id", empl.ID.String()),
		zap.String("role", empl.Role),
	)

	return LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		Employee:    mapToResponse(*empl),
	}, nil
}

func (s *service) Me(ctx context.Context, employeeID string) (MeResponse, error) {
	empl, err := s.directory.FindByID(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, err
		}
		return MeResponse{}, autherrors.ErrInvalidToken
	}
	if !empl.IsActive() {
		return MeResponse{}, autherrors.ErrAccountInactive
	}

	perms, err := s.rbac.Permissions(empl.Role)
	if err != nil {
		return MeResponse{}, err
	}

	return MeResponse{AuthResponse: mapToResponse(*empl), Permissions: perms}, nil
}

func (s *service) generateToken(employeeID, role string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"iat":         s.now().Unix(),
		"exp":         expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}

func mapToResponse(empl employee.Employee) AuthResponse {
	return AuthResponse{
		ID:             empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		Name:           empl.Name,
		Email:          empl.Email,
		Role:           empl.Role,
		Department:     empl.Department,
		Position:       empl.Position,
	}
}
