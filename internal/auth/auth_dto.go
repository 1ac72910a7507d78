package auth

import "go-ems/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Department     *string `json:"department"`
	Position       string  `json:"position"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	Employee    AuthResponse `json:"employee"`
}

type MeResponse struct {
	AuthResponse
	Permissions []domain.PermissionResponse `json:"permissions"`
}
