package employee

import "time"

// Actor is the authenticated caller of a directory operation.
type Actor struct {
	EmployeeID string
	Role       string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type RegisterEmployeeRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=100"`
	Email      string  `json:"email" binding:"required,email,max=100"`
	Password   string  `json:"password" binding:"required,min=8"`
	Phone      *string `json:"phone" binding:"omitempty,len=10,numeric"`
	Role       string  `json:"role" binding:"omitempty,oneof=admin employee"`
	Department *string `json:"department"`
	Position   string  `json:"position" binding:"max=100"`
	JoinDate   string  `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest is a partial update. Nil fields are left unchanged;
// an empty department clears it.
type UpdateEmployeeRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email      *string `json:"email" binding:"omitempty,email,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,len=10,numeric"`
	Position   *string `json:"position" binding:"omitempty,max=100"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin employee"`
	Department *string `json:"department"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r UpdateEmployeeRequest) touchesAdminFields() bool {
	return r.Email != nil || r.Role != nil || r.Department != nil || r.Status != nil
}

type ListFilter struct {
	Status     string
	Department string
	Role       string
}

// AdminSeed describes the administrator created on first start.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

type EmployeeResponse struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employee_number"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	Role           string    `json:"role"`
	Department     *string   `json:"department"`
	Position       string    `json:"position"`
	Status         string    `json:"status"`
	JoinDate       string    `json:"join_date"`
	CreatedAt      time.Time `json:"created_at"`
}
