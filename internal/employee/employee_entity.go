package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Departments is the fixed set of organisational units.
var Departments = []string{
	"HR",
	"Logistics",
	"ICT",
	"Admin",
	"Finance",
	"Marketing",
	"Sales",
	"Operations",
	"Customer Service",
	"Management",
}

func IsValidDepartment(d string) bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex:uq_employee_number"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Email          string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_employee_email"`
	Phone          *string   `gorm:"type:varchar(10)"`
	PasswordHash   string    `gorm:"not null"`
	Role           string    `gorm:"type:varchar(20);not null;default:employee;index"`
	Department     *string   `gorm:"type:varchar(50);index"`
	Position       string    `gorm:"type:varchar(100)"`
	Status         string    `gorm:"type:varchar(20);not null;default:active;index"`
	JoinDate       time.Time `gorm:"type:date;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
