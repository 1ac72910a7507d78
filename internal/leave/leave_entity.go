package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeFamily    = "family"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeUnpaid    = "unpaid"
)

// Types lists every leave type in display order.
var Types = []string{TypeAnnual, TypeSick, TypeFamily, TypeMaternity, TypePaternity, TypeUnpaid}

func IsValidType(t string) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_employee_dates"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	DocumentURL  *string `gorm:"column:document_url;type:text"`
	DocumentName *string `gorm:"column:document_name;type:varchar(255)"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time
	Comments   *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Email      string
	Department *string
	Position   string
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
