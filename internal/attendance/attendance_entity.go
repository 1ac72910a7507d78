package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
)

// Attendance is one employee's record for one calendar day. Date carries the
// civil date at UTC midnight.
type Attendance struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	Date       time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:2;index"`
	CheckIn    *time.Time   `gorm:"column:check_in;type:timestamptz"`
	CheckOut   *time.Time   `gorm:"column:check_out;type:timestamptz"`
	Status     string       `gorm:"column:status;type:varchar(20);not null;default:absent"`
	Notes      *string      `gorm:"column:notes;type:text"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Department *string   `gorm:"column:department"`
	Position   string    `gorm:"column:position"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
