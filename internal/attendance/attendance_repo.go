package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows FindAll. Zero values are ignored. From and To are inclusive
// calendar dates.
type Filter struct {
	EmployeeID   string
	Date         *time.Time
	From         *time.Time
	To           *time.Time
	Department   string
	WithEmployee bool
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	MarkCheckOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	FindAll(ctx context.Context, filter Filter) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date.Format(DateLayout)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkCheckOut sets check_out only while it is still empty. It reports false
// when another request got there first.
func (r *repository) MarkCheckOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Attendance{}).
		Where("id = ? AND check_out IS NULL", id).
		Updates(map[string]any{
			"check_out":  at,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Attendance, error) {
	var rows []Attendance

	q := r.conn(ctx).Model(&Attendance{})
	if filter.WithEmployee {
		q = q.Preload("Employee")
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", filter.Date.Format(DateLayout))
	}
	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.Format(DateLayout))
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.Format(DateLayout))
	}
	if filter.Department != "" {
		q = q.Where("employee_id IN (?)",
			r.conn(ctx).Model(&EmployeeRef{}).Select("id").Where("department = ?", filter.Department),
		)
	}

	err := q.Order("date DESC").Order("check_in ASC").Find(&rows).Error
	return rows, err
}
