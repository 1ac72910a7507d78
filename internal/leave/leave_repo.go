package leave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Filter narrows FindAll. Zero values are ignored. ActiveOn keeps requests
// whose inclusive range contains that day.
type Filter struct {
	EmployeeID   string
	Status       string
	Year         int
	Department   string
	ActiveOn     *time.Time
	WithEmployee bool
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter Filter) ([]LeaveRequest, error)
	Decide(ctx context.Context, id string, status string, approvedBy uuid.UUID, at time.Time, comments *string) (bool, error)
	DeletePending(ctx context.Context, employeeID, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// FindOverlapping returns one pending or approved request of the employee
// sharing a day with [start, end], or gorm.ErrRecordNotFound.
func (r *repository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end.Format(dateLayout), start.Format(dateLayout)).
		Order("start_date ASC").
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]LeaveRequest, error) {
	var leaves []LeaveRequest

	q := r.conn(ctx).Model(&LeaveRequest{})
	if filter.WithEmployee {
		q = q.Preload("Employee")
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("start_date BETWEEN ? AND ?",
			fmt.Sprintf("%04d-01-01", filter.Year),
			fmt.Sprintf("%04d-12-31", filter.Year),
		)
	}
	if filter.ActiveOn != nil {
		day := filter.ActiveOn.Format(dateLayout)
		q = q.Where("start_date <= ? AND end_date >= ?", day, day)
	}
	if filter.Department != "" {
		q = q.Where("employee_id IN (?)",
			r.conn(ctx).Model(&EmployeeRef{}).Select("id").Where("department = ?", filter.Department),
		)
	}

	err := q.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

// Decide moves a pending request to status. It reports false when the
// request is gone or already decided.
func (r *repository) Decide(ctx context.Context, id string, status string, approvedBy uuid.UUID, at time.Time, comments *string) (bool, error) {
	updates := map[string]any{
		"status":      status,
		"approved_by": approvedBy,
		"approved_at": at,
		"updated_at":  at,
	}
	if comments != nil {
		updates["comments"] = *comments
	}

	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) DeletePending(ctx context.Context, employeeID, id string) (bool, error) {
	res := r.conn(ctx).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&LeaveRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
