package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter ListFilter) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByRole(ctx context.Context, role string) ([]Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, empl *Employee) error
	UpdateStatus(ctx context.Context, id string, status string) (int64, error)
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

// conn runs statements on the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Employee, error) {
	var empls []Employee
	q := r.conn(ctx).Model(&Employee{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	err := q.Order("created_at DESC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	if err := r.conn(ctx).First(&empl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var empl Employee
	if err := r.conn(ctx).First(&empl, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

// FindByRole returns active employees holding role.
func (r *repository) FindByRole(ctx context.Context, role string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Where("role = ? AND status = ?", role, StatusActive).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Where("status = ?", StatusActive).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&Employee{}).Where("status = ?", StatusActive).Count(&n).Error
	return n, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status string) (int64, error) {
	res := r.conn(ctx).Model(&Employee{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}
