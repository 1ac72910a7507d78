package leave_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"go-ems/internal/employee"
	employeeMock "go-ems/internal/employee/mock"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// memLeaveRepository keeps rows between calls so a sequence of service
// operations sees the effect of the previous ones.
type memLeaveRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]leave.LeaveRequest
}

func newMemLeaveRepository() *memLeaveRepository {
	return &memLeaveRepository{rows: map[uuid.UUID]leave.LeaveRequest{}}
}

func (m *memLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return m }

func (m *memLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = leave.StatusPending
	}
	m.rows[l.ID] = *l
	return nil
}

func (m *memLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	l, ok := m.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memLeaveRepository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []leave.LeaveRequest
	for _, l := range m.rows {
		if l.EmployeeID.String() != employeeID {
			continue
		}
		if l.Status != leave.StatusPending && l.Status != leave.StatusApproved {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			hits = append(hits, l)
		}
	}
	if len(hits) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].StartDate.Before(hits[j].StartDate) })
	return &hits[0], nil
}

func (m *memLeaveRepository) FindAll(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LeaveRequest
	for _, l := range m.rows {
		if filter.EmployeeID != "" && l.EmployeeID.String() != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memLeaveRepository) Decide(ctx context.Context, id, status string, approvedBy uuid.UUID, at time.Time, comments *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	l, ok := m.rows[key]
	if !ok || l.Status != leave.StatusPending {
		return false, nil
	}
	l.Status = status
	l.ApprovedBy = &approvedBy
	l.ApprovedAt = &at
	l.Comments = comments
	m.rows[key] = l
	return true, nil
}

func (m *memLeaveRepository) DeletePending(ctx context.Context, employeeID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	l, ok := m.rows[key]
	if !ok || l.EmployeeID.String() != employeeID || l.Status != leave.StatusPending {
		return false, nil
	}
	delete(m.rows, key)
	return true, nil
}

type lifecycleDeps struct {
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *memLeaveRepository
}

func setupLifecycleTest(t *testing.T) *lifecycleDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newMemLeaveRepository()
	dir := employeeMock.NewMockRepository(gomock.NewController(t))
	dir.EXPECT().FindByID(gomock.Any(), gomock.Any()).
		Return(&employee.Employee{Name: "Siti", Email: "siti@example.com"}, nil).AnyTimes()
	dir.EXPECT().FindByRole(gomock.Any(), employee.RoleAdmin).
		Return([]employee.Employee{}, nil).AnyTimes()

	return &lifecycleDeps{
		sqlMock: sqlMock,
		service: leave.NewService(db, repo, dir, &recordingPublisher{}),
		repo:    repo,
	}
}

func (d *lifecycleDeps) seedPending(t *testing.T, employeeID uuid.UUID, start, end string) uuid.UUID {
	t.Helper()
	l := &leave.LeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leave.TypeAnnual,
		StartDate:  date(start),
		EndDate:    date(end),
		TotalDays:  leave.InclusiveDays(date(start), date(end)),
		Status:     leave.StatusPending,
	}
	require.NoError(t, d.repo.Create(context.Background(), l))
	return l.ID
}

func TestLeaveLifecycle_SecondDecisionKeepsFirst(t *testing.T) {
	ctx := context.Background()
	deps := setupLifecycleTest(t)
	firstAdmin := uuid.New()
	secondAdmin := uuid.New()
	id := deps.seedPending(t, uuid.New(), "2024-01-10", "2024-01-12")

	expectTx(t, deps.sqlMock, true)
	first, err := deps.service.Decide(ctx, firstAdmin.String(), id.String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})
	require.NoError(t, err)

	stored, err := deps.repo.FindByID(ctx, id.String())
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedBy)
	require.NotNil(t, stored.ApprovedAt)
	approvedAt := *stored.ApprovedAt

	for _, status := range []string{leave.StatusRejected, leave.StatusApproved} {
		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Decide(ctx, secondAdmin.String(), id.String(), leave.DecideLeaveRequest{Status: status})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	}

	after, err := deps.repo.FindByID(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, after.Status)
	require.NotNil(t, after.ApprovedBy)
	assert.Equal(t, firstAdmin, *after.ApprovedBy)
	require.NotNil(t, after.ApprovedAt)
	assert.True(t, approvedAt.Equal(*after.ApprovedAt))
	assert.Equal(t, firstAdmin.String(), *first.ApprovedBy)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveLifecycle_CancelRemovesRequest(t *testing.T) {
	ctx := context.Background()
	deps := setupLifecycleTest(t)
	owner := uuid.New()
	id := deps.seedPending(t, owner, "2024-03-04", "2024-03-05")

	expectTx(t, deps.sqlMock, true)
	require.NoError(t, deps.service.Cancel(ctx, owner.String(), id.String()))

	_, err := deps.repo.FindByID(ctx, id.String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	expectTx(t, deps.sqlMock, false)
	assert.ErrorIs(t, deps.service.Cancel(ctx, owner.String(), id.String()), leaveerrors.ErrLeaveNotFound)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Decide(ctx, uuid.NewString(), id.String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveLifecycle_RejectedRangeCanBeRequestedAgain(t *testing.T) {
	ctx := context.Background()
	deps := setupLifecycleTest(t)
	owner := uuid.New()
	req := leave.RequestLeaveRequest{LeaveType: leave.TypeAnnual, StartDate: "2024-05-06", EndDate: "2024-05-08"}

	expectTx(t, deps.sqlMock, true)
	first, err := deps.service.Request(ctx, owner.String(), req)
	require.NoError(t, err)

	// A range sharing only its last day still conflicts.
	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Request(ctx, owner.String(), leave.RequestLeaveRequest{
		LeaveType: leave.TypeSick, StartDate: "2024-05-08", EndDate: "2024-05-09",
	})
	require.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)

	expectTx(t, deps.sqlMock, true)
	_, err = deps.service.Decide(ctx, uuid.NewString(), first.ID, leave.DecideLeaveRequest{Status: leave.StatusRejected})
	require.NoError(t, err)

	expectTx(t, deps.sqlMock, true)
	_, err = deps.service.Request(ctx, owner.String(), req)
	assert.NoError(t, err)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
