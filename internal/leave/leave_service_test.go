package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-ems/internal/employee"
	employeeMock "go-ems/internal/employee/mock"
	"go-ems/internal/events"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/notification"
	"go-ems/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn          func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn        func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findOverlappingFn func(ctx context.Context, employeeID string, start, end time.Time) (*leave.LeaveRequest, error)
	findAllFn         func(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error)
	decideFn          func(ctx context.Context, id, status string, approvedBy uuid.UUID, at time.Time, comments *string) (bool, error)
	deletePendingFn   func(ctx context.Context, employeeID, id string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) (*leave.LeaveRequest, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, employeeID, start, end)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Decide(ctx context.Context, id, status string, approvedBy uuid.UUID, at time.Time, comments *string) (bool, error) {
	if f.decideFn != nil {
		return f.decideFn(ctx, id, status, approvedBy, at, comments)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeletePending(ctx context.Context, employeeID, id string) (bool, error) {
	if f.deletePendingFn != nil {
		return f.deletePendingFn(ctx, employeeID, id)
	}
	return true, nil
}

type recordingPublisher struct {
	err    error
	events []events.NotificationRequestedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.NotificationRequestedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type leaveServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	directory *employeeMock.MockRepository
	publisher *recordingPublisher
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	repo := &fakeLeaveRepository{}
	dir := employeeMock.NewMockRepository(ctrl)
	pub := &recordingPublisher{}

	return &leaveServiceDeps{
		sqlMock:   sqlMock,
		service:   leave.NewService(db, repo, dir, pub),
		repo:      repo,
		directory: dir,
		publisher: pub,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func date(v string) time.Time {
	t, _ := time.Parse("2006-01-02", v)
	return t
}

func TestLeaveService_Request(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	validReq := leave.RequestLeaveRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2024-01-10",
		EndDate:   "2024-01-12",
		Reason:    "Family trip",
	}

	t.Run("success notifies every admin", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		var created leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = *l
			return nil
		}
		deps.directory.EXPECT().FindByID(gomock.Any(), employeeID.String()).
			Return(&employee.Employee{ID: employeeID, Name: "Siti", Email: "siti@example.com"}, nil)
		deps.directory.EXPECT().FindByRole(gomock.Any(), employee.RoleAdmin).
			Return([]employee.Employee{{Email: "a1@example.com"}, {Email: "a2@example.com"}}, nil)

		resp, err := deps.service.Request(ctx, employeeID.String(), validReq)

		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, employeeID, created.EmployeeID)
		assert.Equal(t, 3, created.TotalDays)
		require.Len(t, deps.publisher.events, 2)
		for i, want := range []string{"a1@example.com", "a2@example.com"} {
			e := deps.publisher.events[i]
			assert.Equal(t, want, e.Recipient)
			assert.Equal(t, notification.TemplateLeaveRequested, e.Template)
			assert.Equal(t, "Siti", e.Payload["employee_name"])
			assert.Equal(t, "3", e.Payload["total_days"])
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.publisher.err = errors.New("outbox down")
		deps.directory.EXPECT().FindByID(gomock.Any(), gomock.Any()).
			Return(&employee.Employee{Name: "Siti"}, nil)
		deps.directory.EXPECT().FindByRole(gomock.Any(), employee.RoleAdmin).
			Return([]employee.Employee{{Email: "a1@example.com"}}, nil)

		_, err := deps.service.Request(ctx, employeeID.String(), validReq)

		assert.NoError(t, err)
		assert.Len(t, deps.publisher.events, 1)
	})

	t.Run("overlap returns conflicting id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		conflictID := uuid.New()
		deps.repo.findOverlappingFn = func(ctx context.Context, eid string, start, end time.Time) (*leave.LeaveRequest, error) {
			assert.Equal(t, "2024-01-10", start.Format("2006-01-02"))
			assert.Equal(t, "2024-01-12", end.Format("2006-01-02"))
			return &leave.LeaveRequest{ID: conflictID, Status: leave.StatusApproved}, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("create must not run on overlap")
			return nil
		}

		_, err := deps.service.Request(ctx, employeeID.String(), validReq)

		require.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, map[string]string{"conflicting_request_id": conflictID.String()}, appErr.Details)
		assert.Empty(t, deps.publisher.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  leave.RequestLeaveRequest
			want error
		}{
			{"end before start", leave.RequestLeaveRequest{LeaveType: leave.TypeSick, StartDate: "2024-01-12", EndDate: "2024-01-10"}, leaveerrors.ErrInvalidDateRange},
			{"bad date", leave.RequestLeaveRequest{LeaveType: leave.TypeSick, StartDate: "12-01-2024", EndDate: "2024-01-10"}, leaveerrors.ErrInvalidDateFormat},
			{"bad type", leave.RequestLeaveRequest{LeaveType: "vacation", StartDate: "2024-01-10", EndDate: "2024-01-10"}, leaveerrors.ErrInvalidLeaveType},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				deps := setupLeaveServiceTest(t)

				_, err := deps.service.Request(ctx, employeeID.String(), tt.req)

				assert.ErrorIs(t, err, tt.want)
				assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			})
		}
	})

	t.Run("single day counts as one", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.directory.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		resp, err := deps.service.Request(ctx, employeeID.String(), leave.RequestLeaveRequest{
			LeaveType: leave.TypeUnpaid, StartDate: "2024-02-29", EndDate: "2024-02-29",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.Empty(t, deps.publisher.events)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: uuid.MustParse(lid), EmployeeID: owner, Status: leave.StatusPending}, nil
		}

		assert.NoError(t, deps.service.Cancel(ctx, owner.String(), id))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		assert.ErrorIs(t, deps.service.Cancel(ctx, owner.String(), id), leaveerrors.ErrLeaveNotFound)
	})

	t.Run("someone else's request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{EmployeeID: uuid.New(), Status: leave.StatusPending}, nil
		}

		assert.ErrorIs(t, deps.service.Cancel(ctx, owner.String(), id), leaveerrors.ErrLeaveNotFound)
	})

	t.Run("already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{EmployeeID: owner, Status: leave.StatusApproved}, nil
		}

		assert.ErrorIs(t, deps.service.Cancel(ctx, owner.String(), id), leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("decided between read and delete", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{EmployeeID: owner, Status: leave.StatusPending}, nil
		}
		deps.repo.deletePendingFn = func(ctx context.Context, eid, lid string) (bool, error) { return false, nil }

		assert.ErrorIs(t, deps.service.Cancel(ctx, owner.String(), id), leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	employeeID := uuid.New()
	id := uuid.NewString()

	pending := func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
		return &leave.LeaveRequest{
			ID:         uuid.MustParse(lid),
			EmployeeID: employeeID,
			LeaveType:  leave.TypeSick,
			StartDate:  date("2024-01-10"),
			EndDate:    date("2024-01-12"),
			TotalDays:  3,
			Status:     leave.StatusPending,
		}, nil
	}

	t.Run("approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = pending
		comments := "Get well soon"
		deps.repo.decideFn = func(ctx context.Context, lid, status string, by uuid.UUID, at time.Time, c *string) (bool, error) {
			assert.Equal(t, leave.StatusApproved, status)
			assert.Equal(t, adminID, by)
			require.NotNil(t, c)
			assert.Equal(t, comments, *c)
			return true, nil
		}
		deps.directory.EXPECT().FindByID(gomock.Any(), employeeID.String()).
			Return(&employee.Employee{Name: "Siti", Email: "siti@example.com"}, nil)

		resp, err := deps.service.Decide(ctx, adminID.String(), id, leave.DecideLeaveRequest{Status: leave.StatusApproved, Comments: &comments})

		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, adminID.String(), *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)
		require.Len(t, deps.publisher.events, 1)
		e := deps.publisher.events[0]
		assert.Equal(t, notification.TemplateLeaveDecided, e.Template)
		assert.Equal(t, "siti@example.com", e.Recipient)
		assert.Equal(t, leave.StatusApproved, e.Payload["status"])
		assert.Equal(t, comments, e.Payload["comments"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("status must be approved or rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Decide(ctx, adminID.String(), id, leave.DecideLeaveRequest{Status: leave.StatusPending})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, adminID.String(), id, leave.DecideLeaveRequest{Status: leave.StatusRejected})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("second decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, lid string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{EmployeeID: employeeID, Status: leave.StatusRejected}, nil
		}

		_, err := deps.service.Decide(ctx, adminID.String(), id, leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.Empty(t, deps.publisher.events)
	})

	t.Run("racing decision loses conditional update", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = pending
		deps.repo.decideFn = func(ctx context.Context, lid, status string, by uuid.UUID, at time.Time, c *string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Decide(ctx, adminID.String(), id, leave.DecideLeaveRequest{Status: leave.StatusRejected})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_ListMine(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	employeeID := uuid.NewString()
	deps.repo.findAllFn = func(ctx context.Context, f leave.Filter) ([]leave.LeaveRequest, error) {
		assert.Equal(t, employeeID, f.EmployeeID)
		assert.Equal(t, 2024, f.Year)
		assert.Equal(t, "", f.Status)
		return []leave.LeaveRequest{
			{Status: leave.StatusPending},
			{Status: leave.StatusApproved},
			{Status: leave.StatusApproved},
			{Status: leave.StatusRejected},
		}, nil
	}

	resp, err := deps.service.ListMine(context.Background(), employeeID, leave.MyLeaveQuery{Year: 2024})

	require.NoError(t, err)
	assert.Len(t, resp.Requests, 4)
	assert.Equal(t, leave.LeaveSummary{Total: 4, Pending: 1, Approved: 2, Rejected: 1}, resp.Summary)
}

func TestLeaveService_ListAll_JoinsEmployee(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	dept := "Finance"
	deps.repo.findAllFn = func(ctx context.Context, f leave.Filter) ([]leave.LeaveRequest, error) {
		assert.True(t, f.WithEmployee)
		assert.Equal(t, dept, f.Department)
		return []leave.LeaveRequest{{
			Status:   leave.StatusPending,
			Employee: &leave.EmployeeRef{ID: uuid.New(), Name: "Budi", Department: &dept},
		}}, nil
	}

	resp, err := deps.service.ListAll(context.Background(), leave.ListLeaveQuery{Department: dept})

	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	require.NotNil(t, resp.Requests[0].Employee)
	assert.Equal(t, "Budi", resp.Requests[0].Employee.Name)
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 3, leave.InclusiveDays(date("2024-01-10"), date("2024-01-12")))
	assert.Equal(t, 1, leave.InclusiveDays(date("2024-01-10"), date("2024-01-10")))
	assert.Equal(t, 2, leave.InclusiveDays(date("2024-02-28"), date("2024-02-29")))
}
