package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeLeaveService struct {
	requestFn  func(ctx context.Context, employeeID string, req leave.RequestLeaveRequest) (leave.LeaveResponse, error)
	cancelFn   func(ctx context.Context, employeeID, id string) error
	decideFn   func(ctx context.Context, adminID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error)
	listMineFn func(ctx context.Context, employeeID string, q leave.MyLeaveQuery) (leave.LeaveListResponse, error)
	listAllFn  func(ctx context.Context, q leave.ListLeaveQuery) (leave.LeaveListResponse, error)
}

func (f *fakeLeaveService) Request(ctx context.Context, employeeID string, req leave.RequestLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, employeeID, id string) error {
	return f.cancelFn(ctx, employeeID, id)
}
func (f *fakeLeaveService) Decide(ctx context.Context, adminID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, adminID, id, req)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, employeeID string, q leave.MyLeaveQuery) (leave.LeaveListResponse, error) {
	return f.listMineFn(ctx, employeeID, q)
}
func (f *fakeLeaveService) ListAll(ctx context.Context, q leave.ListLeaveQuery) (leave.LeaveListResponse, error) {
	return f.listAllFn(ctx, q)
}

func newLeaveContext(method, target, body, employeeID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("employee_id", employeeID)
	return c, w
}

func TestLeaveHandler_Request(t *testing.T) {
	employeeID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{requestFn: func(ctx context.Context, eid string, req leave.RequestLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, leave.TypeSick, req.LeaveType)
			return leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending, TotalDays: 3}, nil
		}}
		c, w := newLeaveContext(http.MethodPost, "/leave/request",
			`{"leave_type":"sick","start_date":"2024-01-10","end_date":"2024-01-12"}`, employeeID)

		leave.NewHandler(svc).Request(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"total_days":3`)
	})

	t.Run("unknown leave type is rejected at binding", func(t *testing.T) {
		c, w := newLeaveContext(http.MethodPost, "/leave/request",
			`{"leave_type":"holiday","start_date":"2024-01-10","end_date":"2024-01-12"}`, employeeID)

		leave.NewHandler(&fakeLeaveService{}).Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("overlap carries conflicting id", func(t *testing.T) {
		conflictID := uuid.NewString()
		svc := &fakeLeaveService{requestFn: func(ctx context.Context, eid string, req leave.RequestLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap.WithDetails(map[string]string{"conflicting_request_id": conflictID})
		}}
		c, w := newLeaveContext(http.MethodPost, "/leave/request",
			`{"leave_type":"annual","start_date":"2024-01-10","end_date":"2024-01-12"}`, employeeID)

		leave.NewHandler(svc).Request(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Contains(t, string(env.Error.Details), conflictID)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	employeeID := uuid.NewString()
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{cancelFn: func(ctx context.Context, eid, lid string) error {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, id, lid)
			return nil
		}}
		c, w := newLeaveContext(http.MethodDelete, "/leave/"+id, "", employeeID)
		c.Params = gin.Params{{Key: "id", Value: id}}

		leave.NewHandler(svc).Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not pending", func(t *testing.T) {
		svc := &fakeLeaveService{cancelFn: func(ctx context.Context, eid, lid string) error {
			return leaveerrors.ErrInvalidStatusTransition
		}}
		c, w := newLeaveContext(http.MethodDelete, "/leave/"+id, "", employeeID)
		c.Params = gin.Params{{Key: "id", Value: id}}

		leave.NewHandler(svc).Cancel(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	adminID := uuid.NewString()
	id := uuid.NewString()

	svc := &fakeLeaveService{decideFn: func(ctx context.Context, aid, lid string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
		assert.Equal(t, adminID, aid)
		assert.Equal(t, id, lid)
		assert.Equal(t, leave.StatusRejected, req.Status)
		require.NotNil(t, req.Comments)
		return leave.LeaveResponse{ID: lid, Status: req.Status, Comments: req.Comments}, nil
	}}
	c, w := newLeaveContext(http.MethodPut, "/leave/"+id, `{"status":"rejected","comments":"Peak season"}`, adminID)
	c.Params = gin.Params{{Key: "id", Value: id}}

	leave.NewHandler(svc).Decide(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comments":"Peak season"`)
}

func TestLeaveHandler_ListAll_Paginates(t *testing.T) {
	svc := &fakeLeaveService{listAllFn: func(ctx context.Context, q leave.ListLeaveQuery) (leave.LeaveListResponse, error) {
		assert.Equal(t, leave.StatusPending, q.Status)
		return leave.LeaveListResponse{
			Requests: []leave.LeaveResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}},
			Summary:  leave.LeaveSummary{Total: 3, Pending: 3},
		}, nil
	}}
	c, w := newLeaveContext(http.MethodGet, "/leave/all?status=pending&page=1&page_size=2", "", uuid.NewString())

	leave.NewHandler(svc).ListAll(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var data leave.LeaveListResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Requests, 2)
	assert.Equal(t, 3, data.Summary.Pending)
	assert.EqualValues(t, 3, env.Meta["total"])
}

func TestLeaveHandler_ListMine_InvalidStatus(t *testing.T) {
	c, w := newLeaveContext(http.MethodGet, "/leave/my-requests?status=cancelled", "", uuid.NewString())

	leave.NewHandler(&fakeLeaveService{}).ListMine(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
