package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-ems/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error.Code
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"employee_id": c.GetString("employee_id"), "role": c.GetString("role")})
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"employee_id": "emp-1",
			"role":        "admin",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "emp-1")
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("missing token", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"employee_id": "emp-1",
			"exp":         time.Now().Add(-time.Minute).Unix(),
		})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, w))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other", jwt.MapClaims{"employee_id": "emp-1"})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
	})

	t.Run("missing employee claim", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"role": "admin"})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeRBAC struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func TestRBACAuthorize(t *testing.T) {
	build := func(svc RBACService, employeeID, role string) *gin.Engine {
		r := newRouter()
		r.GET("/x",
			func(c *gin.Context) {
				if employeeID != "" {
					c.Set("employee_id", employeeID)
				}
				c.Set("role", role)
				c.Next()
			},
			RBACAuthorize(svc, "leave", "decide"),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		return r
	}
	serve := func(r *gin.Engine) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}

	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{allowed: true}
		w := serve(build(svc, "emp-1", "admin"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.EnforceRequest{Role: "admin", Resource: "leave", Action: "decide"}, svc.got)
	})

	t.Run("denied", func(t *testing.T) {
		w := serve(build(&fakeRBAC{}, "emp-1", "employee"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := serve(build(&fakeRBAC{allowed: true}, "", ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		w := serve(build(&fakeRBAC{err: errors.New("boom")}, "emp-1", "admin"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	r := newRouter()
	r.GET("/x",
		func(c *gin.Context) { c.Set("employee_id", "emp-1"); c.Next() },
		RateLimitByUser(0.001, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestIdempotency_Replay(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	cached, err := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: json.RawMessage(`{"ok":true}`)})
	require.NoError(t, err)
	mock.ExpectGet("idemp:/leave/request:emp-1:key-1").SetVal(string(cached))

	handlerCalled := false
	r := newRouter()
	r.POST("/leave/request",
		func(c *gin.Context) { c.Set("employee_id", "emp-1"); c.Next() },
		Idempotency(rdb, zap.NewNop()),
		func(c *gin.Context) { handlerCalled = true; c.Status(http.StatusCreated) },
	)

	req := httptest.NewRequest(http.MethodPost, "/leave/request", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replay"))
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_SkipsWithoutKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	r := newRouter()
	r.POST("/leave/request", Idempotency(rdb, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave/request", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
