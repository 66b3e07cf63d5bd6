package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-elms/internal/domain"
	"go-elms/internal/middleware"
	"go-elms/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.NewString()
	deptID := uuid.NewString()

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		actor, err := middleware.ActorFromContext(c)
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": actor.Role, "dept": actor.DepartmentID.String()})
	})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{
			name:   "valid",
			token:  signed(t, jwt.MapClaims{"user_id": userID, "role": "head_of_department", "department_id": deptID, "exp": time.Now().Add(time.Hour).Unix()}),
			status: http.StatusOK,
		},
		{
			name:   "expired",
			token:  signed(t, jwt.MapClaims{"user_id": userID, "role": "staff", "exp": time.Now().Add(-time.Hour).Unix()}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "missing role",
			token:  signed(t, jwt.MapClaims{"user_id": userID}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown role reaches handler without actor",
			token:  signed(t, jwt.MapClaims{"user_id": userID, "role": "janitor"}),
			status: http.StatusTeapot,
		},
		{name: "no token", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID)
				assert.Contains(t, w.Body.String(), deptID)
			}
		})
	}
}

type fakeRBAC struct {
	allowed map[string]bool
	err     error
}

func (f fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[req.Role+":"+req.Resource+":"+req.Action], nil
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := fakeRBAC{allowed: map[string]bool{"director:leave:approve": true}}

	run := func(svc middleware.RBACService, role string) int {
		r := gin.New()
		r.POST("/x",
			func(c *gin.Context) { c.Set(middleware.ContextRole, role); c.Next() },
			middleware.RBACAuthorize(svc, "leave", "approve"),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, run(svc, "director"))
	assert.Equal(t, http.StatusForbidden, run(svc, "staff"))
	assert.Equal(t, http.StatusUnauthorized, run(svc, ""))
	assert.Equal(t, http.StatusInternalServerError, run(fakeRBAC{err: errors.New("enforcer down")}, "director"))
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, c.GetHeader("X-User")); c.Next() },
		middleware.RateLimitByUser(0.001, 1),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	hit := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("a"))
	assert.Equal(t, http.StatusTooManyRequests, hit("a"))
	assert.Equal(t, http.StatusNoContent, hit("b"))
	assert.Equal(t, http.StatusNoContent, hit(""))
	assert.Equal(t, http.StatusNoContent, hit(""))
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "u-1"); c.Next() },
		middleware.ContextLogger(zap.NewNop()),
		func(c *gin.Context) {
			ctx := c.Request.Context()
			c.String(http.StatusOK, contextutil.GetRequestID(ctx)+"|"+contextutil.GetUserID(ctx))
		},
	)

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		rid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(middleware.HeaderRequestID, rid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, rid+"|u-1", w.Body.String())
		assert.Equal(t, rid, w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("replaces a garbage id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(middleware.HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get(middleware.HeaderRequestID))
		assert.NoError(t, err)
	})
}
