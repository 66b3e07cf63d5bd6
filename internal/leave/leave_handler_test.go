package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-elms/internal/domain"
	"go-elms/internal/leave"
	leaveerrors "go-elms/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	leave.Service
	SubmitFn        func(ctx context.Context, actor domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	ListMineFn      func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
	DecideFn        func(ctx context.Context, actor domain.Actor, leaveID, stepID string, req leave.DecisionRequest) (leave.LeaveResponse, error)
	CancelFn        func(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error)
	EscalateStaleFn func(ctx context.Context, now time.Time) (leave.EscalationResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actor domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.SubmitFn(ctx, actor, req)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return f.ListMineFn(ctx, actor)
}
func (f *fakeLeaveService) Decide(ctx context.Context, actor domain.Actor, leaveID, stepID string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return f.DecideFn(ctx, actor, leaveID, stepID, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
	return f.CancelFn(ctx, actor, id)
}
func (f *fakeLeaveService) EscalateStale(ctx context.Context, now time.Time) (leave.EscalationResponse, error) {
	return f.EscalateStaleFn(ctx, now)
}

func withActor(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func TestLeaveHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	typeID := uuid.NewString()

	svc := &fakeLeaveService{
		SubmitFn: func(ctx context.Context, actor domain.Actor, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, userID, actor.ID)
			assert.Equal(t, typeID, req.LeaveTypeID)
			if req.StartDate == "2026-03-13" {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidDateRange
			}
			return leave.LeaveResponse{ID: uuid.NewString(), Reference: "LV-2026-000001", Status: "pending"}, nil
		},
	}
	r := gin.New()
	r.POST("/leaves", withActor(userID.String(), "staff"), leave.NewHandler(svc).Submit)

	t.Run("created", func(t *testing.T) {
		body := `{"leave_type_id":"` + typeID + `","start_date":"2026-03-09","end_date":"2026-03-13"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body)))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "LV-2026-000001")
	})

	t.Run("binding error", func(t *testing.T) {
		body := `{"leave_type_id":"` + typeID + `","start_date":"09/03/2026","end_date":"2026-03-13"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("domain error", func(t *testing.T) {
		body := `{"leave_type_id":"` + typeID + `","start_date":"2026-03-13","end_date":"2026-03-09"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_DATE_RANGE")
	})
}

func TestLeaveHandler_MissingActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/leaves", leave.NewHandler(&fakeLeaveService{}).GetMine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeaveHandler_GetMinePaginates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeLeaveService{
		ListMineFn: func(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
			return []leave.LeaveResponse{{Reference: "LV-1"}, {Reference: "LV-2"}, {Reference: "LV-3"}}, nil
		},
	}
	r := gin.New()
	r.GET("/leaves", withActor(uuid.NewString(), "staff"), leave.NewHandler(svc).GetMine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LV-3")
	assert.NotContains(t, w.Body.String(), "LV-1")
}

func TestLeaveHandler_Decide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	leaveID := uuid.NewString()
	stepID := uuid.NewString()

	svc := &fakeLeaveService{
		DecideFn: func(ctx context.Context, actor domain.Actor, gotLeave, gotStep string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, leaveID, gotLeave)
			assert.Equal(t, stepID, gotStep)
			if req.Decision == "reject" {
				return leave.LeaveResponse{}, leaveerrors.ErrStepNotActive
			}
			return leave.LeaveResponse{ID: leaveID, Status: "approved"}, nil
		},
	}
	r := gin.New()
	r.POST("/leaves/:id/steps/:stepId/decision", withActor(uuid.NewString(), "director"), leave.NewHandler(svc).Decide)
	path := "/leaves/" + leaveID + "/steps/" + stepID + "/decision"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"decision":"approve"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"decision":"reject"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "STEP_NOT_ACTIVE")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"decision":"maybe"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandler_Cancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeLeaveService{
		CancelFn: func(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotAuthorized
		},
	}
	r := gin.New()
	r.POST("/leaves/:id/cancel", withActor(uuid.NewString(), "staff"), leave.NewHandler(svc).Cancel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.NewString()+"/cancel", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AUTHORIZED")
}

func TestLeaveHandler_SweepEscalations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeLeaveService{
		EscalateStaleFn: func(ctx context.Context, now time.Time) (leave.EscalationResponse, error) {
			return leave.EscalationResponse{Enabled: true, Processed: 2, Escalated: 1, Skipped: 1}, nil
		},
	}
	r := gin.New()
	r.POST("/leaves/escalations/sweep", leave.NewHandler(svc).SweepEscalations)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/escalations/sweep", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"escalated":1`)
}
