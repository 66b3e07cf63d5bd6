package holiday_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-elms/internal/holiday"
	holidayerrors "go-elms/internal/holiday/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeHolidayService struct {
	holiday.Service
	ListByYearFn func(ctx context.Context, year int) ([]holiday.HolidayResponse, error)
	CreateFn     func(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error)
	DeleteFn     func(ctx context.Context, id string) error
}

func (f *fakeHolidayService) ListByYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	return f.ListByYearFn(ctx, year)
}
func (f *fakeHolidayService) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeHolidayService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func TestHolidayHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeHolidayService{
		ListByYearFn: func(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
			return []holiday.HolidayResponse{{Date: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")}}, nil
		},
	}
	r := gin.New()
	r.GET("/holidays", holiday.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/holidays?year=2027", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2027-01-01")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/holidays?year=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHolidayHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeHolidayService{
		CreateFn: func(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
			return holiday.HolidayResponse{ID: "h-1", Date: req.Date, Name: req.Name, Kind: "public"}, nil
		},
	}
	h := holiday.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/holidays", strings.NewReader(`{"date":"2026-12-25","name":"Christmas"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/holidays", strings.NewReader(`{"date":"25-12-2026","name":"Christmas"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHolidayHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeHolidayService{
		DeleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return holidayerrors.ErrHolidayNotFound
			}
			return nil
		},
	}
	r := gin.New()
	r.DELETE("/holidays/:id", holiday.NewHandler(svc).Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/holidays/abc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/holidays/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
