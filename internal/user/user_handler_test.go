package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-elms/internal/shared/response"
	"go-elms/internal/user"
	usererrors "go-elms/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeUserService struct {
	user.Service
	GetAllFn  func(ctx context.Context) ([]user.UserResponse, error)
	GetByIDFn func(ctx context.Context, id string) (user.UserResponse, error)
}

func (f *fakeUserService) GetAll(ctx context.Context) ([]user.UserResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func TestUserHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeUserService{
		GetAllFn: func(ctx context.Context) ([]user.UserResponse, error) {
			return []user.UserResponse{{Name: "A"}, {Name: "B"}, {Name: "C"}}, nil
		},
	}
	r := gin.New()
	r.GET("/users", user.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?page=2&page_size=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Ok   bool                    `json:"ok"`
		Data []user.UserResponse     `json:"data"`
		Meta response.PaginationMeta `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, "C", env.Data[0].Name)
	assert.Equal(t, int64(3), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestUserHandler_GetById_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeUserService{
		GetByIDFn: func(ctx context.Context, id string) (user.UserResponse, error) {
			return user.UserResponse{}, usererrors.ErrUserNotFound
		},
	}
	r := gin.New()
	r.GET("/users/:id", user.NewHandler(svc).GetById)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
