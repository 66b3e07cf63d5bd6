package middleware

import (
	"errors"

	"go-elms/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrMissingActor = errors.New("missing or malformed actor in context")

// ActorFromContext builds the lifecycle actor from the claims set by
// AuthMiddleware.
func ActorFromContext(c *gin.Context) (domain.Actor, error) {
	userID, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		return domain.Actor{}, ErrMissingActor
	}

	role, err := domain.ParseRole(c.GetString(ContextRole))
	if err != nil {
		return domain.Actor{}, ErrMissingActor
	}

	actor := domain.Actor{ID: userID, Role: role}
	if raw := c.GetString(ContextDepartmentID); raw != "" {
		if deptID, err := uuid.Parse(raw); err == nil {
			actor.DepartmentID = &deptID
		}
	}
	return actor, nil
}
