package api

import (
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/handler/httperr"
	"gamezone-booking/internal/handler/middleware"
	"gamezone-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingActor = errs.New("authenticated actor missing from context")

// pathID parses the :id path parameter, answering 400 when malformed.
func pathID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func requireActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.Abort(c, errMissingActor)
		return user.Actor{}, false
	}
	return actor, true
}

// bindJSON answers 400 on a malformed body.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request format")
		return false
	}
	return true
}
