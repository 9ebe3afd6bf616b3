package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/internal/vat"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, response.Error(status, msg))
}

// companyID parses the :companyId path segment. Writes the 400 itself and
// returns false so callers can bail with a bare return.
func companyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid company id")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	s, _ := v.(string)
	return s
}

// serviceError maps the service error taxonomy onto HTTP status codes.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, vat.ErrInvalidArgument), errors.Is(err, vat.ErrRateNotFound):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, err.Error())
	}
}
