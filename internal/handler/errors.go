package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supplytrace/internal/middleware"
	"supplytrace/internal/model"
	"supplytrace/pkg/response"
)

// errorMapping pairs a domain sentinel with its HTTP status and stable code.
// Order matters: ErrProductFinalized must be checked before ErrNotAuthorizedSupplier.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{model.ErrUnknownOrUnavailableIngredient, http.StatusUnprocessableEntity, "UNKNOWN_OR_UNAVAILABLE_INGREDIENT"},
	{model.ErrProductFinalized, http.StatusForbidden, "PRODUCT_FINALIZED"},
	{model.ErrNotAuthorizedSupplier, http.StatusForbidden, "NOT_AUTHORIZED_SUPPLIER"},
	{model.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{model.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{model.ErrNotYetApproved, http.StatusConflict, "NOT_YET_APPROVED"},
	{model.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{model.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
}

// respondError writes err as a response envelope. Unmapped errors are 500s.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}
		var details interface{}
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			details = verr.Errors
		}
		c.JSON(m.status, response.ErrorWithCode(m.status, m.code, err.Error(), details))
		return
	}

	c.JSON(http.StatusInternalServerError, response.ErrorWithCode(http.StatusInternalServerError, "INTERNAL", "Internal server error", nil))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, "INVALID_INPUT", msg, nil))
}

// parseID reads a uint64 path parameter. On failure it writes a 400 and returns false.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", "User ID not found in context", nil))
		return uuid.Nil, false
	}
	return id, true
}
