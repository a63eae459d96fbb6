package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-billing/middleware"
	"hotel-billing/services"
	"hotel-billing/utils"
)

// respondError maps a service error onto the shared error envelope.
func respondError(c *gin.Context, err error) {
	e, ok := services.AsError(err)
	if !ok {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal", "error.internal", "internal server error")
		return
	}
	utils.JSONError(c, statusFor(e), string(e.Kind), e.Code, e.Message)
}

func statusFor(e *services.Error) int {
	switch {
	case errors.Is(e, services.ErrUnauthenticated), errors.Is(e, services.ErrBadCredentials):
		return http.StatusUnauthorized
	case e.Kind == services.KindAuthorization:
		return http.StatusForbidden
	case e.Kind == services.KindValidation:
		return http.StatusBadRequest
	case e.Kind == services.KindNotFound:
		return http.StatusNotFound
	case e.Kind == services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, string(services.KindValidation), "error.invalidPayload", err.Error())
}

func identity(c *gin.Context) services.Identity {
	return middleware.IdentityFrom(c)
}

// parseID reads a positive numeric path parameter. It writes the 400 response
// itself and reports false when the value is unusable.
func parseID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		utils.JSONError(c, http.StatusBadRequest, string(services.KindValidation), "error.invalidId", "invalid "+name)
		return 0, false
	}
	return uint(n), true
}

// parseIDList reads "1,2,3". An empty string yields nil.
func parseIDList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || n == 0 {
			return nil, services.Validation("error.invalidId", "invalid id %q", part)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}
