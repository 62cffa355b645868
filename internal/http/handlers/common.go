package handlers

import (
	"net/http"
	"strconv"

	intconfig "washbay/internal/config"
	"washbay/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var (
	jwtSecret       = []byte("super-secret-key-change-me")
	overpayLimitPct = 150.0
)

// Configure wires env-derived settings into the handler package.
func Configure(env intconfig.Env) {
	jwtSecret = []byte(env.JWTSecret)
	if env.OverpayLimitPct > 0 {
		overpayLimitPct = env.OverpayLimitPct
	}
}

// JWTSecret exposes the configured secret for the auth middleware.
func JWTSecret() []byte {
	return jwtSecret
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// queryID parses a positive int64 query param, responding 400 on failure.
func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// ParamID parses a positive int64 path param, responding 400 on failure.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}
