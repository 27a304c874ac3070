package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"imageuploader-api/internal/transport/http/response"
)

const contextUserIDKey = "query.user_id"

const (
	MessageUserIDRequired = "User ID is required and must be a string"
	MessageUserIDNumeric  = "User ID must be a valid number"
)

// RequireUserIDQuery validates the user_id query parameter and exposes it via
// UserIDFrom. It runs ahead of the auth guards so a malformed id is refused
// without touching the token or the database.
func RequireUserIDQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.Query("user_id"))
		if raw == "" {
			response.Error(c, http.StatusBadRequest, "", MessageUserIDRequired)
			c.Abort()
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "", MessageUserIDNumeric)
			c.Abort()
			return
		}
		c.Set(contextUserIDKey, uint(id))
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) (uint, bool) {
	v, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
