package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageuploader-api/internal/transport/http/response"
)

func TestRequireUserIDQuery(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireUserIDQuery(), func(c *gin.Context) {
		id, ok := UserIDFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, fmt.Sprint(id))
	})

	cases := []struct {
		query   string
		status  int
		id      string
		message string
	}{
		{"?user_id=42", http.StatusOK, "42", ""},
		{"?user_id=%2042%20", http.StatusOK, "42", ""},
		{"", http.StatusBadRequest, "", MessageUserIDRequired},
		{"?user_id=", http.StatusBadRequest, "", MessageUserIDRequired},
		{"?user_id=abc", http.StatusBadRequest, "", MessageUserIDNumeric},
		{"?user_id=-1", http.StatusBadRequest, "", MessageUserIDNumeric},
		{"?user_id=1.5", http.StatusBadRequest, "", MessageUserIDNumeric},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+tc.query, nil))

		assert.Equal(t, tc.status, w.Code, tc.query)
		if tc.status == http.StatusOK {
			assert.Equal(t, tc.id, w.Body.String(), tc.query)
			continue
		}
		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.message, body.Message, tc.query)
	}
}

func TestRequireUserIDQuery_RunsBeforeGuards(t *testing.T) {
	users := &countingUsers{}
	r := gin.New()
	r.GET("/", RequireUserIDQuery(), AuthUser(jwtVerifier{}, users), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serveTarget(r, "/?user_id=abc", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveTarget(r, "/?user_id=abc", "Bearer "+token(t, 1, "a@b.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, users.calls)
}

func TestUserIDFromWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := UserIDFrom(c)
	assert.False(t, ok)
}
