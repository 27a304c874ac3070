package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"imageuploader-api/internal/model"
	"imageuploader-api/internal/pkg/jwtutil"
	"imageuploader-api/internal/transport/http/response"
)

const (
	contextClaimsKey = "auth.claims"
	contextUserKey   = "auth.user"
)

type TokenVerifier interface {
	VerifyToken(token string) (*jwtutil.Claims, error)
}

type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

// RequireAuthorizationHeader only checks that the header is present.
func RequireAuthorizationHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Authorization header is missing")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthJWT verifies the bearer token and exposes its claims via ClaimsFrom.
func AuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, verifier)
		if !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// AuthUser is AuthJWT plus a lookup of the token's user, exposed via
// UserFrom. Every failure, including lookup errors, answers the same 401.
func AuthUser(verifier TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, verifier)
		if !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Set(contextUserKey, user)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*jwtutil.Claims, bool) {
	v, exists := c.Get(contextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwtutil.Claims)
	return claims, ok && claims != nil
}

func UserFrom(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// BearerToken strips an optional "Bearer " scheme from the header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if scheme, rest, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}

func verify(c *gin.Context, verifier TokenVerifier) (*jwtutil.Claims, bool) {
	token := BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		return nil, false
	}
	claims, err := verifier.VerifyToken(token)
	if err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}
