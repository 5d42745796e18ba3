package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserIDKey = "auth.user_id"

// Claims is the bearer-token payload. Tokens are minted by the identity
// service; this server only validates them.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthRequired validates the Authorization bearer token and stores the
// caller's user id on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.cfg.AuthJWTSecret), nil
		})
		if err != nil || !token.Valid {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		userID, err := snowflake.ParseString(strings.TrimSpace(claims.UserID))
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(snowflake.ID)
	return userID, ok
}
