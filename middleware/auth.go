package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
)

const (
	tokenKey = "authToken"
	userKey  = "user"
)

type AuthConfig struct {
	SessionNotRequired bool
	AccountNotRequired bool
}

// GenAuth verifies the bearer token and loads the local user row onto the
// context.
func GenAuth(userDB db.UserDatabase, authClient *auth.Client, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader("Authorization")
		if authorizationHeader == "" {
			abortUnauthorized(c, "no authorization header")
			return
		}
		if !strings.HasPrefix(authorizationHeader, "Bearer ") || len(authorizationHeader) < 8 {
			abortUnauthorized(c, "incorrectly formatted authorization header")
			return
		}
		token, err := authClient.VerifyIDToken(c, authorizationHeader[7:])
		if err != nil {
			if config.SessionNotRequired {
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(tokenKey, token)

		user, err := userDB.GetUser(c, token.UID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "database error",
			})
			c.Abort()
			return
		}
		if user == nil {
			if config.AccountNotRequired {
				return
			}
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "must have a user profile",
			})
			c.Abort()
			return
		}
		c.Set(userKey, user)
	}
}

// RequireAccount rejects requests whose token never resolved to a local
// user row.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userKey); !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "must have a user profile",
			})
			c.Abort()
		}
	}
}

// RequireModerator gates moderator-only routes. Rejected before any state
// is touched.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.Get(userKey)
		if !ok || !user.(*model.User).IsModerator {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "moderator capability required",
			})
			c.Abort()
		}
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

func MustGetToken(c *gin.Context) *auth.Token {
	token, _ := c.Get(tokenKey)
	return token.(*auth.Token)
}

func MustGetUser(c *gin.Context) *model.User {
	user, _ := c.Get(userKey)
	return user.(*model.User)
}

// GetUserIdMaybe returns the local user id, or "" when the request carries
// no account.
func GetUserIdMaybe(c *gin.Context) string {
	user, ok := c.Get(userKey)
	if !ok {
		return ""
	}
	return user.(*model.User).Id
}
