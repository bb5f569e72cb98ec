package cookie

import (
	"github.com/gin-gonic/gin"
)

// AccessTokenCookieName carries the bearer token for browser EventSource
// clients, which cannot set an Authorization header.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
