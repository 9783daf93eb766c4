package auth

import "github.com/gin-gonic/gin"

const userIDKey = "user_id"

// UserID returns the authenticated caller's id, or "" when the request
// carried no validated identity.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
