package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	callerHeader = "X-User-ID"
	callerKey    = "user_id"
)

// CallerMiddleware trusts the identity placed in X-User-ID by the gateway in
// front of the API.
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(callerHeader), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "missing caller identity"})
			return
		}
		c.Set(callerKey, userID)
		c.Next()
	}
}

func caller(c *gin.Context) int64 {
	return c.GetInt64(callerKey)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": string(validationKind), "reasons": []string{"invalid " + name}})
		return 0, false
	}
	return id, true
}
