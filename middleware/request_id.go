package middleware

import (
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one, and
// logs failed requests with it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		if status := c.Writer.Status(); status >= 500 {
			utils.LogWarn(logrus.Fields{
				"request_id": id,
				"method":     c.Request.Method,
				"path":       c.FullPath(),
				"status":     status,
			}, "Request failed")
		}
	}
}
