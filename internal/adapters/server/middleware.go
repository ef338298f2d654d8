package server

import (
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const requestIDKey = "requestId"

// requestID tags every request with a UUID, echoed in the X-Request-Id
// response header and available to handlers for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.NewV4()
		if err != nil {
			log.Warn().Err(err).Msg("could not generate request id")
			c.Next()
			return
		}

		c.Set(requestIDKey, id.String())
		c.Header("X-Request-Id", id.String())
		c.Next()
	}
}
