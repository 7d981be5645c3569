package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns a new one,
// and echoes it on the response.
func RequestIDMiddleware(ctx *gin.Context) {
	id := ctx.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	ctx.Set(requestIDKey, id)
	ctx.Header(RequestIDHeader, id)
	ctx.Next()
}

func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
