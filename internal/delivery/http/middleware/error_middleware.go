package middleware

import (
	"errors"
	"net/http"

	"ironforge-backend/internal/delivery/http/response"
	"ironforge-backend/internal/domain"
	"ironforge-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				log.Warn("Request failed",
					zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
					zap.Int("status", appErr.Code),
					zap.Error(appErr.Err),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients.
		log.Error("Internal Server Error",
			zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

// NotFound handles unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("The page you are looking for does not exist."))
	}
}

// MethodNotAllowed handles known routes hit with the wrong verb.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.MethodNotAllowed("Method not allowed."))
	}
}
