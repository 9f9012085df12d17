package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/folio/internal/pkg"
)

// Recovery recovers from panics, logs the value and stack trace, and replies
// with errors/500.html for browsers or the JSON envelope for everything else.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", err),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			if acceptsHTML(c) {
				c.Abort()
				renderHTMLError(c)
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal server error")
		}()
		c.Next()
	}
}

// renderHTMLError renders errors/500.html, falling back to plain text when no
// HTML renderer is configured or rendering itself panics.
func renderHTMLError(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
}

// acceptsHTML returns true if the request's Accept header contains "text/html".
func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}

// abortJSON stops the chain with the standard response envelope.
func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, pkg.Response{
		Code:    status,
		Message: message,
	})
}
