package api

import (
	"net/http"
	"strconv"
	"time"

	apperrors "ats-console/internal/common/errors"
	httpclient "ats-console/internal/common/http"
	"ats-console/internal/common/logger"
	"ats-console/internal/common/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("Request failed", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("Request rejected", fields)
		default:
			log.Debug("Request served", fields)
		}
	}
}

// forwardCookies hands the browser's cookies to the backend calls the request
// makes. The backend client decides whether to send them.
func forwardCookies() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Cookie"); header != "" {
			c.Request = c.Request.WithContext(httpclient.WithCookies(c.Request.Context(), header))
		}
		c.Next()
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// recovery turns a handler panic into a 500 with the standard error body.
func recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Handler panicked", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"panic": r,
				})
				respondError(c, apperrors.NewInternalError("Internal server error", nil), "")
			}
		}()
		c.Next()
	}
}

// corsMiddleware allows the browser front end at origin to call the console with
// its cookies. An empty origin disables the headers, "*" allows any origin
// without credentials.
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		return func(c *gin.Context) { c.Next() }
	}
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	return cors.New(cfg)
}
