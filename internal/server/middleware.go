package server

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionKey       = "session_id"
	sessionCookieAge = 30 * 24 * 60 * 60
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Session resolves the session id from the header, then the cookie, and
// otherwise issues a new one. The id is echoed back in both places.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if id == "" {
			id = uuid.NewString()
		}
		if !sessionIDPattern.MatchString(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: "invalid session id"})
			return
		}

		c.Set(sessionKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionCookieAge, "/", "", false, true)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		ev := logx.Info()
		switch {
		case status >= 500:
			ev = logx.Error()
		case status >= 400:
			ev = logx.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("session_id", sessionID(c)).
			Msg("HTTP request")
	}
}

// Metrics instruments request counts and latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPInflightInc()
		defer metrics.HTTPInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", SessionHeader},
		ExposeHeaders:    []string{SessionHeader},
		AllowCredentials: true,
	})
}
