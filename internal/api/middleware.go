package api

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/metrics"
	"codeflex/fitness-api/internal/ratelimit"
	"codeflex/fitness-api/internal/service"
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Constants for context keys
const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "requestID"

	headerRequestID = "X-Request-ID"
)

// RequestID propagates the caller's X-Request-ID or generates one, and
// attaches a request scoped logger to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(headerRequestID, id)

		l := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Ctx(c.Request.Context()).Info()
		if status >= http.StatusInternalServerError {
			evt = log.Ctx(c.Request.Context()).Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Metrics records HTTP RED metrics labelled by route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// AuthMiddleware resolves the session cookie to a user and stores it in the
// context. Requests without a valid session are rejected.
func AuthMiddleware(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil {
			token = ""
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminMiddleware rejects non-admin users. Must run AFTER AuthMiddleware.
func AdminMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondError(c, service.ErrNoToken)
			return
		}
		if err := authService.AuthorizeAdmin(user); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// Helper function to get the authenticated user from context
func currentUser(c *gin.Context) (*domain.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*domain.User)
	return user, ok && user != nil
}

// RateLimiter is satisfied by *ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error)
}

// RateLimitRule names a limit and how requests are grouped under it.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    func(c *gin.Context) string
}

// ByClientIP groups requests by caller address.
func ByClientIP(c *gin.Context) string { return c.ClientIP() }

// ByUser groups requests by the authenticated user, falling back to the
// caller address. Must run AFTER AuthMiddleware to see the user.
func ByUser(c *gin.Context) string {
	if user, ok := currentUser(c); ok {
		return "user:" + user.ID.Hex()
	}
	return c.ClientIP()
}

// RateLimit rejects requests over the rule's limit with 429. Limiter
// failures let the request through.
func RateLimit(limiter RateLimiter, rule RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || rule.Limit <= 0 {
			c.Next()
			return
		}

		d, err := limiter.Allow(c.Request.Context(), rule.Name+":"+rule.Key(c), rule.Limit, rule.Window)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Str("rule", rule.Name).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			abortWithError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// Recovery converts panics to a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("panic recovered")
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}
