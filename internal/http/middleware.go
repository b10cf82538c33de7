package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civictechlab/contrib-api/internal/domain"
	"github.com/civictechlab/contrib-api/internal/log"
	"github.com/civictechlab/contrib-api/internal/metrics"
	"github.com/civictechlab/contrib-api/internal/repo"
)

const (
	authUserKey  = "authUser"
	requestIDKey = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func requestID(c *gin.Context) string { return c.GetString(requestIDKey) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		c.Next()
		metrics.InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Auth resolves the bearer token to a user and stashes it in the context.
// A token that maps to a missing user hash is an invariant violation, not an
// auth failure.
func Auth(rdb *repo.Redis) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer"})
			return
		}
		tok := strings.TrimSpace(h[len("Bearer "):])
		userIden, err := rdb.UserIdenByToken(c.Request.Context(), tok)
		if err != nil {
			storageFail(c, "token resolve", err)
			return
		}
		if userIden == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		u, err := rdb.FindUser(c.Request.Context(), userIden)
		if err != nil {
			storageFail(c, "user load", err)
			return
		}
		if u == nil {
			log.L().Error("token maps to missing user",
				zap.String("user", userIden), zap.Error(domain.ErrInternalInconsistency))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "inconsistent account"})
			return
		}
		c.Set(authUserKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, _ := c.Get(authUserKey)
	return v.(*domain.User)
}
