package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/slabwatch/slabwatch/internal/duckdb"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// userKey is the gin context key holding the authenticated *model.User.
const userKey = "slabwatch.user"

// requireAuth validates the bearer token and loads the account it names.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		unauthorized(c)
		return
	}

	username, err := s.issuer.Verify(token)
	if err != nil {
		unauthorized(c)
		return
	}

	user, err := s.store.UserByUsername(username)
	if errors.Is(err, duckdb.ErrNotFound) {
		unauthorized(c)
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	c.Set(userKey, user)
	c.Next()
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}

// rateLimit returns middleware enforcing perMinute requests per client IP.
// Each route gets its own limiter set; limiters accrue one burst slot per
// allowance to match the original per-endpoint limits.
func rateLimit(perMinute int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
