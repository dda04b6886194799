package handler

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/pkg/logger"
)

// rateLimiters stores rate limiters per IP
var (
	rateLimiters   = make(map[string]*rate.Limiter)
	rateLimitersMu sync.Mutex
)

// userIDKey is the context key the auth middleware sets
const userIDKey = "userID"

// Claims carries the authenticated user id in bearer tokens issued by the
// account service
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// LoggerMiddleware logs HTTP requests with structured logging
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log after request is processed
		latency := time.Since(start)

		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		log.Info("HTTP request",
			"status", statusCode,
			"method", method,
			"path", path,
			"query", query,
			"ip", clientIP,
			"latency", latency,
			"user_agent", c.Request.UserAgent(),
			"error", errorMessage,
		)
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Allow all origins in development, the dashboard origin in production
		if cfg.IsDevelopment() || origin == cfg.BaseURL {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityHeadersMiddleware adds security-related headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}

// RateLimitMiddleware implements IP-based rate limiting
func RateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		rateLimitersMu.Lock()
		limiter, exists := rateLimiters[clientIP]
		if !exists {
			limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
			rateLimiters[clientIP] = limiter
		}
		rateLimitersMu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, domain.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests, please try again later",
				Code:    http.StatusTooManyRequests,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAuth validates the bearer token and sets the user id in the context.
// Requests without a valid token get 401.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFromToken(c, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "unauthorized",
				Message: "Valid bearer token required",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid bearer token is present and
// lets the request through either way. Used to attribute created links.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := userIDFromToken(c, cfg.JWTSecret); err == nil {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// userIDFromToken parses "Authorization: Bearer <token>" and returns the
// user id claim
func userIDFromToken(c *gin.Context, secret string) (uint, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, domain.ErrUnauthorized
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, domain.ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return 0, domain.ErrUnauthorized
	}

	return claims.UserID, nil
}

// UserIDFromContext extracts the authenticated user id set by the middleware
func UserIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}

	userID, ok := value.(uint)
	return userID, ok
}
