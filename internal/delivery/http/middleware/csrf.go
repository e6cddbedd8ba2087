package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"ironforge-backend/pkg/apperror"
	"ironforge-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour
)

type CSRFConfig struct {
	Enabled bool
	// SecureCookie marks the cookie HTTPS-only. Off for local development.
	SecureCookie bool
	// ExemptPaths are never validated (health checks, metrics scrapes).
	ExemptPaths []string
	// Events receives rejected requests. May be nil.
	Events *security.SecurityLogger
}

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern.
//
// Any request without a csrf_token cookie gets one. Mutating requests
// (POST, PUT, PATCH, DELETE) must echo the cookie value in X-CSRF-Token.
// The frontend reads the cookie after GET /v1/contact and sends it back
// with the quote form.
func CSRFMiddleware(cfg CSRFConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	exempt := make(map[string]bool, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = true
	}

	return func(c *gin.Context) {
		if exempt[c.Request.URL.Path] {
			c.Next()
			return
		}

		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				_ = c.Error(apperror.Internal(err))
				c.Abort()
				return
			}

			// SameSite=Lax sends the cookie on top-level navigations only
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				CSRFTokenCookieName,
				newToken,
				int(CSRFTokenExpiry.Seconds()),
				"/",
				"", // Domain (empty = current domain)
				cfg.SecureCookie,
				false, // HttpOnly = false so JS can read it
			)
			csrfCookie = newToken
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			reject(c, cfg.Events, "missing_token", "Missing CSRF token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(headerToken), []byte(csrfCookie)) != 1 {
			reject(c, cfg.Events, "token_mismatch", "Invalid CSRF token")
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, events *security.SecurityLogger, reason, message string) {
	events.LogCSRFViolation(c.Request.Context(),
		reason,
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.Request.URL.Path,
	)
	_ = c.Error(apperror.Forbidden(message))
	c.Abort()
}
