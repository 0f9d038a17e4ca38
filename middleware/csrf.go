package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CSRFHeader   = "X-CSRF-Token"
	csrfTokenTTL = time.Hour
)

var (
	csrfTokens = make(map[string]time.Time)
	csrfMutex  = &sync.RWMutex{}
)

// GenerateCSRFToken issues a token valid for csrfTokenTTL
func GenerateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)

	csrfMutex.Lock()
	csrfTokens[token] = time.Now()
	csrfMutex.Unlock()

	go cleanupExpiredTokens()

	return token, nil
}

func cleanupExpiredTokens() {
	csrfMutex.Lock()
	defer csrfMutex.Unlock()

	now := time.Now()
	for token, created := range csrfTokens {
		if now.Sub(created) > csrfTokenTTL {
			delete(csrfTokens, token)
		}
	}
}

// CSRFProtection validates the token on every state-changing request
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token missing"})
			return
		}

		csrfMutex.RLock()
		created, exists := csrfTokens[token]
		csrfMutex.RUnlock()

		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}

		if time.Since(created) > csrfTokenTTL {
			csrfMutex.Lock()
			delete(csrfTokens, token)
			csrfMutex.Unlock()

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token expired"})
			return
		}

		c.Next()
	}
}

// GetCSRFTokenHandler hands out a fresh token
func GetCSRFTokenHandler(c *gin.Context) {
	token, err := GenerateCSRFToken()
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate CSRF token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"csrf_token": token,
		"expires_in": int(csrfTokenTTL.Seconds()),
	})
}
