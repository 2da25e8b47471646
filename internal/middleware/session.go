package middleware

import (
	"net/http"

	"gptading/backend/internal/util"
	"gptading/backend/pkg/jwt"
	"gptading/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session resolves the browser session from the signed cookie. A missing,
// invalid or expired token starts a new session and sets a fresh cookie.
// A valid token past half its lifetime is re-issued for the same session.
func Session(tokens *jwt.SessionTokenManager, secureCookie bool, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(util.SessionCookieName); err == nil && raw != "" {
			if claims, err := tokens.Validate(raw); err == nil {
				if tokens.NeedsRefresh(claims) {
					if err := setSessionCookie(c, tokens, claims.SessionID, secureCookie); err != nil {
						log.Error("Failed to refresh session token", err)
					}
				}
				c.Set(util.ContextKeySessionID, claims.SessionID)
				c.Next()
				return
			}
		}

		sessionID := uuid.New().String()
		if err := setSessionCookie(c, tokens, sessionID, secureCookie); err != nil {
			log.Error("Failed to sign session token", err)
			util.AbortWithError(c, util.ErrInternalServer("Failed to start session", err))
			return
		}
		c.Set(util.ContextKeySessionID, sessionID)
		c.Set(util.ContextKeySessionNew, true)

		c.Next()
	}
}

func setSessionCookie(c *gin.Context, tokens *jwt.SessionTokenManager, sessionID string, secure bool) error {
	token, err := tokens.Generate(sessionID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(util.SessionCookieName, token, int(tokens.TTL().Seconds()), "/", "", secure, true)
	return nil
}

// SessionID returns the session resolved by Session
func SessionID(c *gin.Context) string {
	return c.GetString(util.ContextKeySessionID)
}
