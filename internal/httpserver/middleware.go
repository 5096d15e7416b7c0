package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/session"
)

const (
	sessionCtxKey   = "session"
	sessionSavedKey = "session_saved"
)

// sessionMiddleware loads the browser session before the handler runs and
// persists it afterwards if the handler changed it.
func sessionMiddleware(mgr *session.Manager, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := mgr.Load(c.Request)
		if s.IsNew() {
			mgr.WriteCookie(c.Writer, s)
		}
		c.Set(sessionCtxKey, s)

		c.Next()

		if c.GetBool(sessionSavedKey) {
			return
		}
		if err := mgr.Save(c.Request.Context(), s); err != nil {
			logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("persist session")
		}
	}
}

// saveSessionNow persists the session before a long-lived response starts
// and stops sessionMiddleware from saving it again when the response ends,
// by which time the stored copy may have been signed out or renewed.
func saveSessionNow(c *gin.Context, mgr *session.Manager, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
	defer cancel()
	if err := mgr.Save(ctx, currentSession(c)); err != nil {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("persist session")
	}
	c.Set(sessionSavedKey, true)
}

func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionCtxKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// requireAuth sends anonymous visitors to the sign-in page with message.
func requireAuth(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		if s.SignedIn() {
			c.Next()
			return
		}
		if s != nil && message != "" {
			s.Info(message)
		}
		c.Redirect(http.StatusSeeOther, signinURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// requireAdmin lets only admin sessions through; everyone else goes home.
// The backend still checks the role on every call.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		if !s.SignedIn() {
			c.Redirect(http.StatusSeeOther, signinURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !s.IsAdmin() {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireAuthJSON is requireAuth for the polling endpoints.
func requireAuthJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).SignedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		c.Next()
	}
}

func signinURL(next string) string {
	if next == "" || next == "/" {
		return "/signin"
	}
	return "/signin?next=" + url.QueryEscape(next)
}

// safeNext only allows local absolute paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
