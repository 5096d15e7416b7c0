package httpserver

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/api"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
	"storefront/internal/tracking"
)

const sessionExpiredMessage = "Your session has expired. Please sign in again."

type handlers struct {
	deps    Deps
	logger  zerolog.Logger
	streams <-chan struct{}
}

// render executes a page template with the layout data every page shares.
func (h *handlers) render(c *gin.Context, status int, page string, data gin.H) {
	s := currentSession(c)
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = s
	data["Path"] = c.Request.URL.Path
	data["RequestURI"] = c.Request.URL.RequestURI()
	if s != nil {
		data["User"] = s.User
		data["Flashes"] = s.TakeFlashes()
	}
	c.HTML(status, page, data)
}

// token returns a bearer token for the current session. When none can be
// had the session is signed out, the browser redirected, and ok is false.
func (h *handlers) token(c *gin.Context) (string, bool) {
	s := currentSession(c)
	tok, err := h.deps.Sessions.AccessToken(c.Request.Context(), s)
	if err != nil {
		h.expired(c, s)
		return "", false
	}
	return tok, true
}

func (h *handlers) expired(c *gin.Context, s *session.Session) {
	if s != nil {
		s.SignOut()
		s.Info(sessionExpiredMessage)
	}
	c.Redirect(http.StatusSeeOther, signinURL(c.Request.URL.RequestURI()))
	c.Abort()
}

// fail logs a failed action and turns it into a flash notice carrying the
// backend detail or fallback. It reports true when it already answered the
// request (expired token), in which case the caller must return.
func (h *handlers) fail(c *gin.Context, action string, err error, fallback string) bool {
	s := currentSession(c)
	h.logger.Error().Err(err).Str("action", action).Msg("action failed")
	if errors.Is(err, domain.ErrUnauthorized) {
		h.expired(c, s)
		return true
	}
	if s != nil {
		s.Error(api.DetailOr(err, fallback))
	}
	return false
}

// publish emits e without letting a broker problem fail the request.
func (h *handlers) publish(c *gin.Context, e events.Event) {
	if s := currentSession(c); s.SignedIn() {
		e.ActorID = s.User.ID
	}
	if err := h.deps.Events.Publish(c.Request.Context(), e); err != nil {
		h.logger.Warn().Err(err).Str("event", e.Type).Msg("publish event")
	}
}

func (h *handlers) redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}

// redirectBack returns to the page that posted the form when it is local.
func (h *handlers) redirectBack(c *gin.Context, fallback string) {
	if next := safeNext(c.PostForm("next")); next != "" {
		h.redirect(c, next)
		return
	}
	h.redirect(c, fallback)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return def
	}
	return v
}

func formInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(c.PostForm(key)), 10, 64)
	return v
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"naira": domain.FormatNaira,
		"statusLabel": func(status domain.OrderStatus) string {
			return tracking.Label(string(status))
		},
		"statusClass": func(status domain.OrderStatus) string {
			return strings.ToLower(strings.ReplaceAll(string(status), "_", "-"))
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"title": title,
		"freeDeliveryThreshold": func() decimal.Decimal {
			return checkout.FreeDeliveryThreshold
		},
		"card": func(p domain.Product, next string) map[string]any {
			return map[string]any{"P": p, "Next": next}
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// title upper-cases the first letter of s.
func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
