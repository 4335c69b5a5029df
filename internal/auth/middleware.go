package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the session token for browser navigations
	SessionCookie = "mb_session"

	sessionContextKey = "session"
	loginPath         = "/login"
)

// RequireSession protects routes. HTML navigations without a session are
// redirected to the login page; API calls get 401 with the same login URL.
func (m *Manager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.Init(c.Request.Context(), TokenFromRequest(c))
		if err != nil && !errors.Is(err, ErrNoSession) {
			// The session may be fine; keep the cookie and let the client retry.
			log.Printf("[Auth] Session check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "We couldn't check your session. Please try again."})
			c.Abort()
			return
		}
		if err != nil {
			if _, cerr := c.Cookie(SessionCookie); cerr == nil {
				ClearSessionCookie(c)
			}

			login := LoginURL(c.Request.URL.RequestURI())
			if wantsHTML(c.Request) {
				c.Redirect(http.StatusFound, login)
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Please sign in to continue",
					"login": login,
				})
			}
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// OptionalSession attaches a session when the request has a valid one
func (m *Manager) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if session, err := m.Init(c.Request.Context(), token); err == nil {
				c.Set(sessionContextKey, session)
			}
		}
		c.Next()
	}
}

// CurrentSession retrieves the session from the context
func CurrentSession(c *gin.Context) (*Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*Session)
	return session, ok
}

// GetMonkeyID retrieves the signed-in monkey's ID from the context
func GetMonkeyID(c *gin.Context) (uuid.UUID, bool) {
	session, ok := CurrentSession(c)
	if !ok {
		return uuid.Nil, false
	}
	return session.MonkeyID, true
}

// SetSessionCookie stores the token in an HttpOnly cookie
func SetSessionCookie(c *gin.Context, session *Session, secure bool) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session.Token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// LoginURL builds the login redirect carrying a sanitized return path
func LoginURL(from string) string {
	return loginPath + "?from=" + url.QueryEscape(SafeReturnPath(from))
}

// SafeReturnPath keeps post-login redirects on this site. Anything that is
// not a plain relative path falls back to the dashboard.
func SafeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return "/"
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") || strings.ContainsAny(raw, "\r\n") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	if u.Path == loginPath {
		return "/"
	}
	return raw
}

// TokenFromRequest reads the session token from the Authorization header or the session cookie
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
