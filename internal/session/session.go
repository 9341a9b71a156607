// Package session tracks the current user across requests via a signed
// cookie. There is no server-side session store: the cookie is a JWT and
// logout revokes its token ID through the blacklist.
package session

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"quill/internal/auth"
	"quill/internal/model"
)

// CookieName is the session cookie holding the signed token.
const CookieName = "quill_session"

// tokenPurpose discriminates session tokens from other tokens signed
// with the same application secret, such as password reset links.
const tokenPurpose = "session"

const identityContextKey = "session.identity"

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   uint
	Username string
}

// Claims are the session token claims.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager issues, parses and revokes session cookies.
type Manager struct {
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	blacklist   auth.TokenStoreInterface
}

// NewManager creates a session manager.
func NewManager(secret string, sessionTTL, rememberTTL time.Duration, blacklist auth.TokenStoreInterface) *Manager {
	return &Manager{
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		blacklist:   blacklist,
	}
}

// Login establishes the current-session identity. With remember the cookie
// carries an expiry so it survives browser restarts; otherwise it is
// session-scoped and discarded when the browser closes.
func (m *Manager) Login(c echo.Context, user *model.User, remember bool) error {
	ttl := m.sessionTTL
	if remember {
		ttl = m.rememberTTL
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Purpose:  tokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.Expires = now.Add(ttl)
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)

	// Make the identity visible to the remainder of this request.
	c.Set(identityContextKey, &Identity{UserID: user.ID, Username: user.Username})
	return nil
}

// Logout clears the current-session identity. The token ID is blacklisted
// for its remaining lifetime so the cleared cookie cannot be replayed.
func (m *Manager) Logout(c echo.Context) {
	if cookie, err := c.Cookie(CookieName); err == nil {
		if claims, err := m.ParseToken(cookie.Value); err == nil {
			remaining := time.Until(claims.ExpiresAt.Time)
			_ = m.blacklist.BlacklistSession(c.Request().Context(), claims.ID, remaining)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(identityContextKey, (*Identity)(nil))
}

// CurrentUser returns the request identity, or nil for anonymous callers.
func (m *Manager) CurrentUser(c echo.Context) *Identity {
	if ident, ok := c.Get(identityContextKey).(*Identity); ok {
		return ident
	}
	return nil
}

// ParseToken validates a session token: HMAC signature, expiry and the
// purpose discriminator. Other tokens minted with the shared secret
// (password reset links) are rejected here.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != tokenPurpose || claims.Username == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// SafeNext validates a post-login redirect target taken from the request.
// Only site-relative paths are accepted; anything else falls back to home.
func SafeNext(raw string) string {
	if raw == "" {
		return "/home"
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/home"
	}
	if strings.Contains(raw, "\\") || strings.Contains(raw, "://") {
		return "/home"
	}
	return raw
}

// LoginRedirectURL builds the login URL that returns to the given path.
func LoginRedirectURL(next string) string {
	return "/login?next=" + url.QueryEscape(next)
}
