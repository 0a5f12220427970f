package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// ===== Session cookie primitives =====

type Config struct {
	HMACSecret   []byte
	CookieName   string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

type SessionManager struct {
	cfg Config
	now func() time.Time
}

func NewSessionManager(secret, cookieName string, secure bool, ttl time.Duration) *SessionManager {
	if cookieName == "" {
		cookieName = "sid"
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionManager{
		cfg: Config{
			HMACSecret:   []byte(secret),
			CookieName:   cookieName,
			SecureCookie: secure,
			TTL:          ttl,
		},
		now: time.Now,
	}
}

// SessionClaims carries the user id in sub.
type SessionClaims struct {
	jwt.RegisteredClaims
}

func (c *SessionClaims) UserID() string { return c.Subject }

func (a *SessionManager) CookieName() string { return a.cfg.CookieName }

// Issue signs a session token for userID.
func (a *SessionManager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidToken
	}
	now := a.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.HMACSecret)
}

// Mint issues a token and sets it as an HttpOnly cookie.
func (a *SessionManager) Mint(w http.ResponseWriter, userID string) (string, error) {
	signed, err := a.Issue(userID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return signed, nil
}

func (a *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ParseFromRequest reads the session cookie, falling back to a bearer token.
func (a *SessionManager) ParseFromRequest(r *http.Request) (*SessionClaims, error) {
	if c, err := r.Cookie(a.cfg.CookieName); err == nil && c.Value != "" {
		return a.Parse(c.Value)
	}
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if len(hdr) > 7 && strings.EqualFold(hdr[:7], "bearer ") {
			return a.Parse(strings.TrimSpace(hdr[7:]))
		}
	}
	return nil, ErrMissingToken
}

func (a *SessionManager) Parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
