package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxSessionKey = "session"
	adminSubject  = "admin"
)

var errInvalidCredentials = errors.New("invalid credentials")

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// authenticator checks the admin password and signs session tokens.
type authenticator struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	secure       bool
	now          func() time.Time
}

func newAuthenticator(password, secret string, ttl time.Duration, secure bool) (*authenticator, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &authenticator{
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          ttl,
		secure:       secure,
		now:          time.Now,
	}, nil
}

func (a *authenticator) checkPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return errInvalidCredentials
	}
	return nil
}

func (a *authenticator) issue(sessionID string) (string, error) {
	now := a.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *authenticator) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, errors.New("token has no session")
	}
	return claims, nil
}

func (a *authenticator) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, int(a.ttl.Seconds()), "/", "", a.secure, true)
}

func (a *authenticator) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", a.secure, true)
}

// requireSession redirects anonymous requests to the login page and binds
// the session to the context.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.SessionCookieName)
		if err != nil || token == "" {
			s.redirectToLogin(c)
			return
		}
		claims, err := s.auth.parse(token)
		if err != nil {
			s.auth.clearCookie(c)
			s.redirectToLogin(c)
			return
		}
		sess, ok := s.sessions.getOrCreate(claims.SessionID)
		if !ok {
			s.auth.clearCookie(c)
			s.redirectToLogin(c)
			return
		}
		c.Set(ctxSessionKey, sess)
		c.Next()
	}
}

func (s *Server) redirectToLogin(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusSeeOther, "/login")
	} else {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	c.Abort()
}

func currentSession(c *gin.Context) *session {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session)
	return sess
}

func (s *Server) loginPage(c *gin.Context) {
	s.render(c, http.StatusOK, "login", gin.H{"Title": "Sign in"})
}

func (s *Server) login(c *gin.Context) {
	if err := s.auth.checkPassword(c.PostForm("password")); err != nil {
		s.render(c, http.StatusUnauthorized, "login", gin.H{"Title": "Sign in", "Error": "Wrong password"})
		return
	}
	sess := s.sessions.create()
	token, err := s.auth.issue(sess.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.auth.setCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(constants.SessionCookieName); err == nil {
		if claims, err := s.auth.parse(token); err == nil {
			until := s.auth.now().Add(s.auth.ttl)
			if claims.ExpiresAt != nil {
				until = claims.ExpiresAt.Time
			}
			s.sessions.revoke(claims.SessionID, until)
		}
	}
	s.auth.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
