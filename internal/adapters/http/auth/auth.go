// Package auth guards the candidate routes with HTTP Basic credentials or a
// short-lived bearer token obtained from them.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/okian/candidates/pkg/logger"
	"github.com/okian/candidates/pkg/metrics"
)

const (
	// Realm is advertised in WWW-Authenticate challenges.
	Realm  = "candidates"
	issuer = "candidates"

	schemeBasic  = "basic"
	schemeBearer = "bearer"
)

// Claims carried by issued tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// Token is the issued bearer token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UnauthorizedFunc writes the 401 response.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator verifies credentials against one configured user.
type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	cost         int
	now          func() time.Time
	log          logger.Logger
	unauthorized UnauthorizedFunc
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time source used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithBcryptCost sets the bcrypt cost used to hash the configured password.
func WithBcryptCost(cost int) Option {
	return func(a *Authenticator) { a.cost = cost }
}

// WithLogger sets the logger for rejected attempts.
func WithLogger(l logger.Logger) Option {
	return func(a *Authenticator) { a.log = l }
}

// WithUnauthorized replaces the default 401 writer.
func WithUnauthorized(fn UnauthorizedFunc) Option {
	return func(a *Authenticator) { a.unauthorized = fn }
}

// New hashes password and returns an Authenticator. The plain password is not
// retained.
func New(username, password, secret string, ttl time.Duration, opts ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	a := &Authenticator{
		username:     username,
		secret:       []byte(secret),
		ttl:          ttl,
		cost:         bcrypt.DefaultCost,
		now:          time.Now,
		log:          logger.Nop(),
		unauthorized: defaultUnauthorized,
	}
	for _, opt := range opts {
		opt(a)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a.passwordHash = hash
	return a, nil
}

// CheckBasic reports whether the username and password match.
func (a *Authenticator) CheckBasic(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrBadCredentials
	}
	return nil
}

// IssueToken signs a bearer token for subject.
func (a *Authenticator) IssueToken(subject string) (Token, error) {
	now := a.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	metrics.RecordTokenIssued()
	return Token{AccessToken: signed, TokenType: "Bearer", ExpiresIn: int64(a.ttl / time.Second)}, nil
}

// ParseToken validates a signed token and returns its claims.
func (a *Authenticator) ParseToken(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Require accepts either Basic credentials or a bearer token.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return a.guard(next, true)
}

// RequireBasic accepts Basic credentials only. It guards token issuance so a
// token cannot be used to mint another.
func (a *Authenticator) RequireBasic(next http.Handler) http.Handler {
	return a.guard(next, false)
}

func (a *Authenticator) guard(next http.Handler, allowBearer bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, scheme, err := a.authenticate(r, allowBearer)
		if err != nil {
			metrics.RecordAuthFailure(scheme)
			a.log.Warn(r.Context(), "unauthorized request",
				logger.String("scheme", scheme),
				logger.String("path", r.URL.Path),
				logger.Error(err),
			)
			w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", Realm))
			a.unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
	})
}

func (a *Authenticator) authenticate(r *http.Request, allowBearer bool) (string, string, error) {
	header := r.Header.Get("Authorization")
	if allowBearer {
		if raw, ok := cutPrefixFold(header, "Bearer "); ok {
			claims, err := a.ParseToken(strings.TrimSpace(raw))
			if err != nil {
				return "", schemeBearer, err
			}
			return claims.Subject, schemeBearer, nil
		}
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return "", schemeBasic, ErrMissingCredentials
	}
	if err := a.CheckBasic(user, pass); err != nil {
		return "", schemeBasic, err
	}
	return user, schemeBasic, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

type subjectKey struct{}

func withSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject returns the authenticated principal, or "" when none.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

func defaultUnauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "unauthorized",
		"message": "authentication required",
	})
}
