// Package jwt issues and checks the short-lived tokens that admit a websocket
// to one scene session.
package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeScene = "scene"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims bind a token to one scene session. The subject carries the session
// id as well, for tools that only read registered claims.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	Layout    string    `json:"layout"`
	TokenType string    `json:"typ"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateSceneToken(sessionID uuid.UUID, layout string) (string, time.Time, error)
	ValidateToken(tokenString string) (Claims, error)
}

type HMACService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewHMACService(secret string, ttl time.Duration, issuer string) *HMACService {
	return &HMACService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}
}

func (s *HMACService) GenerateSceneToken(sessionID uuid.UUID, layout string) (string, time.Time, error) {
	if len(s.secret) == 0 || s.ttl <= 0 || sessionID == uuid.Nil {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		SessionID: sessionID,
		Layout:    layout,
		TokenType: TokenTypeScene,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sessionID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}

	var c Claims
	_, err := jwtlib.NewParser(opts...).ParseWithClaims(strings.TrimSpace(tokenString), &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, ErrTokenInvalid
	}

	if c.TokenType != TokenTypeScene || c.SessionID == uuid.Nil || c.Subject != c.SessionID.String() {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
