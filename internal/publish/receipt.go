// Package publish signs queued publication intents so a downstream sender can
// check that a queue request was produced by this studio and not altered.
package publish

import (
	"errors"
	"fmt"
	"time"

	"poststudio/internal/studio/operation"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "poststudio"

var ErrInvalidReceipt = errors.New("invalid publication receipt")

// Claims carry the intent inside the token.
type Claims struct {
	Bot     string   `json:"bot"`
	Channel string   `json:"channel"`
	Count   int      `json:"count"`
	PostIDs []string `json:"post_ids"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HMAC-signed receipts.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token describing intent.
func (s *Signer) Issue(intent operation.PublicationIntent) (string, error) {
	now := s.now()
	claims := Claims{
		Bot:     intent.Bot,
		Channel: intent.Channel,
		Count:   intent.Count,
		PostIDs: intent.PostIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   intent.Channel,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return token, nil
}

// Verify parses a token and returns the intent it describes.
func (s *Signer) Verify(token string) (operation.PublicationIntent, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return operation.PublicationIntent{}, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}
	return operation.PublicationIntent{
		Count:   claims.Count,
		Bot:     claims.Bot,
		Channel: claims.Channel,
		PostIDs: claims.PostIDs,
	}, nil
}
