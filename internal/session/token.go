package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Signer issues and validates session tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("session secret not set")
	}
	return &Signer{secret: []byte(secret), ttl: TokenTTL}, nil
}

func (s *Signer) Issue(sessionID, qr string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, errors.New("empty sessionID passed to Issue")
	}

	expires := time.Now().Add(s.ttl)
	claims := jwt.MapClaims{
		"sid": sessionID,
		"qr":  qr,
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Validate returns the session id and QR code carried by a token.
func (s *Signer) Validate(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}

	sid, _ := claims["sid"].(string)
	qr, _ := claims["qr"].(string)
	if sid == "" {
		return "", "", ErrInvalidToken
	}
	return sid, qr, nil
}
