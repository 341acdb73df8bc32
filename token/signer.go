// Package token signs the access tokens issued by the demo backend.
package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs access token claims and hands the verification key back to
// the jwt parser.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	GetVerificationKey(token *jwt.Token) (any, error)
	GetSigningMethod() jwt.SigningMethod
}

var _ Signer = (*HMACSigner)(nil)

// HMACSigner signs with the backend's shared HS256 secret.
type HMACSigner struct {
	key []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{key: []byte(secret)}
}

func (s *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(s.GetSigningMethod(), claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner.Sign]")
	}
	return signed, nil
}

// GetVerificationKey rejects tokens whose header names another algorithm.
func (s *HMACSigner) GetVerificationKey(t *jwt.Token) (any, error) {
	if t.Method.Alg() != s.GetSigningMethod().Alg() {
		return nil, errors.Errorf("[HMACSigner] unexpected signing method %v", t.Header["alg"])
	}
	return s.key, nil
}

func (s *HMACSigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
