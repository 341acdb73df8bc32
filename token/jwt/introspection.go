package jwt

import (
	"errors"
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/internal/utils"
	"github.com/qlpt/rental-portal/token"
	"github.com/qlpt/rental-portal/users"
)

// TokenIntrospection is the verified content of an access token.
// The 'active' field indicates the state of the token - if it's false, other fields may not be populated.
type TokenIntrospection struct {
	Active bool        `json:"active"`         // True or false - Is the token valid
	Exp    int64       `json:"exp,omitempty"`  // Expiration
	Iat    int64       `json:"iat,omitempty"`  // Issued at time
	Iss    string      `json:"iss,omitempty"`  // Issuer of the token
	Jti    string      `json:"jti,omitempty"`  // Unique token ID
	User   *users.User `json:"user,omitempty"` // Principal described by the claims
}

// Inspector handles JWT token validation
type Inspector struct {
	signer token.Signer
}

// NewInspector creates a new JWT inspector
func NewInspector(signer token.Signer) *Inspector {
	return &Inspector{signer: signer}
}

// Introspect verifies the signature and expiry of rawToken and extracts the
// principal from its claims.
func (i *Inspector) Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, nil
	}

	parsed, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return &TokenIntrospection{Active: false}, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
		}
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return &TokenIntrospection{Active: false}, apperrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims from token")
	}

	user, err := UserFromClaims(claims)
	if err != nil {
		return &TokenIntrospection{Active: false}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	iss, _ := claims["iss"].(string)
	jti, _ := claims["jti"].(string)
	iat, _ := utils.ClaimInt(claims["iat"])
	exp, _ := utils.ClaimInt(claims["exp"])

	return &TokenIntrospection{
		Active: true,
		Exp:    int64(exp),
		Iat:    int64(iat),
		Iss:    iss,
		Jti:    jti,
		User:   user,
	}, nil
}

// PrincipalFromUnverified reads identity claims without checking the
// signature. Clients use it to learn who they logged in as; it must never be
// used to authorize anything.
func PrincipalFromUnverified(rawToken string) (*users.User, error) {
	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}
	return UserFromClaims(claims)
}

// UserFromClaims builds a principal from access token claims. The subject may
// be carried as "sub" or "user_id"; role and email are required.
func UserFromClaims(claims jwtlib.MapClaims) (*users.User, error) {
	id, ok := utils.ClaimInt(claims[ClaimSubject])
	if !ok {
		id, ok = utils.ClaimInt(claims[ClaimUserID])
	}
	if !ok {
		return nil, errors.New("token has no numeric subject")
	}

	roleStr, _ := claims[ClaimRole].(string)
	role, err := users.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}

	email, _ := claims[ClaimEmail].(string)
	name, _ := claims[ClaimName].(string)
	u := &users.User{ID: id, Email: email, FullName: name, Role: role}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}
