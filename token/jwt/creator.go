package jwt

import (
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/token"
	"github.com/qlpt/rental-portal/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claim names carried by access tokens.
const (
	ClaimSubject   = "sub"
	ClaimUserID    = "user_id"
	ClaimEmail     = "email"
	ClaimName      = "name"
	ClaimRole      = "role"
	ClaimTokenType = "token_type"
)

// Creator handles access token creation
type Creator struct {
	config config.TokenConfig
	signer token.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.TokenConfig, signer token.Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateAccessToken creates a signed access token describing user
func (c *Creator) CreateAccessToken(user *users.User) (*string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":          c.config.GetIssuer(),                                   // The issuer of the token
		ClaimSubject:   strconv.Itoa(user.ID),                                  // The user the token was issued to
		ClaimUserID:    user.ID,                                                // Same as sub, numeric
		ClaimEmail:     user.Email,                                             // Identity claims let clients show who is signed in
		ClaimName:      user.FullName,
		ClaimRole:      string(user.Role), // Drives role-gated routes
		ClaimTokenType: "access",
		"iat":          now.Unix(),                                             // Issued At
		"exp":          now.Add(c.config.GetDefaultAccessTokenExpiry()).Unix(), // Expiry
		"jti":          uuid.New().String(),                                    // Unique token ID
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return &signedToken, nil
}
