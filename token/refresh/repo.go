package refresh

import (
	"time"
)

// StoredRefreshToken represents the server-side storage of refresh token metadata.
// The client only receives the Token field (a random string). All other fields are
// server-side metadata used when the token is exchanged for a new access token.
type StoredRefreshToken struct {
	Token  string    // The actual random token string (sent to client)
	UserID int       // Owner of the token
	Iat    time.Time // Issued at time
}

// Repo manages server-side storage of refresh token metadata, keyed by the
// opaque token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID int) (*StoredRefreshToken, error)
}
