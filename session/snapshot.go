package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qlpt/rental-portal/storage"
	"github.com/qlpt/rental-portal/users"
)

// Storage keys of the session snapshot.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

var snapshotKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Snapshot is the persisted form of a session. It is always written and
// cleared as a unit.
type Snapshot struct {
	AccessToken  string
	RefreshToken string
	User         *users.User
}

func (s Snapshot) encode() (map[string]string, error) {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return map[string]string{
		KeyAccessToken:  s.AccessToken,
		KeyRefreshToken: s.RefreshToken,
		KeyUser:         string(userJSON),
	}, nil
}

func saveSnapshot(ctx context.Context, store storage.Store, s Snapshot) error {
	values, err := s.encode()
	if err != nil {
		return err
	}
	return store.SetMany(ctx, values)
}

func clearSnapshot(ctx context.Context, store storage.Store) error {
	return store.DeleteMany(ctx, snapshotKeys...)
}

// loadSnapshot returns nil, nil when nothing is stored. Storage failures are
// returned as-is; anything present but unreadable is a *CorruptSessionError.
func loadSnapshot(ctx context.Context, store storage.Store) (*Snapshot, error) {
	values := make(map[string]string, len(snapshotKeys))
	for _, k := range snapshotKeys {
		v, ok, err := store.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", k, err)
		}
		if ok {
			values[k] = v
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	access, ok := values[KeyAccessToken]
	if !ok || access == "" {
		return nil, &CorruptSessionError{Key: KeyAccessToken, Err: errors.New("missing access token")}
	}
	if refresh := values[KeyRefreshToken]; refresh == "" {
		return nil, &CorruptSessionError{Key: KeyRefreshToken, Err: errors.New("missing refresh token")}
	}
	rawUser, ok := values[KeyUser]
	if !ok {
		return nil, &CorruptSessionError{Key: KeyUser, Err: errors.New("missing principal")}
	}
	var u users.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return nil, &CorruptSessionError{Key: KeyUser, Err: err}
	}
	if err := u.Validate(); err != nil {
		return nil, &CorruptSessionError{Key: KeyUser, Err: err}
	}

	return &Snapshot{
		AccessToken:  access,
		RefreshToken: values[KeyRefreshToken],
		User:         &u,
	}, nil
}
