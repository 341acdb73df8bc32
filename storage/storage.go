// Package storage defines the durable key/value contract the session
// snapshot is written through. Drivers live in sub-packages.
package storage

import (
	"context"

	apperrors "github.com/qlpt/rental-portal/internal/errors"
)

// ErrCorrupt is returned alongside a usable, empty store when the persisted
// data could not be decoded and was set aside.
var ErrCorrupt = apperrors.ErrCorruptSession

// Store persists string values by key. SetMany and DeleteMany apply all keys
// or none of them.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
	Close() error
}
