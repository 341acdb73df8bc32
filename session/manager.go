// Package session owns the client's authentication lifecycle: login, the
// persisted token snapshot, silent refresh and role-gated route checks.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/storage"
	"github.com/qlpt/rental-portal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Gateway is the part of the backend the Manager talks to.
type Gateway interface {
	Authenticate(ctx context.Context, username, password string) (*gateway.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

var _ Gateway = (*gateway.Client)(nil)

// Manager is the single writer of the session snapshot.
type Manager struct {
	gw             Gateway
	store          storage.Store
	log            zerolog.Logger
	onRedirect     func(target string)
	refreshTimeout time.Duration

	mu         sync.Mutex
	state      State
	token      *oauth2.Token
	user       *users.User
	generation uint64 // bumped by login, logout and expiry

	loginMu   sync.Mutex
	refreshes singleflight.Group
}

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithRedirectHandler is called with the login path when a failed refresh
// ends the session.
func WithRedirectHandler(fn func(target string)) Option {
	return func(m *Manager) {
		m.onRedirect = fn
	}
}

// WithRefreshTimeout bounds the shared refresh call. Zero means no bound
// beyond the HTTP client's own timeout.
func WithRefreshTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.refreshTimeout = d
	}
}

func New(gw Gateway, store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		gw:    gw,
		store: store,
		log:   log.Logger,
		state: StateInitializing,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap restores the persisted session. It performs no network I/O. A
// snapshot that cannot be read back is cleared and reported as a
// *CorruptSessionError; the Manager ends Unauthenticated either way.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInitializing {
		return nil
	}

	snap, err := loadSnapshot(ctx, m.store)
	if err != nil {
		m.state = StateUnauthenticated
		var corrupt *CorruptSessionError
		if !errors.As(err, &corrupt) {
			return pkgerrors.Wrap(err, "[Manager.Bootstrap] loadSnapshot")
		}
		m.log.Warn().Str("key", corrupt.Key).Err(corrupt.Err).Msg("discarding corrupt session snapshot")
		if cerr := clearSnapshot(ctx, m.store); cerr != nil {
			m.log.Err(cerr).Msg("failed to clear corrupt session snapshot")
		}
		return err
	}
	if snap == nil {
		m.state = StateUnauthenticated
		return nil
	}

	m.setLocked(snap)
	m.log.Debug().Int("user_id", snap.User.ID).Str("role", string(snap.User.Role)).Msg("session restored")
	return nil
}

// Login authenticates and, on success, persists the new snapshot. Failures
// leave the session untouched and are never retried.
func (m *Manager) Login(ctx context.Context, username, password string) (*users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("[Manager.Login] %w: username and password are required", ErrInvalidInput)
	}

	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	res, err := m.gw.Authenticate(ctx, username, password)
	if err != nil {
		m.log.Info().Err(err).Msg("login failed")
		return nil, pkgerrors.Wrap(err, "[Manager.Login] Authenticate")
	}

	if res.Access == "" || res.Refresh == "" {
		m.log.Warn().Msg("login response lacks a token")
		return nil, fmt.Errorf("[Manager.Login] %w: login response lacks a token", ErrInternal)
	}

	snap := Snapshot{
		AccessToken:  res.Access,
		RefreshToken: res.Refresh,
		User:         derivePrincipal(res, username),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := saveSnapshot(ctx, m.store, snap); err != nil {
		return nil, pkgerrors.Wrap(err, "[Manager.Login] saveSnapshot")
	}
	m.generation++
	m.setLocked(&snap)
	m.log.Info().Int("user_id", snap.User.ID).Str("role", string(snap.User.Role)).Msg("logged in")

	u := *snap.User
	return &u, nil
}

// Logout clears the session locally. It is idempotent and never fails the
// in-memory transition; a storage error is still returned.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked()
	if err := clearSnapshot(ctx, m.store); err != nil {
		return pkgerrors.Wrap(err, "[Manager.Logout] clearSnapshot")
	}
	return nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentPrincipal returns a copy of the signed-in user.
func (m *Manager) CurrentPrincipal() (*users.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.user == nil {
		return nil, false
	}
	u := *m.user
	return &u, true
}

// currentToken returns a copy of the credential pair, or nil.
func (m *Manager) currentToken() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.token == nil {
		return nil
	}
	t := *m.token
	return &t
}

func (m *Manager) setLocked(snap *Snapshot) {
	m.token = &oauth2.Token{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
		TokenType:    "Bearer",
	}
	m.user = snap.User
	m.state = StateAuthenticated
}

func (m *Manager) clearLocked() {
	m.generation++
	m.token = nil
	m.user = nil
	m.state = StateUnauthenticated
}

func (m *Manager) redirect(target string) {
	if m.onRedirect != nil {
		m.onRedirect(target)
	}
}
