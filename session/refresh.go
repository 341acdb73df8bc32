package session

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Refresh forces a token refresh for the current session, joining one that
// is already in flight.
func (m *Manager) Refresh(ctx context.Context) error {
	tok := m.currentToken()
	if tok == nil {
		return fmt.Errorf("[Manager.Refresh] %w", ErrNotAuthenticated)
	}
	_, err := m.refreshAfter(ctx, tok.AccessToken)
	return err
}

// refreshAfter returns the access token to retry with after failed was
// rejected. If the session already moved past failed, the current token is
// returned without a network call. Otherwise every caller for the same failed
// token shares one refresh.
func (m *Manager) refreshAfter(ctx context.Context, failed string) (string, error) {
	tok := m.currentToken()
	if tok == nil {
		return "", fmt.Errorf("[Manager.refresh] %w", ErrNotAuthenticated)
	}
	if tok.AccessToken != failed {
		return tok.AccessToken, nil
	}

	// The shared call must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	ch := m.refreshes.DoChan(failed, func() (any, error) {
		return m.doRefresh(shared, failed)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *Manager) doRefresh(ctx context.Context, failed string) (string, error) {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.token == nil {
		m.mu.Unlock()
		return "", fmt.Errorf("[Manager.refresh] %w", ErrNotAuthenticated)
	}
	if m.token.AccessToken != failed {
		current := m.token.AccessToken
		m.mu.Unlock()
		return current, nil
	}
	gen := m.generation
	refreshToken := m.token.RefreshToken
	m.mu.Unlock()

	storeCtx := context.WithoutCancel(ctx)

	if m.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.refreshTimeout)
		defer cancel()
	}

	var (
		access string
		err    error
	)
	if refreshToken == "" {
		err = fmt.Errorf("%w: no refresh token stored", ErrRefreshFailure)
	} else {
		access, err = m.gw.Refresh(ctx, refreshToken)
	}

	m.mu.Lock()
	if gen != m.generation {
		// A logout or new login happened meanwhile; it wins.
		m.mu.Unlock()
		m.log.Debug().Msg("discarding refresh result for a superseded session")
		return "", fmt.Errorf("[Manager.refresh] %w: session changed during refresh", ErrNotAuthenticated)
	}

	if err != nil {
		m.clearLocked()
		cerr := clearSnapshot(storeCtx, m.store)
		m.mu.Unlock()

		m.log.Warn().Err(err).Msg("token refresh failed, session ended")
		m.redirect(PathLogin)
		if cerr != nil {
			// The rejected snapshot is still on disk and would be restored.
			m.log.Err(cerr).Msg("failed to clear session after refresh failure")
			return "", fmt.Errorf("[Manager.refresh] %w: %w (clearing stored session: %w)", ErrSessionExpired, err, cerr)
		}
		return "", fmt.Errorf("[Manager.refresh] %w: %w", ErrSessionExpired, err)
	}

	m.token = &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	snap := Snapshot{AccessToken: access, RefreshToken: refreshToken, User: m.user}
	if serr := saveSnapshot(storeCtx, m.store, snap); serr != nil {
		m.log.Err(serr).Msg("failed to persist refreshed access token")
	}
	m.mu.Unlock()

	m.log.Debug().Msg("access token refreshed")
	return access, nil
}
