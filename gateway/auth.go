package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	apperrors "github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/users"
)

const (
	PathLogin    = "/api/auth/login/"
	PathRefresh  = "/api/auth/refresh/"
	PathRegister = "/api/auth/register/"
	PathMe       = "/api/auth/me/"
)

// Authenticate exchanges a username and password for a credential pair.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	var resp TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathLogin,
		in:     LoginRequest{Username: username, Password: password},
		out:    &resp,
		auth:   true,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, fmt.Errorf("[Client.Authenticate] %w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return nil, errors.Wrap(err, "[Client.Authenticate]")
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, fmt.Errorf("[Client.Authenticate] %w: response lacks a token", apperrors.ErrInternal)
	}
	return &LoginResult{Access: resp.Access, Refresh: resp.Refresh, User: resp.User}, nil
}

// Refresh exchanges the refresh token for a new access token. Every failure
// is reported as ErrRefreshFailure.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp RefreshResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathRefresh,
		in:     RefreshRequest{Refresh: refreshToken},
		out:    &resp,
		auth:   true,
	})
	if err != nil {
		return "", fmt.Errorf("[Client.Refresh] %w: %w", apperrors.ErrRefreshFailure, err)
	}
	if resp.Access == "" {
		return "", fmt.Errorf("[Client.Refresh] %w: response has no access token", apperrors.ErrRefreshFailure)
	}
	return resp.Access, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*users.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("[Client.Register] %w: %w", apperrors.ErrInvalidInput, err)
	}
	var u users.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathRegister,
		in:     in,
		out:    &u,
		auth:   true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Register]")
	}
	return &u, nil
}

// Me returns the principal the backend associates with the current token.
func (c *Client) Me(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := c.do(ctx, request{method: http.MethodGet, path: PathMe, out: &u}); err != nil {
		return nil, errors.Wrap(err, "[Client.Me]")
	}
	return &u, nil
}
