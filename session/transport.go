package session

import (
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Transport attaches the current access token to outgoing requests and,
// when the backend answers 401, refreshes once and re-issues the request.
type Transport struct {
	Base    http.RoundTripper
	manager *Manager
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport wraps base, or http.DefaultTransport when base is nil.
func (m *Manager) Transport(base http.RoundTripper) *Transport {
	return &Transport{Base: base, manager: m}
}

// HTTPClient returns a client whose requests carry the session.
func (m *Manager) HTTPClient(base http.RoundTripper) *http.Client {
	return &http.Client{Transport: m.Transport(base)}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.manager.currentToken()
	if tok == nil {
		return t.base().RoundTrip(req)
	}

	first := req.Clone(req.Context())
	tok.SetAuthHeader(first)
	resp, err := t.base().RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A consumed body that cannot be replayed leaves nothing to retry with.
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	access, err := t.manager.refreshAfter(req.Context(), tok.AccessToken)
	drain(resp)
	if err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	(&oauth2.Token{AccessToken: access}).SetAuthHeader(retry)
	return t.base().RoundTrip(retry)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
