package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/users"
)

const (
	msgFieldRequired     = "This field is required."
	msgBadCredentials    = "No active account found with the given credentials"
	msgTokenNotValid     = "Token is invalid or expired"
	msgEmailTaken        = "user with this email already exists."
	msgServerError       = "Lỗi máy chủ"
	msgNotFound          = "Not found."
	msgMalformedJSONBody = "JSON parse error"
)

// LoginHandler exchanges email and password for an access/refresh pair and
// the caller's profile.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gateway.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}

		fe := fieldErrors{}
		if strings.TrimSpace(req.Username) == "" {
			fe.add("username", msgFieldRequired)
		}
		if req.Password == "" {
			fe.add("password", msgFieldRequired)
		}
		if len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}

		// Don't reveal whether the account exists
		user, err := s.repos.Users.GetByEmail(req.Username)
		if err != nil || user == nil || !user.CheckPassword(req.Password) {
			s.log.Info().Str("username", req.Username).Msg("login rejected")
			writeJSONError(w, msgBadCredentials, http.StatusUnauthorized)
			return
		}

		access, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.log.Err(err).Int("user_id", user.ID).Msg("failed to create access token")
			writeJSONError(w, msgServerError, http.StatusInternalServerError)
			return
		}
		refreshToken, err := s.refresh.Create(user.ID)
		if err != nil {
			s.log.Err(err).Int("user_id", user.ID).Msg("failed to create refresh token")
			writeJSONError(w, msgServerError, http.StatusInternalServerError)
			return
		}

		s.log.Info().Int("user_id", user.ID).Str("role", user.Role.String()).Msg("login")
		writeJSON(w, http.StatusOK, gateway.TokenResponse{Access: *access, Refresh: *refreshToken, User: user})
	}
}

// RefreshHandler issues a new access token for a live refresh token. The
// refresh token itself is not rotated.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gateway.RefreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}
		if req.Refresh == "" {
			writeFieldErrors(w, fieldErrors{"refresh": {msgFieldRequired}})
			return
		}

		stored, err := s.refresh.Validate(req.Refresh)
		if err != nil {
			writeJSONError(w, msgTokenNotValid, http.StatusUnauthorized)
			return
		}
		user, err := s.repos.Users.GetByID(stored.UserID)
		if err != nil || user == nil {
			_ = s.refresh.Delete(req.Refresh)
			writeJSONError(w, msgTokenNotValid, http.StatusUnauthorized)
			return
		}

		access, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.log.Err(err).Int("user_id", user.ID).Msg("failed to create access token")
			writeJSONError(w, msgServerError, http.StatusInternalServerError)
			return
		}
		s.log.Debug().Int("user_id", user.ID).Msg("access token refreshed")
		writeJSON(w, http.StatusOK, gateway.RefreshResponse{Access: *access})
	}
}

// RegisterHandler creates an account. The caller still has to log in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gateway.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}

		fe := fieldErrors{}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" {
			fe.add("email", msgFieldRequired)
		} else if existing, err := s.repos.Users.GetByEmail(req.Email); err == nil && existing != nil {
			fe.add("email", msgEmailTaken)
		}
		if strings.TrimSpace(req.FullName) == "" {
			fe.add("full_name", msgFieldRequired)
		}
		if req.Role == "" {
			req.Role = users.RoleTenant
		}
		if !req.Role.Valid() {
			fe.add("role", fmt.Sprintf(msgInvalidChoice, req.Role))
		}
		if req.Password == "" {
			fe.add("password", msgFieldRequired)
		} else if err := users.ValidatePasswordStrength(req.Password); err != nil {
			fe.add("password", err.Error())
		}
		if req.Password != req.PasswordConfirm {
			fe.add("password_confirm", gateway.MsgPasswordMismatch)
		}
		if len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			s.log.Err(err).Msg("failed to hash password")
			writeJSONError(w, msgServerError, http.StatusInternalServerError)
			return
		}
		user := &users.User{
			Email:        req.Email,
			FullName:     strings.TrimSpace(req.FullName),
			Role:         req.Role,
			PasswordHash: hash,
		}
		if err := s.repos.Users.Upsert(user); err != nil {
			s.log.Err(err).Str("email", req.Email).Msg("failed to store user")
			writeJSONError(w, msgServerError, http.StatusInternalServerError)
			return
		}

		s.log.Info().Int("user_id", user.ID).Str("role", user.Role.String()).Msg("account registered")
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, principalFrom(r))
	}
}

// LogoutHandler revokes the caller's refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := principalFrom(r)
		if stored, err := s.repos.RefreshTokens.GetByUserID(user.ID); err == nil && stored != nil {
			if err := s.refresh.Delete(stored.Token); err != nil {
				s.log.Err(err).Int("user_id", user.ID).Msg("failed to revoke refresh token")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ValidatePasswordHandler reports whether a password meets the strength rules
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}

		resp := struct {
			Valid  bool   `json:"valid"`
			Detail string `json:"detail,omitempty"`
		}{Valid: true}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			resp.Valid, resp.Detail = false, err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotFoundHandler handles 404 errors
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, msgNotFound, http.StatusNotFound)
	}
}

// writeRepoError maps a repository error onto a response.
func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		writeJSONError(w, msgNotFound, http.StatusNotFound)
	case errors.Is(err, errors.ErrConflict):
		writeJSONError(w, err.Error(), http.StatusConflict)
	default:
		s.log.Err(err).Msg("repository error")
		writeJSONError(w, msgServerError, http.StatusInternalServerError)
	}
}
