package api

import (
	"net/http"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      adminAuth
}

func newAuthHandler(auth adminAuth, responder func(zerolog.Logger) Responder) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: responder(logger),
		logger:    logger,
		auth:      auth,
	}
}

// login exchanges admin credentials for a bearer token
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse "Bearer token"
// @Failure 401 {object} ErrorResponse "Invalid username or password"
// @Router /admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, "credentials", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !h.auth.checkCredentials(req.Username, req.Password) {
			h.logger.Warn().Str("username", req.Username).Str("remote_addr", r.RemoteAddr).Msg("failed admin login")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, expiresAt, err := h.auth.issue(req.Username)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue token", err))
			return
		}

		h.logger.Info().Str("username", req.Username).Msg("admin logged in")
		h.responder.WriteJSON(w, LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()})
	}
}
