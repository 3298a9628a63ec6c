package handle

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/domain/dto"
	"tavolo/internal/xpkg/auth"
	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
)

type AuthHandler struct {
	cfg   *config.Admin
	mylog logger.Logger
}

func NewAuthHandler(cfg *config.Admin, mylog logger.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, mylog: mylog}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(req.User), []byte(ah.cfg.User)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(ah.cfg.Password)) == 1
		if !userOK || !passOK {
			ah.mylog.Action("login_failed").Warn("Rejected admin login", "user", req.User)
			jsonError(w, http.StatusUnauthorized, core.ErrBadCredentials)
			return
		}

		token, err := auth.IssueToken(ah.cfg.JWTSecret, req.User, "admin")
		if err != nil {
			jsonError(w, http.StatusInternalServerError, errors.New("failed to issue token"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.LoginResponse{Token: token})
	}
}
