package handler

import (
	"log/slog"
	"net/http"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode register request")
		return
	}

	user, err := h.authService.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err, "register user")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	respond.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode login request")
		return
	}

	user, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		slog.Warn("password login failed", "error", err)
		fail(w, r, err, "log in")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	slog.Info("user logged in with password", "user_id", user.ID)
	respond.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) bool {
	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		fail(w, r, err, "generate JWT")
		return false
	}
	h.authService.SetJWTCookie(w, token, expiry)
	return true
}
