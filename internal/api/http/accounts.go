package httpapi

import (
	"net/http"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"
)

const refreshTokenCookie = "refreshToken"

func (h *Handler) setSessionCookies(w http.ResponseWriter, tokens auth.Tokens) {
	for name, value := range map[string]string{accessTokenCookie: tokens.AccessToken, refreshTokenCookie: tokens.RefreshToken} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: value, Path: "/", HttpOnly: true, Secure: h.Production})
	}
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Path: "/", HttpOnly: true, Secure: h.Production, MaxAge: -1})
	}
}

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterCustomerInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.Accounts.RegisterCustomer(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookies(w, session.Tokens)
	respond(w, http.StatusCreated, session, "User registered successfully")
}

func (h *Handler) registerChef(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterChefInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.Accounts.RegisterChef(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookies(w, session.Tokens)
	respond(w, http.StatusCreated, session, "Chef registered successfully. Awaiting admin approval")
}

func (h *Handler) login(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.Credentials
		if err := decode(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
		session, err := h.Accounts.Login(r.Context(), role, in.Email, in.Password)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.setSessionCookies(w, session.Tokens)
		respond(w, http.StatusOK, session, "Logged in successfully")
	}
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		in.RefreshToken = c.Value
	} else if r.ContentLength != 0 {
		if err := decode(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	tokens, err := h.Accounts.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookies(w, tokens)
	respond(w, http.StatusOK, tokens, "Access token refreshed")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), principalFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.clearSessionCookies(w)
	respond(w, http.StatusOK, map[string]any{}, "Logged out successfully")
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.OldPassword == "" || in.NewPassword == "" {
		h.writeError(w, r, apperr.BadRequest("Old and new password are required"))
		return
	}
	if err := h.Accounts.ChangePassword(r.Context(), principalFrom(r.Context()), in.OldPassword, in.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{}, "Password changed successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.Me(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, account, "Account fetched successfully")
}
