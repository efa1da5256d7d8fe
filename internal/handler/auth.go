package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
	"github.com/felps-dev/i-revenue-api/internal/config"
	"github.com/felps-dev/i-revenue-api/internal/httpx"
	"github.com/felps-dev/i-revenue-api/internal/model"
	"github.com/felps-dev/i-revenue-api/internal/repository"
	"github.com/felps-dev/i-revenue-api/internal/utils"
)

// refreshCookieName is the HTTP-only cookie carrying the refresh token.  It
// is scoped to /auth so browsers only send it to the auth endpoints.
const refreshCookieName = "refresh_token"

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenPair struct {
	access  string
	refresh string
}

// issueTokens creates the access+refresh pair for a user.  Both tokens carry
// the same identity; only the type claim and the signing secret differ.
func (h *AuthHandler) issueTokens(u model.User) (tokenPair, error) {
	access, err := utils.NewToken(h.Cfg.JWTSecret, utils.TokenTypeAccess, u.ID, u.Name, h.Cfg.AccessTTL)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := utils.NewToken(h.Cfg.RefreshSecret(), utils.TokenTypeRefresh, u.ID, u.Name, h.Cfg.RefreshTTL)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{access: access, refresh: refresh}, nil
}

// setRefreshCookie stores the refresh token in the /auth-scoped cookie.
func (h *AuthHandler) setRefreshCookie(c echo.Context, refresh string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Path:     "/auth",
		HttpOnly: true,
		MaxAge:   int(h.Cfg.RefreshTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates a user and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// Check first so a plain re-registration gets the dedicated conflict
	// code; the unique index still backstops concurrent registrations.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		msg := "Usuário já existe"
		return apperr.New(http.StatusConflict, apperr.CodeUserAlreadyExists, msg).
			WithDetails(apperr.Detail{Code: apperr.CodeUserAlreadyExists, Message: msg})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperr.New(http.StatusInternalServerError, apperr.CodeRegisterFailed, "Erro interno ao criar usuário")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeRegisterFailed, "Erro interno ao criar usuário")
	}

	user, err := h.Users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			msg := "Email já cadastrado"
			return apperr.New(http.StatusConflict, apperr.CodeEmailAlreadyExists, msg).
				WithDetails(apperr.Detail{Code: apperr.CodeEmailAlreadyExists, Message: msg})
		}
		return apperr.New(http.StatusInternalServerError, apperr.CodeRegisterFailed, "Erro interno ao criar usuário")
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeTokenGenerationFailed, "Erro interno ao gerar token")
	}
	h.setRefreshCookie(c, tokens.refresh)

	return httpx.OK(c, http.StatusCreated, echo.Map{
		"message": "Usuário criado com sucesso",
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"token": tokens.access,
		},
	})
}

// Login verifies credentials and returns a fresh token pair.  Unknown email
// and wrong password produce byte-identical responses so the endpoint cannot
// be used to enumerate users.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	invalid := apperr.New(http.StatusUnauthorized, apperr.CodeInvalidCredentials, "Email e ou senha incorretos")

	user, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid
		}
		return apperr.New(http.StatusInternalServerError, apperr.CodeLoginFailed, "Erro interno ao autenticar usuário")
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return invalid
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeTokenGenerationFailed, "Erro interno ao gerar token")
	}
	h.setRefreshCookie(c, tokens.refresh)

	return httpx.OK(c, http.StatusOK, echo.Map{
		"message": "Login realizado com sucesso",
		"id":      user.ID,
		"name":    user.Name,
		"token":   tokens.access,
	})
}

// Renew exchanges the refresh-token cookie for a rotated token pair.
func (h *AuthHandler) Renew(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		msg := "Refresh token é obrigatório"
		return apperr.New(http.StatusUnauthorized, apperr.CodeMissingRefreshToken, msg).
			WithDetails(apperr.Detail{Code: apperr.CodeMissingRefreshToken, Message: msg}).
			WithHeader(echo.HeaderWWWAuthenticate, apperr.Bearer(apperr.CodeMissingRefreshToken))
	}

	claims, err := utils.Parse(cookie.Value, h.Cfg.RefreshSecret(), utils.TokenTypeRefresh)
	if err != nil {
		msg := "Refresh token inválido"
		return apperr.New(http.StatusUnauthorized, apperr.CodeInvalidRefreshToken, msg).
			WithDetails(apperr.Detail{Code: apperr.CodeInvalidRefreshToken, Message: msg}).
			WithHeader(echo.HeaderWWWAuthenticate, apperr.Bearer(apperr.CodeInvalidRefreshToken))
	}

	tokens, err := h.issueTokens(model.User{ID: claims.UserID, Name: claims.Name})
	if err != nil {
		return apperr.New(http.StatusInternalServerError, apperr.CodeTokenRenewalFailed, "Erro interno ao renovar token")
	}
	h.setRefreshCookie(c, tokens.refresh)

	return httpx.OK(c, http.StatusOK, echo.Map{
		"message": "Token renovado com sucesso",
		"id":      claims.UserID,
		"name":    claims.Name,
		"token":   tokens.access,
	})
}
