package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/auth"
	"github.com/1xev3/edev-backend/internal/config"
	"github.com/1xev3/edev-backend/internal/middleware"
	"github.com/1xev3/edev-backend/internal/repository"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens *auth.TokenService
}

func NewAuthHandler(cfg config.Config, users UserStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type logoutReq struct {
	Token string `json:"token"`
}
type tokenPairResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
type userResp struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	GroupID  int64  `json:"group_id"`
	IsActive bool   `json:"is_active"`
}

// Register creates a user.  New users start in group 0 and inactive; a
// duplicate email yields 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Email == "" || req.Nickname == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/nickname/password required"})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Nickname, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, userResp{
		ID: uid, Email: req.Email, Nickname: req.Nickname, GroupID: 0, IsActive: false,
	})
}

// Login verifies credentials and returns a fresh access/refresh pair.  Both
// "unknown email" and "wrong password" map to the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, u.Email, u.GroupID)
}

// Refresh exchanges a valid refresh token for a new pair, revoking the one
// presented so it cannot be replayed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)

	claims, err := h.Tokens.VerifyRefresh(raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	h.Tokens.Revoke(raw)

	return h.issuePair(c, claims.Subject, claims.GroupID)
}

// Logout revokes the presented token(s).  It accepts a token in the body,
// a Bearer header, or both, and always reports success: revoking an already
// revoked or expired token changes nothing.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	_ = c.Bind(&req) // a malformed body simply leaves the token empty

	if t := strings.TrimSpace(req.Token); t != "" {
		h.Tokens.Revoke(t)
	}
	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		h.Tokens.Revoke(strings.TrimPrefix(header, "Bearer "))
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated identity (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"owner":    c.Get(middleware.OwnerKey),
		"group_id": c.Get(middleware.GroupIDKey),
	})
}

func (h *AuthHandler) issuePair(c echo.Context, sub string, groupID int64) error {
	access, err := h.Tokens.IssueAccess(sub, groupID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Tokens.IssueRefresh(sub, groupID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	return c.JSON(http.StatusOK, tokenPairResp{AccessToken: access, RefreshToken: refresh})
}
