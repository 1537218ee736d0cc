package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/auth"
	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

type AuthHandler struct {
	store        *content.Store
	tokens       *auth.Tokens
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(store *content.Store, tokens *auth.Tokens, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, cookieSecure: cookieSecure, logger: logger}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}

	emailTaken, usernameTaken, err := h.store.Taken(c.Request.Context(), input.Email, input.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	errs := map[string]string{}
	if emailTaken {
		errs["email"] = "email address is already registered"
	}
	if usernameTaken {
		errs["username"] = "username is already taken"
	}
	if len(errs) > 0 {
		respondError(c, h.logger, apperr.Fields(apperr.KindConflict, errs))
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := models.User{
		Email:    input.Email,
		Username: input.Username,
		Password: hashed,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login checks the credentials, sets the session cookie and returns the token.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}

	errs := map[string]string{}
	if strings.TrimSpace(input.Username) == "" {
		errs["username"] = "username is required"
	}
	if input.Password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) > 0 {
		respondError(c, h.logger, apperr.Fields(apperr.KindInvalidInput, errs))
		return
	}

	user, err := h.store.FindUserByUsername(c.Request.Context(), input.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		respondError(c, h.logger, apperr.Fields(apperr.KindNotFound, map[string]string{
			"username": "username is not registered",
		}))
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !auth.CheckPassword(user.Password, input.Password) {
		respondError(c, h.logger, apperr.Fields(apperr.KindUnauthorized, map[string]string{
			"password": "password is incorrect",
		}))
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.tokens.TTL().Seconds()), "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, models.AuthResponse{User: *user, Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}
