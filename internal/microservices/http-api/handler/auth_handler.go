package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/microservices/http-api/dto"
	"bookrental/internal/microservices/http-api/middleware"
	"bookrental/internal/microservices/http-api/service"
)

type AuthHandler struct {
	authService  service.AuthService
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes mounts /user. login is wrapped by loginLimit.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	rg.GET("", middleware.RequireSession(), h.Status)
	rg.POST("/signup", h.Signup)
	rg.POST("/login", loginLimit, h.Login)
	rg.POST("/logout", h.Logout)
}

// Status answers whether the caller holds a valid session.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged in"})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, principal, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:   "OK",
		Token:     token,
		ExpiresIn: int64(h.sessionTTL.Seconds()),
		User: dto.UserResponse{
			ID:      principal.ID,
			Email:   principal.Email,
			IsAdmin: principal.IsAdmin,
		},
	})
}

// Logout revokes the session if there is one and clears the cookie. It
// always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		_ = h.authService.Logout(ctx, token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}
