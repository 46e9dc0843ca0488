package handlers

import (
	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/middleware"
	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/pkg/utils"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService   *services.AuthService
	exposeDetails bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as *services.AuthService, exposeDetails bool) *AuthHandler {
	return &AuthHandler{authService: as, exposeDetails: exposeDetails}
}

// Login handles user sign-in.
func (h *AuthHandler) Login(c *gin.Context) {
	input, ok := bindObject(c, "Login")
	if !ok {
		return
	}
	authResp, err := h.authService.SignIn(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.LogInfo("User signed in", map[string]interface{}{"user_id": authResp.User.ID})
	utils.RespondSuccess(c, authResp, "Login successful")
}

// Logout handles sign-out. Clients discard their token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, nil, "Logged out successfully")
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, user, "")
}

// Register handles creation of a back-office user.
func (h *AuthHandler) Register(c *gin.Context) {
	input, ok := bindObject(c, "Register")
	if !ok {
		return
	}
	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondCreated(c, user, "User registered successfully")
}
