package handlers

import (
	"context"
	"net/http"

	"monkeybets/internal/auth"
	"monkeybets/internal/models"
	"monkeybets/internal/phone"
	"monkeybets/internal/services"

	"github.com/gin-gonic/gin"
)

var phoneMessages = bindMessages{
	"Phone": {"*": "Please enter a valid 10-digit US phone number"},
	"Code": {
		"required": "Please enter the code we texted you",
		"*":        "Codes are 4 to 10 digits",
	},
}

// AuthHandler handles phone verification and session endpoints
type AuthHandler struct {
	authService   *services.AuthService
	sessions      *auth.Manager
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, sessions *auth.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// SendCode texts a verification code
// POST /auth/code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req models.PhoneRequest
	if !bindJSON(c, &req, phoneMessages, "Please enter a valid 10-digit US phone number") {
		return
	}

	normalized, err := h.authService.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":  true,
		"phone": phone.Mask(normalized),
	})
}

// SignUp creates an account after the code is verified
// POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	h.completeVerification(c, h.authService.SignUp, http.StatusCreated)
}

// SignIn signs into an existing account after the code is verified
// POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	h.completeVerification(c, h.authService.SignIn, http.StatusOK)
}

func (h *AuthHandler) completeVerification(
	c *gin.Context,
	verifyFn func(ctx context.Context, phone, code string) (*models.Monkey, error),
	status int,
) {
	var req models.VerifyPhoneRequest
	if !bindJSON(c, &req, phoneMessages, "Please enter your phone number and code") {
		return
	}

	monkey, err := verifyFn(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	session, err := h.sessions.Set(c.Request.Context(), monkey)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	auth.SetSessionCookie(c, session, h.secureCookies)

	c.JSON(status, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"monkey":     monkey,
		"redirect":   auth.SafeReturnPath(req.From),
	})
}

// Logout ends the current session
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if session, err := h.sessions.Init(c.Request.Context(), auth.TokenFromRequest(c)); err == nil {
		if err := h.sessions.Clear(c.Request.Context(), session); err != nil {
			respondError(c, "AuthHandler", err)
			return
		}
	}
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GetMe returns the signed-in monkey
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	monkeyID, ok := auth.GetMonkeyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	monkey, err := h.authService.CheckAuth(c.Request.Context(), monkeyID)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusOK, monkey)
}
