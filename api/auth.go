package api

import (
	"net/http"

	"github.com/Domenick1991/travelease/internal/service/account"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts account.AccountUseCase
}

func NewAuthHandler(accounts account.AccountUseCase) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register mounts the /auth routes. requireUser guards the routes that act on
// the signed-in user.
func (h *AuthHandler) Register(router *gin.RouterGroup, requireUser gin.HandlerFunc) {
	g := router.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/email/verification-code", requireUser, h.issueVerificationCode)
	g.POST("/email/verify", h.verifyEmail)
	g.POST("/password/forgot", h.forgotPassword)
	g.POST("/password/reset", h.resetPassword)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	res, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"user":                newUserResponse(res.User),
		"token":               res.Token,
		"verification_status": res.VerificationStatus,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"token": token, "user": newUserResponse(user)})
}

func (h *AuthHandler) issueVerificationCode(c *gin.Context) {
	status, err := h.accounts.IssueVerificationCode(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if status == account.StatusFailedToSend {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error:  "could not send the verification email, try again later",
			Status: string(status),
		})
		return
	}
	respond(c, http.StatusOK, gin.H{"status": status})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *AuthHandler) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	status, err := h.accounts.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": status})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	status := h.accounts.IssuePasswordResetCode(c.Request.Context(), req.Email)
	respond(c, http.StatusOK, gin.H{"status": status})
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "password-reset"})
}
