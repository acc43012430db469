package api

import (
	"net/http"

	"github.com/Domenick1991/travelease/internal/service/account"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts account.AccountUseCase
}

func NewAccountHandler(accounts account.AccountUseCase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register expects router to be guarded by the authenticator.
func (h *AccountHandler) Register(router *gin.RouterGroup) {
	g := router.Group("/account")
	g.POST("/deletion-code", h.requestDeletion)
	g.DELETE("", h.confirmDeletion)
	g.POST("/host-application", h.applyForHost)
}

func (h *AccountHandler) requestDeletion(c *gin.Context) {
	status, err := h.accounts.RequestAccountDeletion(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": status})
}

type confirmDeletionRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *AccountHandler) confirmDeletion(c *gin.Context) {
	var req confirmDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	if err := h.accounts.ConfirmAccountDeletion(c.Request.Context(), currentUser(c), req.Code); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) applyForHost(c *gin.Context) {
	user, err := h.accounts.ApplyForHost(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newUserResponse(user))
}
