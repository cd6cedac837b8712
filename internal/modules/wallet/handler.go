package wallet

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkshare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/wallets/me", h.GetMyWallet)
	rg.POST("/wallets/me/add", h.AddToMyWallet)
	rg.POST("/wallets/me/withdraw", h.WithdrawFromMyWallet)
	rg.GET("/wallets/me/transactions", h.ListMyTransactions)
}

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (h *Handler) GetMyWallet(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	wallet, err := h.service.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": wallet.Balance})
}

func (h *Handler) AddToMyWallet(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Add(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add funds")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"balance":     wallet.Balance,
		"transaction": txn,
	})
}

func (h *Handler) WithdrawFromMyWallet(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
		case errors.Is(err, ErrInsufficientFunds):
			response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Not enough balance")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to withdraw funds")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"balance":     wallet.Balance,
		"transaction": txn,
	})
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	txns, err := h.service.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}
