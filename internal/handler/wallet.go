package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"porter/internal/service"
)

// WalletHandler handles HTTP requests for carrier wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Summary handles GET /v1/carriers/wallet
func (h *WalletHandler) Summary(c *gin.Context) {
	wallet, err := h.walletService.Summary(c.Request.Context(), c.GetHeader(carrierIDHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"carrier_id":        wallet.CarrierID,
		"balance":           wallet.Balance,
		"payout_configured": wallet.PayoutConfigured(),
	})
}

// SetBankDetailsRequest is the HTTP request body for payout details.
type SetBankDetailsRequest struct {
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	AccountHolderName string `json:"account_holder_name"`
	IFSCCode          string `json:"ifsc_code"`
	IdentityLinked    bool   `json:"identity_linked"`
}

// SetBankDetails handles PUT /v1/carriers/wallet/bank-details
func (h *WalletHandler) SetBankDetails(c *gin.Context) {
	var req SetBankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.walletService.SetBankDetails(c.Request.Context(), service.SetBankDetailsRequest{
		CarrierID:         c.GetHeader(carrierIDHeader),
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		AccountHolderName: req.AccountHolderName,
		IFSCCode:          req.IFSCCode,
		IdentityLinked:    req.IdentityLinked,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"updated": true})
}

// WithdrawRequest is the HTTP request body for a withdrawal.
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}

// WithdrawalResponse is the HTTP representation of a withdrawal request.
type WithdrawalResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	RequestedAt string  `json:"requested_at"`
	ResolvedAt  string  `json:"resolved_at,omitempty"`
}

// RequestWithdrawal handles POST /v1/carriers/wallet/withdrawals
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	withdrawal, err := h.walletService.RequestWithdrawal(c.Request.Context(), c.GetHeader(carrierIDHeader), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, WithdrawalResponse{
		ID:          withdrawal.ID,
		Amount:      withdrawal.Amount,
		Status:      string(withdrawal.Status),
		RequestedAt: withdrawal.RequestedAt.Format(time.RFC3339),
	})
}

// WithdrawalHistory handles GET /v1/carriers/wallet/withdrawals
func (h *WalletHandler) WithdrawalHistory(c *gin.Context) {
	withdrawals, err := h.walletService.WithdrawalHistory(c.Request.Context(), c.GetHeader(carrierIDHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		item := WithdrawalResponse{
			ID:          w.ID,
			Amount:      w.Amount,
			Status:      string(w.Status),
			RequestedAt: w.RequestedAt.Format(time.RFC3339),
		}
		if !w.ResolvedAt.IsZero() {
			item.ResolvedAt = w.ResolvedAt.Format(time.RFC3339)
		}
		response = append(response, item)
	}

	respondJSON(c, http.StatusOK, response)
}
