package handler

import (
	"escrow-custody-gateway/internal/adapter/http/dto"
	"escrow-custody-gateway/internal/adapter/http/middleware"
	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"
	"escrow-custody-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultLedgerLimit = 50

// WalletHandler handles custody wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
	addrRepo  ports.CoinAddressRepository
	ledger    ports.WalletTransactionRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, addrRepo ports.CoinAddressRepository, ledger ports.WalletTransactionRepository) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, addrRepo: addrRepo, ledger: ledger}
}

// Create handles POST /api/v1/wallet.
func (h *WalletHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.walletResponse(c, wallet)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Get handles GET /api/v1/wallet.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.walletResponse(c, wallet)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// AddCoin handles POST /api/v1/wallet/coins.
func (h *WalletHandler) AddCoin(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	addr, err := h.walletSvc.AddCoin(c.Request.Context(), wallet.ID, req.Symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toCoinAddressResponse(addr))
}

// GetBalance handles GET /api/v1/wallet/balance/:symbol.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	reading, err := h.walletSvc.GetBalance(c.Request.Context(), wallet.ID, c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{
		Symbol:      reading.Symbol,
		Address:     reading.Address,
		Amount:      reading.Amount,
		Stale:       reading.Stale,
		RefreshedAt: reading.RefreshedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// RefreshBalances handles POST /api/v1/wallet/refresh.
func (h *WalletHandler) RefreshBalances(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.walletSvc.RefreshBalances(c.Request.Context(), wallet.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Transfer handles POST /api/v1/wallet/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	wtx, err := h.walletSvc.Transfer(c.Request.Context(), ports.WalletTransferRequest{
		WalletID:  wallet.ID,
		ToAddress: req.ToAddress,
		Amount:    req.Amount,
		Symbol:    req.Symbol,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTransferResponse(wtx))
}

// ListTransfers handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) ListTransfers(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	txns, err := h.ledger.ListByWallet(c.Request.Context(), wallet.ID, defaultLedgerLimit)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	out := make([]dto.TransferResponse, len(txns))
	for i := range txns {
		out[i] = toTransferResponse(&txns[i])
	}
	response.OK(c, out)
}

// Deactivate handles DELETE /api/v1/wallet.
func (h *WalletHandler) Deactivate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	if err := h.walletSvc.DeactivateWallet(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deactivated": true})
}

func (h *WalletHandler) walletResponse(c *gin.Context, wallet *domain.Wallet) (dto.WalletResponse, error) {
	addrs, err := h.addrRepo.ListByWallet(c.Request.Context(), wallet.ID)
	if err != nil {
		return dto.WalletResponse{}, apperror.InternalError(err)
	}
	resp := dto.WalletResponse{
		ID:       wallet.ID.String(),
		UserID:   wallet.UserID.String(),
		IsActive: wallet.IsActive,
	}
	for i := range addrs {
		resp.Addresses = append(resp.Addresses, toCoinAddressResponse(&addrs[i]))
	}
	return resp, nil
}

func toCoinAddressResponse(a *domain.CoinAddress) dto.CoinAddressResponse {
	return dto.CoinAddressResponse{
		ID:      a.ID.String(),
		Symbol:  a.Symbol,
		Network: a.Network,
		Address: a.Address,
		Balance: a.Balance,
	}
}

func toTransferResponse(wtx *domain.WalletTransaction) dto.TransferResponse {
	return dto.TransferResponse{
		ID:          wtx.ID.String(),
		Symbol:      wtx.Symbol,
		Amount:      wtx.Amount,
		FeePaid:     wtx.FeePaid,
		TxHash:      wtx.TxHash,
		Status:      string(wtx.Status),
		Counterpart: wtx.Counterpart,
	}
}
