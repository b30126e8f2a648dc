package handler

import (
	"escrow-custody-gateway/internal/adapter/http/dto"
	"escrow-custody-gateway/internal/adapter/http/middleware"
	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"
	"escrow-custody-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TradeHandler handles escrow trade endpoints.
type TradeHandler struct {
	tradeSvc ports.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc ports.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// Open handles POST /api/v1/trades.
func (h *TradeHandler) Open(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OpenTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	trade, err := h.tradeSvc.OpenTrade(c.Request.Context(), userID, domain.TradeType(req.Type), req.Symbol, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toTradeResponse(trade))
}

// Get handles GET /api/v1/trades/:id.
func (h *TradeHandler) Get(c *gin.Context) {
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	trade, err := h.tradeSvc.GetTrade(c.Request.Context(), tradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTradeResponse(trade))
}

// SetPrice handles PUT /api/v1/trades/:id/price.
func (h *TradeHandler) SetPrice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	trade, err := h.tradeSvc.SetPrice(c.Request.Context(), tradeID, userID, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTradeResponse(trade))
}

// AttachInvoice handles POST /api/v1/trades/:id/invoice.
func (h *TradeHandler) AttachInvoice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.AttachInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	trade, err := h.tradeSvc.AttachInvoice(c.Request.Context(), tradeID, userID, req.InvoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTradeResponse(trade))
}

// DepositAddress handles POST /api/v1/trades/:id/deposit-address.
func (h *TradeHandler) DepositAddress(c *gin.Context) {
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	address, breakdown, err := h.tradeSvc.GetDepositAddress(c.Request.Context(), tradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DepositAddressResponse{
		Address:           address,
		BotFee:            breakdown.BotFee,
		GasForBuyerPayout: breakdown.GasForBuyerPayout,
		GasForBotPayout:   breakdown.GasForBotPayout,
		TotalGas:          breakdown.TotalGas,
		TotalDeposit:      breakdown.TotalDeposit,
		DepositCurrency:   breakdown.DepositCurrency,
		GasCurrency:       breakdown.GasCurrency,
		GasSeparate:       breakdown.GasSeparate,
	})
}

// ConfirmDeposit handles POST /api/v1/trades/:id/confirm-deposit.
func (h *TradeHandler) ConfirmDeposit(c *gin.Context) {
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	check, err := h.tradeSvc.ConfirmCryptoDeposit(c.Request.Context(), tradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DepositCheckResponse{
		Result:          string(check.Result),
		Have:            check.Have,
		Want:            check.Want,
		DepositCurrency: check.DepositCurrency,
		GasHave:         check.GasHave,
		GasWant:         check.GasWant,
		GasCurrency:     check.GasCurrency,
	})
}

// Join handles POST /api/v1/trades/:id/join.
func (h *TradeHandler) Join(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.JoinTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	trade, err := h.tradeSvc.JoinTrade(c.Request.Context(), tradeID, userID, req.PayoutAddress)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTradeResponse(trade))
}

// SubmitFiatProof handles POST /api/v1/trades/:id/fiat-proof.
func (h *TradeHandler) SubmitFiatProof(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.FiatProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.tradeSvc.SubmitFiatProof(c.Request.Context(), tradeID, userID, req.Proof); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"submitted": true})
}

// ApproveFiat handles POST /api/v1/trades/:id/approve-fiat.
func (h *TradeHandler) ApproveFiat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	if err := h.tradeSvc.ApproveFiatPayment(c.Request.Context(), tradeID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"approved": true})
}

// RejectFiat handles POST /api/v1/trades/:id/reject-fiat.
func (h *TradeHandler) RejectFiat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.RejectFiatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.tradeSvc.RejectFiatPayment(c.Request.Context(), tradeID, userID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"rejected": true})
}

// Release handles POST /api/v1/trades/:id/release.
func (h *TradeHandler) Release(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	trade, err := h.tradeSvc.InitiateCryptoRelease(c.Request.Context(), tradeID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTradeResponse(trade))
}

// Cancel handles POST /api/v1/trades/:id/cancel.
func (h *TradeHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.CancelTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.tradeSvc.CancelTrade(c.Request.Context(), tradeID, userID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"cancelled": true})
}

// OpenDispute handles POST /api/v1/trades/:id/disputes.
func (h *TradeHandler) OpenDispute(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	var req dto.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	dispute, err := h.tradeSvc.OpenDispute(c.Request.Context(), tradeID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toDisputeResponse(dispute))
}

// ResolveDispute handles POST /api/v1/disputes/:id/resolve (admin).
func (h *TradeHandler) ResolveDispute(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	disputeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid dispute id"))
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	err = h.tradeSvc.ResolveDispute(c.Request.Context(), disputeID, adminID, domain.DisputeStatus(req.Status), req.Resolution)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"resolved": true})
}

// toTradeResponse converts domain.Trade to DTO.
func toTradeResponse(t *domain.Trade) dto.TradeResponse {
	resp := dto.TradeResponse{
		ID:                 t.ID.String(),
		SellerID:           t.SellerID.String(),
		Type:               string(t.Type),
		Status:             string(t.Status),
		Symbol:             t.Symbol,
		Price:              t.Price,
		IsPaid:             t.IsPaid,
		ReceivingAddress:   t.ReceivingAddress,
		BuyerPayoutAddress: t.BuyerPayoutAddress,
		BrokerCommission:   t.BrokerCommission,
		InvoiceID:          t.InvoiceID,
		ReleaseTxHash:      t.ReleaseTxHash,
		BotFee:             t.BotFee,
		TotalGas:           t.TotalGas,
		TotalDeposit:       t.TotalDeposit,
		GasCurrency:        t.GasCurrency,
		CreatedAt:          t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.BuyerID != nil {
		s := t.BuyerID.String()
		resp.BuyerID = &s
	}
	if t.BrokerID != nil {
		s := t.BrokerID.String()
		resp.BrokerID = &s
	}
	return resp
}

// toDisputeResponse converts domain.Dispute to DTO.
func toDisputeResponse(d *domain.Dispute) dto.DisputeResponse {
	return dto.DisputeResponse{
		ID:         d.ID.String(),
		TradeID:    d.TradeID.String(),
		RaisedBy:   d.RaisedBy.String(),
		Reason:     d.Reason,
		Status:     string(d.Status),
		Resolution: d.Resolution,
	}
}
