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

// BrokerHandler handles broker mediation endpoints.
type BrokerHandler struct {
	brokerSvc ports.BrokerService
}

// NewBrokerHandler creates a new BrokerHandler.
func NewBrokerHandler(brokerSvc ports.BrokerService) *BrokerHandler {
	return &BrokerHandler{brokerSvc: brokerSvc}
}

// Register handles POST /api/v1/brokers.
func (h *BrokerHandler) Register(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.BrokerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	specialties := make([]domain.TradeType, len(req.Specialties))
	for i, s := range req.Specialties {
		specialties[i] = domain.TradeType(s)
	}

	broker, err := h.brokerSvc.Register(c.Request.Context(), ports.BrokerRegisterRequest{
		UserID:      userID,
		Name:        req.Name,
		Commission:  req.Commission,
		Specialties: specialties,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBrokerResponse(broker))
}

// Verify handles POST /api/v1/brokers/:id/verify (admin).
func (h *BrokerHandler) Verify(c *gin.Context) {
	brokerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid broker id"))
		return
	}

	if err := h.brokerSvc.Verify(c.Request.Context(), brokerID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"verified": true})
}

// Assign handles POST /api/v1/brokers/:id/assign.
func (h *BrokerHandler) Assign(c *gin.Context) {
	brokerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid broker id"))
		return
	}

	var req dto.BrokerAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	if err := h.brokerSvc.AssignToTrade(c.Request.Context(), brokerID, tradeID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assigned": true})
}

// Approve handles POST /api/v1/brokers/:id/approve. Only the assigned
// broker's own token may approve.
func (h *BrokerHandler) Approve(c *gin.Context) {
	brokerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid broker id"))
		return
	}

	var req dto.BrokerApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid trade id"))
		return
	}

	err = h.brokerSvc.ApproveParticipant(c.Request.Context(), brokerID, tradeID, ports.ApprovalSide(req.Side))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"approved": true})
}

// Rate handles POST /api/v1/brokers/:id/rate.
func (h *BrokerHandler) Rate(c *gin.Context) {
	brokerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid broker id"))
		return
	}

	var req dto.BrokerRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	broker, err := h.brokerSvc.Rate(c.Request.Context(), brokerID, req.Stars)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toBrokerResponse(broker))
}

// toBrokerResponse converts domain.Broker to DTO.
func toBrokerResponse(b *domain.Broker) dto.BrokerResponse {
	specialties := make([]string, len(b.Specialties))
	for i, s := range b.Specialties {
		specialties[i] = string(s)
	}
	return dto.BrokerResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		Commission:  b.Commission,
		IsVerified:  b.IsVerified,
		IsActive:    b.IsActive,
		Specialties: specialties,
		Rating:      b.Rating,
		RatingCount: b.RatingCount,
		TradesTotal: b.TradesTotal,
		TradesDone:  b.TradesDone,
	}
}
