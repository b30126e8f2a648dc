package handler

import (
	"net/http"

	"escrow-custody-gateway/internal/adapter/http/dto"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"
	"escrow-custody-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Gateway webhook event names.
const (
	eventInvoicePaid    = "invoice.paid"
	eventInvoiceExpired = "invoice.expired"
)

// WebhookHandler receives payment-gateway callbacks. Delivery is
// at-least-once; the trade service drops duplicates.
type WebhookHandler struct {
	tradeSvc ports.TradeService
	log      zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(tradeSvc ports.TradeService, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{tradeSvc: tradeSvc, log: log}
}

// HandleGatewayEvent handles POST /api/v1/webhooks/gateway.
func (h *WebhookHandler) HandleGatewayEvent(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var err error
	switch event.Event {
	case eventInvoicePaid:
		err = h.tradeSvc.HandleInvoicePaid(c.Request.Context(), event.InvoiceID)
	case eventInvoiceExpired:
		err = h.tradeSvc.HandleInvoiceExpired(c.Request.Context(), event.InvoiceID)
	default:
		// Unknown events are acknowledged so the gateway stops redelivering.
		h.log.Warn().Str("event", event.Event).Msg("ignoring unknown webhook event")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
