// Package dto holds the HTTP request/response shapes. Domain types never
// cross the wire directly.
package dto

import "github.com/shopspring/decimal"

// ---- Trade ----

type OpenTradeRequest struct {
	Type   string          `json:"type" binding:"required"`
	Symbol string          `json:"symbol" binding:"required"`
	Price  decimal.Decimal `json:"price"` // may start at zero and be set later
}

type SetPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

type AttachInvoiceRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

type JoinTradeRequest struct {
	PayoutAddress string `json:"payout_address" binding:"required"`
}

type FiatProofRequest struct {
	Proof string `json:"proof" binding:"required"`
}

type RejectFiatRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelTradeRequest struct {
	Reason string `json:"reason"`
}

type TradeResponse struct {
	ID                 string          `json:"id"`
	SellerID           string          `json:"seller_id"`
	BuyerID            *string         `json:"buyer_id,omitempty"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	Symbol             string          `json:"symbol"`
	Price              decimal.Decimal `json:"price"`
	IsPaid             bool            `json:"is_paid"`
	ReceivingAddress   string          `json:"receiving_address,omitempty"`
	BuyerPayoutAddress string          `json:"buyer_payout_address,omitempty"`
	InvoiceID          *string         `json:"invoice_id,omitempty"`
	BrokerID           *string         `json:"broker_id,omitempty"`
	BrokerCommission   decimal.Decimal `json:"broker_commission"`
	ReleaseTxHash      string          `json:"release_tx_hash,omitempty"`
	BotFee             decimal.Decimal `json:"bot_fee"`
	TotalGas           decimal.Decimal `json:"total_gas"`
	TotalDeposit       decimal.Decimal `json:"total_deposit"`
	GasCurrency        string          `json:"gas_currency,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

type DepositAddressResponse struct {
	Address           string          `json:"address"`
	BotFee            decimal.Decimal `json:"bot_fee"`
	GasForBuyerPayout decimal.Decimal `json:"gas_for_buyer_payout"`
	GasForBotPayout   decimal.Decimal `json:"gas_for_bot_payout"`
	TotalGas          decimal.Decimal `json:"total_gas"`
	TotalDeposit      decimal.Decimal `json:"total_deposit"`
	DepositCurrency   string          `json:"deposit_currency"`
	GasCurrency       string          `json:"gas_currency,omitempty"`
	GasSeparate       bool            `json:"gas_separate"`
}

type DepositCheckResponse struct {
	Result          string          `json:"result"`
	Have            decimal.Decimal `json:"have"`
	Want            decimal.Decimal `json:"want"`
	DepositCurrency string          `json:"deposit_currency"`
	GasHave         decimal.Decimal `json:"gas_have"`
	GasWant         decimal.Decimal `json:"gas_want"`
	GasCurrency     string          `json:"gas_currency,omitempty"`
}

// ---- Wallet ----

type AddCoinRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type TransferRequest struct {
	ToAddress string          `json:"to_address" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Symbol    string          `json:"symbol" binding:"required"`
}

type WalletResponse struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	IsActive  bool                  `json:"is_active"`
	Addresses []CoinAddressResponse `json:"addresses,omitempty"`
}

type CoinAddressResponse struct {
	ID      string          `json:"id"`
	Symbol  string          `json:"symbol"`
	Network string          `json:"network"`
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

type BalanceResponse struct {
	Symbol      string          `json:"symbol"`
	Address     string          `json:"address"`
	Amount      decimal.Decimal `json:"amount"`
	Stale       bool            `json:"stale"`
	RefreshedAt string          `json:"refreshed_at"`
}

type TransferResponse struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Amount      decimal.Decimal `json:"amount"`
	FeePaid     decimal.Decimal `json:"fee_paid"`
	TxHash      string          `json:"tx_hash"`
	Status      string          `json:"status"`
	Counterpart string          `json:"counterpart"`
}

// ---- Broker ----

type BrokerRegisterRequest struct {
	Name        string          `json:"name" binding:"required"`
	Commission  decimal.Decimal `json:"commission"`
	Specialties []string        `json:"specialties" binding:"required"`
}

type BrokerAssignRequest struct {
	TradeID string `json:"trade_id" binding:"required"`
}

type BrokerApproveRequest struct {
	TradeID string `json:"trade_id" binding:"required"`
	Side    string `json:"side" binding:"required"`
}

type BrokerRateRequest struct {
	Stars int `json:"stars" binding:"required"`
}

type BrokerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Commission  decimal.Decimal `json:"commission"`
	IsVerified  bool            `json:"is_verified"`
	IsActive    bool            `json:"is_active"`
	Specialties []string        `json:"specialties"`
	Rating      float64         `json:"rating"`
	RatingCount int64           `json:"rating_count"`
	TradesTotal int64           `json:"trades_total"`
	TradesDone  int64           `json:"trades_done"`
}

// ---- Dispute ----

type OpenDisputeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ResolveDisputeRequest struct {
	Status     string `json:"status" binding:"required"`
	Resolution string `json:"resolution" binding:"required"`
}

type DisputeResponse struct {
	ID         string `json:"id"`
	TradeID    string `json:"trade_id"`
	RaisedBy   string `json:"raised_by"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}

// ---- Webhook ----

// WebhookEvent is the payment gateway's callback payload.
type WebhookEvent struct {
	Event     string `json:"event" binding:"required"`
	InvoiceID string `json:"invoice_id" binding:"required"`
}
