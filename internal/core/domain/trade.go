package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeType categorizes what is being exchanged for the escrowed crypto.
type TradeType string

const (
	TradeTypeFiat   TradeType = "FIAT"
	TradeTypeCrypto TradeType = "CRYPTO"
	TradeTypeGoods  TradeType = "GOODS"
)

// TradeStatus is the escrow state machine position.
type TradeStatus string

const (
	TradeStatusCreated         TradeStatus = "CREATED"
	TradeStatusAwaitingDeposit TradeStatus = "AWAITING_DEPOSIT"
	TradeStatusActive          TradeStatus = "ACTIVE"
	TradeStatusBuyerJoined     TradeStatus = "BUYER_JOINED"
	TradeStatusFiatSubmitted   TradeStatus = "FIAT_SUBMITTED"
	TradeStatusFiatApproved    TradeStatus = "FIAT_APPROVED"
	// TradeStatusReleasing is the release marker: set atomically before the
	// chain transfer so a second release attempt cannot pass the guard.
	TradeStatusReleasing     TradeStatus = "RELEASING"
	TradeStatusReleaseFailed TradeStatus = "RELEASE_FAILED"
	TradeStatusCompleted     TradeStatus = "COMPLETED"
	TradeStatusCancelled     TradeStatus = "CANCELLED"
	TradeStatusExpired       TradeStatus = "EXPIRED"
)

// CancelledBySystem marks system-initiated cancellation/expiry, distinct
// from either counterparty cancelling.
const CancelledBySystem = "system"

// Trade is the central escrow aggregate.
type Trade struct {
	ID       uuid.UUID   `json:"id"`
	SellerID uuid.UUID   `json:"seller_id"`
	BuyerID  *uuid.UUID  `json:"buyer_id,omitempty"`
	Type     TradeType   `json:"type"`
	Status   TradeStatus `json:"status"`

	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	// InvoiceID is set by the payment gateway for card/bank-rail deposits.
	// Unique across trades when non-nil; absent for wallet trades.
	InvoiceID *string `json:"invoice_id,omitempty"`

	IsActive    bool `json:"is_active"`
	IsPaid      bool `json:"is_paid"`
	IsCompleted bool `json:"is_completed"`
	IsCancelled bool `json:"is_cancelled"`
	// WalletTrade marks escrow held on a custodial coin address rather than
	// a gateway invoice.
	WalletTrade bool `json:"wallet_trade"`

	ReceivingAddress   string `json:"receiving_address,omitempty"`
	BuyerPayoutAddress string `json:"buyer_payout_address,omitempty"`

	// Broker mediation fields. Frozen once both sides approved.
	BrokerID             *uuid.UUID      `json:"broker_id,omitempty"`
	BrokerEnabled        bool            `json:"broker_enabled"`
	BrokerCommission     decimal.Decimal `json:"broker_commission"`
	BrokerSellerApproved bool            `json:"broker_seller_approved"`
	BrokerBuyerApproved  bool            `json:"broker_buyer_approved"`
	BrokerRating         int             `json:"broker_rating,omitempty"`

	FiatProof            string `json:"fiat_proof,omitempty"`
	FiatProofSubmitted   bool   `json:"fiat_proof_submitted"`
	FiatPaymentApproved  bool   `json:"fiat_payment_approved"`
	FiatRejectionReason  string `json:"fiat_rejection_reason,omitempty"`
	CryptoReleased       bool   `json:"crypto_released"`
	ReleaseTxHash        string `json:"release_tx_hash,omitempty"`
	// ReleaseFailureReason records why a release parked in RELEASE_FAILED.
	ReleaseFailureReason string `json:"release_failure_reason,omitempty"`
	CancelledBy          string `json:"cancelled_by,omitempty"`
	CancellationReason   string `json:"cancellation_reason,omitempty"`
	DepositConfirmedAt   *time.Time `json:"deposit_confirmed_at,omitempty"`

	// Fee/gas breakdown, persisted once computed for the deposit check.
	BotFee       decimal.Decimal `json:"bot_fee"`
	TotalGas     decimal.Decimal `json:"total_gas"`
	TotalDeposit decimal.Decimal `json:"total_deposit"`
	GasCurrency  string          `json:"gas_currency,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the trade reached a final state.
func (t *Trade) IsTerminal() bool {
	switch t.Status {
	case TradeStatusCompleted, TradeStatusCancelled, TradeStatusExpired:
		return true
	}
	return false
}

// HasBuyer reports whether a buyer is bound. Once bound it is immutable.
func (t *Trade) HasBuyer() bool { return t.BuyerID != nil }

// IsCounterparty reports whether userID is the seller or the bound buyer.
func (t *Trade) IsCounterparty(userID uuid.UUID) bool {
	if t.SellerID == userID {
		return true
	}
	return t.BuyerID != nil && *t.BuyerID == userID
}

// BrokerLocked reports whether the broker fields are frozen.
func (t *Trade) BrokerLocked() bool {
	return t.BrokerEnabled && t.BrokerSellerApproved && t.BrokerBuyerApproved
}

// DepositCheckResult classifies an on-chain deposit observation.
type DepositCheckResult string

const (
	DepositConfirmed DepositCheckResult = "CONFIRMED"
	DepositPartial   DepositCheckResult = "PARTIAL"
	// DepositGasInsufficient: the token deposit is met but the separate
	// native gas reserve is not. Never collapsed into PARTIAL.
	DepositGasInsufficient DepositCheckResult = "GAS_INSUFFICIENT"
	DepositNone            DepositCheckResult = "NONE"
)

// DepositCheck reports what was observed on chain against the requirement.
type DepositCheck struct {
	Result          DepositCheckResult `json:"result"`
	Have            decimal.Decimal    `json:"have"`
	Want            decimal.Decimal    `json:"want"`
	DepositCurrency string             `json:"deposit_currency"`
	GasHave         decimal.Decimal    `json:"gas_have"`
	GasWant         decimal.Decimal    `json:"gas_want"`
	GasCurrency     string             `json:"gas_currency,omitempty"`
}
