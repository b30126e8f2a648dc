package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferRequest is one outbound spend handed to a chain builder. Amounts
// are denominated in the coin's display unit (BTC, ETH, USDT), not base
// units; the builder converts at the chain boundary.
type TransferRequest struct {
	Symbol        string
	FromAddress   string
	PrivateKeyHex string
	To            string
	Amount        decimal.Decimal
	// PlatformFeeAddress/PlatformFee: the platform cut, paid in the same
	// spend. Empty address means no platform output.
	PlatformFeeAddress string
	PlatformFee        decimal.Decimal
	// BrokerFeeAddress/BrokerFee: optional broker commission output.
	BrokerFeeAddress string
	BrokerFee        decimal.Decimal
}

// TransferResult reports the broadcast outcome. FeePaid is in the chain's
// native gas unit. Unconfirmed is set when the node accepted the
// transaction but no confirmation arrived within the wait window: "sent
// but unconfirmed" is distinct from "rejected".
type TransferResult struct {
	TxHash      string
	FeePaid     decimal.Decimal
	Unconfirmed bool
}

// ChainTxBuilder constructs, signs and broadcasts a transfer for one coin
// family. Insufficient input value is a local pre-flight error, never
// submitted. Broadcast failures are surfaced verbatim and never retried
// here: a retry must restart UTXO/nonce selection in a fresh call.
type ChainTxBuilder interface {
	BuildAndSend(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// ChainReader answers balance queries at a fixed confirmation depth, never
// the unconfirmed head.
type ChainReader interface {
	// ConfirmedBalance returns the spendable balance of address in the
	// coin's display unit.
	ConfirmedBalance(ctx context.Context, symbol, address string) (decimal.Decimal, error)
}

// GasQuote is one gas estimate in the chain's native asset display unit.
type GasQuote struct {
	PerTransfer decimal.Decimal
	GasSymbol   string
}

// GasEstimator quotes the gas cost of one payout on an account chain,
// already including the safety multiplier. Implementations fall back to a
// conservative fixed estimate when the live quote fails.
type GasEstimator interface {
	EstimateTransferGas(ctx context.Context, symbol string) (GasQuote, error)
}
