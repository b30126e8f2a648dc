package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a user's custodial wallet. At most one active wallet exists
// per user. The master secret is stored AES-256 encrypted, never raw.
type Wallet struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	Name                  string    `json:"name"`
	EncryptedMasterSecret string    `json:"-"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// CoinAddress is one (wallet, coin) spendable address. Address and private
// key are a deterministic function of the wallet master secret and the coin
// symbol; re-deriving always reproduces the same address.
type CoinAddress struct {
	ID                  uuid.UUID       `json:"id"`
	WalletID            uuid.UUID       `json:"wallet_id"`
	Symbol              string          `json:"symbol"`
	Network             string          `json:"network"`
	Address             string          `json:"address"`
	EncryptedPrivateKey string          `json:"-"`
	DerivationPath      string          `json:"derivation_path"`
	IsDefault           bool            `json:"is_default"`
	Balance             decimal.Decimal `json:"balance"`
	BalanceUSD          decimal.Decimal `json:"balance_usd"`
	RefreshedAt         *time.Time      `json:"refreshed_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TransferDirection marks a ledger row as funds in or out.
type TransferDirection string

const (
	DirectionOutbound TransferDirection = "OUT"
	DirectionInbound  TransferDirection = "IN"
)

// TransferStatus is the lifecycle state of one on-chain transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusConfirmed TransferStatus = "CONFIRMED"
	// TransferStatusUnconfirmed means the broadcast was accepted but no
	// confirmation arrived within the wait window. The transfer may still
	// confirm later; it must not be retried.
	TransferStatusUnconfirmed TransferStatus = "SENT_UNCONFIRMED"
	TransferStatusFailed      TransferStatus = "FAILED"
)

// WalletTransaction is an append-only ledger row for one transfer. Only the
// status field may change after creation (pending -> confirmed/failed).
type WalletTransaction struct {
	ID            uuid.UUID         `json:"id"`
	WalletID      uuid.UUID         `json:"wallet_id"`
	CoinAddressID uuid.UUID         `json:"coin_address_id"`
	Direction     TransferDirection `json:"direction"`
	Counterpart   string            `json:"counterpart"`
	Symbol        string            `json:"symbol"`
	Amount        decimal.Decimal   `json:"amount"`
	// FeePaid is denominated in the chain's native gas unit (sat or wei),
	// not in the transferred asset.
	FeePaid decimal.Decimal `json:"fee_paid"`
	TxHash  string          `json:"tx_hash"`
	TradeID *uuid.UUID      `json:"trade_id,omitempty"`
	Status  TransferStatus  `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceReading is the result of a balance query. Stale marks an explicit
// fallback to the cached value after a failed live refresh.
type BalanceReading struct {
	Symbol      string          `json:"symbol"`
	Address     string          `json:"address"`
	Amount      decimal.Decimal `json:"amount"`
	Stale       bool            `json:"stale"`
	RefreshedAt time.Time       `json:"refreshed_at"`
}
