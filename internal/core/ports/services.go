package ports

import (
	"context"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SecretStore encrypts and decrypts secret blobs with the process-wide key.
type SecretStore interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Derived is one deterministic keypair derivation result.
type Derived struct {
	Address        string
	PrivateKeyHex  string
	DerivationPath string
}

// AddressFactory derives per-chain keypairs from one master secret.
// Derive is pure: same (secret, symbol) always yields the same result.
type AddressFactory interface {
	GenerateMasterSecret() (string, error)
	Derive(masterSecret, symbol string) (Derived, error)
}

// FeeBreakdown is the full deposit requirement for a trade. For token
// trades DepositCurrency and GasCurrency differ and the two requirements
// are separate; they must never be summed or presented as one total.
type FeeBreakdown struct {
	BotFee            decimal.Decimal `json:"bot_fee"`
	GasForBuyerPayout decimal.Decimal `json:"gas_for_buyer_payout"`
	GasForBotPayout   decimal.Decimal `json:"gas_for_bot_payout"`
	TotalGas          decimal.Decimal `json:"total_gas"`
	TotalDeposit      decimal.Decimal `json:"total_deposit"`
	DepositCurrency   string          `json:"deposit_currency"`
	GasCurrency       string          `json:"gas_currency,omitempty"`
	// GasSeparate is true for token trades: the gas reserve is a second
	// requirement in the parent chain's native asset.
	GasSeparate bool `json:"gas_separate"`
}

// FeeService computes platform fees and gas reserves.
type FeeService interface {
	FlatFee(amount decimal.Decimal) decimal.Decimal
	FeeWithGas(ctx context.Context, amount decimal.Decimal, symbol string) (*FeeBreakdown, error)
}

// WalletService is the custody engine's public surface.
type WalletService interface {
	// CreateWallet is idempotent: an existing wallet is returned as-is.
	CreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// AddCoin is idempotent per (wallet, symbol).
	AddCoin(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.CoinAddress, error)
	GetBalance(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.BalanceReading, error)
	RefreshBalances(ctx context.Context, walletID uuid.UUID) (*RefreshReport, error)
	Transfer(ctx context.Context, req WalletTransferRequest) (*domain.WalletTransaction, error)
	DeactivateWallet(ctx context.Context, userID uuid.UUID) error
}

// WalletTransferRequest is one outbound transfer from custody.
type WalletTransferRequest struct {
	WalletID  uuid.UUID
	ToAddress string
	Amount    decimal.Decimal
	Symbol    string
	TradeID   *uuid.UUID
	// Fee outputs forwarded to the chain builder.
	PlatformFeeAddress string
	PlatformFee        decimal.Decimal
	BrokerFeeAddress   string
	BrokerFee          decimal.Decimal
}

// RefreshReport aggregates per-coin refresh outcomes. Partial failure is
// reported per item, not as a batch failure.
type RefreshReport struct {
	Refreshed []domain.BalanceReading `json:"refreshed"`
	Failed    map[string]string       `json:"failed,omitempty"` // symbol -> error
}

// TradeService drives the escrow state machine.
type TradeService interface {
	OpenTrade(ctx context.Context, sellerID uuid.UUID, tradeType domain.TradeType, symbol string, price decimal.Decimal) (*domain.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	// SetPrice is seller-only and allowed until the deposit is confirmed.
	SetPrice(ctx context.Context, tradeID, sellerID uuid.UUID, price decimal.Decimal) (*domain.Trade, error)
	// GetDepositAddress lazily provisions the receiving address exactly
	// once per trade; re-invocation returns the same address.
	GetDepositAddress(ctx context.Context, tradeID uuid.UUID) (string, *FeeBreakdown, error)
	ConfirmCryptoDeposit(ctx context.Context, tradeID uuid.UUID) (*domain.DepositCheck, error)
	// AttachInvoice binds the gateway invoice the seller raised for a
	// card/bank-rail deposit. Idempotent for the same invoice id.
	AttachInvoice(ctx context.Context, tradeID, sellerID uuid.UUID, invoiceID string) (*domain.Trade, error)
	JoinTrade(ctx context.Context, tradeID, buyerID uuid.UUID, payoutAddress string) (*domain.Trade, error)
	SubmitFiatProof(ctx context.Context, tradeID, buyerID uuid.UUID, proof string) error
	ApproveFiatPayment(ctx context.Context, tradeID, sellerID uuid.UUID) error
	RejectFiatPayment(ctx context.Context, tradeID, sellerID uuid.UUID, reason string) error
	InitiateCryptoRelease(ctx context.Context, tradeID, callerID uuid.UUID) (*domain.Trade, error)
	CancelTrade(ctx context.Context, tradeID, callerID uuid.UUID, reason string) error

	// Webhook entry points; idempotent, webhook delivery is at-least-once.
	HandleInvoicePaid(ctx context.Context, invoiceID string) error
	HandleInvoiceExpired(ctx context.Context, invoiceID string) error

	OpenDispute(ctx context.Context, tradeID, userID uuid.UUID, reason string) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID, adminID uuid.UUID, status domain.DisputeStatus, resolution string) error
}

// BrokerService is the mediation module's public surface.
type BrokerService interface {
	Register(ctx context.Context, req BrokerRegisterRequest) (*domain.Broker, error)
	// Verify is admin-gated.
	Verify(ctx context.Context, brokerID uuid.UUID) error
	// ValidateForTrade enforces: verified, active, specialized in the trade
	// type, and not a counterparty of the trade.
	ValidateForTrade(ctx context.Context, brokerID uuid.UUID, trade *domain.Trade) error
	AssignToTrade(ctx context.Context, brokerID, tradeID uuid.UUID) error
	// ApproveParticipant records one side's approval; broker-authorized.
	ApproveParticipant(ctx context.Context, brokerID, tradeID uuid.UUID, side ApprovalSide) error
	Rate(ctx context.Context, brokerID uuid.UUID, stars int) (*domain.Broker, error)
}

// ApprovalSide selects which counterparty a broker approval covers.
type ApprovalSide string

const (
	SideSeller ApprovalSide = "seller"
	SideBuyer  ApprovalSide = "buyer"
)

// BrokerRegisterRequest holds validated broker registration input.
type BrokerRegisterRequest struct {
	UserID      uuid.UUID
	Name        string
	Commission  decimal.Decimal
	Specialties []domain.TradeType
}

// TokenService handles JWT token operations for the HTTP surface.
type TokenService interface {
	Generate(userID uuid.UUID, isAdmin bool) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// WebhookDedup suppresses duplicate webhook deliveries (best effort; the
// state-machine guards are the authoritative idempotency layer).
type WebhookDedup interface {
	// FirstDelivery returns true the first time key is seen within ttl.
	FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
