package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredTrade() *domain.Trade {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Trade{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		Type:         domain.TradeTypeFiat,
		Status:       domain.TradeStatusActive,
		Symbol:       "BTC",
		Price:        decimal.NewFromFloat(0.5),
		IsActive:     true,
		WalletTrade:  true,
		BotFee:       decimal.NewFromFloat(0.005),
		TotalDeposit: decimal.NewFromFloat(0.505),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func tradeRowColumns() []string {
	return []string{
		"id", "seller_id", "buyer_id", "trade_type", "status", "symbol", "price", "invoice_id",
		"is_active", "is_paid", "is_completed", "is_cancelled", "wallet_trade",
		"receiving_address", "buyer_payout_address",
		"broker_id", "broker_enabled", "broker_commission", "broker_seller_approved", "broker_buyer_approved", "broker_rating",
		"fiat_proof", "fiat_proof_submitted", "fiat_payment_approved", "fiat_rejection_reason",
		"crypto_released", "release_tx_hash", "release_failure_reason", "cancelled_by", "cancellation_reason", "deposit_confirmed_at",
		"bot_fee", "total_gas", "total_deposit", "gas_currency", "created_at", "updated_at",
	}
}

func tradeRow(t *domain.Trade) *pgxmock.Rows {
	return pgxmock.NewRows(tradeRowColumns()).AddRow(
		t.ID, t.SellerID, t.BuyerID, t.Type, t.Status, t.Symbol, t.Price, t.InvoiceID,
		t.IsActive, t.IsPaid, t.IsCompleted, t.IsCancelled, t.WalletTrade,
		t.ReceivingAddress, t.BuyerPayoutAddress,
		t.BrokerID, t.BrokerEnabled, t.BrokerCommission, t.BrokerSellerApproved, t.BrokerBuyerApproved, t.BrokerRating,
		t.FiatProof, t.FiatProofSubmitted, t.FiatPaymentApproved, t.FiatRejectionReason,
		t.CryptoReleased, t.ReleaseTxHash, t.ReleaseFailureReason, t.CancelledBy, t.CancellationReason, t.DepositConfirmedAt,
		t.BotFee, t.TotalGas, t.TotalDeposit, t.GasCurrency, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTradeRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	trade := newStoredTrade()

	mock.ExpectExec("INSERT INTO trades").
		WithArgs(trade.ID, trade.SellerID, trade.BuyerID, trade.Type, trade.Status, trade.Symbol, trade.Price, trade.InvoiceID,
			trade.IsActive, trade.IsPaid, trade.IsCompleted, trade.IsCancelled, trade.WalletTrade,
			trade.ReceivingAddress, trade.BuyerPayoutAddress,
			trade.BrokerID, trade.BrokerEnabled, trade.BrokerCommission, trade.BrokerSellerApproved, trade.BrokerBuyerApproved, trade.BrokerRating,
			trade.FiatProof, trade.FiatProofSubmitted, trade.FiatPaymentApproved, trade.FiatRejectionReason,
			trade.CryptoReleased, trade.ReleaseTxHash, trade.ReleaseFailureReason, trade.CancelledBy, trade.CancellationReason, trade.DepositConfirmedAt,
			trade.BotFee, trade.TotalGas, trade.TotalDeposit, trade.GasCurrency, trade.CreatedAt, trade.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), trade)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	trade := newStoredTrade()

	mock.ExpectQuery("SELECT .+ FROM trades WHERE id").
		WithArgs(trade.ID).
		WillReturnRows(tradeRow(trade))

	result, err := repo.GetByID(context.Background(), trade.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, trade.ID, result.ID)
	assert.Equal(t, domain.TradeStatusActive, result.Status)
	assert.True(t, result.TotalDeposit.Equal(trade.TotalDeposit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM trades WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(tradeRowColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_GetByInvoiceID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	trade := newStoredTrade()
	invoiceID := "inv-001"
	trade.InvoiceID = &invoiceID
	trade.WalletTrade = false

	mock.ExpectQuery("SELECT .+ FROM trades WHERE invoice_id").
		WithArgs(invoiceID).
		WillReturnRows(tradeRow(trade))

	result, err := repo.GetByInvoiceID(context.Background(), invoiceID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, trade.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_SetReceivingAddress_Wins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()
	addrID := uuid.New()

	mock.ExpectExec("UPDATE trades SET coin_address_id").
		WithArgs(tradeID, addrID, "bc1qexample", domain.TradeStatusAwaitingDeposit, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	won, err := repo.SetReceivingAddress(context.Background(), tradeID, addrID, "bc1qexample")
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_SetReceivingAddress_LostRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()
	addrID := uuid.New()

	mock.ExpectExec("UPDATE trades SET coin_address_id").
		WithArgs(tradeID, addrID, "bc1qexample", domain.TradeStatusAwaitingDeposit, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := repo.SetReceivingAddress(context.Background(), tradeID, addrID, "bc1qexample")
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_BindBuyer_Wins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()
	buyerID := uuid.New()

	mock.ExpectExec("UPDATE trades SET buyer_id").
		WithArgs(tradeID, buyerID, "bc1qbuyer", domain.TradeStatusBuyerJoined, pgxmock.AnyArg(), domain.TradeStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	won, err := repo.BindBuyer(context.Background(), tradeID, buyerID, "bc1qbuyer")
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_BindBuyer_AlreadyBound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()
	buyerID := uuid.New()

	mock.ExpectExec("UPDATE trades SET buyer_id").
		WithArgs(tradeID, buyerID, "bc1qbuyer", domain.TradeStatusBuyerJoined, pgxmock.AnyArg(), domain.TradeStatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := repo.BindBuyer(context.Background(), tradeID, buyerID, "bc1qbuyer")
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_MarkReleasing_SingleWinner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(tradeID, domain.TradeStatusReleasing, pgxmock.AnyArg(), domain.TradeStatusFiatApproved, domain.TradeStatusReleaseFailed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(tradeID, domain.TradeStatusReleasing, pgxmock.AnyArg(), domain.TradeStatusFiatApproved, domain.TradeStatusReleaseFailed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := repo.MarkReleasing(context.Background(), tradeID)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.MarkReleasing(context.Background(), tradeID)
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_MarkReleasing_AdmitsParkedTrade(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	// A RELEASE_FAILED row still satisfies the predicate: no funds have
	// left custody, so an explicit release call may restart it. The stale
	// failure reason is wiped in the same write.
	mock.ExpectExec(`UPDATE trades SET status = \$2, release_failure_reason = ''`).
		WithArgs(tradeID, domain.TradeStatusReleasing, pgxmock.AnyArg(), domain.TradeStatusFiatApproved, domain.TradeStatusReleaseFailed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	won, err := repo.MarkReleasing(context.Background(), tradeID)
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_Complete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(tradeID, domain.TradeStatusCompleted, "deadbeef", pgxmock.AnyArg(), domain.TradeStatusReleasing).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	done, err := repo.Complete(context.Background(), tradeID, "deadbeef")
	require.NoError(t, err)
	assert.True(t, done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_MarkReleaseFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(tradeID, domain.TradeStatusReleaseFailed, "broadcast rejected", pgxmock.AnyArg(), domain.TradeStatusReleasing).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	parked, err := repo.MarkReleaseFailed(context.Background(), tradeID, "broadcast rejected")
	require.NoError(t, err)
	assert.True(t, parked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_Cancel_TerminalExcluded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(tradeID, domain.TradeStatusCancelled, "seller", "changed my mind", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	done, err := repo.Cancel(context.Background(), tradeID, "seller", "changed my mind")
	require.NoError(t, err)
	assert.False(t, done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_CancelAbandoned(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	cutoff := time.Now().Add(-48 * time.Hour)

	mock.ExpectExec("UPDATE trades SET status").
		WithArgs(domain.TradeStatusCancelled, domain.CancelledBySystem, pgxmock.AnyArg(), cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.CancelAbandoned(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_ExpireStuck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	// Staleness is judged on updated_at, so an actively progressing trade
	// is never expired, and the system records itself as the initiator.
	mock.ExpectExec(`(?s)UPDATE trades SET status = \$1, is_active = FALSE,\s*cancelled_by = \$2.+WHERE updated_at < \$4`).
		WithArgs(domain.TradeStatusExpired, domain.CancelledBySystem, pgxmock.AnyArg(), cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := repo.ExpireStuck(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_AttachInvoice_BindsOnce(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	tradeID := uuid.New()

	mock.ExpectExec(`(?s)UPDATE trades SET invoice_id = \$2.+WHERE id = \$1 AND invoice_id IS NULL`).
		WithArgs(tradeID, "inv-123", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`(?s)UPDATE trades SET invoice_id = \$2.+WHERE id = \$1 AND invoice_id IS NULL`).
		WithArgs(tradeID, "inv-456", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	bound, err := repo.AttachInvoice(context.Background(), tradeID, "inv-123")
	require.NoError(t, err)
	assert.True(t, bound)

	bound, err = repo.AttachInvoice(context.Background(), tradeID, "inv-456")
	require.NoError(t, err)
	assert.False(t, bound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTradeRepo_ListOpenBySeller(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTradeRepo(mock)
	trade := newStoredTrade()

	mock.ExpectQuery("SELECT .+ FROM trades").
		WithArgs(trade.SellerID).
		WillReturnRows(tradeRow(trade))

	trades, err := repo.ListOpenBySeller(context.Background(), trade.SellerID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, trade.ID, trades[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
