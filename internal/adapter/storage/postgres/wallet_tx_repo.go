package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletTxRepo implements ports.WalletTransactionRepository, the
// append-only transfer ledger. Rows are inserted before broadcast and
// finalized with the outcome; nothing else ever changes.
type WalletTxRepo struct {
	pool Pool
}

// NewWalletTxRepo creates a new WalletTxRepo.
func NewWalletTxRepo(pool Pool) *WalletTxRepo {
	return &WalletTxRepo{pool: pool}
}

const walletTxColumns = `id, wallet_id, coin_address_id, direction, counterpart, symbol,
	amount, fee_paid, tx_hash, trade_id, status, created_at, updated_at`

// Create inserts a new ledger row.
func (r *WalletTxRepo) Create(ctx context.Context, wtx *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (` + walletTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		wtx.ID, wtx.WalletID, wtx.CoinAddressID, wtx.Direction, wtx.Counterpart, wtx.Symbol,
		wtx.Amount, wtx.FeePaid, wtx.TxHash, wtx.TradeID, wtx.Status, wtx.CreatedAt, wtx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger row by UUID.
func (r *WalletTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `SELECT ` + walletTxColumns + ` FROM wallet_transactions WHERE id = $1`

	return r.scanWalletTx(r.pool.QueryRow(ctx, query, id))
}

// ListByWallet fetches the wallet's most recent ledger rows.
func (r *WalletTxRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + walletTxColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.WalletTransaction
	for rows.Next() {
		wtx := domain.WalletTransaction{}
		err := rows.Scan(
			&wtx.ID, &wtx.WalletID, &wtx.CoinAddressID, &wtx.Direction, &wtx.Counterpart, &wtx.Symbol,
			&wtx.Amount, &wtx.FeePaid, &wtx.TxHash, &wtx.TradeID, &wtx.Status, &wtx.CreatedAt, &wtx.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wallet transaction row: %w", err)
		}
		txns = append(txns, wtx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transaction rows: %w", err)
	}
	return txns, nil
}

// UpdateStatus moves a row to a new status without touching the broadcast
// outcome, used when the attempt never reached the network.
func (r *WalletTxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus) error {
	query := `UPDATE wallet_transactions SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update wallet transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet transaction not found: %s", id)
	}
	return nil
}

// Finalize records the broadcast outcome. The row is created before the
// network is touched, so the hash and fee only exist afterwards; this is
// the write that makes them durable.
func (r *WalletTxRepo) Finalize(ctx context.Context, id uuid.UUID, txHash string, feePaid decimal.Decimal, status domain.TransferStatus) error {
	query := `UPDATE wallet_transactions SET tx_hash = $1, fee_paid = $2, status = $3, updated_at = $4 WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, txHash, feePaid, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("finalize wallet transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet transaction not found: %s", id)
	}
	return nil
}

// CountReleasesByTrade counts non-failed outbound transfers for a trade.
func (r *WalletTxRepo) CountReleasesByTrade(ctx context.Context, tradeID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM wallet_transactions
		WHERE trade_id = $1 AND direction = $2 AND status != $3`

	var count int64
	err := r.pool.QueryRow(ctx, query, tradeID, domain.DirectionOutbound, domain.TransferStatusFailed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trade releases: %w", err)
	}
	return count, nil
}

// scanWalletTx is a helper to scan a single row into a WalletTransaction.
func (r *WalletTxRepo) scanWalletTx(row pgx.Row) (*domain.WalletTransaction, error) {
	wtx := &domain.WalletTransaction{}
	err := row.Scan(
		&wtx.ID, &wtx.WalletID, &wtx.CoinAddressID, &wtx.Direction, &wtx.Counterpart, &wtx.Symbol,
		&wtx.Amount, &wtx.FeePaid, &wtx.TxHash, &wtx.TradeID, &wtx.Status, &wtx.CreatedAt, &wtx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet transaction: %w", err)
	}
	return wtx, nil
}
