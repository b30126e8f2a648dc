package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-custody-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet within a database transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, name, encrypted_master_secret, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.UserID, w.Name, w.EncryptedMasterSecret, w.IsActive, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, name, encrypted_master_secret, is_active, created_at, updated_at
		FROM wallets WHERE id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID fetches the user's active wallet.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, name, encrypted_master_secret, is_active, created_at, updated_at
		FROM wallets WHERE user_id = $1 AND is_active = TRUE`

	return r.scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// Deactivate soft-disables the wallet. Rows are never deleted.
func (r *WalletRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE wallets SET is_active = FALSE, updated_at = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("deactivate wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

// scanWallet is a helper to scan a single row into a Wallet.
func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.EncryptedMasterSecret, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
