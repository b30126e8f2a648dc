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

// CoinAddressRepo implements ports.CoinAddressRepository.
type CoinAddressRepo struct {
	pool Pool
}

// NewCoinAddressRepo creates a new CoinAddressRepo.
func NewCoinAddressRepo(pool Pool) *CoinAddressRepo {
	return &CoinAddressRepo{pool: pool}
}

const coinAddressColumns = `id, wallet_id, symbol, network, address, encrypted_private_key,
	derivation_path, is_default, balance, balance_usd, refreshed_at, created_at, updated_at`

// Create inserts a new coin address within a database transaction.
func (r *CoinAddressRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.CoinAddress) error {
	query := `INSERT INTO coin_addresses (` + coinAddressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.WalletID, a.Symbol, a.Network, a.Address, a.EncryptedPrivateKey,
		a.DerivationPath, a.IsDefault, a.Balance, a.BalanceUSD, a.RefreshedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert coin address: %w", err)
	}
	return nil
}

// GetByID fetches a coin address by UUID.
func (r *CoinAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CoinAddress, error) {
	query := `SELECT ` + coinAddressColumns + ` FROM coin_addresses WHERE id = $1`

	return r.scanCoinAddress(r.pool.QueryRow(ctx, query, id))
}

// GetByWalletAndSymbol fetches the wallet's address for one coin.
func (r *CoinAddressRepo) GetByWalletAndSymbol(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.CoinAddress, error) {
	query := `SELECT ` + coinAddressColumns + ` FROM coin_addresses WHERE wallet_id = $1 AND symbol = $2`

	return r.scanCoinAddress(r.pool.QueryRow(ctx, query, walletID, symbol))
}

// ListByWallet fetches all of the wallet's coin addresses.
func (r *CoinAddressRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.CoinAddress, error) {
	query := `SELECT ` + coinAddressColumns + ` FROM coin_addresses WHERE wallet_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list coin addresses: %w", err)
	}
	defer rows.Close()

	var addrs []domain.CoinAddress
	for rows.Next() {
		a := domain.CoinAddress{}
		err := rows.Scan(
			&a.ID, &a.WalletID, &a.Symbol, &a.Network, &a.Address, &a.EncryptedPrivateKey,
			&a.DerivationPath, &a.IsDefault, &a.Balance, &a.BalanceUSD, &a.RefreshedAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan coin address row: %w", err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coin address rows: %w", err)
	}
	return addrs, nil
}

// UpdateBalance writes a fresh cached balance reading.
func (r *CoinAddressRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance, balanceUSD decimal.Decimal, refreshedAt time.Time) error {
	query := `UPDATE coin_addresses SET balance = $1, balance_usd = $2, refreshed_at = $3, updated_at = $4 WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, balance, balanceUSD, refreshedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update coin address balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("coin address not found: %s", id)
	}
	return nil
}

// scanCoinAddress is a helper to scan a single row into a CoinAddress.
func (r *CoinAddressRepo) scanCoinAddress(row pgx.Row) (*domain.CoinAddress, error) {
	a := &domain.CoinAddress{}
	err := row.Scan(
		&a.ID, &a.WalletID, &a.Symbol, &a.Network, &a.Address, &a.EncryptedPrivateKey,
		&a.DerivationPath, &a.IsDefault, &a.Balance, &a.BalanceUSD, &a.RefreshedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan coin address: %w", err)
	}
	return a, nil
}
