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

func newStoredCoinAddress(walletID uuid.UUID) *domain.CoinAddress {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.CoinAddress{
		ID:                  uuid.New(),
		WalletID:            walletID,
		Symbol:              "BTC",
		Network:             "BTC",
		Address:             "bc1qexampleaddress",
		EncryptedPrivateKey: "aes_encrypted_key",
		DerivationPath:      "m/btc/0",
		IsDefault:           true,
		Balance:             decimal.NewFromFloat(0.25),
		RefreshedAt:         &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func coinAddressCols() []string {
	return []string{"id", "wallet_id", "symbol", "network", "address", "encrypted_private_key",
		"derivation_path", "is_default", "balance", "balance_usd", "refreshed_at", "created_at", "updated_at"}
}

func coinAddressRow(a *domain.CoinAddress) *pgxmock.Rows {
	return pgxmock.NewRows(coinAddressCols()).AddRow(
		a.ID, a.WalletID, a.Symbol, a.Network, a.Address, a.EncryptedPrivateKey,
		a.DerivationPath, a.IsDefault, a.Balance, a.BalanceUSD, a.RefreshedAt, a.CreatedAt, a.UpdatedAt,
	)
}

func TestCoinAddressRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	a := newStoredCoinAddress(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO coin_addresses").
		WithArgs(a.ID, a.WalletID, a.Symbol, a.Network, a.Address, a.EncryptedPrivateKey,
			a.DerivationPath, a.IsDefault, a.Balance, a.BalanceUSD, a.RefreshedAt, a.CreatedAt, a.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoinAddressRepo_GetByWalletAndSymbol(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	a := newStoredCoinAddress(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM coin_addresses WHERE wallet_id .+ symbol").
		WithArgs(a.WalletID, "BTC").
		WillReturnRows(coinAddressRow(a))

	result, err := repo.GetByWalletAndSymbol(context.Background(), a.WalletID, "BTC")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.Address, result.Address)
	assert.True(t, result.Balance.Equal(a.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoinAddressRepo_GetByWalletAndSymbol_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM coin_addresses WHERE wallet_id .+ symbol").
		WithArgs(walletID, "LTC").
		WillReturnRows(pgxmock.NewRows(coinAddressCols()))

	result, err := repo.GetByWalletAndSymbol(context.Background(), walletID, "LTC")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoinAddressRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	walletID := uuid.New()
	btc := newStoredCoinAddress(walletID)
	eth := newStoredCoinAddress(walletID)
	eth.Symbol = "ETH"
	eth.Network = "ETH"
	eth.Address = "0xabc"

	rows := pgxmock.NewRows(coinAddressCols()).
		AddRow(btc.ID, btc.WalletID, btc.Symbol, btc.Network, btc.Address, btc.EncryptedPrivateKey,
			btc.DerivationPath, btc.IsDefault, btc.Balance, btc.BalanceUSD, btc.RefreshedAt, btc.CreatedAt, btc.UpdatedAt).
		AddRow(eth.ID, eth.WalletID, eth.Symbol, eth.Network, eth.Address, eth.EncryptedPrivateKey,
			eth.DerivationPath, eth.IsDefault, eth.Balance, eth.BalanceUSD, eth.RefreshedAt, eth.CreatedAt, eth.UpdatedAt)

	mock.ExpectQuery("SELECT .+ FROM coin_addresses WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(rows)

	addrs, err := repo.ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "BTC", addrs[0].Symbol)
	assert.Equal(t, "ETH", addrs[1].Symbol)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoinAddressRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	addrID := uuid.New()
	refreshedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE coin_addresses SET balance").
		WithArgs(decimal.NewFromFloat(0.75), decimal.Zero, refreshedAt, pgxmock.AnyArg(), addrID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateBalance(context.Background(), addrID, decimal.NewFromFloat(0.75), decimal.Zero, refreshedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoinAddressRepo_UpdateBalance_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCoinAddressRepo(mock)
	addrID := uuid.New()

	mock.ExpectExec("UPDATE coin_addresses SET balance").
		WithArgs(decimal.Zero, decimal.Zero, pgxmock.AnyArg(), pgxmock.AnyArg(), addrID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateBalance(context.Background(), addrID, decimal.Zero, decimal.Zero, time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "coin address not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
