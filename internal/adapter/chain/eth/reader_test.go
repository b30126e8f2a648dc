package eth

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"escrow-custody-gateway/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReader_ConfirmedBalance_ETH(t *testing.T) {
	backend := &fakeBackend{
		blockNumber: 100,
		ethBalance:  toWei(1.5),
	}
	r := NewReader(backend, 12, nil)

	balance, err := r.ConfirmedBalance(context.Background(), "ETH", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, balance.Equal(toDec("1.5")), balance.String())

	require.NotNil(t, backend.lastBalanceBlock)
	assert.Equal(t, int64(89), backend.lastBalanceBlock.Int64(),
		"balance is read at tip minus the confirmation depth")
}

func TestReader_ConfirmedBalance_Token(t *testing.T) {
	backend := &fakeBackend{
		blockNumber:  100,
		tokenBalance: big.NewInt(2_500_000),
		decimalsOut:  6,
	}
	r := NewReader(backend, 12, nil)

	balance, err := r.ConfirmedBalance(context.Background(), "USDT", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, balance.Equal(toDec("2.5")), balance.String())
}

func TestReader_ConfirmedBalance_TokenDecimalsFallback(t *testing.T) {
	backend := &fakeBackend{
		blockNumber:  100,
		tokenBalance: big.NewInt(2_500_000),
		decimalsOut:  0, // decimals() reverts, configured fallback applies
	}
	r := NewReader(backend, 12, nil)

	balance, err := r.ConfirmedBalance(context.Background(), "USDT", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, balance.Equal(toDec("2.5")), balance.String())
}

func TestReader_ConfirmedBalance_ShallowChainClampsToTip(t *testing.T) {
	backend := &fakeBackend{
		blockNumber: 5,
		ethBalance:  big.NewInt(0),
	}
	r := NewReader(backend, 12, nil)

	_, err := r.ConfirmedBalance(context.Background(), "ETH", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, int64(5), backend.lastBalanceBlock.Int64())
}

func TestReader_ConfirmedBalance_UnsupportedSymbol(t *testing.T) {
	r := NewReader(&fakeBackend{}, 12, nil)

	_, err := r.ConfirmedBalance(context.Background(), "XRP", "0x1111111111111111111111111111111111111111")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestReader_ConfirmedBalance_NodeDown(t *testing.T) {
	backend := &fakeBackend{blockErr: errors.New("connection refused")}
	r := NewReader(backend, 12, nil)

	_, err := r.ConfirmedBalance(context.Background(), "ETH", "0x1111111111111111111111111111111111111111")
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
}
