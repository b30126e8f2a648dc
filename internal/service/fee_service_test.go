package service

import (
	"context"
	"errors"
	"testing"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/internal/core/ports/mocks"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupFeeCalculator(t *testing.T) (*FeeCalculator, *mocks.MockGasEstimator, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	estimator := mocks.NewMockGasEstimator(ctrl)
	svc := NewFeeCalculator(config.FeesConfig{PlatformPercent: 1.0}, estimator, zerolog.Nop())
	return svc, estimator, ctrl
}

func TestFeeCalculator_FlatFee(t *testing.T) {
	svc, _, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	fee := svc.FlatFee(decimal.NewFromInt(200))
	assert.True(t, fee.Equal(decimal.NewFromInt(2)), fee.String())
}

func TestFeeCalculator_UTXOHasNoGasReserve(t *testing.T) {
	svc, _, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	// No estimator expectation: UTXO chains must never consult it.
	b, err := svc.FeeWithGas(context.Background(), decimal.NewFromInt(100), "BTC")
	require.NoError(t, err)

	assert.True(t, b.BotFee.Equal(decimal.NewFromInt(1)))
	assert.True(t, b.TotalDeposit.Equal(decimal.NewFromInt(101)))
	assert.True(t, b.TotalGas.IsZero())
	assert.False(t, b.GasSeparate)
	assert.Equal(t, "BTC", b.DepositCurrency)
}

func TestFeeCalculator_NativeDepositIncludesGas(t *testing.T) {
	svc, estimator, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	perTransfer := decimal.NewFromFloat(0.002)
	estimator.EXPECT().EstimateTransferGas(gomock.Any(), "ETH").Return(ports.GasQuote{
		PerTransfer: perTransfer,
		GasSymbol:   "ETH",
	}, nil)

	b, err := svc.FeeWithGas(context.Background(), decimal.NewFromInt(10), "ETH")
	require.NoError(t, err)

	// amount + fee + gas for both payouts, all in ETH.
	assert.True(t, b.TotalGas.Equal(decimal.NewFromFloat(0.004)))
	assert.True(t, b.TotalDeposit.Equal(decimal.NewFromFloat(10.104)), b.TotalDeposit.String())
	assert.False(t, b.GasSeparate)
	assert.Equal(t, "ETH", b.GasCurrency)
}

func TestFeeCalculator_TokenGasStaysSeparate(t *testing.T) {
	svc, estimator, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	estimator.EXPECT().EstimateTransferGas(gomock.Any(), "USDT").Return(ports.GasQuote{
		PerTransfer: decimal.NewFromFloat(0.003),
		GasSymbol:   "ETH",
	}, nil)

	b, err := svc.FeeWithGas(context.Background(), decimal.NewFromInt(500), "USDT")
	require.NoError(t, err)

	// The gas reserve is denominated in ETH and must never be summed into
	// the USDT deposit.
	assert.True(t, b.GasSeparate)
	assert.True(t, b.TotalDeposit.Equal(decimal.NewFromInt(505)), b.TotalDeposit.String())
	assert.True(t, b.TotalGas.Equal(decimal.NewFromFloat(0.006)))
	assert.Equal(t, "USDT", b.DepositCurrency)
	assert.Equal(t, "ETH", b.GasCurrency)
}

func TestFeeCalculator_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	_, err := svc.FeeWithGas(context.Background(), decimal.Zero, "BTC")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestFeeCalculator_UnsupportedCoin(t *testing.T) {
	svc, _, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	_, err := svc.FeeWithGas(context.Background(), decimal.NewFromInt(1), "DOGE")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestFeeCalculator_EstimatorFailure(t *testing.T) {
	svc, estimator, ctrl := setupFeeCalculator(t)
	defer ctrl.Finish()

	estimator.EXPECT().EstimateTransferGas(gomock.Any(), "ETH").
		Return(ports.GasQuote{}, errors.New("all endpoints down"))

	_, err := svc.FeeWithGas(context.Background(), decimal.NewFromInt(1), "ETH")
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
}
