package service

import (
	"context"

	"escrow-custody-gateway/config"
	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FeeCalculator implements ports.FeeService. Two payouts leave escrow on
// release (buyer and platform), so the gas reserve covers both.
type FeeCalculator struct {
	cfg       config.FeesConfig
	estimator ports.GasEstimator
	log       zerolog.Logger
}

// NewFeeCalculator creates the calculator.
func NewFeeCalculator(cfg config.FeesConfig, estimator ports.GasEstimator, log zerolog.Logger) *FeeCalculator {
	return &FeeCalculator{cfg: cfg, estimator: estimator, log: log}
}

// FlatFee applies the fixed platform percentage.
func (s *FeeCalculator) FlatFee(amount decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(s.cfg.PlatformPercent)
	return amount.Mul(pct).Div(decimal.NewFromInt(100))
}

// FeeWithGas computes the full deposit requirement for a trade of `amount`
// in `symbol`.
//
// Native-asset trades (the gas asset is the trade asset): amount, fee and
// gas are one unit and sum into one required deposit.
//
// Token trades: the token amount+fee is one requirement and the gas reserve
// is a separate requirement in the parent chain's native asset. The two are
// never summed; conflating them is a correctness bug, not a display choice.
func (s *FeeCalculator) FeeWithGas(ctx context.Context, amount decimal.Decimal, symbol string) (*ports.FeeBreakdown, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}
	spec, ok := domain.Coin(symbol)
	if !ok {
		return nil, apperror.ErrUnsupportedCoin(symbol)
	}

	botFee := s.FlatFee(amount)
	breakdown := &ports.FeeBreakdown{
		BotFee:          botFee,
		DepositCurrency: spec.Symbol,
	}

	if spec.Family == domain.FamilyUTXO {
		// UTXO chains pay the miner fee out of the spend itself; no
		// separate gas reserve is collected up front.
		breakdown.TotalDeposit = amount.Add(botFee)
		return breakdown, nil
	}

	quote, err := s.estimator.EstimateTransferGas(ctx, spec.Symbol)
	if err != nil {
		// The estimator already falls back internally; reaching here means
		// even the fallback path failed.
		return nil, apperror.ErrChainUnavailable(err)
	}

	breakdown.GasForBuyerPayout = quote.PerTransfer
	breakdown.GasForBotPayout = quote.PerTransfer
	breakdown.TotalGas = quote.PerTransfer.Mul(decimal.NewFromInt(2))
	breakdown.GasCurrency = quote.GasSymbol

	if spec.IsToken() {
		breakdown.GasSeparate = true
		breakdown.TotalDeposit = amount.Add(botFee)
	} else {
		breakdown.TotalDeposit = amount.Add(botFee).Add(breakdown.TotalGas)
	}

	s.log.Debug().
		Str("symbol", spec.Symbol).
		Str("deposit", breakdown.TotalDeposit.String()).
		Str("gas", breakdown.TotalGas.String()).
		Bool("gas_separate", breakdown.GasSeparate).
		Msg("fee breakdown computed")

	return breakdown, nil
}
