package eth

import (
	"context"
	"math/big"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// GasPriceCache holds a recently quoted gas price so fee previews do not
// hammer the node. Entries expire quickly; staleness only affects quotes,
// never the price used at send time.
type GasPriceCache interface {
	GetGasPrice(ctx context.Context) (*big.Int, bool)
	SetGasPrice(ctx context.Context, price *big.Int)
}

// Estimator implements ports.GasEstimator for the ETH family. Quotes
// already include the safety percentage; when the node is unreachable a
// configured flat gwei price keeps quoting alive.
type Estimator struct {
	backend      Backend
	cache        GasPriceCache
	gasSafetyPct int64
	fallbackGwei int64
	log          zerolog.Logger
}

// NewEstimator creates the estimator. cache may be nil.
func NewEstimator(backend Backend, cache GasPriceCache, gasSafetyPct, fallbackGwei int64, log zerolog.Logger) *Estimator {
	return &Estimator{
		backend:      backend,
		cache:        cache,
		gasSafetyPct: gasSafetyPct,
		fallbackGwei: fallbackGwei,
		log:          log,
	}
}

// EstimateTransferGas quotes the gas cost of one payout for symbol in the
// native asset's display unit.
func (e *Estimator) EstimateTransferGas(ctx context.Context, symbol string) (ports.GasQuote, error) {
	spec, ok := domain.Coin(symbol)
	if !ok {
		return ports.GasQuote{}, apperror.ErrUnsupportedCoin(symbol)
	}

	gasLimit := spec.GasLimit
	if spec.IsToken() {
		gasLimit = fallbackTokenGas
	}

	price := e.gasPrice(ctx)
	wei := new(big.Int).Mul(price, new(big.Int).SetUint64(gasLimit))
	wei.Mul(wei, big.NewInt(100+e.gasSafetyPct))
	wei.Div(wei, big.NewInt(100))

	return ports.GasQuote{
		PerTransfer: decimal.NewFromBigInt(wei, -ethDecimals),
		GasSymbol:   spec.GasSymbol(),
	}, nil
}

// gasPrice returns the cached price, a fresh suggestion, or the flat
// fallback, in that order.
func (e *Estimator) gasPrice(ctx context.Context) *big.Int {
	if e.cache != nil {
		if price, ok := e.cache.GetGasPrice(ctx); ok {
			return price
		}
	}
	price, err := e.backend.SuggestGasPrice(ctx)
	if err != nil {
		e.log.Warn().Err(err).Int64("fallback_gwei", e.fallbackGwei).Msg("gas price suggestion failed, using fallback")
		return new(big.Int).Mul(big.NewInt(e.fallbackGwei), big.NewInt(1e9))
	}
	if e.cache != nil {
		e.cache.SetGasPrice(ctx, price)
	}
	return price
}
