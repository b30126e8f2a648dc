package eth

import (
	"context"
	"fmt"
	"math/big"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Reader implements ports.ChainReader for ETH and ERC-20 tokens by
// querying state at tip minus the confirmation depth, so a deposit only
// counts once the block holding it is buried deep enough.
type Reader struct {
	backend   Backend
	confDepth uint64
	decimals  DecimalsCache
}

// NewReader creates the reader. decimals may be nil to skip caching.
func NewReader(backend Backend, confDepth uint64, decimals DecimalsCache) *Reader {
	return &Reader{backend: backend, confDepth: confDepth, decimals: decimals}
}

// ConfirmedBalance returns the address balance in display units at the
// confirmed block height.
func (r *Reader) ConfirmedBalance(ctx context.Context, symbol, address string) (decimal.Decimal, error) {
	spec, ok := domain.Coin(symbol)
	if !ok {
		return decimal.Zero, apperror.ErrUnsupportedCoin(symbol)
	}
	block, err := r.confirmedBlock(ctx)
	if err != nil {
		return decimal.Zero, apperror.ErrChainUnavailable(err)
	}
	account := common.HexToAddress(address)

	if spec.IsToken() {
		contract := common.HexToAddress(spec.Contract)
		out, err := r.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: balanceOfCalldata(account)}, block)
		if err != nil {
			return decimal.Zero, apperror.ErrChainUnavailable(fmt.Errorf("token balance: %w", err))
		}
		d := tokenDecimals(ctx, r.backend, r.decimals, spec.Contract, spec.Decimals)
		return decimal.NewFromBigInt(new(big.Int).SetBytes(out), -d), nil
	}

	wei, err := r.backend.BalanceAt(ctx, account, block)
	if err != nil {
		return decimal.Zero, apperror.ErrChainUnavailable(fmt.Errorf("balance: %w", err))
	}
	return decimal.NewFromBigInt(wei, -ethDecimals), nil
}

// confirmedBlock resolves the newest block considered final.
func (r *Reader) confirmedBlock(ctx context.Context) (*big.Int, error) {
	tip, err := r.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	if r.confDepth <= 1 || tip < r.confDepth-1 {
		return new(big.Int).SetUint64(tip), nil
	}
	return new(big.Int).SetUint64(tip - (r.confDepth - 1)), nil
}
