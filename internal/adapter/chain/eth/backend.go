// Package eth moves ETH and ERC-20 tokens on account chains through a
// go-ethereum RPC backend. One transfer may fan out into several
// sequential transactions (recipient, platform fee, broker fee), each a
// single-recipient payment with its own nonce.
package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Backend is the slice of the JSON-RPC client surface this package uses.
// *ethclient.Client satisfies it.
type Backend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Dial connects to the first endpoint that answers a block-number probe.
func Dial(ctx context.Context, endpoints []string, log zerolog.Logger) (*ethclient.Client, error) {
	var lastErr error
	for _, endpoint := range endpoints {
		client, err := ethclient.DialContext(ctx, endpoint)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("eth endpoint dial failed, trying next")
			continue
		}
		if _, err := client.BlockNumber(ctx); err != nil {
			client.Close()
			lastErr = err
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("eth endpoint probe failed, trying next")
			continue
		}
		return client, nil
	}
	return nil, fmt.Errorf("no eth endpoint reachable: %w", lastErr)
}
