// Package chain routes transfer and balance requests to the adapter
// owning each coin.
package chain

import (
	"context"

	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Registry implements ports.ChainTxBuilder and ports.ChainReader by
// dispatching on the request's coin symbol. Token symbols register the
// parent chain's adapter.
type Registry struct {
	builders map[string]ports.ChainTxBuilder
	readers  map[string]ports.ChainReader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]ports.ChainTxBuilder),
		readers:  make(map[string]ports.ChainReader),
	}
}

// Register binds symbol to its builder and reader. Wiring-time only, not
// safe for concurrent use with dispatch.
func (r *Registry) Register(symbol string, builder ports.ChainTxBuilder, reader ports.ChainReader) {
	r.builders[symbol] = builder
	r.readers[symbol] = reader
}

// BuildAndSend routes the transfer to the symbol's builder.
func (r *Registry) BuildAndSend(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	builder, ok := r.builders[req.Symbol]
	if !ok {
		return nil, apperror.ErrUnsupportedCoin(req.Symbol)
	}
	return builder.BuildAndSend(ctx, req)
}

// ConfirmedBalance routes the balance query to the symbol's reader.
func (r *Registry) ConfirmedBalance(ctx context.Context, symbol, address string) (decimal.Decimal, error) {
	reader, ok := r.readers[symbol]
	if !ok {
		return decimal.Zero, apperror.ErrUnsupportedCoin(symbol)
	}
	return reader.ConfirmedBalance(ctx, symbol, address)
}
