package redis

import (
	"context"
	"math/big"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const gasPriceTTL = 30 * time.Second

// ChainCache backs the eth adapter's DecimalsCache and GasPriceCache with
// Redis. All methods are best effort: a cache failure degrades to an
// on-chain lookup, never to an error.
type ChainCache struct {
	client *goredis.Client
	prefix string
}

// NewChainCache creates a new Redis-backed chain metadata cache.
func NewChainCache(client *goredis.Client) *ChainCache {
	return &ChainCache{
		client: client,
		prefix: "chain:",
	}
}

// GetDecimals retrieves cached token decimals for a contract.
func (c *ChainCache) GetDecimals(ctx context.Context, contract string) (int32, bool) {
	val, err := c.client.Get(ctx, c.prefix+"decimals:"+contract).Result()
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(d), true
}

// SetDecimals caches token decimals. Decimals never change for a deployed
// contract, so no TTL.
func (c *ChainCache) SetDecimals(ctx context.Context, contract string, decimals int32) {
	c.client.Set(ctx, c.prefix+"decimals:"+contract, strconv.FormatInt(int64(decimals), 10), 0)
}

// GetGasPrice retrieves the recently cached gas price in wei.
func (c *ChainCache) GetGasPrice(ctx context.Context) (*big.Int, bool) {
	val, err := c.client.Get(ctx, c.prefix+"gasprice").Result()
	if err != nil {
		return nil, false
	}
	price, ok := new(big.Int).SetString(val, 10)
	if !ok {
		return nil, false
	}
	return price, true
}

// SetGasPrice caches the gas price with a short TTL.
func (c *ChainCache) SetGasPrice(ctx context.Context, price *big.Int) {
	c.client.Set(ctx, c.prefix+"gasprice", price.String(), gasPriceTTL)
}
