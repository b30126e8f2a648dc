package redis

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestChainCache_Decimals(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewChainCache(client)
	ctx := context.Background()

	contract := "0xdac17f958d2ee523a2206206994597c13d831ec7"

	_, ok := cache.GetDecimals(ctx, contract)
	assert.False(t, ok, "cold cache")

	cache.SetDecimals(ctx, contract, 6)

	d, ok := cache.GetDecimals(ctx, contract)
	assert.True(t, ok)
	assert.Equal(t, int32(6), d)

	// Decimals have no TTL; they survive arbitrary clock advance.
	s.FastForward(24 * time.Hour)
	d, ok = cache.GetDecimals(ctx, contract)
	assert.True(t, ok)
	assert.Equal(t, int32(6), d)
}

func TestChainCache_GasPriceExpires(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewChainCache(client)
	ctx := context.Background()

	_, ok := cache.GetGasPrice(ctx)
	assert.False(t, ok, "cold cache")

	price := big.NewInt(25_000_000_000)
	cache.SetGasPrice(ctx, price)

	got, ok := cache.GetGasPrice(ctx)
	assert.True(t, ok)
	assert.Equal(t, 0, price.Cmp(got))

	s.FastForward(time.Minute)

	_, ok = cache.GetGasPrice(ctx)
	assert.False(t, ok, "gas price is stale after its TTL")
}

func TestChainCache_BestEffortOnRedisDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewChainCache(client)
	ctx := context.Background()

	s.Close()

	// Failures degrade to a miss, never an error or panic.
	_, ok := cache.GetGasPrice(ctx)
	assert.False(t, ok)
	cache.SetGasPrice(ctx, big.NewInt(1))
	_, ok = cache.GetDecimals(ctx, "0xabc")
	assert.False(t, ok)
}
