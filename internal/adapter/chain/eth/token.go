package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ERC-20 function selectors.
var (
	selTransfer  = []byte{0xa9, 0x05, 0x9c, 0xbb} // transfer(address,uint256)
	selBalanceOf = []byte{0x70, 0xa0, 0x82, 0x31} // balanceOf(address)
	selDecimals  = []byte{0x31, 0x3c, 0xe5, 0x67} // decimals()
)

// DecimalsCache holds verified token decimals keyed by contract address.
// A miss is answered on-chain and written back.
type DecimalsCache interface {
	GetDecimals(ctx context.Context, contract string) (int32, bool)
	SetDecimals(ctx context.Context, contract string, decimals int32)
}

// transferCalldata builds transfer(to, amount) calldata.
func transferCalldata(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+32+32)
	data = append(data, selTransfer...)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}

// balanceOfCalldata builds balanceOf(owner) calldata.
func balanceOfCalldata(owner common.Address) []byte {
	data := make([]byte, 0, 4+32)
	data = append(data, selBalanceOf...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), 32)...)
	return data
}

// tokenDecimals resolves the contract's decimals, preferring the cache.
// When both the cache and the chain come up empty the configured fallback
// wins.
func tokenDecimals(ctx context.Context, backend Backend, cache DecimalsCache, contract string, fallback int32) int32 {
	if cache != nil {
		if d, ok := cache.GetDecimals(ctx, contract); ok {
			return d
		}
	}
	addr := common.HexToAddress(contract)
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: selDecimals}, nil)
	if err != nil || len(out) == 0 {
		return fallback
	}
	d := int32(new(big.Int).SetBytes(out).Int64())
	if d <= 0 || d > 36 {
		return fallback
	}
	if cache != nil {
		cache.SetDecimals(ctx, contract, d)
	}
	return d
}
