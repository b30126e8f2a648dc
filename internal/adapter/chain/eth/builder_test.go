package eth

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdtContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"

// fakeBackend is an in-memory Backend for one account.
type fakeBackend struct {
	blockNumber uint64
	blockErr    error

	ethBalance   *big.Int
	tokenBalance *big.Int
	decimalsOut  int64 // 0 means the decimals() call fails

	gasPrice    *big.Int
	gasPriceErr error
	estimate    uint64
	estimateErr error

	nonce uint64

	sent     []*types.Transaction
	sendErrs map[int]error // index into the send sequence

	receiptStatus   uint64
	receiptMissing  bool
	receiptGasUsed  uint64
	receiptEffPrice *big.Int

	lastBalanceBlock *big.Int
	lastCallBlock    *big.Int
}

func (f *fakeBackend) BlockNumber(_ context.Context) (uint64, error) {
	return f.blockNumber, f.blockErr
}

func (f *fakeBackend) BalanceAt(_ context.Context, _ common.Address, block *big.Int) (*big.Int, error) {
	f.lastBalanceBlock = block
	if f.ethBalance == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(f.ethBalance), nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	f.lastCallBlock = block
	switch {
	case bytes.HasPrefix(msg.Data, selBalanceOf):
		return common.LeftPadBytes(f.tokenBalance.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, selDecimals):
		if f.decimalsOut == 0 {
			return nil, errors.New("execution reverted")
		}
		return common.LeftPadBytes(big.NewInt(f.decimalsOut).Bytes(), 32), nil
	}
	return nil, errors.New("unexpected call")
}

func (f *fakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	if f.gasPriceErr != nil {
		return nil, f.gasPriceErr
	}
	return new(big.Int).Set(f.gasPrice), nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return f.estimate, f.estimateErr
}

func (f *fakeBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	idx := len(f.sent)
	if err, ok := f.sendErrs[idx]; ok {
		return err
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	if f.receiptMissing {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:            f.receiptStatus,
		GasUsed:           f.receiptGasUsed,
		EffectiveGasPrice: f.receiptEffPrice,
	}, nil
}

func testAccount(t *testing.T) (*ecdsa.PrivateKey, string, string) {
	t.Helper()
	priv, err := ethcrypto.ToECDSA(bytes.Repeat([]byte{0x11}, 32))
	require.NoError(t, err)
	addr := ethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
	return priv, addr, hex.EncodeToString(ethcrypto.FromECDSA(priv))
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9))
}

func toWei(f float64) *big.Int {
	return decimal.NewFromFloat(f).Shift(18).BigInt()
}

func TestBuilder_BuildAndSend_ETHWithFeePayouts(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:    toWei(2),
		gasPrice:      gwei(10),
		nonce:         5,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
	b := NewBuilder(backend, 1, 0, 10*time.Second, nil, zerolog.Nop())

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:             "ETH",
		FromAddress:        from,
		PrivateKeyHex:      privHex,
		To:                 "0x1111111111111111111111111111111111111111",
		Amount:             decimal.NewFromInt(1),
		PlatformFeeAddress: "0x2222222222222222222222222222222222222222",
		PlatformFee:        decimal.NewFromFloat(0.01),
		BrokerFeeAddress:   "0x3333333333333333333333333333333333333333",
		BrokerFee:          decimal.NewFromFloat(0.005),
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 3, "recipient, platform and broker payments each go out")

	for i, tx := range backend.sent {
		assert.Equal(t, uint64(5+i), tx.Nonce(), "payments take consecutive nonces")
		assert.Equal(t, uint64(21000), tx.Gas())
	}
	assert.Equal(t, 0, toWei(1).Cmp(backend.sent[0].Value()))
	assert.Equal(t, 0, toWei(0.01).Cmp(backend.sent[1].Value()))
	assert.Equal(t, 0, toWei(0.005).Cmp(backend.sent[2].Value()))
	assert.Equal(t, "0x2222222222222222222222222222222222222222",
		backend.sent[1].To().Hex())

	assert.Equal(t, backend.sent[0].Hash().Hex(), result.TxHash,
		"the recipient payment's hash identifies the transfer")
	assert.False(t, result.Unconfirmed)
	// 10 gwei * 21000 gas * 3 payments = 0.00063 ETH
	assert.True(t, result.FeePaid.Equal(decimal.RequireFromString("0.00063")), result.FeePaid.String())
}

func TestBuilder_BuildAndSend_FeeFollowsReceipt(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:      toWei(2),
		gasPrice:        gwei(10),
		receiptStatus:   types.ReceiptStatusSuccessful,
		receiptGasUsed:  21000,
		receiptEffPrice: gwei(8),
	}
	b := NewBuilder(backend, 1, 0, 10*time.Second, nil, zerolog.Nop())

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:             "ETH",
		FromAddress:        from,
		PrivateKeyHex:      privHex,
		To:                 "0x1111111111111111111111111111111111111111",
		Amount:             decimal.NewFromInt(1),
		PlatformFeeAddress: "0x2222222222222222222222222222222222222222",
		PlatformFee:        decimal.NewFromFloat(0.01),
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 2)

	// Recipient payment billed at the receipt's effective price
	// (8 gwei * 21000), the unconfirmed fee payout at the quote
	// (10 gwei * 21000): 0.000168 + 0.00021 ETH.
	assert.True(t, result.FeePaid.Equal(decimal.RequireFromString("0.000378")), result.FeePaid.String())
}

func TestBuilder_BuildAndSend_TokenTransferCalldata(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:    toWei(1),
		tokenBalance:  big.NewInt(500_000_000), // 500 USDT
		decimalsOut:   6,
		gasPrice:      gwei(10),
		estimate:      50_000,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
	b := NewBuilder(backend, 1, 0, 10*time.Second, nil, zerolog.Nop())

	recipient := common.HexToAddress("0x4444444444444444444444444444444444444444")
	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "USDT",
		FromAddress:   from,
		PrivateKeyHex: privHex,
		To:            recipient.Hex(),
		Amount:        decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	assert.Equal(t, common.HexToAddress(usdtContract), *tx.To(),
		"token payments go to the contract, not the recipient")
	assert.Zero(t, tx.Value().Sign())
	assert.Equal(t, uint64(50_000), tx.Gas())

	want := transferCalldata(recipient, big.NewInt(100_000_000))
	assert.Equal(t, want, tx.Data())
}

func TestBuilder_BuildAndSend_TokenNeedsNativeGas(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:   big.NewInt(0), // no gas money
		tokenBalance: big.NewInt(500_000_000),
		decimalsOut:  6,
		gasPrice:     gwei(10),
		estimate:     50_000,
	}
	b := NewBuilder(backend, 1, 0, time.Second, nil, zerolog.Nop())

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "USDT",
		FromAddress:   from,
		PrivateKeyHex: privHex,
		To:            "0x4444444444444444444444444444444444444444",
		Amount:        decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientFunds, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "ETH", "the gas shortfall names the parent asset")
	assert.Empty(t, backend.sent, "nothing goes out on a failed pre-flight")
}

func TestBuilder_BuildAndSend_InsufficientBalance(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance: toWei(0.5),
		gasPrice:   gwei(10),
	}
	b := NewBuilder(backend, 1, 0, time.Second, nil, zerolog.Nop())

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "ETH",
		FromAddress:   from,
		PrivateKeyHex: privHex,
		To:            "0x1111111111111111111111111111111111111111",
		Amount:        decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientFunds, apperror.KindOf(err))
	assert.Empty(t, backend.sent)
}

func TestBuilder_BuildAndSend_RecipientRejectionFailsTransfer(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance: toWei(2),
		gasPrice:   gwei(10),
		sendErrs:   map[int]error{0: errors.New("nonce too low")},
	}
	b := NewBuilder(backend, 1, 0, time.Second, nil, zerolog.Nop())

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:             "ETH",
		FromAddress:        from,
		PrivateKeyHex:      privHex,
		To:                 "0x1111111111111111111111111111111111111111",
		Amount:             decimal.NewFromInt(1),
		PlatformFeeAddress: "0x2222222222222222222222222222222222222222",
		PlatformFee:        decimal.NewFromFloat(0.01),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
	assert.Empty(t, backend.sent, "fee payments never go out after the recipient payment fails")
}

func TestBuilder_BuildAndSend_FeePayoutFailureDoesNotFailTransfer(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:    toWei(2),
		gasPrice:      gwei(10),
		sendErrs:      map[int]error{1: errors.New("replacement transaction underpriced")},
		receiptStatus: types.ReceiptStatusSuccessful,
	}
	b := NewBuilder(backend, 1, 0, 10*time.Second, nil, zerolog.Nop())

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:             "ETH",
		FromAddress:        from,
		PrivateKeyHex:      privHex,
		To:                 "0x1111111111111111111111111111111111111111",
		Amount:             decimal.NewFromInt(1),
		PlatformFeeAddress: "0x2222222222222222222222222222222222222222",
		PlatformFee:        decimal.NewFromFloat(0.01),
	})
	require.NoError(t, err, "the recipient payment went out, so the transfer stands")
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash().Hex(), result.TxHash)
	// Only the one sent payment is billed: 10 gwei * 21000.
	assert.True(t, result.FeePaid.Equal(decimal.RequireFromString("0.00021")), result.FeePaid.String())
}

func TestBuilder_BuildAndSend_NoReceiptInsideWindowIsUnconfirmed(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:     toWei(2),
		gasPrice:       gwei(10),
		receiptMissing: true,
	}
	b := NewBuilder(backend, 1, 0, 0, nil, zerolog.Nop())

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "ETH",
		FromAddress:   from,
		PrivateKeyHex: privHex,
		To:            "0x1111111111111111111111111111111111111111",
		Amount:        decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.True(t, result.Unconfirmed, "a missing receipt is sent-but-unconfirmed, never a failure")
}

func TestBuilder_BuildAndSend_RevertedReceiptFails(t *testing.T) {
	_, from, privHex := testAccount(t)
	backend := &fakeBackend{
		ethBalance:    toWei(2),
		gasPrice:      gwei(10),
		receiptStatus: types.ReceiptStatusFailed,
	}
	b := NewBuilder(backend, 1, 0, 10*time.Second, nil, zerolog.Nop())

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "ETH",
		FromAddress:   from,
		PrivateKeyHex: privHex,
		To:            "0x1111111111111111111111111111111111111111",
		Amount:        decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reverted")
}

func TestBuilder_BuildAndSend_KeyMustControlSource(t *testing.T) {
	_, _, privHex := testAccount(t)
	b := NewBuilder(&fakeBackend{}, 1, 0, time.Second, nil, zerolog.Nop())

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "ETH",
		FromAddress:   "0x9999999999999999999999999999999999999999",
		PrivateKeyHex: privHex,
		To:            "0x1111111111111111111111111111111111111111",
		Amount:        decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
