package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	ethDecimals      = 18
	receiptPollEvery = 3 * time.Second
	fallbackTokenGas = 65000
)

// payout is one single-recipient payment within a transfer.
type payout struct {
	label  string
	to     common.Address
	amount *big.Int
}

// Builder implements ports.ChainTxBuilder for ETH and ERC-20 tokens.
//
// The recipient payment is authoritative: its failure fails the transfer.
// Platform and broker fee payments ride behind it with consecutive nonces;
// if one of those is rejected after the recipient payment went out, the
// transfer still succeeds and the miss is logged for manual follow-up.
type Builder struct {
	backend      Backend
	chainID      *big.Int
	gasSafetyPct int64
	receiptWait  time.Duration
	decimals     DecimalsCache
	log          zerolog.Logger
}

// NewBuilder creates the builder. decimals may be nil to skip caching.
func NewBuilder(backend Backend, chainID int64, gasSafetyPct int64, receiptWait time.Duration, decimals DecimalsCache, log zerolog.Logger) *Builder {
	return &Builder{
		backend:      backend,
		chainID:      big.NewInt(chainID),
		gasSafetyPct: gasSafetyPct,
		receiptWait:  receiptWait,
		decimals:     decimals,
		log:          log,
	}
}

// BuildAndSend signs and submits the payments making up one transfer.
func (b *Builder) BuildAndSend(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	spec, ok := domain.Coin(req.Symbol)
	if !ok {
		return nil, apperror.ErrUnsupportedCoin(req.Symbol)
	}
	priv, err := ethcrypto.HexToECDSA(req.PrivateKeyHex)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("malformed private key material"))
	}
	from := ethcrypto.PubkeyToAddress(priv.PublicKey)
	if !strings.EqualFold(from.Hex(), req.FromAddress) {
		return nil, apperror.InternalError(fmt.Errorf("key does not control source address"))
	}

	sendDecimals := int32(ethDecimals)
	if spec.IsToken() {
		sendDecimals = tokenDecimals(ctx, b.backend, b.decimals, spec.Contract, spec.Decimals)
	}

	payouts := make([]payout, 0, 3)
	payouts = append(payouts, payout{
		label:  "recipient",
		to:     common.HexToAddress(req.To),
		amount: toBase(req.Amount, sendDecimals),
	})
	if req.PlatformFeeAddress != "" && req.PlatformFee.IsPositive() {
		payouts = append(payouts, payout{
			label:  "platform_fee",
			to:     common.HexToAddress(req.PlatformFeeAddress),
			amount: toBase(req.PlatformFee, sendDecimals),
		})
	}
	if req.BrokerFeeAddress != "" && req.BrokerFee.IsPositive() {
		payouts = append(payouts, payout{
			label:  "broker_fee",
			to:     common.HexToAddress(req.BrokerFeeAddress),
			amount: toBase(req.BrokerFee, sendDecimals),
		})
	}

	gasPrice, err := b.safeGasPrice(ctx)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("gas price: %w", err))
	}

	var gasLimit uint64
	if spec.IsToken() {
		gasLimit, err = b.tokenGasLimit(ctx, from, spec.Contract, payouts[0])
		if err != nil {
			return nil, err
		}
	} else {
		gasLimit = spec.GasLimit
	}

	if err := b.preflight(ctx, spec, from, payouts, gasPrice, gasLimit); err != nil {
		return nil, err
	}

	nonce, err := b.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("pending nonce: %w", err))
	}

	var primaryHash common.Hash
	sent := 0
	for i, p := range payouts {
		var tx *types.Transaction
		if spec.IsToken() {
			tx = types.NewTx(&types.LegacyTx{
				Nonce:    nonce,
				To:       addrPtr(common.HexToAddress(spec.Contract)),
				Value:    big.NewInt(0),
				Gas:      gasLimit,
				GasPrice: gasPrice,
				Data:     transferCalldata(p.to, p.amount),
			})
		} else {
			tx = types.NewTx(&types.LegacyTx{
				Nonce:    nonce,
				To:       addrPtr(p.to),
				Value:    p.amount,
				Gas:      gasLimit,
				GasPrice: gasPrice,
			})
		}
		signed, err := types.SignTx(tx, types.LatestSignerForChainID(b.chainID), priv)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("signing %s payment: %w", p.label, err))
		}
		if err := b.backend.SendTransaction(ctx, signed); err != nil {
			if i == 0 {
				return nil, apperror.ErrBroadcastRejected(err.Error())
			}
			b.log.Error().Err(err).
				Str("symbol", req.Symbol).
				Str("payment", p.label).
				Str("to", p.to.Hex()).
				Msg("fee payment rejected after recipient payment was sent, manual follow-up required")
			continue
		}
		if i == 0 {
			primaryHash = signed.Hash()
		}
		sent++
		nonce++
	}

	receipt, unconfirmed, err := b.awaitReceipt(ctx, primaryHash)
	if err != nil {
		return nil, err
	}

	// The recipient payment's fee comes from its receipt when one is in
	// hand; the padded estimate only covers what is still unconfirmed.
	feeWei := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit*uint64(sent)))
	if receipt != nil && receipt.EffectiveGasPrice != nil {
		feeWei = new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed))
		if sent > 1 {
			feeWei.Add(feeWei, new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit*uint64(sent-1))))
		}
	}
	b.log.Info().
		Str("symbol", req.Symbol).
		Str("tx_hash", primaryHash.Hex()).
		Int("payments", sent).
		Bool("unconfirmed", unconfirmed).
		Msg("account transfer broadcast")

	return &ports.TransferResult{
		TxHash:      primaryHash.Hex(),
		FeePaid:     decimal.NewFromBigInt(feeWei, -ethDecimals),
		Unconfirmed: unconfirmed,
	}, nil
}

// preflight verifies balances before any transaction goes out. Token
// spends check the token balance for the payout total and the native
// balance for gas separately.
func (b *Builder) preflight(ctx context.Context, spec domain.CoinSpec, from common.Address, payouts []payout, gasPrice *big.Int, gasLimit uint64) error {
	total := new(big.Int)
	for _, p := range payouts {
		total.Add(total, p.amount)
	}
	gasNeed := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit*uint64(len(payouts))))

	ethBalance, err := b.backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return apperror.ErrChainUnavailable(fmt.Errorf("balance: %w", err))
	}

	if spec.IsToken() {
		contract := common.HexToAddress(spec.Contract)
		out, err := b.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: balanceOfCalldata(from)}, nil)
		if err != nil {
			return apperror.ErrChainUnavailable(fmt.Errorf("token balance: %w", err))
		}
		if new(big.Int).SetBytes(out).Cmp(total) < 0 {
			return apperror.ErrInsufficientFunds(spec.Symbol)
		}
		if ethBalance.Cmp(gasNeed) < 0 {
			return apperror.ErrInsufficientGas(spec.GasSymbol())
		}
		return nil
	}

	need := new(big.Int).Add(total, gasNeed)
	if ethBalance.Cmp(need) < 0 {
		return apperror.ErrInsufficientFunds(spec.Symbol)
	}
	return nil
}

// tokenGasLimit estimates gas for one token transfer and pads it by the
// safety percentage. A failed estimate falls back to a fixed limit rather
// than blocking the transfer.
func (b *Builder) tokenGasLimit(ctx context.Context, from common.Address, contract string, first payout) (uint64, error) {
	to := common.HexToAddress(contract)
	est, err := b.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: transferCalldata(first.to, first.amount),
	})
	if err != nil {
		b.log.Warn().Err(err).Str("contract", contract).Msg("token gas estimate failed, using fallback limit")
		est = fallbackTokenGas
	}
	return est * uint64(100+b.gasSafetyPct) / 100, nil
}

// safeGasPrice pads the node's suggestion by the safety percentage.
func (b *Builder) safeGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := b.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	price.Mul(price, big.NewInt(100+b.gasSafetyPct))
	price.Div(price, big.NewInt(100))
	return price, nil
}

// awaitReceipt polls for the recipient payment's receipt until the wait
// window closes. No receipt inside the window means sent-but-unconfirmed,
// not failure. A reverted receipt is a hard failure. The receipt is
// returned so the caller can price the payment from what was actually
// burned.
func (b *Builder) awaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, bool, error) {
	deadline := time.Now().Add(b.receiptWait)
	ticker := time.NewTicker(receiptPollEvery)
	defer ticker.Stop()

	for {
		receipt, err := b.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, false, apperror.ErrBroadcastRejected(fmt.Sprintf("transaction %s reverted", txHash.Hex()))
			}
			return receipt, false, nil
		}
		if time.Now().After(deadline) {
			return nil, true, nil
		}
		select {
		case <-ctx.Done():
			return nil, true, nil
		case <-ticker.C:
		}
	}
}

// toBase converts a display-unit amount to base units.
func toBase(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).BigInt()
}

func addrPtr(a common.Address) *common.Address { return &a }
