package utxo

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/btcsuite/btcd/btcec/v2"
	ecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Explorer is the read/broadcast surface the builder needs.
type Explorer interface {
	TipHeight(ctx context.Context) (int64, error)
	ListUnspent(ctx context.Context, address string) ([]Unspent, error)
	Broadcast(ctx context.Context, rawHex string) (string, error)
}

// Estimated virtual sizes for fee calculation: fixed overhead plus one
// P2WPKH input and per-output cost.
const (
	vsizeOverhead  = 11
	vsizeInput     = 68
	vsizePerOutput = 31
)

// Builder implements ports.ChainTxBuilder and ports.ChainReader for one
// SegWit UTXO coin. Spends consume a single unspent input and produce
// recipient, platform-fee, optional broker-fee and change outputs.
type Builder struct {
	spec      domain.CoinSpec
	explorer  Explorer
	confDepth int64
	feeRate   int64 // sat/vB
	log       zerolog.Logger
}

// NewBuilder creates a builder for spec.
func NewBuilder(spec domain.CoinSpec, explorer Explorer, confDepth, feeRate int64, log zerolog.Logger) *Builder {
	return &Builder{
		spec:      spec,
		explorer:  explorer,
		confDepth: confDepth,
		feeRate:   feeRate,
		log:       log,
	}
}

// ConfirmedBalance sums unspent outputs at the configured confirmation
// depth, never the unconfirmed head.
func (b *Builder) ConfirmedBalance(ctx context.Context, _ string, address string) (decimal.Decimal, error) {
	tip, err := b.explorer.TipHeight(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tip height: %w", err)
	}
	unspent, err := b.explorer.ListUnspent(ctx, address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list unspent: %w", err)
	}
	var sats int64
	for _, u := range b.confirmedOnly(unspent, tip) {
		sats += u.Value
	}
	return decimal.New(sats, -b.spec.Decimals), nil
}

// BuildAndSend constructs, signs and broadcasts one spend.
// Insufficient input value is rejected locally before any broadcast. A
// node rejection is surfaced verbatim and never retried: a retry must
// restart UTXO selection in a fresh call.
func (b *Builder) BuildAndSend(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	amountSat := toSats(req.Amount, b.spec.Decimals)
	platformSat := toSats(req.PlatformFee, b.spec.Decimals)
	brokerSat := toSats(req.BrokerFee, b.spec.Decimals)
	if amountSat < dustThreshold {
		return nil, apperror.ErrInvalidAmount()
	}

	privBytes, err := hex.DecodeString(req.PrivateKeyHex)
	if err != nil || len(privBytes) != 32 {
		return nil, apperror.InternalError(fmt.Errorf("malformed private key material"))
	}
	priv, _ := btcec.PrivKeyFromBytes(privBytes)
	pubKey := priv.PubKey().SerializeCompressed()

	recipientScript, err := payToWitnessScript(req.To, b.spec.Bech32HRP)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(req.To)
	}
	changeScript, err := payToWitnessScript(req.FromAddress, b.spec.Bech32HRP)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(req.FromAddress)
	}

	// Count prospective outputs for the fee estimate: recipient, platform,
	// broker, change.
	numOuts := 2
	if platformSat > 0 && req.PlatformFeeAddress != "" {
		numOuts++
	}
	if brokerSat > 0 && req.BrokerFeeAddress != "" {
		numOuts++
	}
	minerFee := b.feeRate * int64(vsizeOverhead+vsizeInput+numOuts*vsizePerOutput)
	required := amountSat + platformSat + brokerSat + minerFee

	input, err := b.selectInput(ctx, req.FromAddress, required)
	if err != nil {
		return nil, err
	}

	tx := &msgTx{version: txVersion}
	prevTxID, err := parseTxID(input.TxID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	tx.ins = append(tx.ins, txIn{
		prevOut:  outPoint{txid: prevTxID, vout: input.Vout},
		sequence: defaultSeq,
	})

	tx.outs = append(tx.outs, txOut{value: amountSat, pkScript: recipientScript})
	burned := int64(0)

	if platformSat > 0 && req.PlatformFeeAddress != "" {
		script, err := payToWitnessScript(req.PlatformFeeAddress, b.spec.Bech32HRP)
		if err != nil {
			return nil, apperror.ErrInvalidAddress(req.PlatformFeeAddress)
		}
		if platformSat < dustThreshold {
			burned += platformSat
		} else {
			tx.outs = append(tx.outs, txOut{value: platformSat, pkScript: script})
		}
	}
	if brokerSat > 0 && req.BrokerFeeAddress != "" {
		script, err := payToWitnessScript(req.BrokerFeeAddress, b.spec.Bech32HRP)
		if err != nil {
			return nil, apperror.ErrInvalidAddress(req.BrokerFeeAddress)
		}
		if brokerSat < dustThreshold {
			burned += brokerSat
		} else {
			tx.outs = append(tx.outs, txOut{value: brokerSat, pkScript: script})
		}
	}

	change := input.Value - amountSat - platformSat - brokerSat - minerFee
	if change < 0 {
		return nil, apperror.ErrInsufficientFunds(b.spec.Symbol)
	}
	if change >= dustThreshold {
		tx.outs = append(tx.outs, txOut{value: change, pkScript: changeScript})
	} else {
		// Sub-dust change is burned to the miner fee, reported in FeePaid.
		burned += change
	}

	if err := b.sign(tx, priv, pubKey, input.Value); err != nil {
		return nil, apperror.InternalError(err)
	}

	rawHex := hex.EncodeToString(tx.serializeWitness())
	txid, err := b.explorer.Broadcast(ctx, rawHex)
	if err != nil {
		var rejected *BroadcastError
		if errors.As(err, &rejected) {
			return nil, apperror.ErrBroadcastRejected(rejected.NodeMessage)
		}
		return nil, apperror.ErrChainUnavailable(err)
	}
	if txid == "" {
		txid = tx.txID()
	}

	feePaid := minerFee + burned
	b.log.Info().
		Str("symbol", b.spec.Symbol).
		Str("txid", txid).
		Int64("fee_sat", feePaid).
		Int64("change_sat", change).
		Msg("utxo transfer broadcast")

	return &ports.TransferResult{
		TxHash:  txid,
		FeePaid: decimal.New(feePaid, -b.spec.Decimals),
	}, nil
}

// sign computes the BIP-143 digest for the single input, signs it with
// canonical low-S DER encoding, appends the sighash byte and assembles the
// two-item witness stack.
func (b *Builder) sign(tx *msgTx, priv *btcec.PrivateKey, pubKey []byte, inputValue int64) error {
	digest, err := tx.bip143SigHash(0, pubKey, inputValue)
	if err != nil {
		return fmt.Errorf("computing sighash: %w", err)
	}
	sig := ecdsa.Sign(priv, digest)
	der := append(sig.Serialize(), sigHashAll)
	tx.witness = [][][]byte{{der, pubKey}}
	return nil
}

// selectInput picks the smallest confirmed UTXO that alone covers the
// required value. Spends are single-input; a wallet fragmented below the
// requirement reports insufficient funds rather than building a
// multi-input spend.
func (b *Builder) selectInput(ctx context.Context, address string, required int64) (*Unspent, error) {
	tip, err := b.explorer.TipHeight(ctx)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("tip height: %w", err))
	}
	unspent, err := b.explorer.ListUnspent(ctx, address)
	if err != nil {
		return nil, apperror.ErrChainUnavailable(fmt.Errorf("list unspent: %w", err))
	}

	confirmed := b.confirmedOnly(unspent, tip)
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].Value < confirmed[j].Value })
	for i := range confirmed {
		if confirmed[i].Value >= required {
			return &confirmed[i], nil
		}
	}
	return nil, apperror.ErrInsufficientFunds(b.spec.Symbol)
}

func (b *Builder) confirmedOnly(unspent []Unspent, tip int64) []Unspent {
	out := make([]Unspent, 0, len(unspent))
	for _, u := range unspent {
		if u.BlockHeight == 0 {
			continue
		}
		if tip-u.BlockHeight+1 >= b.confDepth {
			out = append(out, u)
		}
	}
	return out
}

// toSats converts a display-unit amount to base units, truncating any
// sub-satoshi remainder.
func toSats(amount decimal.Decimal, decimals int32) int64 {
	return amount.Shift(decimals).IntPart()
}
