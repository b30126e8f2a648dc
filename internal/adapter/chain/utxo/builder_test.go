package utxo

import (
	"bytes"
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	"github.com/btcsuite/btcd/btcec/v2"
	ecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExplorer is an in-memory Explorer.
type fakeExplorer struct {
	tip        int64
	tipErr     error
	unspent    []Unspent
	unspentErr error

	broadcastErr   error
	broadcastCount int
	lastRaw        string
}

func (f *fakeExplorer) TipHeight(_ context.Context) (int64, error) {
	return f.tip, f.tipErr
}

func (f *fakeExplorer) ListUnspent(_ context.Context, _ string) ([]Unspent, error) {
	return f.unspent, f.unspentErr
}

func (f *fakeExplorer) Broadcast(_ context.Context, rawHex string) (string, error) {
	f.broadcastCount++
	f.lastRaw = rawHex
	if f.broadcastErr != nil {
		return "", f.broadcastErr
	}
	return "", nil // builder derives the txid itself
}

// testKeypair derives a deterministic key and its P2WPKH address under hrp.
func testKeypair(t *testing.T, seed byte, hrp string) (*btcec.PrivateKey, []byte, string) {
	t.Helper()
	raw := bytes.Repeat([]byte{seed}, 32)
	priv, _ := btcec.PrivKeyFromBytes(raw)
	pub := priv.PubKey().SerializeCompressed()

	program := hash160(pub)
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode(hrp, append([]byte{0}, converted...))
	require.NoError(t, err)
	return priv, pub, addr
}

func btcSpec() domain.CoinSpec {
	spec, _ := domain.Coin("BTC")
	return spec
}

func newTestBuilder(explorer Explorer) *Builder {
	return NewBuilder(btcSpec(), explorer, 3, 2, zerolog.Nop())
}

func txid(seed string) string {
	return strings.Repeat(seed, 32)
}

func TestBuilder_ConfirmedBalance_RespectsDepth(t *testing.T) {
	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			{TxID: txid("11"), Vout: 0, Value: 50_000, BlockHeight: 98},  // 3 confirmations: counted
			{TxID: txid("22"), Vout: 1, Value: 30_000, BlockHeight: 99},  // 2 confirmations: excluded
			{TxID: txid("33"), Vout: 0, Value: 20_000, BlockHeight: 0},   // mempool: excluded
			{TxID: txid("44"), Vout: 2, Value: 10_000, BlockHeight: 50},  // deep: counted
		},
	}
	b := newTestBuilder(explorer)

	balance, err := b.ConfirmedBalance(context.Background(), "BTC", "bc1qwhatever")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.New(60_000, -8)), balance.String())
}

func TestBuilder_BuildAndSend_SignatureValidAgainstBIP143(t *testing.T) {
	priv, pub, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")
	_, _, platformAddr := testKeypair(t, 0x03, "bc")

	inputValue := int64(1_000_000)
	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			{TxID: txid("ab"), Vout: 1, Value: inputValue, BlockHeight: 90},
		},
	}
	b := newTestBuilder(explorer)

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:             "BTC",
		FromAddress:        fromAddr,
		PrivateKeyHex:      hex.EncodeToString(priv.Serialize()),
		To:                 toAddr,
		Amount:             decimal.New(500_000, -8),
		PlatformFeeAddress: platformAddr,
		PlatformFee:        decimal.New(10_000, -8),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, explorer.broadcastCount)
	assert.NotEmpty(t, result.TxHash)

	// recipient + platform + change outputs at 2 sat/vB:
	// vsize = 11 + 68 + 3*31 = 172, miner fee = 344 sat
	assert.True(t, result.FeePaid.Equal(decimal.New(344, -8)), result.FeePaid.String())

	raw, err := hex.DecodeString(explorer.lastRaw)
	require.NoError(t, err)
	var parsed wire.MsgTx
	require.NoError(t, parsed.Deserialize(bytes.NewReader(raw)))

	require.Len(t, parsed.TxIn, 1)
	wantHash, err := chainhash.NewHashFromStr(txid("ab"))
	require.NoError(t, err)
	assert.Equal(t, *wantHash, parsed.TxIn[0].PreviousOutPoint.Hash)
	assert.Equal(t, uint32(1), parsed.TxIn[0].PreviousOutPoint.Index)
	require.Len(t, parsed.TxOut, 3)
	assert.Equal(t, int64(500_000), parsed.TxOut[0].Value)
	assert.Equal(t, int64(10_000), parsed.TxOut[1].Value)
	assert.Equal(t, inputValue-500_000-10_000-344, parsed.TxOut[2].Value)

	// Recompute the BIP-143 digest with an independent implementation and
	// verify the witness signature against it.
	pkh := hash160(pub)
	scriptCode := append([]byte{0x76, 0xa9, 0x14}, pkh...)
	scriptCode = append(scriptCode, 0x88, 0xac)

	prevScript, err := payToWitnessScript(fromAddr, "bc")
	require.NoError(t, err)
	fetcher := txscript.NewCannedPrevOutputFetcher(prevScript, inputValue)
	sigHashes := txscript.NewTxSigHashes(&parsed, fetcher)
	digest, err := txscript.CalcWitnessSigHash(scriptCode, sigHashes, txscript.SigHashAll, &parsed, 0, inputValue)
	require.NoError(t, err)

	witness := parsed.TxIn[0].Witness
	require.Len(t, witness, 2)
	assert.Equal(t, pub, []byte(witness[1]))
	require.Equal(t, byte(sigHashAll), witness[0][len(witness[0])-1])
	sig, err := ecdsa.ParseDERSignature(witness[0][:len(witness[0])-1])
	require.NoError(t, err)
	assert.True(t, sig.Verify(digest, priv.PubKey()), "signature must validate against the BIP-143 digest")
}

func TestBuilder_BuildAndSend_PicksSmallestSufficientInput(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")

	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			{TxID: txid("aa"), Vout: 0, Value: 2_000_000, BlockHeight: 90},
			{TxID: txid("bb"), Vout: 0, Value: 600_000, BlockHeight: 90},
			{TxID: txid("cc"), Vout: 0, Value: 400_000, BlockHeight: 90},
		},
	}
	b := newTestBuilder(explorer)

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            toAddr,
		Amount:        decimal.New(500_000, -8),
	})
	require.NoError(t, err)

	raw, err := hex.DecodeString(explorer.lastRaw)
	require.NoError(t, err)
	var parsed wire.MsgTx
	require.NoError(t, parsed.Deserialize(bytes.NewReader(raw)))

	wantHash, err := chainhash.NewHashFromStr(txid("bb"))
	require.NoError(t, err)
	assert.Equal(t, *wantHash, parsed.TxIn[0].PreviousOutPoint.Hash,
		"the smallest input covering the spend wins, not the largest")
}

func TestBuilder_BuildAndSend_SubDustChangeBurnedToFee(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")

	// recipient + change outputs: vsize = 11 + 68 + 2*31 = 141, fee = 282.
	// Input leaves 100 sat of change, below dust.
	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			{TxID: txid("dd"), Vout: 0, Value: 500_000 + 282 + 100, BlockHeight: 90},
		},
	}
	b := newTestBuilder(explorer)

	result, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            toAddr,
		Amount:        decimal.New(500_000, -8),
	})
	require.NoError(t, err)

	raw, err := hex.DecodeString(explorer.lastRaw)
	require.NoError(t, err)
	var parsed wire.MsgTx
	require.NoError(t, parsed.Deserialize(bytes.NewReader(raw)))

	require.Len(t, parsed.TxOut, 1, "sub-dust change must not produce an output")
	assert.True(t, result.FeePaid.Equal(decimal.New(282+100, -8)),
		"burned change is accounted in FeePaid, not dropped")
}

func TestBuilder_BuildAndSend_InsufficientFunds(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")

	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			// Large enough but unconfirmed; confirmed ones are too small.
			{TxID: txid("aa"), Vout: 0, Value: 10_000_000, BlockHeight: 0},
			{TxID: txid("bb"), Vout: 0, Value: 100_000, BlockHeight: 90},
		},
	}
	b := newTestBuilder(explorer)

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            toAddr,
		Amount:        decimal.New(500_000, -8),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientFunds, apperror.KindOf(err))
	assert.Zero(t, explorer.broadcastCount, "nothing may reach the network on a failed pre-flight")
}

func TestBuilder_BuildAndSend_DustAmountRejected(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")

	b := newTestBuilder(&fakeExplorer{tip: 100})

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            toAddr,
		Amount:        decimal.New(100, -8), // below dust
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestBuilder_BuildAndSend_BroadcastRejected(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, toAddr := testKeypair(t, 0x02, "bc")

	explorer := &fakeExplorer{
		tip: 100,
		unspent: []Unspent{
			{TxID: txid("ee"), Vout: 0, Value: 1_000_000, BlockHeight: 90},
		},
		broadcastErr: &BroadcastError{NodeMessage: "txn-mempool-conflict"},
	}
	b := newTestBuilder(explorer)

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            toAddr,
		Amount:        decimal.New(500_000, -8),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "txn-mempool-conflict")
	assert.Equal(t, 1, explorer.broadcastCount, "a node rejection is never retried")
}

func TestBuilder_BuildAndSend_WrongNetworkAddressRejected(t *testing.T) {
	priv, _, fromAddr := testKeypair(t, 0x01, "bc")
	_, _, ltcAddr := testKeypair(t, 0x02, "ltc")

	b := newTestBuilder(&fakeExplorer{tip: 100})

	_, err := b.BuildAndSend(context.Background(), ports.TransferRequest{
		Symbol:        "BTC",
		FromAddress:   fromAddr,
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		To:            ltcAddr,
		Amount:        decimal.New(500_000, -8),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
