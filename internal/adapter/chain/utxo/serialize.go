// Package utxo builds, signs and broadcasts SegWit transfers for UTXO
// chains (BTC, LTC). Serialization and the BIP-143 signature hash are
// computed manually against the raw wire format; this package is the
// canonical pattern other chain adapters follow.
package utxo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	txVersion     = 2
	segwitMarker  = 0x00
	segwitFlag    = 0x01
	defaultSeq    = 0xffffffff
	sigHashAll    = 0x01
	// dustThreshold: outputs below this are folded into the miner fee
	// rather than created. Sub-dust value is burned to fee, never silently
	// dropped from accounting.
	dustThreshold = 546
)

// outPoint references one unspent output being consumed.
type outPoint struct {
	txid [32]byte // internal byte order (reversed from display hex)
	vout uint32
}

// txIn is one transaction input. scriptSig stays empty for witness inputs.
type txIn struct {
	prevOut  outPoint
	sequence uint32
}

// txOut is one transaction output.
type txOut struct {
	value    int64 // satoshis
	pkScript []byte
}

// msgTx is a raw SegWit transaction under construction.
type msgTx struct {
	version  int32
	ins      []txIn
	outs     []txOut
	lockTime uint32
	// witness[i] is the witness stack for input i, populated by signing.
	witness [][][]byte
}

// parseTxID converts a display-order txid hex string into internal order.
func parseTxID(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("malformed txid %q", s)
	}
	// Display order is byte-reversed internal order.
	for i := 0; i < 32; i++ {
		out[i] = raw[31-i]
	}
	return out, nil
}

// writeVarInt encodes n in Bitcoin's variable-length integer format.
func writeVarInt(w *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		w.WriteByte(byte(n))
	case n <= 0xffff:
		w.WriteByte(0xfd)
		binary.Write(w, binary.LittleEndian, uint16(n)) //nolint:errcheck
	case n <= 0xffffffff:
		w.WriteByte(0xfe)
		binary.Write(w, binary.LittleEndian, uint32(n)) //nolint:errcheck
	default:
		w.WriteByte(0xff)
		binary.Write(w, binary.LittleEndian, n) //nolint:errcheck
	}
}

func writeUint32(w *bytes.Buffer, n uint32) {
	binary.Write(w, binary.LittleEndian, n) //nolint:errcheck
}

func writeInt64(w *bytes.Buffer, n int64) {
	binary.Write(w, binary.LittleEndian, n) //nolint:errcheck
}

// writeOutPoint serializes txid (internal order) and vout little-endian.
func writeOutPoint(w *bytes.Buffer, op outPoint) {
	w.Write(op.txid[:])
	writeUint32(w, op.vout)
}

func writeTxOut(w *bytes.Buffer, out txOut) {
	writeInt64(w, out.value)
	writeVarInt(w, uint64(len(out.pkScript)))
	w.Write(out.pkScript)
}

// serializeNoWitness produces the legacy encoding (no marker/flag, no
// witness data). Its hash256 is the txid.
func (tx *msgTx) serializeNoWitness() []byte {
	var buf bytes.Buffer
	writeUint32(&buf, uint32(tx.version))
	writeVarInt(&buf, uint64(len(tx.ins)))
	for _, in := range tx.ins {
		writeOutPoint(&buf, in.prevOut)
		writeVarInt(&buf, 0) // empty scriptSig for witness inputs
		writeUint32(&buf, in.sequence)
	}
	writeVarInt(&buf, uint64(len(tx.outs)))
	for _, out := range tx.outs {
		writeTxOut(&buf, out)
	}
	writeUint32(&buf, tx.lockTime)
	return buf.Bytes()
}

// serializeWitness produces the full SegWit encoding: the witness stacks
// are inserted between the locktime-stripped body and the locktime.
func (tx *msgTx) serializeWitness() []byte {
	var buf bytes.Buffer
	writeUint32(&buf, uint32(tx.version))
	buf.WriteByte(segwitMarker)
	buf.WriteByte(segwitFlag)
	writeVarInt(&buf, uint64(len(tx.ins)))
	for _, in := range tx.ins {
		writeOutPoint(&buf, in.prevOut)
		writeVarInt(&buf, 0)
		writeUint32(&buf, in.sequence)
	}
	writeVarInt(&buf, uint64(len(tx.outs)))
	for _, out := range tx.outs {
		writeTxOut(&buf, out)
	}
	for i := range tx.ins {
		stack := tx.witness[i]
		writeVarInt(&buf, uint64(len(stack)))
		for _, item := range stack {
			writeVarInt(&buf, uint64(len(item)))
			buf.Write(item)
		}
	}
	writeUint32(&buf, tx.lockTime)
	return buf.Bytes()
}

// txID returns the display-order transaction id of the signed transaction.
func (tx *msgTx) txID() string {
	h := chainhash.DoubleHashB(tx.serializeNoWitness())
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return hex.EncodeToString(h)
}

// payToWitnessScript builds the output script for a bech32 address under
// hrp. Witness versions 0 and 1 are accepted.
func payToWitnessScript(addr, hrp string) ([]byte, error) {
	gotHRP, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, fmt.Errorf("decoding address %q: %w", addr, err)
	}
	if gotHRP != hrp {
		return nil, fmt.Errorf("address %q is not a %s address", addr, hrp)
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("address %q has no witness version", addr)
	}
	version := data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("decoding witness program: %w", err)
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return nil, fmt.Errorf("invalid v0 witness program length %d", len(program))
	}

	script := make([]byte, 0, len(program)+2)
	if version == 0 {
		script = append(script, 0x00) // OP_0
	} else {
		script = append(script, 0x50+version) // OP_1 .. OP_16
	}
	script = append(script, byte(len(program)))
	script = append(script, program...)
	return script, nil
}
