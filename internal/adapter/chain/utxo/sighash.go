package utxo

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"
)

// bip143SigHash computes the BIP-143 signature digest for input idx, which
// must be a P2WPKH input worth inputValue satoshis held by pubKey.
//
// The preimage is, in order: nVersion, hashPrevouts, hashSequence, the
// outpoint being spent, the scriptCode rebuilt from the public-key hash,
// the input value, nSequence, hashOutputs, nLockTime and the sighash type.
// Order and inclusion are exact; any deviation yields a signature the
// network rejects (or worse, one valid against the wrong input).
func (tx *msgTx) bip143SigHash(idx int, pubKeyCompressed []byte, inputValue int64) ([]byte, error) {
	if idx < 0 || idx >= len(tx.ins) {
		return nil, fmt.Errorf("input index %d out of range for %d inputs", idx, len(tx.ins))
	}

	// hashPrevouts: hash256 of all outpoints.
	var prevouts bytes.Buffer
	for _, in := range tx.ins {
		writeOutPoint(&prevouts, in.prevOut)
	}
	hashPrevouts := chainhash.DoubleHashB(prevouts.Bytes())

	// hashSequence: hash256 of all input sequences.
	var sequences bytes.Buffer
	for _, in := range tx.ins {
		writeUint32(&sequences, in.sequence)
	}
	hashSequence := chainhash.DoubleHashB(sequences.Bytes())

	// hashOutputs: hash256 of all serialized outputs.
	var outputs bytes.Buffer
	for _, out := range tx.outs {
		writeTxOut(&outputs, out)
	}
	hashOutputs := chainhash.DoubleHashB(outputs.Bytes())

	// scriptCode for P2WPKH: the canonical P2PKH script over the pubkey
	// hash, length-prefixed.
	pkh := hash160(pubKeyCompressed)
	scriptCode := make([]byte, 0, 26)
	scriptCode = append(scriptCode, 0x19)                   // script length
	scriptCode = append(scriptCode, 0x76, 0xa9, 0x14)       // DUP HASH160 PUSH20
	scriptCode = append(scriptCode, pkh...)
	scriptCode = append(scriptCode, 0x88, 0xac) // EQUALVERIFY CHECKSIG

	var preimage bytes.Buffer
	writeUint32(&preimage, uint32(tx.version))
	preimage.Write(hashPrevouts)
	preimage.Write(hashSequence)
	writeOutPoint(&preimage, tx.ins[idx].prevOut)
	preimage.Write(scriptCode)
	writeInt64(&preimage, inputValue)
	writeUint32(&preimage, tx.ins[idx].sequence)
	preimage.Write(hashOutputs)
	writeUint32(&preimage, tx.lockTime)
	writeUint32(&preimage, sigHashAll)

	return chainhash.DoubleHashB(preimage.Bytes()), nil
}

// hash160 is RIPEMD160(SHA256(b)).
func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}
