package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"escrow-custody-gateway/internal/core/domain"
	"escrow-custody-gateway/internal/core/ports"
	"escrow-custody-gateway/pkg/apperror"

	bip39 "github.com/bisoncraft/go-bip39"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"
)

// ChainAddressFactory implements ports.AddressFactory. Derivation is a pure
// function of (master secret, coin symbol): the bip39 seed of the mnemonic
// is stretched per coin derivation path with HMAC-SHA512 and the first 32
// bytes become the secp256k1 scalar. Tokens reuse the parent chain's
// keypair and address with no independent derivation.
type ChainAddressFactory struct{}

// NewChainAddressFactory creates the factory.
func NewChainAddressFactory() *ChainAddressFactory {
	return &ChainAddressFactory{}
}

// GenerateMasterSecret produces a fresh 24-word mnemonic master secret.
func (f *ChainAddressFactory) GenerateMasterSecret() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("generating entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("building mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Derive returns the keypair and public address for (masterSecret, symbol).
// An unsupported symbol is an explicit error, never a fallback address.
func (f *ChainAddressFactory) Derive(masterSecret, symbol string) (ports.Derived, error) {
	spec, ok := domain.Coin(symbol)
	if !ok {
		return ports.Derived{}, apperror.ErrUnsupportedCoin(symbol)
	}

	if spec.IsToken() {
		// Same keypair and address as the parent chain.
		parent, err := f.Derive(masterSecret, spec.Parent)
		if err != nil {
			return ports.Derived{}, err
		}
		parent.DerivationPath = spec.DerivationPath
		return parent, nil
	}

	priv := deriveKey(masterSecret, spec.DerivationPath)

	var address string
	var err error
	switch spec.Family {
	case domain.FamilyUTXO:
		address, err = p2wpkhAddress(priv.PubKey().SerializeCompressed(), spec.Bech32HRP)
	case domain.FamilyAccount:
		address = ethcrypto.PubkeyToAddress(priv.ToECDSA().PublicKey).Hex()
	default:
		err = apperror.ErrUnsupportedCoin(symbol)
	}
	if err != nil {
		return ports.Derived{}, err
	}

	return ports.Derived{
		Address:        address,
		PrivateKeyHex:  hex.EncodeToString(priv.Serialize()),
		DerivationPath: spec.DerivationPath,
	}, nil
}

// deriveKey stretches the bip39 seed along the coin's derivation path.
// Not a BIP-32 tree: one fixed path per chain is all custody needs.
func deriveKey(masterSecret, path string) *btcec.PrivateKey {
	seed := bip39.NewSeed(masterSecret, "")
	mac := hmac.New(sha512.New, seed)
	mac.Write([]byte(path))
	sum := mac.Sum(nil)
	priv, _ := btcec.PrivKeyFromBytes(sum[:32])
	return priv
}

// p2wpkhAddress encodes a version-0 witness program for the compressed
// public key under the chain's bech32 HRP.
func p2wpkhAddress(compressedPub []byte, hrp string) (string, error) {
	program := hash160(compressedPub)

	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("converting witness program bits: %w", err)
	}
	addr, err := bech32.Encode(hrp, append([]byte{0x00}, converted...))
	if err != nil {
		return "", fmt.Errorf("encoding bech32 address: %w", err)
	}
	return addr, nil
}

// hash160 is RIPEMD160(SHA256(b)), the P2WPKH witness program.
func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}
