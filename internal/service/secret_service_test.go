package service

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAESKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestAESSecretStore_RoundTrip(t *testing.T) {
	store, err := NewAESSecretStore(testAESKey, PostureProduction, zerolog.Nop())
	require.NoError(t, err)

	plaintext := "abandon ability able about above absent absorb abstract absurd abuse access accident"
	ciphertext, err := store.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "abandon")

	got, err := store.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESSecretStore_FreshNoncePerEncrypt(t *testing.T) {
	store, err := NewAESSecretStore(testAESKey, PostureProduction, zerolog.Nop())
	require.NoError(t, err)

	a, err := store.Encrypt("same secret")
	require.NoError(t, err)
	b, err := store.Encrypt("same secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESSecretStore_ProductionRefusesEmptyKey(t *testing.T) {
	_, err := NewAESSecretStore("", PostureProduction, zerolog.Nop())
	require.Error(t, err)
}

func TestAESSecretStore_DevelopmentGeneratesThrowawayKey(t *testing.T) {
	store, err := NewAESSecretStore("", PostureDevelopment, zerolog.Nop())
	require.NoError(t, err)

	ciphertext, err := store.Encrypt("ephemeral")
	require.NoError(t, err)
	got, err := store.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", got)
}

func TestAESSecretStore_RejectsMalformedKey(t *testing.T) {
	_, err := NewAESSecretStore("not-hex", PostureProduction, zerolog.Nop())
	require.Error(t, err)

	// 16 bytes, AES-128 size. Only 32-byte keys are accepted.
	_, err = NewAESSecretStore(strings.Repeat("ab", 16), PostureProduction, zerolog.Nop())
	require.Error(t, err)
}

func TestAESSecretStore_TamperedCiphertext(t *testing.T) {
	store, err := NewAESSecretStore(testAESKey, PostureProduction, zerolog.Nop())
	require.NoError(t, err)

	ciphertext, err := store.Encrypt("integrity matters")
	require.NoError(t, err)

	raw, err := hex.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = store.Decrypt(hex.EncodeToString(raw))
	require.Error(t, err)
}

func TestAESSecretStore_CiphertextTooShort(t *testing.T) {
	store, err := NewAESSecretStore(testAESKey, PostureProduction, zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Decrypt("abcd")
	require.Error(t, err)

	_, err = store.Decrypt("zz-not-hex")
	require.Error(t, err)
}

func TestAESSecretStore_WrongKeyCannotDecrypt(t *testing.T) {
	first, err := NewAESSecretStore(testAESKey, PostureProduction, zerolog.Nop())
	require.NoError(t, err)
	second, err := NewAESSecretStore(strings.Repeat("ff", 32), PostureProduction, zerolog.Nop())
	require.NoError(t, err)

	ciphertext, err := first.Encrypt("cross-key")
	require.NoError(t, err)

	_, err = second.Decrypt(ciphertext)
	require.Error(t, err)
}
