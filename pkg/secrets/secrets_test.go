package secrets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmahdy/jofotara-api/pkg/secrets"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestStore_SealOpenRoundTrip(t *testing.T) {
	store, err := secrets.NewStore(testKeyHex)
	require.NoError(t, err)

	sealed, err := store.Seal("Gj5nS9wyYHRadaVffz5VKB4v4wlVWyPh")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "Gj5nS9wy", "ciphertext must not leak the plaintext")

	plain, err := store.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "Gj5nS9wyYHRadaVffz5VKB4v4wlVWyPh", plain)
}

func TestStore_SealIsNotDeterministic(t *testing.T) {
	store, err := secrets.NewStore(testKeyHex)
	require.NoError(t, err)

	a, _ := store.Seal("same secret")
	b, _ := store.Seal("same secret")
	assert.NotEqual(t, a, b, "a fresh nonce must be used per Seal")
}

func TestStore_OpenRejectsWrongKey(t *testing.T) {
	store, err := secrets.NewStore(testKeyHex)
	require.NoError(t, err)
	sealed, err := store.Seal("secret-key")
	require.NoError(t, err)

	otherKey := strings.Repeat("ff", 32)
	other, err := secrets.NewStore(otherKey)
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err, "decryption under a different key must fail, never degrade")
}

func TestStore_MissingKey(t *testing.T) {
	store, err := secrets.NewStore("")
	require.NoError(t, err)

	_, err = store.Seal("x")
	assert.ErrorIs(t, err, secrets.ErrNoKey)
	_, err = store.Open("x")
	assert.ErrorIs(t, err, secrets.ErrNoKey)
}

func TestNewStore_RejectsBadKeys(t *testing.T) {
	_, err := secrets.NewStore("not-hex")
	assert.Error(t, err)

	_, err = secrets.NewStore("abcd") // 2 bytes
	assert.Error(t, err)
}
