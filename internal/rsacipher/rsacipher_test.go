package rsacipher

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/rsa-wiener/internal/keygen"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := keygen.GenerateVulnerable(rand.Reader, 512)
	require.NoError(t, err)

	for _, msg := range []string{"", "Attack at dawn", strings.Repeat("x", KeySize(key.N)-11)} {
		ciphertext, err := Encrypt(rand.Reader, key.N, key.E, []byte(msg))
		require.NoError(t, err)
		require.Len(t, ciphertext, KeySize(key.N))

		plaintext, err := Decrypt(key.N, key.D, ciphertext)
		require.NoError(t, err)
		require.Equal(t, msg, string(plaintext))
	}
}

func TestEncrypt_MessageTooLong(t *testing.T) {
	key, err := keygen.GenerateStandard(rand.Reader, 256)
	require.NoError(t, err)

	_, err = Encrypt(rand.Reader, key.N, key.E, make([]byte, KeySize(key.N)-10))
	require.Error(t, err)
}

func TestDecrypt_Invalid(t *testing.T) {
	key, err := keygen.GenerateStandard(rand.Reader, 256)
	require.NoError(t, err)

	_, err = Decrypt(key.N, key.D, []byte{1, 2, 3})
	require.Error(t, err)

	// A wrong exponent yields a block without the 00 02 header.
	ciphertext, err := Encrypt(rand.Reader, key.N, key.E, []byte("hello"))
	require.NoError(t, err)
	_, err = Decrypt(key.N, key.E, ciphertext)
	require.Error(t, err)
}
