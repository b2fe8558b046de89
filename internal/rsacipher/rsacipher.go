// Package rsacipher implements PKCS#1 v1.5 (RFC 2313, block type 02)
// encryption on bare math/big exponents.
//
// crypto/rsa keeps the public exponent in an int, which cannot hold the
// e of a key with a small private exponent.
package rsacipher

import (
	"bytes"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// KeySize returns the length of the modulus in bytes, rounding up.
func KeySize(n *big.Int) int {
	return (n.BitLen() + 7) / 8
}

// Encrypt encrypts msg for the public key (n, e) and returns a ciphertext of
// KeySize(n) bytes.
func Encrypt(random io.Reader, n, e *big.Int, msg []byte) ([]byte, error) {
	keyLen := KeySize(n)
	if len(msg) > keyLen-11 {
		return nil, errors.Errorf("message is %d bytes, at most %d fit a %d-bit key", len(msg), keyLen-11, n.BitLen())
	}

	// EB = 00 || 02 || PS || 00 || D
	psLen := keyLen - len(msg) - 3
	eb := make([]byte, keyLen)
	eb[0] = 0x00
	eb[1] = 0x02

	// Fill PS with random non-zero bytes.
	for i := 2; i < 2+psLen; {
		if _, err := io.ReadFull(random, eb[i:i+1]); err != nil {
			return nil, errors.Wrap(err, "failed to read padding")
		}
		if eb[i] != 0x00 {
			i++
		}
	}
	eb[2+psLen] = 0x00
	copy(eb[3+psLen:], msg)

	m := new(big.Int).SetBytes(eb)
	c := new(big.Int).Exp(m, e, n)

	return c.FillBytes(make([]byte, keyLen)), nil
}

// Decrypt decrypts a ciphertext produced by Encrypt using the private
// exponent d.
func Decrypt(n, d *big.Int, ciphertext []byte) ([]byte, error) {
	keyLen := KeySize(n)
	if len(ciphertext) != keyLen {
		return nil, errors.Errorf("ciphertext is %d bytes, want %d", len(ciphertext), keyLen)
	}

	c := new(big.Int).SetBytes(ciphertext)
	if c.Cmp(n) >= 0 {
		return nil, errors.New("ciphertext out of range")
	}
	m := new(big.Int).Exp(c, d, n)
	eb := m.FillBytes(make([]byte, keyLen))

	if eb[0] != 0x00 || eb[1] != 0x02 {
		return nil, errors.New("decryption error: bad block type")
	}

	endPad := bytes.IndexByte(eb[2:], 0x00) + 2
	if endPad < 2 {
		return nil, errors.New("decryption error: end of padding not found")
	}

	return eb[endPad+1:], nil
}
