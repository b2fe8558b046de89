// Package keygen builds RSA keypairs for demonstrations and test vectors.
// None of these keys are fit for real use.
package keygen

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// MinBits is the smallest modulus size GenerateVulnerable accepts.
const MinBits = 32

const maxRetries = 100

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Key holds a full RSA keypair with its factors.
type Key struct {
	N *big.Int
	E *big.Int
	D *big.Int
	P *big.Int // Larger factor
	Q *big.Int // Smaller factor
}

// Phi returns (p-1)(q-1).
func (k *Key) Phi() *big.Int {
	return totient(k.P, k.Q)
}

// GenerateVulnerable generates a keypair whose private exponent satisfies
// Wiener's bound: q < p < 2q and d < N^¼/3. e is the inverse of d, so it is
// about as large as N.
func GenerateVulnerable(random io.Reader, bits int) (*Key, error) {
	if bits < MinBits || bits%2 != 0 {
		return nil, errors.Errorf("modulus size must be an even number of bits >= %d, got %d", MinBits, bits)
	}

	for retry := 0; retry < maxRetries; retry++ {
		p, q, err := primePair(random, bits)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).Mul(p, q)
		phi := totient(p, q)

		// bound = ⌊N^¼⌋ / 3
		bound := new(big.Int).Sqrt(n)
		bound.Sqrt(bound)
		bound.Div(bound, big.NewInt(3))
		if bound.Cmp(big.NewInt(4)) < 0 {
			continue
		}

		// d is drawn from [bound/2, bound) so it is small but not trivially so.
		half := new(big.Int).Rsh(bound, 1)
		d, err := rand.Int(random, half)
		if err != nil {
			return nil, errors.Wrap(err, "failed to draw private exponent")
		}
		d.Add(d, half)
		d.SetBit(d, 0, 1)
		if d.Cmp(bound) >= 0 || new(big.Int).GCD(nil, nil, d, phi).Cmp(one) != 0 {
			continue
		}

		e := new(big.Int).ModInverse(d, phi)
		if e == nil || e.Cmp(one) <= 0 {
			continue
		}

		return &Key{N: n, E: e, D: d, P: p, Q: q}, nil
	}

	return nil, errors.Errorf("failed to generate a %d-bit vulnerable key after %d attempts", bits, maxRetries)
}

// GenerateStandard generates a keypair with e = 65537, as recommended by
// PKCS#1. Its d is about as large as N, so Wiener's attack does not apply.
func GenerateStandard(random io.Reader, bits int) (*Key, error) {
	if bits < MinBits || bits%2 != 0 {
		return nil, errors.Errorf("modulus size must be an even number of bits >= %d, got %d", MinBits, bits)
	}

	e := big.NewInt(65537)
	for retry := 0; retry < maxRetries; retry++ {
		p, q, err := primePair(random, bits)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).Mul(p, q)

		// Calculate the modular multiplicative inverse of e such that:
		//   de = 1 (mod totient)
		d := new(big.Int).ModInverse(e, totient(p, q))
		if d == nil || d.Cmp(n) >= 0 {
			continue
		}

		return &Key{N: n, E: new(big.Int).Set(e), D: d, P: p, Q: q}, nil
	}

	return nil, errors.Errorf("failed to generate a %d-bit key after %d attempts", bits, maxRetries)
}

// primePair returns distinct primes p > q of bits/2 bits each with p < 2q and
// p·q exactly bits long.
func primePair(random io.Reader, bits int) (*big.Int, *big.Int, error) {
	for retry := 0; retry < maxRetries; retry++ {
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to generate prime")
		}
		q, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to generate prime")
		}

		switch p.Cmp(q) {
		case 0:
			continue
		case -1:
			p, q = q, p
		}
		if p.Cmp(new(big.Int).Mul(q, two)) >= 0 {
			continue
		}
		if new(big.Int).Mul(p, q).BitLen() != bits {
			continue
		}
		return p, q, nil
	}
	return nil, nil, errors.New("failed to find a balanced prime pair")
}

// totient computes (p-1)(q-1).
func totient(p, q *big.Int) *big.Int {
	pminus := new(big.Int).Sub(p, one)
	qminus := new(big.Int).Sub(q, one)
	return pminus.Mul(pminus, qminus)
}
