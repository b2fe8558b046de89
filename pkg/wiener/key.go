package wiener

import (
	"math/big"

	"github.com/pkg/errors"
)

var one = big.NewInt(1)

// PublicKey represents an RSA public key (N, e).
// This is the core input type used throughout the package.
type PublicKey struct {
	N     *big.Int // Modulus
	E     *big.Int // Public exponent
	Label string   // Optional name taken from the key source
}

// Validate checks that N > 0 and 1 < e < N.
func (pub *PublicKey) Validate() error {
	if pub == nil || pub.N == nil || pub.E == nil {
		return errors.Wrap(ErrInvalidInput, "public key is incomplete")
	}
	if pub.N.Sign() <= 0 {
		return errors.Wrapf(ErrInvalidInput, "modulus must be positive, got %s", pub.N)
	}
	if pub.E.Cmp(one) <= 0 || pub.E.Cmp(pub.N) >= 0 {
		return errors.Wrap(ErrInvalidInput, "public exponent must satisfy 1 < e < N")
	}
	return nil
}

// RecoveredKey is the private material recovered from a vulnerable public key.
type RecoveredKey struct {
	D *big.Int // Private exponent
	P *big.Int // Larger prime factor
	Q *big.Int // Smaller prime factor
}

// Modulus returns p·q.
func (k *RecoveredKey) Modulus() *big.Int {
	return new(big.Int).Mul(k.P, k.Q)
}

// Phi returns the totient (p-1)(q-1).
func (k *RecoveredKey) Phi() *big.Int {
	pm := new(big.Int).Sub(k.P, one)
	qm := new(big.Int).Sub(k.Q, one)
	return pm.Mul(pm, qm)
}

// Convergent is the rational approximation K/D obtained by truncating a
// continued fraction.
type Convergent struct {
	K *big.Int // Numerator, the candidate for k in e·d = k·φ(N) + 1
	D *big.Int // Denominator, the candidate for d
}

// RecoveryResult contains the result of a key recovery operation.
type RecoveryResult struct {
	PublicKey  *PublicKey    // The attacked key
	Key        *RecoveredKey // Recovered private material
	Convergent Convergent    // The convergent k/d that verified
	Index      int           // Index of that convergent in the expansion of e/N
	Tried      int           // Number of candidates handed to the verifier
	Verified   bool          // Whether e·d ≡ 1 (mod φ(N)) was confirmed
	Strategy   string        // Name of the strategy that found the key
}
