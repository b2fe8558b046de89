package wiener

import (
	"math/big"

	"github.com/pkg/errors"
)

// VerifyCandidate tests the convergent k/d as a guess for the private exponent.
//
// If k/d is right then φ = (e·d - 1)/k is the totient and p, q are the roots of
// x² - (N - φ + 1)x + N = 0. The roots are taken from the discriminant
// directly, no factoring search is done.
//
// Args:
//   - n, e: The public key
//   - k, d: Candidate numerator and denominator
//
// Returns:
//   - The recovered key if every check passes, nil otherwise
func VerifyCandidate(n, e, k, d *big.Int) *RecoveredKey {
	if k.Sign() == 0 {
		return nil
	}

	// φ = (e·d - 1) / k must be exact
	ed := new(big.Int).Mul(e, d)
	ed.Sub(ed, one)
	phi, rem := new(big.Int).QuoRem(ed, k, new(big.Int))
	if rem.Sign() != 0 {
		return nil
	}

	// S = N - φ + 1 = p + q
	s := new(big.Int).Sub(n, phi)
	s.Add(s, one)

	// D = S² - 4N
	disc := new(big.Int).Mul(s, s)
	disc.Sub(disc, new(big.Int).Lsh(n, 2))
	if disc.Sign() < 0 {
		return nil
	}

	root := new(big.Int).Sqrt(disc)
	if new(big.Int).Mul(root, root).Cmp(disc) != 0 {
		return nil
	}

	p := new(big.Int).Add(s, root)
	q := new(big.Int).Sub(s, root)
	if q.Sign() <= 0 || p.Bit(0) != 0 {
		return nil
	}
	p.Rsh(p, 1)
	q.Rsh(q, 1)

	if new(big.Int).Mul(p, q).Cmp(n) != 0 {
		return nil
	}

	return &RecoveredKey{
		D: new(big.Int).Set(d),
		P: p,
		Q: q,
	}
}

// VerifyRecoveredKey verifies that a recovered key matches the given public key.
//
// Returns:
//   - True if p·q = N and e·d ≡ 1 (mod (p-1)(q-1)), false otherwise
func VerifyRecoveredKey(pub *PublicKey, key *RecoveredKey) (bool, error) {
	if err := pub.Validate(); err != nil {
		return false, err
	}
	if key == nil || key.D == nil || key.P == nil || key.Q == nil {
		return false, errors.Wrap(ErrInvalidInput, "recovered key is incomplete")
	}

	if key.Modulus().Cmp(pub.N) != 0 {
		return false, nil
	}

	phi := key.Phi()
	if phi.Sign() <= 0 {
		return false, nil
	}
	ed := new(big.Int).Mul(pub.E, key.D)
	return ed.Mod(ed, phi).Cmp(one) == 0, nil
}
