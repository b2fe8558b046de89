package wiener

import (
	"context"

	"github.com/pkg/errors"
)

// firstCandidate is the index of the first convergent worth testing. The
// zeroth convergent is ⌊e/N⌋/1, which is 0/1 for any e < N.
const firstCandidate = 1

// Attack runs Wiener's attack against pub.
//
// It expands e/N as a continued fraction and tests each convergent k/d,
// starting at index 1, as a guess for the private exponent. By Wiener's
// theorem every key with d < N^¼/3 is found this way.
//
// Returns:
//   - The recovered key, ErrNotVulnerable if no convergent verifies, or
//     ErrInvalidInput for a malformed key
func Attack(pub *PublicKey) (*RecoveredKey, error) {
	result, err := scan(context.Background(), pub, 0)
	if err != nil {
		return nil, err
	}
	return result.Key, nil
}

// scan is the sequential attack loop. maxConvergents <= 0 scans the whole
// expansion.
func scan(ctx context.Context, pub *PublicKey, maxConvergents int) (*RecoveryResult, error) {
	if pub == nil || pub.N == nil || pub.E == nil {
		return nil, errors.Wrap(ErrInvalidInput, "public key is incomplete")
	}

	cf, err := Expand(pub.E, pub.N)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand e/N")
	}

	tried := 0
	it := cf.Convergents()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		idx := it.Index()
		if idx < firstCandidate {
			continue
		}
		if maxConvergents > 0 && idx > maxConvergents {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tried++
		if key := VerifyCandidate(pub.N, pub.E, c.K, c.D); key != nil {
			return &RecoveryResult{
				PublicKey:  pub,
				Key:        key,
				Convergent: c,
				Index:      idx,
				Tried:      tried,
			}, nil
		}
	}

	return nil, ErrNotVulnerable
}
