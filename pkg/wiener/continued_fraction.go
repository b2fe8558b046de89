package wiener

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ContinuedFraction holds the coefficients [a0; a1, ..., an] of a rational
// number. It is immutable once built by Expand.
type ContinuedFraction struct {
	coefficients []*big.Int
}

// Expand converts numerator/denominator into its continued fraction
// expansion using the Euclidean algorithm.
//
// Args:
//   - numerator: Non-negative numerator
//   - denominator: Positive denominator
//
// Returns:
//   - The coefficient sequence, or ErrInvalidInput for malformed operands
func Expand(numerator, denominator *big.Int) (ContinuedFraction, error) {
	if numerator == nil || denominator == nil {
		return ContinuedFraction{}, errors.Wrap(ErrInvalidInput, "nil operand")
	}
	if denominator.Sign() <= 0 {
		return ContinuedFraction{}, errors.Wrapf(ErrInvalidInput, "denominator must be positive, got %s", denominator)
	}
	if numerator.Sign() < 0 {
		return ContinuedFraction{}, errors.Wrapf(ErrInvalidInput, "numerator must be non-negative, got %s", numerator)
	}

	a := new(big.Int).Set(numerator)
	b := new(big.Int).Set(denominator)

	var coefficients []*big.Int
	for b.Sign() != 0 {
		q, r := new(big.Int).QuoRem(a, b, new(big.Int))
		coefficients = append(coefficients, q)
		a, b = b, r
	}

	return ContinuedFraction{coefficients: coefficients}, nil
}

// Len returns the number of coefficients.
func (cf ContinuedFraction) Len() int {
	return len(cf.coefficients)
}

// Coefficient returns a copy of the i-th coefficient.
func (cf ContinuedFraction) Coefficient(i int) *big.Int {
	return new(big.Int).Set(cf.coefficients[i])
}

// Coefficients returns a copy of the whole coefficient sequence.
func (cf ContinuedFraction) Coefficients() []*big.Int {
	out := make([]*big.Int, len(cf.coefficients))
	for i, a := range cf.coefficients {
		out[i] = new(big.Int).Set(a)
	}
	return out
}

// String formats the expansion as [a0; a1, a2, ...].
func (cf ContinuedFraction) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, a := range cf.coefficients {
		switch i {
		case 0:
		case 1:
			sb.WriteString("; ")
		default:
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Convergents returns a fresh iterator over the convergents of cf.
func (cf ContinuedFraction) Convergents() *ConvergentIterator {
	it := &ConvergentIterator{cf: cf}
	it.Reset()
	return it
}

// ConvergentList materializes every convergent of cf in index order.
func (cf ContinuedFraction) ConvergentList() []Convergent {
	out := make([]Convergent, 0, cf.Len())
	it := cf.Convergents()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		out = append(out, c)
	}
	return out
}

// ConvergentIterator yields the convergents k_i/d_i of a continued fraction
// using the recurrence
//
//	k_i = a_i·k_{i-1} + k_{i-2}
//	d_i = a_i·d_{i-1} + d_{i-2}
//
// seeded with k_{-1}=1, k_{-2}=0, d_{-1}=0, d_{-2}=1. Only the last two pairs
// are kept.
type ConvergentIterator struct {
	cf     ContinuedFraction
	next   int
	k1, k2 *big.Int // k_{i-1}, k_{i-2}
	d1, d2 *big.Int // d_{i-1}, d_{i-2}
}

// Reset rewinds the iterator to the first convergent.
func (it *ConvergentIterator) Reset() {
	it.next = 0
	it.k1, it.k2 = big.NewInt(1), big.NewInt(0)
	it.d1, it.d2 = big.NewInt(0), big.NewInt(1)
}

// Next returns the next convergent, or false once the sequence is exhausted.
func (it *ConvergentIterator) Next() (Convergent, bool) {
	if it.next >= len(it.cf.coefficients) {
		return Convergent{}, false
	}
	a := it.cf.coefficients[it.next]

	k := new(big.Int).Mul(a, it.k1)
	k.Add(k, it.k2)
	d := new(big.Int).Mul(a, it.d1)
	d.Add(d, it.d2)

	it.k2, it.k1 = it.k1, k
	it.d2, it.d1 = it.d1, d
	it.next++

	return Convergent{K: new(big.Int).Set(k), D: new(big.Int).Set(d)}, true
}

// Index returns the index of the convergent most recently returned by Next,
// or -1 before the first call.
func (it *ConvergentIterator) Index() int {
	return it.next - 1
}
