package wiener

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	cf, err := Expand(big.NewInt(40009), big.NewInt(98407))
	require.NoError(t, err)

	require.Equal(t, []int64{0, 2, 2, 5, 1, 2, 4, 6, 2, 18}, int64s(cf.Coefficients()))
	require.Equal(t, 10, cf.Len())
	require.Equal(t, "[0; 2, 2, 5, 1, 2, 4, 6, 2, 18]", cf.String())
}

func TestExpand_ToyKey(t *testing.T) {
	cf, err := Expand(big.NewInt(17993), big.NewInt(90581))
	require.NoError(t, err)
	require.Equal(t, []int64{0, 5, 29, 4, 1, 3, 2, 4, 3}, int64s(cf.Coefficients()))
}

func TestExpand_ZeroNumerator(t *testing.T) {
	cf, err := Expand(big.NewInt(0), big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, []int64{0}, int64s(cf.Coefficients()))
}

func TestExpand_InvalidDenominator(t *testing.T) {
	for _, den := range []int64{0, -7} {
		_, err := Expand(big.NewInt(5), big.NewInt(den))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidInput), "denominator %d: %v", den, err)
		require.False(t, errors.Is(err, ErrNotVulnerable))
	}
}

func TestExpand_InvalidNumerator(t *testing.T) {
	_, err := Expand(big.NewInt(-1), big.NewInt(3))
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Expand(nil, big.NewInt(3))
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestExpand_DoesNotAliasInputs(t *testing.T) {
	num, den := big.NewInt(40009), big.NewInt(98407)
	cf, err := Expand(num, den)
	require.NoError(t, err)

	require.Equal(t, int64(40009), num.Int64())
	require.Equal(t, int64(98407), den.Int64())

	// Mutating returned coefficients must not leak into the expansion.
	cf.Coefficients()[1].SetInt64(99)
	cf.Coefficient(1).SetInt64(99)
	require.Equal(t, int64(2), cf.Coefficient(1).Int64())
}

func TestConvergents(t *testing.T) {
	cf, err := Expand(big.NewInt(40009), big.NewInt(98407))
	require.NoError(t, err)

	expected := [][2]int64{
		{0, 1}, {1, 2}, {2, 5}, {11, 27}, {13, 32}, {37, 91},
		{161, 396}, {1003, 2467}, {2167, 5330}, {40009, 98407},
	}

	var got [][2]int64
	for _, c := range cf.ConvergentList() {
		got = append(got, [2]int64{c.K.Int64(), c.D.Int64()})
	}
	require.Equal(t, expected, got)
}

func TestConvergents_ResetReplaysSequence(t *testing.T) {
	cf, err := Expand(big.NewInt(17993), big.NewInt(90581))
	require.NoError(t, err)

	it := cf.Convergents()
	require.Equal(t, -1, it.Index())

	var first []Convergent
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		require.Equal(t, len(first), it.Index())
		first = append(first, c)
	}
	require.Len(t, first, cf.Len())

	_, ok := it.Next()
	require.False(t, ok)

	it.Reset()
	for i := 0; i < len(first); i++ {
		c, ok := it.Next()
		require.True(t, ok)
		require.Zero(t, c.K.Cmp(first[i].K))
		require.Zero(t, c.D.Cmp(first[i].D))
	}

	// Two iterators over the same expansion are independent.
	require.Equal(t, first, cf.ConvergentList())
}

func TestConvergents_Invariants(t *testing.T) {
	for _, pub := range loadTestKeys(t, "test_keys.json") {
		t.Run(pub.Label, func(t *testing.T) {
			cf, err := Expand(pub.E, pub.N)
			require.NoError(t, err)

			list := cf.ConvergentList()
			require.Len(t, list, cf.Len())

			gcd := new(big.Int)
			for i, c := range list {
				gcd.GCD(nil, nil, c.K, c.D)
				require.Zero(t, gcd.Cmp(one), "gcd(k_%d, d_%d) = %s", i, i, gcd)

				if i >= 2 {
					require.Equal(t, 1, c.D.Cmp(list[i-1].D), "d_%d must exceed d_%d", i, i-1)
				}
			}

			// The last convergent is e/N itself.
			last := list[len(list)-1]
			require.Zero(t, last.K.Cmp(pub.E))
			require.Zero(t, last.D.Cmp(pub.N))
		})
	}
}
