package wiener

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestVerifyCandidate(t *testing.T) {
	pub := toyKey()

	key := VerifyCandidate(pub.N, pub.E, big.NewInt(1), big.NewInt(5))
	require.NotNil(t, key)
	require.Equal(t, int64(5), key.D.Int64())
	require.Equal(t, int64(379), key.P.Int64())
	require.Equal(t, int64(239), key.Q.Int64())
	require.Equal(t, int64(90581), key.Modulus().Int64())
	require.Equal(t, int64(378*238), key.Phi().Int64())
}

func TestVerifyCandidate_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		n, e, k, d int64
	}{
		{"zero k", 90581, 17993, 0, 1},
		{"non-integer totient", 90581, 17993, 29, 146},
		{"non-square discriminant", 90581, 17993, 1, 4},
		{"negative discriminant", 15, 14, 1, 1},
		{"negative roots", 15, 25, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := VerifyCandidate(big.NewInt(tt.n), big.NewInt(tt.e), big.NewInt(tt.k), big.NewInt(tt.d))
			require.Nil(t, key)
		})
	}
}

func TestVerifyCandidate_DoesNotMutateInputs(t *testing.T) {
	n, e, k, d := big.NewInt(90581), big.NewInt(17993), big.NewInt(1), big.NewInt(5)
	key := VerifyCandidate(n, e, k, d)
	require.NotNil(t, key)

	key.D.SetInt64(7)
	require.Equal(t, int64(5), d.Int64())
	require.Equal(t, int64(90581), n.Int64())
	require.Equal(t, int64(17993), e.Int64())
	require.Equal(t, int64(1), k.Int64())
}

func TestVerifyRecoveredKey(t *testing.T) {
	pub := toyKey()
	key := &RecoveredKey{D: big.NewInt(5), P: big.NewInt(379), Q: big.NewInt(239)}

	verified, err := VerifyRecoveredKey(pub, key)
	require.NoError(t, err)
	require.True(t, verified)
}

func TestVerifyRecoveredKey_WrongKey(t *testing.T) {
	pub := toyKey()

	verified, err := VerifyRecoveredKey(pub, &RecoveredKey{D: big.NewInt(7), P: big.NewInt(379), Q: big.NewInt(239)})
	require.NoError(t, err)
	require.False(t, verified, "wrong d should not verify")

	verified, err = VerifyRecoveredKey(pub, &RecoveredKey{D: big.NewInt(5), P: big.NewInt(383), Q: big.NewInt(239)})
	require.NoError(t, err)
	require.False(t, verified, "wrong factors should not verify")
}

func TestVerifyRecoveredKey_InvalidInput(t *testing.T) {
	_, err := VerifyRecoveredKey(toyKey(), nil)
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = VerifyRecoveredKey(&PublicKey{N: big.NewInt(15), E: big.NewInt(15)}, &RecoveredKey{})
	require.True(t, errors.Is(err, ErrInvalidInput))
}
