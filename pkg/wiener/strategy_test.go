package wiener

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSequentialStrategy_Search(t *testing.T) {
	strategy := NewSequentialStrategy()
	require.Equal(t, "Sequential", strategy.Name())

	result, err := strategy.Search(context.Background(), toyKey())
	require.NoError(t, err)
	require.Equal(t, 1, result.Index)
	require.Equal(t, 1, result.Tried)
	require.Equal(t, int64(1), result.Convergent.K.Int64())
	require.Equal(t, int64(5), result.Convergent.D.Int64())
	require.Equal(t, "Sequential", result.Strategy)
}

func TestSequentialStrategy_MaxConvergents(t *testing.T) {
	keys := loadTestKeys(t, "test_keys.json")
	var pub *PublicKey
	for _, k := range keys {
		if k.Label == "vulnerable_512" {
			pub = k
		}
	}
	require.NotNil(t, pub)

	full, err := NewSequentialStrategy().Search(context.Background(), pub)
	require.NoError(t, err)
	require.Equal(t, 73, full.Index)

	limited := NewSequentialStrategy().WithScanConfig(ScanConfig{MaxConvergents: 10})
	_, err = limited.Search(context.Background(), pub)
	require.True(t, errors.Is(err, ErrNotVulnerable))

	exact := NewSequentialStrategy().WithScanConfig(ScanConfig{MaxConvergents: full.Index})
	result, err := exact.Search(context.Background(), pub)
	require.NoError(t, err)
	require.Zero(t, result.Key.D.Cmp(full.Key.D))
}

func TestParallelStrategy_MatchesSequential(t *testing.T) {
	parallel := NewParallelStrategy().WithScanConfig(ScanConfig{NumWorkers: 4})
	require.Equal(t, "Parallel", parallel.Name())

	for _, pub := range loadTestKeys(t, "test_keys.json") {
		t.Run(pub.Label, func(t *testing.T) {
			want, err := NewSequentialStrategy().Search(context.Background(), pub)
			require.NoError(t, err)

			got, err := parallel.Search(context.Background(), pub)
			require.NoError(t, err)

			require.Equal(t, want.Index, got.Index)
			require.Zero(t, got.Key.D.Cmp(want.Key.D))
			require.Zero(t, got.Key.P.Cmp(want.Key.P))
			require.Zero(t, got.Key.Q.Cmp(want.Key.Q))
			require.Zero(t, got.Convergent.K.Cmp(want.Convergent.K))
			require.Equal(t, "Parallel", got.Strategy)
		})
	}
}

func TestParallelStrategy_NotVulnerable(t *testing.T) {
	keys := loadTestKeys(t, "test_key_secure.json")

	_, err := NewParallelStrategy().Search(context.Background(), keys[0])
	require.True(t, errors.Is(err, ErrNotVulnerable))
}

func TestStrategies_InvalidInput(t *testing.T) {
	strategies := []AttackStrategy{NewSequentialStrategy(), NewParallelStrategy()}
	for _, s := range strategies {
		_, err := s.Search(context.Background(), &PublicKey{})
		require.True(t, errors.Is(err, ErrInvalidInput), s.Name())
	}
}

func TestStrategies_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategies := []AttackStrategy{NewSequentialStrategy(), NewParallelStrategy()}
	for _, s := range strategies {
		_, err := s.Search(ctx, toyKey())
		require.ErrorIs(t, err, context.Canceled, s.Name())
	}
}
