package wiener

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// AttackStrategy defines the interface for convergent search strategies.
// Implement this interface to plug a custom search into a Client.
type AttackStrategy interface {
	// Search scans the convergents of e/N for the private exponent.
	// It returns ErrNotVulnerable when no candidate verifies and
	// ErrInvalidInput for a malformed key. The context can be used for
	// cancellation.
	Search(ctx context.Context, pub *PublicKey) (*RecoveryResult, error)

	// Name returns a human-readable name for this strategy.
	Name() string
}

// ScanConfig configures how many convergents are tested and how.
type ScanConfig struct {
	// MaxConvergents limits the scan to indices 1..MaxConvergents (0 = all)
	MaxConvergents int

	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int
}

// DefaultScanConfig returns a configuration that scans the full expansion.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MaxConvergents: 0,
		NumWorkers:     0, // Auto-detect
	}
}

// SequentialStrategy tests convergents one at a time in index order.
type SequentialStrategy struct {
	ScanConfig ScanConfig
}

// NewSequentialStrategy creates a sequential strategy with default settings.
func NewSequentialStrategy() *SequentialStrategy {
	return &SequentialStrategy{ScanConfig: DefaultScanConfig()}
}

// WithScanConfig sets the scan configuration for the strategy.
func (s *SequentialStrategy) WithScanConfig(config ScanConfig) *SequentialStrategy {
	s.ScanConfig = config
	return s
}

// Name returns the name of this strategy.
func (s *SequentialStrategy) Name() string {
	return "Sequential"
}

// Search implements the AttackStrategy interface.
func (s *SequentialStrategy) Search(ctx context.Context, pub *PublicKey) (*RecoveryResult, error) {
	result, err := scan(ctx, pub, s.ScanConfig.MaxConvergents)
	if err != nil {
		return nil, err
	}
	result.Strategy = s.Name()
	return result, nil
}

// ParallelStrategy verifies convergents on a pool of workers. Convergents are
// independent of each other, so only generation is sequential. The match with
// the lowest index wins, which makes the result identical to
// SequentialStrategy.
type ParallelStrategy struct {
	ScanConfig ScanConfig
}

// NewParallelStrategy creates a parallel strategy with default settings.
func NewParallelStrategy() *ParallelStrategy {
	return &ParallelStrategy{ScanConfig: DefaultScanConfig()}
}

// WithScanConfig sets the scan configuration for the strategy.
func (s *ParallelStrategy) WithScanConfig(config ScanConfig) *ParallelStrategy {
	s.ScanConfig = config
	return s
}

// Name returns the name of this strategy.
func (s *ParallelStrategy) Name() string {
	return "Parallel"
}

type indexedConvergent struct {
	index int
	c     Convergent
}

// Search implements the AttackStrategy interface.
func (s *ParallelStrategy) Search(ctx context.Context, pub *PublicKey) (*RecoveryResult, error) {
	if pub == nil || pub.N == nil || pub.E == nil {
		return nil, errors.Wrap(ErrInvalidInput, "public key is incomplete")
	}

	cf, err := Expand(pub.E, pub.N)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand e/N")
	}

	numWorkers := s.ScanConfig.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	maxConvergents := s.ScanConfig.MaxConvergents

	// best holds the lowest index that verified so far; work above it is skipped.
	var best atomic.Int64
	best.Store(int64(cf.Len()))
	var tried atomic.Int64

	results := make([]*RecoveredKey, cf.Len())
	convergents := make([]Convergent, cf.Len())
	workChan := make(chan indexedConvergent, numWorkers*4)

	// Generate work
	go func() {
		defer close(workChan)
		it := cf.Convergents()
		for c, ok := it.Next(); ok; c, ok = it.Next() {
			idx := it.Index()
			if idx < firstCandidate {
				continue
			}
			if maxConvergents > 0 && idx > maxConvergents {
				return
			}
			if int64(idx) > best.Load() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case workChan <- indexedConvergent{index: idx, c: c}:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case work, ok := <-workChan:
					if !ok {
						return
					}
					if int64(work.index) > best.Load() {
						continue
					}
					tried.Add(1)
					key := VerifyCandidate(pub.N, pub.E, work.c.K, work.c.D)
					if key == nil {
						continue
					}
					// Each index is owned by exactly one worker.
					results[work.index] = key
					convergents[work.index] = work.c
					for {
						cur := best.Load()
						if int64(work.index) >= cur || best.CompareAndSwap(cur, int64(work.index)) {
							break
						}
					}
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for idx, key := range results {
		if key == nil {
			continue
		}
		return &RecoveryResult{
			PublicKey:  pub,
			Key:        key,
			Convergent: convergents[idx],
			Index:      idx,
			Tried:      int(tried.Load()),
			Strategy:   s.Name(),
		}, nil
	}
	return nil, ErrNotVulnerable
}
