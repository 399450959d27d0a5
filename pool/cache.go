package pool

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/math"
)

// SolverCache memoises NewtonD. A backtest revisits the same reserves many
// times; the solver is pure, so its result can be reused.
type SolverCache struct {
	cache *ristretto.Cache
}

type cachedD struct {
	key [4]uint256.Int
	D   uint256.Int
}

func NewSolverCache(maxItems int64) (*SolverCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SolverCache{cache: c}, nil
}

// NewtonD returns math.NewtonD(ANN, gamma, x), from the cache when present.
// Failures are not cached.
func (s *SolverCache) NewtonD(ANN, gamma *uint256.Int, x [2]*uint256.Int) (*uint256.Int, error) {
	key := [4]uint256.Int{*ANN, *gamma, *x[0], *x[1]}
	h := hashKey(key)
	if v, ok := s.cache.Get(h); ok {
		// The entry carries its inputs so that a hash collision is a miss.
		if e := v.(*cachedD); e.key == key {
			return new(uint256.Int).Set(&e.D), nil
		}
	}

	D, err := math.NewtonD(ANN, gamma, x)
	if err != nil {
		return nil, err
	}
	s.cache.Set(h, &cachedD{key: key, D: *D}, 1)
	return D, nil
}

// Wait blocks until pending writes are visible to NewtonD.
func (s *SolverCache) Wait() {
	s.cache.Wait()
}

func (s *SolverCache) Close() {
	s.cache.Close()
}

func hashKey(key [4]uint256.Int) uint64 {
	d := xxhash.New()
	for i := range key {
		b := key[i].Bytes32()
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}
