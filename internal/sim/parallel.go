package sim

import (
	"context"
	"sync"
)

// WorldFactory builds an independent world for one ensemble member.
type WorldFactory func(seed int64) (*World, error)

// Ensemble runs the same scenario under consecutive seeds in parallel.
type Ensemble struct {
	build     WorldFactory
	setup     func(*Simulator)
	numRuns   int
	seedStart int64
}

// NewEnsemble returns an ensemble of numRuns members. setup, when non-nil,
// attaches metrics and observers to each member's Simulator; they must not
// be shared between members.
func NewEnsemble(build WorldFactory, setup func(*Simulator), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, setup: setup, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			s := New(w)
			if e.setup != nil {
				e.setup(s)
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
