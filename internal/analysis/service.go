package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cleared-dev/reclass/internal/id"
	"github.com/cleared-dev/reclass/internal/model"
)

// Dataset is a named record set, typically one extract file.
type Dataset struct {
	Name    string
	Records []model.AccountRecord
}

// Service runs analyses with a fixed set of options, memoizing results by
// dataset digest. Returned analyses are shared and must not be mutated.
type Service struct {
	opts    Options
	limit   int
	compute func([]model.AccountRecord, Options) Analysis

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*Analysis
}

// NewService returns a service. limit caps the datasets analyzed at once by
// AnalyzeAll; zero or less means no cap.
func NewService(opts Options, limit int) *Service {
	return &Service{
		opts:    opts.withDefaults(),
		limit:   limit,
		compute: Analyze,
		cache:   make(map[string]*Analysis),
	}
}

// Options returns the options the service analyzes with.
func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) cached(key string) (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.cache[key]
	return a, ok
}

// Analyze returns the analysis of ds. Concurrent calls for the same records
// share one computation.
func (s *Service) Analyze(ctx context.Context, ds Dataset) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := id.Dataset(ds.Records)
	logger := zerolog.Ctx(ctx).With().
		Str("dataset", ds.Name).
		Str("digest", id.Short(key)).
		Logger()

	if a, ok := s.cached(key); ok {
		logger.Debug().Msg("analysis cache hit")
		return a, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		if a, ok := s.cached(key); ok {
			return a, nil
		}
		a := s.compute(ds.Records, s.opts)
		s.mu.Lock()
		s.cache[key] = &a
		s.mu.Unlock()
		return &a, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", ds.Name, res.Err)
		}
		a := res.Val.(*Analysis)
		logger.Debug().
			Int("records", len(ds.Records)).
			Bool("shared", res.Shared).
			Bool("balanced", a.Diagnostics.Balanced).
			Msg("analysis done")
		return a, nil
	}
}

// AnalyzeAll analyzes datasets in parallel. Results are in input order.
func (s *Service) AnalyzeAll(ctx context.Context, datasets []Dataset) ([]*Analysis, error) {
	out := make([]*Analysis, len(datasets))

	g, ctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for i, ds := range datasets {
		i, ds := i, ds
		g.Go(func() error {
			a, err := s.Analyze(ctx, ds)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
