// Package service ties a record store to the query engine and is the single
// entry point used by the CLI and the HTTP API.
package service

import (
	"context"
	"iter"
	"time"

	"github.com/okian/apexstats/internal/adapters/repository"
	"github.com/okian/apexstats/internal/domain/model"
	"github.com/okian/apexstats/internal/domain/stats"
	"github.com/okian/apexstats/pkg/logger"
	"github.com/okian/apexstats/pkg/metrics"
)

// Service records observations and answers queries over them.
type Service struct {
	store  repository.Store
	logger logger.Logger
	clock  func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. Without it the service keeps records in
// memory only.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, which stamps observations and anchors
// relative filters.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logger.Nop(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock() }

// Record validates o and appends it to the store. A zero RecordedAt is
// stamped with the service clock.
func (s *Service) Record(ctx context.Context, o model.Observation) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = s.clock()
	}
	if err := o.Validate(); err != nil {
		metrics.RecordError("service", "validation")
		return err
	}

	start := time.Now()
	err := s.store.Append(ctx, o)
	metrics.RecordAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordAppendError()
		s.logger.Error(ctx, "failed to append observation", logger.Error(err))
		return err
	}

	metrics.RecordObservation(o.Character.String(), o.Squad.String())
	s.logger.Info(ctx, "observation recorded",
		logger.String("character", o.Character.String()),
		logger.String("squad", o.Squad.String()),
		logger.Uint64("kills", o.Kills),
		logger.Uint64("damage", o.Damage),
		logger.Uint64("position", o.SquadPosition),
		logger.Time("recorded_at", o.RecordedAt),
	)
	return nil
}

// Query aggregates every stored observation matched by q. ok is false when
// nothing matched. A store read failure aborts the fold and is returned.
func (s *Service) Query(ctx context.Context, q stats.Query) (result stats.QueryResult, ok bool, err error) {
	start := time.Now()
	var scanned uint64

	result, ok = q.Execute(s.observations(ctx, &scanned, &err))
	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordQueryLatency(latencyMs)
	metrics.RecordRecordsScanned(scanned)

	switch {
	case err != nil:
		metrics.RecordQuery(metrics.OutcomeError)
		s.logger.Error(ctx, "query aborted by store read failure",
			logger.Uint64("scanned", scanned), logger.Error(err))
		return stats.QueryResult{}, false, err
	case !ok:
		metrics.RecordQuery(metrics.OutcomeNoData)
	default:
		metrics.RecordQuery(metrics.OutcomeMatch)
		metrics.RecordRecordsMatched(result.Matches)
	}

	s.logger.Debug(ctx, "query executed",
		logger.Bool("found", ok),
		logger.Uint64("scanned", scanned),
		logger.Uint64("matched", result.Matches),
		logger.Float64("latency_ms", latencyMs),
	)
	return result, ok, nil
}

// QueryFilter parses f against the service clock and runs the resulting query.
func (s *Service) QueryFilter(ctx context.Context, f stats.Filter) (stats.QueryResult, bool, error) {
	q, err := f.Query(s.clock())
	if err != nil {
		return stats.QueryResult{}, false, err
	}
	return s.Query(ctx, q)
}

// Observations returns the observations matched by q in insertion order. A
// positive limit keeps only the most recent limit matches.
func (s *Service) Observations(ctx context.Context, q stats.Query, limit int) ([]model.Observation, error) {
	var (
		scanned uint64
		err     error
		out     []model.Observation
	)
	for o := range q.Filter(s.observations(ctx, &scanned, &err)) {
		out = append(out, o)
	}
	metrics.RecordRecordsScanned(scanned)
	if err != nil {
		s.logger.Error(ctx, "listing aborted by store read failure", logger.Error(err))
		return nil, err
	}

	if limit > 0 && len(out) > limit {
		out = append([]model.Observation(nil), out[len(out)-limit:]...)
	}
	return out, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// observations adapts the store's fallible sequence into the plain sequence
// consumed by stats.Query. The first read error ends the sequence and is
// written to *errp.
func (s *Service) observations(ctx context.Context, scanned *uint64, errp *error) iter.Seq[model.Observation] {
	return func(yield func(model.Observation) bool) {
		for o, err := range s.store.Records(ctx) {
			if err != nil {
				metrics.RecordStoreReadError()
				*errp = err
				return
			}
			*scanned++
			if !yield(o) {
				return
			}
		}
	}
}
