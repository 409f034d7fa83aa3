// Package experiment runs reactor networks end to end: validation,
// integration, scaling, optional persistence and logging.
package experiment

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/reactorsim/internal/logging"
	"github.com/san-kum/reactorsim/internal/metrics"
	"github.com/san-kum/reactorsim/internal/reactor"
	"github.com/san-kum/reactorsim/internal/storage"
)

// Named is a parameter set with the label it is reported under.
type Named struct {
	Name   string
	Params reactor.Params
}

type Outcome struct {
	Name    string
	Params  reactor.Params
	Series  *reactor.TimeSeries
	Scale   float64
	Metrics map[string]float64
	RunID   string
	Elapsed time.Duration
}

type Experiment struct {
	logger *zap.Logger
	store  *storage.Store
	limit  int
}

type Option func(*Experiment)

// WithStore saves every successful run to st.
func WithStore(st *storage.Store) Option {
	return func(e *Experiment) { e.store = st }
}

// WithLimit caps how many runs RunAll executes at once. Zero means no cap.
func WithLimit(n int) Option {
	return func(e *Experiment) { e.limit = n }
}

func New(logger *zap.Logger, opts ...Option) *Experiment {
	e := &Experiment{logger: logging.OrNop(logger)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) Run(ctx context.Context, name string, p reactor.Params) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := e.logger.With(zap.String("run", name))
	log.Debug("integrating",
		zap.Int("samples", p.StepCount()),
		zap.Float64("dt", p.DeltaT),
		zap.Float64("t_final", p.TFinal))

	start := time.Now()
	ts, err := reactor.Integrate(p)
	if err != nil {
		log.Warn("run rejected", zap.Error(err))
		return nil, err
	}

	out := &Outcome{
		Name:    name,
		Params:  p,
		Series:  ts,
		Scale:   reactor.ScaleFor(ts),
		Metrics: metrics.Evaluate(ts, reactor.NewNetwork(p).Inputs(), metrics.Default(p)...),
		Elapsed: time.Since(start),
	}

	if e.store != nil {
		id, err := e.store.Save(name, p, ts, out.Scale, out.Metrics)
		if err != nil {
			log.Error("failed to save run", zap.Error(err))
			return nil, err
		}
		out.RunID = id
	}

	log.Info("run complete",
		zap.Int("samples", ts.Len()),
		zap.Float64("scale", out.Scale),
		zap.Float64("settling_time", out.Metrics["settling_time"]),
		zap.String("run_id", out.RunID),
		zap.Duration("elapsed", out.Elapsed))
	return out, nil
}

// RunAll runs every set concurrently. Outcomes keep the order of sets; the
// first error cancels the remaining runs and is returned.
func (e *Experiment) RunAll(ctx context.Context, sets []Named) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(sets))

	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, set := range sets {
		g.Go(func() error {
			out, err := e.Run(gctx, set.Name, set.Params)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
