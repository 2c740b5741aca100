// Package batch runs independent sparse operations concurrently.
//
// Every engine instance is single threaded; parallelism comes from running
// several of them at once, bounded by Config.Workers. Inputs are only read,
// so one polynomial may appear in several jobs.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathanmweiss/go-mpoly"
)

// Pair is one multiplication job.
type Pair[T any] struct {
	A, B *mpoly.Poly[T]
}

// Reduction is one ideal division job: A reduced by Divisors.
type Reduction[T any] struct {
	A        *mpoly.Poly[T]
	Divisors []*mpoly.Poly[T]
}

// Reduced holds the outcome of a Reduction.
type Reduced[T any] struct {
	Quotients []*mpoly.Poly[T]
	Remainder *mpoly.Poly[T]
}

func newGroup(ctx context.Context, cfg mpoly.Config) (*errgroup.Group, context.Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	return g, gctx, nil
}

// MulAll returns the products of every pair, in order. The first failing job
// cancels those not yet started.
func MulAll[T any](ctx context.Context, cfg mpoly.Config, pc *mpoly.Context[T], pairs []Pair[T]) ([]*mpoly.Poly[T], error) {
	g, gctx, err := newGroup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]*mpoly.Poly[T], len(pairs))
	log := mpoly.Logger()

	for i, pr := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			p := pc.NewPoly()
			if err := pc.Mul(p, pr.A, pr.B); err != nil {
				return fmt.Errorf("product %d: %w", i, err)
			}

			log.Debug().Int("job", i).Int("terms", p.Len()).Msg("product done")
			out[i] = p

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// DivRemAll reduces every job, in order.
func DivRemAll[T any](ctx context.Context, cfg mpoly.Config, pc *mpoly.Context[T], jobs []Reduction[T]) ([]Reduced[T], error) {
	g, gctx, err := newGroup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]Reduced[T], len(jobs))
	log := mpoly.Logger()

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			qs := make([]*mpoly.Poly[T], len(job.Divisors))
			for k := range qs {
				qs[k] = pc.NewPoly()
			}

			r := pc.NewPoly()
			if err := pc.DivRemIdeal(qs, r, job.A, job.Divisors); err != nil {
				return fmt.Errorf("reduction %d: %w", i, err)
			}

			log.Debug().Int("job", i).Int("remainder_terms", r.Len()).Msg("reduction done")
			out[i] = Reduced[T]{Quotients: qs, Remainder: r}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
