package placement

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunOptions configures one end-to-end placement run.
type RunOptions struct {
	Seed      int64
	Weights   *WeightProfile // nil ranks by static priority plus neighbor compatibility
	Optimizer Optimizer      // nil skips optimization
}

// Outcome is the final state of a run.
type Outcome struct {
	Results  []*PlacementResult
	Unplaced []Student
	Pins     []PinOutcome
	Report   *StatsReport
}

// Run distributes students over the active rooms, places every room
// concurrently, enforces pins, optimizes each room and builds the report.
// Results keep the order of the active rooms.
func (p *Planner) Run(ctx context.Context, students []Student, rooms []Room, opts RunOptions) (*Outcome, error) {
	if opts.Weights != nil {
		if err := opts.Weights.Validate(); err != nil {
			return nil, err
		}
		w := *opts.Weights
		w.Normalize()
		opts.Weights = &w
	}

	active := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Active {
			active = append(active, r)
		}
	}
	pools := p.DistributePool(students, active, opts.Seed)

	results := make([]*PlacementResult, len(pools))
	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range pools {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.PlaceRoom(active[i], pool.Students, opts.Seed, opts.Weights)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("place rooms: %w", err)
	}

	unplaced, pins := p.EnforcePinned(results, CollectUnplaced(results), students)

	if opts.Optimizer != nil {
		for _, r := range results {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.OptimizationScore = opts.Optimizer.Optimize(r.Layout)
			p.logger.Info("room optimized",
				zap.String("room_id", r.RoomID),
				zap.String("optimizer", opts.Optimizer.Name()),
				zap.Float64("delta", r.OptimizationScore),
			)
		}
	}

	return &Outcome{
		Results:  results,
		Unplaced: unplaced,
		Pins:     pins,
		Report:   BuildReport(results, unplaced),
	}, nil
}
