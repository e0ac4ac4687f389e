package placement

import (
	"fmt"

	"github.com/samber/lo"
)

// Optimizer refines a placed room in place by relocating seated students
// into empty seats. Optimize returns the change in ComplianceScore. An
// Optimizer must not be run concurrently on the same Layout.
type Optimizer interface {
	Name() string
	Optimize(grid *Layout) float64
}

// Optimizer names accepted by NewOptimizer.
const (
	OptimizerNone    = "none"
	OptimizerGreedy  = "greedy"
	OptimizerGenetic = "genetic"
)

// NewOptimizer returns the optimizer registered under name. "none" and the
// empty name yield a nil Optimizer.
func NewOptimizer(name string, greedy GreedyOptions, genetic GeneticOptions) (Optimizer, error) {
	switch name {
	case "", OptimizerNone:
		return nil, nil
	case OptimizerGreedy:
		return NewGreedyOptimizer(greedy), nil
	case OptimizerGenetic:
		return NewGeneticOptimizer(genetic), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, name)
}

func manhattan(a, b *Seat) int {
	return abs(a.Row-b.Row) + abs(a.Column-b.Column)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// movable returns the occupied seats whose student may be relocated.
// Pinned students never move.
func movable(grid *Layout) []*Seat {
	return lo.Reject(grid.Occupied(), func(s *Seat, _ int) bool { return s.Occupant.Pinned })
}
