package placement

import "go.uber.org/zap"

// GreedyOptions tunes the greedy local search.
type GreedyOptions struct {
	MaxPasses       int     // Full fill+swap sweeps; the search stops early when a sweep changes nothing
	FillBonus       float64 // Reward for filling an empty seat
	RelocationCost  float64 // Penalty per Manhattan step a student is moved
	ConstraintBonus float64 // Reward when the destination also keeps the back-to-back rule
	Logger          *zap.Logger
}

// DefaultGreedyOptions returns a single-sweep configuration.
func DefaultGreedyOptions() GreedyOptions {
	return GreedyOptions{
		MaxPasses:       1,
		FillBonus:       10,
		RelocationCost:  1,
		ConstraintBonus: 5,
	}
}

// GreedyOptimizer fills empty seats with the best single move each, then
// sweeps every seat once trying compliance-improving swaps with its eight
// surrounding seats. It is a first-improvement search and does not
// revisit earlier swaps within a sweep.
type GreedyOptimizer struct {
	opts   GreedyOptions
	logger *zap.Logger
}

// NewGreedyOptimizer creates a GreedyOptimizer. Zero option fields take
// their defaults.
func NewGreedyOptimizer(opts GreedyOptions) *GreedyOptimizer {
	def := DefaultGreedyOptions()
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = def.MaxPasses
	}
	if opts.FillBonus == 0 {
		opts.FillBonus = def.FillBonus
	}
	if opts.RelocationCost == 0 {
		opts.RelocationCost = def.RelocationCost
	}
	if opts.ConstraintBonus == 0 {
		opts.ConstraintBonus = def.ConstraintBonus
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GreedyOptimizer{opts: opts, logger: logger}
}

func (g *GreedyOptimizer) Name() string { return OptimizerGreedy }

// Optimize runs up to MaxPasses sweeps over grid.
func (g *GreedyOptimizer) Optimize(grid *Layout) float64 {
	before := ComplianceScore(grid)
	for pass := 0; pass < g.opts.MaxPasses; pass++ {
		moves := g.fill(grid)
		swaps := g.swap(grid)
		g.logger.Debug("greedy sweep",
			zap.String("room_id", grid.RoomID()),
			zap.Int("pass", pass+1),
			zap.Int("moves", moves),
			zap.Int("swaps", swaps),
		)
		if moves+swaps == 0 {
			break
		}
	}
	return float64(ComplianceScore(grid) - before)
}

// fill applies, for each seat empty at the start of the sweep, the single
// move with the highest positive benefit.
func (g *GreedyOptimizer) fill(grid *Layout) int {
	moves := 0
	for _, dst := range grid.EmptySeats() {
		if dst.Occupant != nil {
			continue
		}
		var best *Seat
		bestBenefit := 0.0
		for _, src := range movable(grid) {
			if b := g.moveBenefit(grid, src, dst); b > bestBenefit {
				best, bestBenefit = src, b
			}
		}
		if best != nil && grid.Move(best, dst) {
			moves++
		}
	}
	return moves
}

// moveBenefit scores relocating the occupant of src onto dst. The
// validators skip the student's own seat, so src needs no vacating.
func (g *GreedyOptimizer) moveBenefit(grid *Layout, src, dst *Seat) float64 {
	c := evaluate(*src.Occupant, dst, grid)
	if !c.gender || !c.sideBySide {
		return 0
	}
	benefit := g.opts.FillBonus - g.opts.RelocationCost*float64(manhattan(src, dst))
	if c.backToBack {
		benefit += g.opts.ConstraintBonus
	}
	return benefit
}

// swap tries, for every seat holding an unpinned student, a swap with each occupied seat of
// its 8-neighborhood and keeps the first one that raises ComplianceScore.
func (g *GreedyOptimizer) swap(grid *Layout) int {
	swaps := 0
	for _, seat := range movable(grid) {
		for _, c := range SurroundingNeighbors(grid, seat.Row, seat.Column) {
			other := grid.At(c.Row, c.Column)
			if other.Occupant == nil || other.Occupant.Pinned || seat.Occupant == nil {
				continue
			}
			before := ComplianceScore(grid)
			grid.Swap(seat, other)
			if ComplianceScore(grid) > before {
				swaps++
				break
			}
			grid.Swap(seat, other)
		}
	}
	return swaps
}
