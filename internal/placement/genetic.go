package placement

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
)

// GeneticOptions tunes the genetic search. Zero or negative numeric fields
// take the DefaultGeneticOptions value.
type GeneticOptions struct {
	Population     int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	EliteFraction  float64
	TournamentSize int
	Seed           int64
	Rand           Rand // Overrides Seed when set
	Logger         *zap.Logger
}

// DefaultGeneticOptions returns a population of 50 run for 100 generations.
func DefaultGeneticOptions() GeneticOptions {
	return GeneticOptions{
		Population:     50,
		Generations:    100,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		EliteFraction:  0.1,
		TournamentSize: 3,
		Seed:           1,
	}
}

const (
	fitnessValidFill   = 100
	fitnessCompliance  = 20
	fitnessInvalidMove = -50
	fitnessLocality    = 10
)

// GeneticOptimizer evolves assignments of empty seats to source seats and
// applies the fittest assignment seen in any generation.
type GeneticOptimizer struct {
	opts   GeneticOptions
	logger *zap.Logger
}

// NewGeneticOptimizer creates a GeneticOptimizer. Zero option fields take
// their defaults.
func NewGeneticOptimizer(opts GeneticOptions) *GeneticOptimizer {
	def := DefaultGeneticOptions()
	if opts.Population <= 0 {
		opts.Population = def.Population
	}
	if opts.Generations <= 0 {
		opts.Generations = def.Generations
	}
	if opts.CrossoverRate <= 0 {
		opts.CrossoverRate = def.CrossoverRate
	}
	if opts.MutationRate <= 0 {
		opts.MutationRate = def.MutationRate
	}
	if opts.EliteFraction <= 0 {
		opts.EliteFraction = def.EliteFraction
	}
	if opts.TournamentSize <= 0 {
		opts.TournamentSize = def.TournamentSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneticOptimizer{opts: opts, logger: logger}
}

func (g *GeneticOptimizer) Name() string { return OptimizerGenetic }

// chromosome maps the i-th empty seat to an index into the occupied seats.
type chromosome struct {
	genes   []int
	fitness int
}

// Optimize evolves the population and applies the best chromosome, moving
// only students whose move still passes the gender and side-by-side rules.
func (g *GeneticOptimizer) Optimize(grid *Layout) float64 {
	empty := grid.EmptySeats()
	occupied := movable(grid)
	if len(empty) == 0 || len(occupied) == 0 {
		return 0
	}
	rng := g.opts.Rand
	if rng == nil {
		rng = NewLCG(g.opts.Seed)
	}
	before := ComplianceScore(grid)

	pop := make([]chromosome, g.opts.Population)
	for i := range pop {
		genes := make([]int, len(empty))
		for j := range genes {
			genes[j] = rng.Intn(len(occupied))
		}
		pop[i] = chromosome{genes: genes, fitness: scoreGenes(grid, empty, occupied, genes)}
	}
	best := fittest(pop)

	elite := max(1, int(float64(g.opts.Population)*g.opts.EliteFraction))
	for gen := 0; gen < g.opts.Generations; gen++ {
		slices.SortStableFunc(pop, func(a, b chromosome) int { return cmp.Compare(b.fitness, a.fitness) })

		next := make([]chromosome, 0, len(pop))
		next = append(next, pop[:min(elite, len(pop))]...)
		for len(next) < len(pop) {
			a := g.tournament(pop, rng)
			b := g.tournament(pop, rng)
			genes := slices.Clone(a.genes)
			if rng.Float64() < g.opts.CrossoverRate {
				for i := range genes {
					if rng.Float64() < 0.5 {
						genes[i] = b.genes[i]
					}
				}
			}
			if rng.Float64() < g.opts.MutationRate {
				genes[rng.Intn(len(genes))] = rng.Intn(len(occupied))
			}
			next = append(next, chromosome{genes: genes, fitness: scoreGenes(grid, empty, occupied, genes)})
		}
		pop = next

		if c := fittest(pop); c.fitness > best.fitness {
			best = c
		}
	}

	moves := applyGenes(grid, empty, occupied, best.genes)
	delta := float64(ComplianceScore(grid) - before)
	g.logger.Debug("genetic search finished",
		zap.String("room_id", grid.RoomID()),
		zap.Int("best_fitness", best.fitness),
		zap.Int("moves", moves),
		zap.Float64("delta", delta),
	)
	return delta
}

func (g *GeneticOptimizer) tournament(pop []chromosome, rng Rand) chromosome {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < g.opts.TournamentSize; i++ {
		if c := pop[rng.Intn(len(pop))]; c.fitness > best.fitness {
			best = c
		}
	}
	return best
}

func fittest(pop []chromosome) chromosome {
	best := pop[0]
	for _, c := range pop[1:] {
		if c.fitness > best.fitness {
			best = c
		}
	}
	return chromosome{genes: slices.Clone(best.genes), fitness: best.fitness}
}

// scoreGenes scores every proposed move against the current grid. A source
// used twice counts as an invalid move.
func scoreGenes(grid *Layout, empty, occupied []*Seat, genes []int) int {
	used := make(map[int]bool, len(genes))
	total := 0
	for i, src := range genes {
		if used[src] {
			total += fitnessInvalidMove
			continue
		}
		used[src] = true
		c := evaluate(*occupied[src].Occupant, empty[i], grid)
		if !c.gender || !c.sideBySide {
			total += fitnessInvalidMove
			continue
		}
		total += fitnessValidFill
		if c.backToBack {
			total += fitnessCompliance
		}
		total += max(0, fitnessLocality-manhattan(occupied[src], empty[i]))
	}
	return total
}

// applyGenes performs the moves of genes, re-checking each against the grid as
// it changes.
func applyGenes(grid *Layout, empty, occupied []*Seat, genes []int) int {
	moves := 0
	used := make(map[int]bool, len(genes))
	for i, src := range genes {
		if used[src] {
			continue
		}
		used[src] = true
		from, to := occupied[src], empty[i]
		if from.Occupant == nil || to.Occupant != nil {
			continue
		}
		c := evaluate(*from.Occupant, to, grid)
		if !c.gender || !c.sideBySide {
			continue
		}
		if grid.Move(from, to) {
			moves++
		}
	}
	return moves
}
