package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// EngineConfig carries the placement defaults used when a request does not
// override them.
type EngineConfig struct {
	Seed            int64   `validate:"gte=0"`
	Optimizer       string  `validate:"oneof=none greedy genetic"`
	GreedyMaxPasses int     `validate:"gte=1,lte=50"`
	Population      int     `validate:"gte=2"`
	Generations     int     `validate:"gte=1"`
	CrossoverRate   float64 `validate:"gt=0,lte=1"` // The engine reads 0 as its default
	MutationRate    float64 `validate:"gt=0,lte=1"`
}

func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Seed:            1,
		Optimizer:       "greedy",
		GreedyMaxPasses: 1,
		Population:      50,
		Generations:     100,
		CrossoverRate:   0.8,
		MutationRate:    0.1,
	}
}

// NewEngineConfig reads the PLACEMENT_*, GREEDY_* and GA_* variables on top
// of the defaults and validates the result.
func NewEngineConfig() (*EngineConfig, error) {
	cfg := DefaultEngineConfig()
	seed, err := getInt("PLACEMENT_SEED", int(cfg.Seed))
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)
	cfg.Optimizer = get("PLACEMENT_OPTIMIZER", cfg.Optimizer)
	if cfg.GreedyMaxPasses, err = getInt("GREEDY_MAX_PASSES", cfg.GreedyMaxPasses); err != nil {
		return nil, err
	}
	if cfg.Population, err = getInt("GA_POPULATION", cfg.Population); err != nil {
		return nil, err
	}
	if cfg.Generations, err = getInt("GA_GENERATIONS", cfg.Generations); err != nil {
		return nil, err
	}
	if cfg.CrossoverRate, err = getFloat("GA_CROSSOVER_RATE", cfg.CrossoverRate); err != nil {
		return nil, err
	}
	if cfg.MutationRate, err = getFloat("GA_MUTATION_RATE", cfg.MutationRate); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}
