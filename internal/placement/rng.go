package placement

// Rand is the randomness the engine consumes. Implementations must be
// deterministic for a given seed.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// LCG is a 32-bit linear congruential generator.
type LCG struct {
	state uint32
}

// NewLCG seeds a generator. Equal seeds produce equal sequences.
func NewLCG(seed int64) *LCG {
	return &LCG{state: uint32(seed)}
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / lcgModulus
}

// Intn returns a value in [0, n). It returns 0 for n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}

// Shuffle permutes xs in place with a Fisher-Yates walk driven by r.
func Shuffle[T any](r Rand, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
