package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedLevels fills a 2x2 block so that each row repeats a class level.
func stackedLevels(t *testing.T) *Layout {
	l := mustLayout(t, blockRoom("S", 2, 2))
	l.Assign(l.At(1, 1), stu("a", "10-A", "F"))
	l.Assign(l.At(1, 2), stu("b", "10-B", "F"))
	l.Assign(l.At(2, 1), stu("c", "11-A", "F"))
	l.Assign(l.At(2, 2), stu("d", "11-B", "F"))
	return l
}

// genderWall is a 1x3 block with the middle seat empty between a boy and a girl.
func genderWall(t *testing.T) *Layout {
	l := mustLayout(t, blockRoom("W", 1, 3))
	l.Assign(l.At(1, 1), stu("m", "10-A", "M"))
	l.Assign(l.At(1, 3), stu("f", "11-A", "F"))
	return l
}

func TestGreedyOptimizer_SwapRaisesCompliance(t *testing.T) {
	l := stackedLevels(t)
	require.Equal(t, 8, ComplianceScore(l))

	delta := NewGreedyOptimizer(GreedyOptions{}).Optimize(l)

	assert.Equal(t, 4.0, delta)
	assert.Equal(t, 12, ComplianceScore(l))
	assert.Equal(t, "c", l.At(1, 1).Occupant.ID)
	assert.Equal(t, "a", l.At(2, 1).Occupant.ID)
	assert.Equal(t, 1, l.At(1, 1).Occupant.Seat.Row)
}

func TestGreedyOptimizer_KeepsPinnedStudents(t *testing.T) {
	l := stackedLevels(t)
	for _, s := range l.Seats() {
		s.Occupant.Pinned = true
	}
	before := l.Snapshot()

	require.Zero(t, NewGreedyOptimizer(GreedyOptions{}).Optimize(l))
	require.Equal(t, before, l.Snapshot())
}

func TestGreedyOptimizer_FillRespectsGenderRule(t *testing.T) {
	l := genderWall(t)
	require.Zero(t, NewGreedyOptimizer(DefaultGreedyOptions()).Optimize(l))
	require.True(t, l.At(1, 2).Empty())
}

func TestGreedyOptimizer_FillMovesToBestSeat(t *testing.T) {
	l := mustLayout(t, blockRoom("M", 1, 3))
	l.Assign(l.At(1, 3), stu("s", "10-A", "F"))

	opt := NewGreedyOptimizer(GreedyOptions{MaxPasses: 1, RelocationCost: 1, FillBonus: 10, ConstraintBonus: 5})
	require.Zero(t, opt.Optimize(l))
	require.Equal(t, 1, len(l.Occupied()))
	require.NotNil(t, l.Find("s"))
	require.Equal(t, "greedy", opt.Name())
}

func TestGeneticOptimizer_NoValidMove(t *testing.T) {
	l := genderWall(t)
	before := l.Snapshot()

	delta := NewGeneticOptimizer(GeneticOptions{Population: 10, Generations: 5, Seed: 3}).Optimize(l)
	require.Zero(t, delta)
	require.Equal(t, before, l.Snapshot())
}

func TestGeneticOptimizer_AppliesValidMove(t *testing.T) {
	l := mustLayout(t, blockRoom("G", 1, 2))
	l.Assign(l.At(1, 1), stu("s", "10-A", "F"))

	NewGeneticOptimizer(GeneticOptions{Population: 4, Generations: 3, Seed: 1}).Optimize(l)
	require.Equal(t, 2, l.Find("s").Column)
	require.True(t, l.At(1, 1).Empty())
}

func TestGeneticOptimizer_DeterministicForSeed(t *testing.T) {
	base := mustLayout(t, blockRoom("D", 3, 3))
	for i, s := range cohort(3, "10-A", "11-A") {
		if i == 4 {
			continue
		}
		base.Assign(base.PriorityOrder()[i], s)
	}

	a, b := base.Clone(), base.Clone()
	opts := GeneticOptions{Population: 12, Generations: 20, Seed: 9}
	da := NewGeneticOptimizer(opts).Optimize(a)
	db := NewGeneticOptimizer(opts).Optimize(b)

	require.Equal(t, da, db)
	require.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestGeneticOptimizer_SkipsFullOrPinnedRooms(t *testing.T) {
	opt := NewGeneticOptimizer(DefaultGeneticOptions())
	require.Zero(t, opt.Optimize(stackedLevels(t)))

	l := mustLayout(t, blockRoom("P", 1, 2))
	pinned := stu("p", "10-A", "F")
	pinned.Pinned = true
	l.Assign(l.At(1, 1), pinned)
	require.Zero(t, opt.Optimize(l))
	require.NotNil(t, l.At(1, 1).Occupant)
	require.Equal(t, "genetic", opt.Name())
}

func TestNewOptimizer(t *testing.T) {
	opt, err := NewOptimizer("", DefaultGreedyOptions(), DefaultGeneticOptions())
	require.NoError(t, err)
	require.Nil(t, opt)

	opt, err = NewOptimizer(OptimizerGreedy, DefaultGreedyOptions(), DefaultGeneticOptions())
	require.NoError(t, err)
	require.IsType(t, &GreedyOptimizer{}, opt)

	opt, err = NewOptimizer(OptimizerGenetic, DefaultGreedyOptions(), DefaultGeneticOptions())
	require.NoError(t, err)
	require.IsType(t, &GeneticOptimizer{}, opt)

	_, err = NewOptimizer("annealing", DefaultGreedyOptions(), DefaultGeneticOptions())
	require.ErrorIs(t, err, ErrUnknownOptimizer)
}
