package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPriority(t *testing.T) {
	w := DefaultWeightProfile()

	full := stu("a", "10-A", "F")
	full.MedicalNeed = true
	full.KeepWithGroup = true
	full.AcademicGroup = "science"
	assert.InDelta(t, 74.0, StaticPriority(full, w), 1e-9)

	assert.InDelta(t, 10.0, StaticPriority(Student{ID: "bare"}, w), 1e-9)
	assert.InDelta(t, 17.0, StaticPriority(stu("b", "11-B", "M"), w), 1e-9)

	disabled := Student{ID: "d", Disability: true}
	assert.InDelta(t, 40.0, StaticPriority(disabled, w), 1e-9)
}

func TestNeighborCompatibility_RewardsDifference(t *testing.T) {
	l := mustLayout(t, blockRoom("S", 1, 3))
	l.Assign(l.At(1, 1), stu("n", "10-A", "M"))
	seat := l.At(1, 2)

	assert.Equal(t, 4.0, NeighborCompatibility(stu("c", "11-A", "F"), seat, l))
	assert.Equal(t, 1.0, NeighborCompatibility(stu("c", "10-A", "M"), seat, l))
	assert.Equal(t, 3.0, NeighborCompatibility(stu("c", "10-A", "F"), seat, l))

	// The hard rule rejects what the soft score prefers.
	h := HorizontalNeighbors(l, 1, 2)
	assert.False(t, GenderAdjacencyOK(stu("c", "11-A", "F"), h, l, 1))
}

func TestEnhancedScore(t *testing.T) {
	l := mustLayout(t, blockRoom("E", 1, 3))
	l.Assign(l.At(1, 1), stu("n", "10-A", "M"))
	seat := l.At(1, 2)
	w := DefaultWeightProfile()

	assert.InDelta(t, 24.5, EnhancedScore(stu("c", "11-A", "M"), seat, l, w), 1e-9)
	assert.InDelta(t, 21.875, EnhancedScore(stu("c", "11-A", "F"), seat, l, w), 1e-9)

	// Corner seat of an empty room.
	corner := l.At(1, 3)
	l.Vacate(l.At(1, 1))
	got := EnhancedScore(stu("c", "11-A", "M"), corner, l, w)
	assert.InDelta(t, 17+10*(0.35*0.5+0.25*0.5+0.20*1+0.20*(0.5+0.5)), got, 1e-9)
}

func TestWeightProfile(t *testing.T) {
	w := DefaultWeightProfile()
	require.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.MedicalNeeds+w.GroupPreservation+w.GenderBalance+w.ClassLevelMix+w.AcademicSimilarity, 0.01)
	assert.Equal(t, 0.1, w.AcademicSimilarity)
	require.NoError(t, w.Validate())

	bad := w
	bad.ClassLevelMix = 0.05
	require.ErrorIs(t, bad.Validate(), ErrInvalidWeights)
	bad.ClassLevelMix = 1.5
	require.ErrorIs(t, bad.Validate(), ErrInvalidWeights)

	even := WeightProfile{1, 1, 1, 1, 1}
	even.Normalize()
	assert.InDelta(t, 0.2, even.GenderBalance, 1e-9)

	var zero WeightProfile
	zero.Normalize()
	assert.Equal(t, DefaultWeightProfile(), zero)
}

func weightSum(w WeightProfile) float64 {
	return w.MedicalNeeds + w.GroupPreservation + w.GenderBalance + w.ClassLevelMix + w.AcademicSimilarity
}

func TestWeightProfile_Learn(t *testing.T) {
	w := DefaultWeightProfile()
	w.Learn(&StatsReport{Compliance: ComplianceRates{Gender: 50, ClassLevel: 100}}, 0.2)

	assert.InDelta(t, 0.27, w.MedicalNeeds, 1e-9)
	assert.InDelta(t, 0.225, w.GroupPreservation, 1e-9)
	assert.InDelta(t, 0.27, w.GenderBalance, 1e-9)
	assert.InDelta(t, 0.135, w.ClassLevelMix, 1e-9)
	assert.Equal(t, 0.1, w.AcademicSimilarity)
	assert.InDelta(t, 1.0, weightSum(w), 1e-9)
	require.NoError(t, w.Validate())

	before := w
	w.Learn(nil, 0.2)
	assert.Equal(t, before, w)
}

func TestWeightProfile_LearnKeepsFloorAndUnitSum(t *testing.T) {
	tests := []struct {
		name   string
		report StatsReport
		rate   float64
	}{
		{"no compliance full rate", StatsReport{}, 1},
		{"gender only", StatsReport{Compliance: ComplianceRates{Gender: 0, ClassLevel: 100}}, 0.8},
		{"small nudge", StatsReport{Compliance: ComplianceRates{Gender: 90, ClassLevel: 95}}, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeightProfile()
			for range 5 {
				w.Learn(&tt.report, tt.rate)
				require.InDelta(t, 1.0, weightSum(w), 1e-9)
				require.NoError(t, w.Validate())
			}
		})
	}

	w := DefaultWeightProfile()
	w.Learn(&StatsReport{}, 1)
	assert.Equal(t, 0.1, w.GroupPreservation)
	assert.Equal(t, 0.1, w.AcademicSimilarity)
	assert.InDelta(t, w.GenderBalance, w.ClassLevelMix, 1e-9)
	assert.InDelta(t, 0.8*0.3/2.3, w.MedicalNeeds, 1e-9)
}

func TestNewScorer(t *testing.T) {
	l := mustLayout(t, blockRoom("S", 1, 2))
	s := stu("c", "10-A", "F")
	seat := l.At(1, 1)

	assert.InDelta(t, StaticPriority(s, DefaultWeightProfile())+1, newScorer(nil)(s, seat, l), 1e-9)

	w := DefaultWeightProfile()
	assert.InDelta(t, EnhancedScore(s, seat, l, w), newScorer(&w)(s, seat, l), 1e-9)
}
