package placement

import (
	"fmt"

	"github.com/samber/lo"
)

// WeightProfile weighs the static priority attributes of a student.
type WeightProfile struct {
	MedicalNeeds       float64 `bson:"medical_needs" json:"medicalNeeds"`
	GroupPreservation  float64 `bson:"group_preservation" json:"groupPreservation"`
	GenderBalance      float64 `bson:"gender_balance" json:"genderBalance"`
	ClassLevelMix      float64 `bson:"class_level_mix" json:"classLevelMix"`
	AcademicSimilarity float64 `bson:"academic_similarity" json:"academicSimilarity"`
}

const (
	minWeight = 0.1
	maxWeight = 1.0
)

// DefaultWeightProfile returns the stock weights, which sum to 1.
func DefaultWeightProfile() WeightProfile {
	return WeightProfile{
		MedicalNeeds:       0.30,
		GroupPreservation:  0.25,
		GenderBalance:      0.20,
		ClassLevelMix:      0.15,
		AcademicSimilarity: 0.10,
	}
}

func (w *WeightProfile) fields() []*float64 {
	return []*float64{&w.MedicalNeeds, &w.GroupPreservation, &w.GenderBalance, &w.ClassLevelMix, &w.AcademicSimilarity}
}

// Validate checks every weight lies in [0.1, 1.0].
func (w WeightProfile) Validate() error {
	for _, f := range w.fields() {
		if *f < minWeight || *f > maxWeight {
			return fmt.Errorf("%w: got %v", ErrInvalidWeights, *f)
		}
	}
	return nil
}

// Normalize rescales the weights so they sum to 1. A profile whose weights
// sum to zero or less is reset to the defaults.
func (w *WeightProfile) Normalize() {
	sum := lo.SumBy(w.fields(), func(f *float64) float64 { return *f })
	if sum <= 0 {
		*w = DefaultWeightProfile()
		return
	}
	for _, f := range w.fields() {
		*f /= sum
	}
}

// Learn nudges the gender and class-level weights up in proportion to the
// non-compliance observed in report, clamps every weight into [0.1, 1.0]
// and renormalizes to a sum of 1 without letting any weight drop under
// 0.1. The engine never calls it on its own.
func (w *WeightProfile) Learn(report *StatsReport, rate float64) {
	if report == nil || rate <= 0 {
		return
	}
	w.GenderBalance += rate * (1 - report.Compliance.Gender/100)
	w.ClassLevelMix += rate * (1 - report.Compliance.ClassLevel/100)
	for _, f := range w.fields() {
		*f = min(max(*f, minWeight), maxWeight)
	}
	w.normalizeFloored()
}

// normalizeFloored rescales the weights to sum to 1. Weights the rescale
// pushes under minWeight are pinned there and the rest share what is left,
// repeating until no further weight falls under the floor.
func (w *WeightProfile) normalizeFloored() {
	fields := w.fields()
	pinned := make([]bool, len(fields))
	for {
		free := lo.Filter(fields, func(_ *float64, i int) bool { return !pinned[i] })
		sum := lo.SumBy(free, func(f *float64) float64 { return *f })
		if len(free) == 0 || sum <= 0 {
			return
		}
		budget := 1 - minWeight*float64(len(fields)-len(free))
		for _, f := range free {
			*f *= budget / sum
		}

		floored := false
		for i, f := range fields {
			if !pinned[i] && *f < minWeight {
				*f = minWeight
				pinned[i] = true
				floored = true
			}
		}
		if !floored {
			return
		}
	}
}

// StaticPriority scores a student's attributes regardless of seat. The
// result is never below 1.
func StaticPriority(s Student, w WeightProfile) float64 {
	score := 10.0
	if s.HasPriorityNeed() {
		score += 100 * w.MedicalNeeds
	}
	if s.KeepWithGroup {
		score += 100 * w.GroupPreservation
	}
	if s.Gender != "" {
		score += 20 * w.GenderBalance
	}
	if _, ok := ClassLevel(s.ClassLabel); ok {
		score += 20 * w.ClassLevelMix
	}
	if s.AcademicGroup != "" {
		score += 20 * w.AcademicSimilarity
	}
	return max(score, 1)
}

// neighborView summarizes the left/right neighbors of a seat across group
// boundaries.
type neighborView struct {
	total         int
	empty         int
	genderDiffers int
	genderMatches int
	levelDiffers  int
	levelMatches  int
}

func viewNeighbors(s Student, seat *Seat, grid *Layout) neighborView {
	var v neighborView
	level, hasLevel := ClassLevel(s.ClassLabel)
	for _, c := range HorizontalNeighbors(grid, seat.Row, seat.Column) {
		v.total++
		n := grid.At(c.Row, c.Column).Occupant
		if n == nil {
			v.empty++
			continue
		}
		if s.Gender != "" && n.Gender != "" {
			if n.Gender != s.Gender {
				v.genderDiffers++
			} else {
				v.genderMatches++
			}
		}
		if nl, ok := ClassLevel(n.ClassLabel); ok && hasLevel {
			if nl != level {
				v.levelDiffers++
			} else {
				v.levelMatches++
			}
		}
	}
	return v
}

// NeighborCompatibility rewards left/right neighbors that differ from s:
// +2 per differing gender, +1 per differing class level, +1 per empty seat.
// It favors mixed genders, unlike GenderAdjacencyOK which rejects them.
func NeighborCompatibility(s Student, seat *Seat, grid *Layout) float64 {
	v := viewNeighbors(s, seat, grid)
	return float64(2*v.genderDiffers + v.levelDiffers + v.empty)
}

// EnhancedScore blends StaticPriority with gender compatibility, class
// compatibility, diversity and spatial sub-scores weighted
// 0.35/0.25/0.20/0.20.
func EnhancedScore(s Student, seat *Seat, grid *Layout, w WeightProfile) float64 {
	v := viewNeighbors(s, seat, grid)

	genderCompat, classCompat, diversity, spatial := 1.0, 1.0, 1.0, 0.0
	if v.total > 0 {
		n := float64(v.total)
		genderCompat = 0.5 + 0.5*float64(v.genderMatches)/n
		if v.genderDiffers > 0 {
			genderCompat = 0
		}
		classCompat = 0.5 + 0.5*float64(v.levelDiffers)/n
		if v.levelMatches > 0 {
			classCompat = 0
		}
		diversity = float64(v.empty+v.genderDiffers+v.levelDiffers) / n
		diversity = min(diversity, 1)
		spatial = 0.5 * float64(v.empty) / n
	}
	spatial += positionBonus(seat, grid)

	blend := 0.35*genderCompat + 0.25*classCompat + 0.20*diversity + 0.20*spatial
	return StaticPriority(s, w) + 10*blend
}

func positionBonus(seat *Seat, grid *Layout) float64 {
	rowEdge := seat.Row == 1 || seat.Row == grid.Rows()
	colEdge := seat.Column == 1 || seat.Column == grid.Columns()
	switch {
	case rowEdge && colEdge:
		return 0.5
	case rowEdge || colEdge:
		return 0.25
	}
	return 0
}

// scoreFunc ranks a candidate for a seat.
type scoreFunc func(s Student, seat *Seat, grid *Layout) float64

func newScorer(profile *WeightProfile) scoreFunc {
	if profile == nil {
		w := DefaultWeightProfile()
		return func(s Student, seat *Seat, grid *Layout) float64 {
			return StaticPriority(s, w) + NeighborCompatibility(s, seat, grid)
		}
	}
	w := *profile
	return func(s Student, seat *Seat, grid *Layout) float64 {
		return EnhancedScore(s, seat, grid, w)
	}
}
