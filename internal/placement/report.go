package placement

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

// RoomStats summarizes one room of a run.
type RoomStats struct {
	RoomID            string  `bson:"room_id" json:"roomId"`
	RoomName          string  `bson:"room_name" json:"roomName"`
	Capacity          int     `bson:"capacity" json:"capacity"`
	Placed            int     `bson:"placed" json:"placed"`
	Unplaced          int     `bson:"unplaced" json:"unplaced"`
	SuccessRate       float64 `bson:"success_rate" json:"successRate"`
	TierCounts        [3]int  `bson:"tier_counts" json:"tierCounts"`
	OptimizationScore float64 `bson:"optimization_score" json:"optimizationScore"`
}

// ComplianceRates are percentages of occupied seats that keep each rule.
type ComplianceRates struct {
	Gender     float64 `bson:"gender" json:"gender"`
	ClassLevel float64 `bson:"class_level" json:"classLevel"`
	Overall    float64 `bson:"overall" json:"overall"`
}

// StatsReport aggregates the final state of every room.
type StatsReport struct {
	TotalStudents     int             `bson:"total_students" json:"totalStudents"`
	TotalPlaced       int             `bson:"total_placed" json:"totalPlaced"`
	TotalUnplaced     int             `bson:"total_unplaced" json:"totalUnplaced"`
	SuccessRate       float64         `bson:"success_rate" json:"successRate"`
	Rooms             []RoomStats     `bson:"rooms" json:"rooms"`
	ClassLevels       map[string]int  `bson:"class_levels" json:"classLevels"`
	Genders           map[string]int  `bson:"genders" json:"genders"`
	OptimizationScore float64         `bson:"optimization_score" json:"optimizationScore"`
	Compliance        ComplianceRates `bson:"compliance" json:"compliance"`
	PinnedCount       int             `bson:"pinned_count" json:"pinnedCount"`
	DisplacedCount    int             `bson:"displaced_count" json:"displacedCount"`
	Suggestions       []string        `bson:"suggestions" json:"suggestions"`
}

const (
	unknownKey        = "unknown"
	lowSuccessRate    = 90.0
	lowComplianceRate = 80.0
)

// BuildReport recomputes every statistic from the seats of results. A
// room's Roster is only counted when its layout has no seats.
func BuildReport(results []*PlacementResult, unplaced []Student) *StatsReport {
	var placed []Student
	rep := &StatsReport{}
	for _, r := range results {
		roomPlaced := seated(r)
		placed = append(placed, roomPlaced...)
		rep.Rooms = append(rep.Rooms, RoomStats{
			RoomID:            r.RoomID,
			RoomName:          r.RoomName,
			Capacity:          r.Capacity,
			Placed:            len(roomPlaced),
			Unplaced:          len(r.Unplaced),
			SuccessRate:       ratio(len(roomPlaced), len(roomPlaced)+len(r.Unplaced)),
			TierCounts:        r.TierCounts,
			OptimizationScore: r.OptimizationScore,
		})
	}

	placed = lo.UniqBy(placed, func(s Student) string { return s.ID })
	placedIDs := lo.Associate(placed, func(s Student) (string, bool) { return s.ID, true })
	waiting := lo.UniqBy(
		lo.Filter(unplaced, func(s Student, _ int) bool { return !placedIDs[s.ID] }),
		func(s Student) string { return s.ID },
	)

	rep.TotalPlaced = len(placed)
	rep.TotalUnplaced = len(waiting)
	rep.TotalStudents = rep.TotalPlaced + rep.TotalUnplaced
	rep.SuccessRate = ratio(rep.TotalPlaced, rep.TotalStudents)
	rep.ClassLevels = lo.CountValuesBy(placed, levelKey)
	rep.Genders = lo.CountValuesBy(placed, func(s Student) string {
		if s.Gender == "" {
			return unknownKey
		}
		return s.Gender
	})
	rep.OptimizationScore = lo.SumBy(results, func(r *PlacementResult) float64 { return r.OptimizationScore })
	rep.Compliance = compliance(results)
	rep.PinnedCount = lo.CountBy(placed, func(s Student) bool { return s.Pinned })
	rep.DisplacedCount = lo.CountBy(waiting, func(s Student) bool { return s.DisplacedByPin })
	rep.Suggestions = suggestions(rep)
	return rep
}

func seated(r *PlacementResult) []Student {
	if r.Layout == nil || r.Layout.Len() == 0 {
		return r.Roster
	}
	return r.Layout.Occupants()
}

func levelKey(s Student) string {
	if level, ok := ClassLevel(s.ClassLabel); ok {
		return strconv.Itoa(level)
	}
	return unknownKey
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}

// compliance replays the gender and class-level rules over every occupied
// seat. A seat keeps the class-level rule when both its side-by-side and
// back-to-back neighbors differ in level.
func compliance(results []*PlacementResult) ComplianceRates {
	var seats, gender, class int
	for _, r := range results {
		if r.Layout == nil {
			continue
		}
		for _, seat := range r.Layout.Occupied() {
			c := evaluate(*seat.Occupant, seat, r.Layout)
			seats++
			if c.gender {
				gender++
			}
			if c.sideBySide && c.backToBack {
				class++
			}
		}
	}
	rates := ComplianceRates{
		Gender:     ratio(gender, seats),
		ClassLevel: ratio(class, seats),
	}
	rates.Overall = (rates.Gender + rates.ClassLevel) / 2
	return rates
}

func suggestions(rep *StatsReport) []string {
	var out []string
	if rep.SuccessRate < lowSuccessRate {
		out = append(out, fmt.Sprintf("Success rate is %.1f%%; add rooms or seats to place everyone.", rep.SuccessRate))
	}
	if rep.Compliance.Overall < lowComplianceRate {
		out = append(out, fmt.Sprintf("Constraint compliance is %.1f%%; try another seed or the genetic optimizer.", rep.Compliance.Overall))
	}
	if rep.PinnedCount > 0 {
		out = append(out, fmt.Sprintf("%d students are placed manually; review their pins.", rep.PinnedCount))
	}
	if rep.TotalUnplaced > 0 {
		out = append(out, fmt.Sprintf("%d students could not be seated.", rep.TotalUnplaced))
	}
	return out
}
