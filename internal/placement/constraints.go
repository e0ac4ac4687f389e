package placement

import "github.com/samber/lo"

// Coord addresses a seat by 1-based row and column.
type Coord struct {
	Row    int
	Column int
}

// HorizontalNeighbors returns the existing seats directly left and right of
// (row, col). Front and back seats are never included.
func HorizontalNeighbors(grid *Layout, row, col int) []Coord {
	return existing(grid, Coord{row, col - 1}, Coord{row, col + 1})
}

// VerticalNeighbors returns the existing seats directly in front of and
// behind (row, col).
func VerticalNeighbors(grid *Layout, row, col int) []Coord {
	return existing(grid, Coord{row - 1, col}, Coord{row + 1, col})
}

// SurroundingNeighbors returns the existing seats of the 8-neighborhood.
func SurroundingNeighbors(grid *Layout, row, col int) []Coord {
	var out []Coord
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			out = append(out, existing(grid, Coord{row + dr, col + dc})...)
		}
	}
	return out
}

func existing(grid *Layout, cs ...Coord) []Coord {
	return lo.Filter(cs, func(c Coord, _ int) bool { return grid.At(c.Row, c.Column) != nil })
}

// occupiedInGroup yields the occupants of the neighbor seats that belong to
// groupID, skipping s itself and empty seats.
func occupiedInGroup(s Student, neighbors []Coord, grid *Layout, groupID int) []*Student {
	return lo.FilterMap(neighbors, func(c Coord, _ int) (*Student, bool) {
		seat := grid.At(c.Row, c.Column)
		if seat == nil || seat.Occupant == nil || seat.GroupID != groupID {
			return nil, false
		}
		return seat.Occupant, seat.Occupant.ID != s.ID
	})
}

// GenderAdjacencyOK fails when an occupied same-group neighbor carries a
// different gender label than s. Students or neighbors without a label do
// not take part.
func GenderAdjacencyOK(s Student, neighbors []Coord, grid *Layout, groupID int) bool {
	if s.Gender == "" {
		return true
	}
	for _, n := range occupiedInGroup(s, neighbors, grid, groupID) {
		if n.Gender != "" && n.Gender != s.Gender {
			return false
		}
	}
	return true
}

// SideBySideLevelOK fails when an occupied same-group left/right neighbor
// shares the class level of s.
func SideBySideLevelOK(s Student, neighbors []Coord, grid *Layout, groupID int) bool {
	return levelApart(s, neighbors, grid, groupID)
}

// BackToBackLevelOK fails when the occupied same-group seat in front or
// behind shares the class level of s.
func BackToBackLevelOK(s Student, neighbors []Coord, grid *Layout, groupID int) bool {
	return levelApart(s, neighbors, grid, groupID)
}

func levelApart(s Student, neighbors []Coord, grid *Layout, groupID int) bool {
	if _, ok := ClassLevel(s.ClassLabel); !ok {
		return true
	}
	for _, n := range occupiedInGroup(s, neighbors, grid, groupID) {
		if sameLevel(s, *n) {
			return false
		}
	}
	return true
}

// Tier is a constraint relaxation level. Lower tiers are stricter.
type Tier int

const (
	// TierStrict requires gender, side-by-side and back-to-back rules.
	TierStrict Tier = iota
	// TierSideBySide drops the back-to-back rule.
	TierSideBySide
	// TierGenderOnly keeps only the gender rule.
	TierGenderOnly
)

// Tiers lists every tier from strictest to loosest.
var Tiers = []Tier{TierStrict, TierSideBySide, TierGenderOnly}

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierSideBySide:
		return "side-by-side"
	case TierGenderOnly:
		return "gender-only"
	}
	return "unknown"
}

// Allows reports whether s may take seat under the tier's rules.
func (t Tier) Allows(s Student, seat *Seat, grid *Layout) bool {
	c := evaluate(s, seat, grid)
	switch t {
	case TierStrict:
		return c.gender && c.sideBySide && c.backToBack
	case TierSideBySide:
		return c.gender && c.sideBySide
	default:
		return c.gender
	}
}

// checks is the outcome of every adjacency rule for one seat.
type checks struct {
	gender     bool
	sideBySide bool
	backToBack bool
}

func (c checks) satisfied() int {
	n := 0
	for _, ok := range []bool{c.gender, c.sideBySide, c.backToBack} {
		if ok {
			n++
		}
	}
	return n
}

func evaluate(s Student, seat *Seat, grid *Layout) checks {
	h := HorizontalNeighbors(grid, seat.Row, seat.Column)
	v := VerticalNeighbors(grid, seat.Row, seat.Column)
	return checks{
		gender:     GenderAdjacencyOK(s, h, grid, seat.GroupID),
		sideBySide: SideBySideLevelOK(s, h, grid, seat.GroupID),
		backToBack: BackToBackLevelOK(s, v, grid, seat.GroupID),
	}
}

// ComplianceScore counts the satisfied adjacency rules over every occupied
// seat, at most three per seat.
func ComplianceScore(grid *Layout) int {
	total := 0
	for _, seat := range grid.Occupied() {
		total += evaluate(*seat.Occupant, seat, grid).satisfied()
	}
	return total
}
