package placement

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Planner runs the placement pipeline stages. It holds no per-run state and
// is safe for concurrent use across rooms.
type Planner struct {
	logger *zap.Logger
}

// NewPlanner creates a Planner. A nil logger disables logging.
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// PlacementResult is the outcome of placing one room.
type PlacementResult struct {
	RoomID            string
	RoomName          string
	RoomCode          string
	Capacity          int
	Layout            *Layout
	Unplaced          []Student
	Roster            []Student // Only consulted when Layout carries no seats
	TierCounts        [3]int
	OptimizationScore float64
}

// Placed returns the seated students, read from seat occupancy.
func (r *PlacementResult) Placed() []Student {
	if r.Layout == nil {
		return nil
	}
	return r.Layout.Occupants()
}

// SuccessRatio returns placed / (placed + unplaced) as a percentage, or 100
// for a room that received no students.
func (r *PlacementResult) SuccessRatio() float64 {
	placed := len(r.Placed())
	total := placed + len(r.Unplaced)
	if total == 0 {
		return 100
	}
	return float64(placed) / float64(total) * 100
}

// PlaceRoom seats pool into room, relaxing constraints tier by tier. A nil
// profile ranks candidates by static priority plus neighbor compatibility;
// a non-nil profile switches to EnhancedScore. Students that survive every
// tier are returned in Unplaced.
func (p *Planner) PlaceRoom(room Room, pool []Student, seed int64, profile *WeightProfile) (*PlacementResult, error) {
	return p.placeRoom(room, pool, seed, profile, TierGenderOnly)
}

func (p *Planner) placeRoom(room Room, pool []Student, seed int64, profile *WeightProfile, maxTier Tier) (*PlacementResult, error) {
	layout, err := BuildLayout(room)
	if err != nil {
		return nil, fmt.Errorf("build layout for room %s: %w", room.ID, err)
	}

	remaining := slices.Clone(pool)
	Shuffle(NewLCG(seed), remaining)
	score := newScorer(profile)

	res := &PlacementResult{
		RoomID:   room.ID,
		RoomName: room.Name,
		RoomCode: room.Code,
		Capacity: room.EffectiveCapacity(),
		Layout:   layout,
	}
	order := layout.PriorityOrder()
	for _, tier := range Tiers {
		if tier > maxTier || len(remaining) == 0 {
			break
		}
		for _, seat := range order {
			if len(remaining) == 0 {
				break
			}
			if seat.Occupant != nil {
				continue
			}
			idx := pickCandidate(remaining, seat, layout, tier, score)
			if idx < 0 {
				continue
			}
			layout.Assign(seat, remaining[idx])
			remaining = slices.Delete(remaining, idx, idx+1)
			res.TierCounts[tier]++
		}
		p.logger.Debug("placement tier finished",
			zap.String("room_id", room.ID),
			zap.Stringer("tier", tier),
			zap.Int("placed", res.TierCounts[tier]),
			zap.Int("remaining", len(remaining)),
		)
	}
	res.Unplaced = remaining

	p.logger.Info("room placed",
		zap.String("room_id", room.ID),
		zap.Int("seats", layout.Len()),
		zap.Int("placed", len(pool)-len(remaining)),
		zap.Int("unplaced", len(remaining)),
	)
	return res, nil
}

// pickCandidate ranks the pool for seat and returns the index of the best
// student the tier admits, or -1.
func pickCandidate(pool []Student, seat *Seat, grid *Layout, tier Tier, score scoreFunc) int {
	type ranked struct {
		idx   int
		score float64
	}
	cands := make([]ranked, len(pool))
	for i, s := range pool {
		cands[i] = ranked{idx: i, score: score(s, seat, grid)}
	}
	slices.SortStableFunc(cands, func(a, b ranked) int {
		return cmp.Compare(b.score, a.score)
	})
	for _, c := range cands {
		if tier.Allows(pool[c.idx], seat, grid) {
			return c.idx
		}
	}
	return -1
}

// CollectUnplaced concatenates the unplaced lists of every room.
func CollectUnplaced(results []*PlacementResult) []Student {
	var out []Student
	for _, r := range results {
		out = append(out, r.Unplaced...)
	}
	return out
}
