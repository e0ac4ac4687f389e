package seating

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ExamSeatPlanner/internal/placement"
)

// Plan status values.
const (
	StatusDraft = "draft"
	StatusFinal = "final"
)

// PlacementPlan is a stored placement run over every active room.
type PlacementPlan struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	Seed      int64                    `bson:"seed" json:"seed"`
	Optimizer string                   `bson:"optimizer" json:"optimizer"`
	Weights   *placement.WeightProfile `bson:"weights,omitempty" json:"weights,omitempty"`
	Status    string                   `bson:"status" json:"status"`
	CreatedAt time.Time                `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time                `bson:"updated_at" json:"updatedAt"`
	Rooms     []RoomPlan               `bson:"rooms" json:"rooms"`
	Unplaced  []placement.Student      `bson:"unplaced" json:"unplaced"`
	Pins      []PinRecord              `bson:"pins,omitempty" json:"pins,omitempty"`
	Report    *placement.StatsReport   `bson:"report" json:"report"`
}

// RoomPlan is the seat plan of one room inside a PlacementPlan.
type RoomPlan struct {
	RoomID            string              `bson:"room_id" json:"roomId"`
	Name              string              `bson:"name" json:"name"`
	Code              string              `bson:"code,omitempty" json:"code,omitempty"`
	Capacity          int                 `bson:"capacity" json:"capacity"`
	Seats             []placement.Seat    `bson:"seats" json:"seats"`
	Unplaced          []placement.Student `bson:"unplaced" json:"unplaced"`
	TierCounts        [3]int              `bson:"tier_counts" json:"tierCounts"`
	OptimizationScore float64             `bson:"optimization_score" json:"optimizationScore"`
	SuccessRatio      float64             `bson:"success_ratio" json:"successRatio"`
}

// PinRecord keeps the outcome of a pin applied to a plan.
type PinRecord struct {
	StudentID   string    `bson:"student_id" json:"studentId"`
	RoomID      string    `bson:"room_id,omitempty" json:"roomId,omitempty"`
	SeatID      string    `bson:"seat_id,omitempty" json:"seatId,omitempty"`
	DisplacedID string    `bson:"displaced_id,omitempty" json:"displacedId,omitempty"`
	ConflictID  string    `bson:"conflict_id,omitempty" json:"conflictId,omitempty"`
	Synthesized bool      `bson:"synthesized,omitempty" json:"synthesized,omitempty"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	AppliedAt   time.Time `bson:"applied_at" json:"appliedAt"`
}

func newRoomPlan(r *placement.PlacementResult) RoomPlan {
	return RoomPlan{
		RoomID:            r.RoomID,
		Name:              r.RoomName,
		Code:              r.RoomCode,
		Capacity:          r.Capacity,
		Seats:             r.Layout.Snapshot(),
		Unplaced:          r.Unplaced,
		TierCounts:        r.TierCounts,
		OptimizationScore: r.OptimizationScore,
		SuccessRatio:      r.SuccessRatio(),
	}
}

func newPinRecord(o placement.PinOutcome, at time.Time) PinRecord {
	rec := PinRecord{
		StudentID:   o.StudentID,
		RoomID:      o.RoomID,
		SeatID:      o.SeatID,
		DisplacedID: o.DisplacedID,
		ConflictID:  o.ConflictID,
		Synthesized: o.Synthesized,
		AppliedAt:   at,
	}
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}
	return rec
}

// results rebuilds the engine view of the stored rooms.
func (p *PlacementPlan) results() ([]*placement.PlacementResult, error) {
	out := make([]*placement.PlacementResult, 0, len(p.Rooms))
	for _, rp := range p.Rooms {
		layout, err := placement.RestoreLayout(rp.RoomID, rp.Seats)
		if err != nil {
			return nil, err
		}
		out = append(out, &placement.PlacementResult{
			RoomID:            rp.RoomID,
			RoomName:          rp.Name,
			RoomCode:          rp.Code,
			Capacity:          rp.Capacity,
			Layout:            layout,
			Unplaced:          rp.Unplaced,
			TierCounts:        rp.TierCounts,
			OptimizationScore: rp.OptimizationScore,
		})
	}
	return out, nil
}

// apply stores results, the global unplaced pool and a fresh report.
func (p *PlacementPlan) apply(results []*placement.PlacementResult, unplaced []placement.Student) {
	p.Rooms = make([]RoomPlan, 0, len(results))
	for _, r := range results {
		p.Rooms = append(p.Rooms, newRoomPlan(r))
	}
	p.Unplaced = unplaced
	p.Report = placement.BuildReport(results, unplaced)
}
