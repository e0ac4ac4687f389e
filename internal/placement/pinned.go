package placement

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PinOutcome reports how one pinned student was applied.
type PinOutcome struct {
	StudentID   string
	RoomID      string
	SeatID      string
	DisplacedID string // Student evicted from the pinned seat, if any
	ConflictID  string // Student pinned earlier in the pass who kept the requested seat
	Synthesized bool   // The seat was appended to the room for this pin
	Err         error
}

// EnforcePinned moves every pinned student of students into its pinned room
// and seat, overriding earlier placement. It must run after every room has
// been placed. Occupants evicted from a pinned seat are flagged
// DisplacedByPin and appended both to the room's Unplaced list and to the
// returned global pool. A pin whose room cannot be resolved leaves the
// student where it was and is reported through its PinOutcome. A seat
// already taken by a pin earlier in the same pass is never reassigned; the
// later student falls back to the first empty seat of the room, or a new
// seat, and the conflict is reported through ConflictID.
func (p *Planner) EnforcePinned(results []*PlacementResult, unplaced []Student, students []Student) ([]Student, []PinOutcome) {
	pool := slices.Clone(unplaced)
	var outcomes []PinOutcome
	pinnedHere := make(map[string]bool)

	for _, s := range students {
		if !s.Pinned {
			continue
		}
		out := PinOutcome{StudentID: s.ID}

		target := resolveRoom(results, s.PinnedRoomID)
		if target == nil || target.Layout == nil {
			out.Err = fmt.Errorf("%w: %q for student %s", ErrRoomNotFound, s.PinnedRoomID, s.ID)
			p.logger.Warn("pinned room not resolved",
				zap.String("student_id", s.ID),
				zap.String("room", s.PinnedRoomID),
			)
			outcomes = append(outcomes, out)
			continue
		}

		for _, r := range results {
			if r.Layout != nil {
				r.Layout.Vacate(r.Layout.Find(s.ID))
			}
			r.Unplaced = removeStudent(r.Unplaced, s.ID)
		}
		pool = removeStudent(pool, s.ID)

		seat, synthesized := resolveSeat(target.Layout, s.PinnedSeatID)
		if seat != nil && seat.Occupant != nil && pinnedHere[seat.Occupant.ID] {
			out.ConflictID = seat.Occupant.ID
			p.logger.Warn("pinned seat already taken by another pin",
				zap.String("student_id", s.ID),
				zap.String("pinned_id", seat.Occupant.ID),
				zap.String("seat_id", seat.ID),
			)
			seat, synthesized = resolveSeat(target.Layout, "")
		}
		if seat == nil {
			out.Err = fmt.Errorf("%w: student %s in room %s", ErrSeatNotResolved, s.ID, target.RoomID)
			p.logger.Error("pinned seat not resolved", zap.String("student_id", s.ID), zap.String("room_id", target.RoomID))
			target.Unplaced = append(target.Unplaced, s)
			pool = append(pool, s)
			outcomes = append(outcomes, out)
			continue
		}

		if evicted, ok := target.Layout.Vacate(seat); ok {
			evicted.DisplacedByPin = true
			target.Unplaced = append(target.Unplaced, evicted)
			pool = append(pool, evicted)
			out.DisplacedID = evicted.ID
			p.logger.Info("student displaced by pin",
				zap.String("student_id", evicted.ID),
				zap.String("pinned_id", s.ID),
				zap.String("seat_id", seat.ID),
			)
		}

		canonical := s
		canonical.DisplacedByPin = false
		canonical.Seat = nil
		target.Layout.Assign(seat, canonical)
		pinnedHere[s.ID] = true

		out.RoomID = target.RoomID
		out.SeatID = seat.ID
		out.Synthesized = synthesized
		outcomes = append(outcomes, out)
	}
	return pool, outcomes
}

// resolveRoom matches key against room ids first, then names, then codes.
func resolveRoom(results []*PlacementResult, key string) *PlacementResult {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	for _, r := range results {
		if r.RoomID == key {
			return r
		}
	}
	for _, r := range results {
		if strings.EqualFold(r.RoomName, key) {
			return r
		}
	}
	for _, r := range results {
		if r.RoomCode != "" && strings.EqualFold(r.RoomCode, key) {
			return r
		}
	}
	return nil
}

// resolveSeat finds the seat named by key (a seat id or a desk number),
// else the first empty seat by desk number, else appends a new seat.
func resolveSeat(grid *Layout, key string) (*Seat, bool) {
	if key = strings.TrimSpace(key); key != "" {
		if seat := grid.Seat(key); seat != nil {
			return seat, false
		}
		if desk, err := strconv.Atoi(key); err == nil {
			if seat := grid.SeatByDesk(desk); seat != nil {
				return seat, false
			}
		}
	}

	empty := grid.EmptySeats()
	if len(empty) > 0 {
		return slices.MinFunc(empty, func(a, b *Seat) int {
			return cmp.Compare(a.DeskNumber, b.DeskNumber)
		}), false
	}

	var template *Seat
	if seats := grid.Seats(); len(seats) > 0 {
		template = seats[len(seats)-1]
	}
	return grid.AppendSeat(template), true
}

func removeStudent(list []Student, id string) []Student {
	return slices.DeleteFunc(list, func(s Student) bool { return s.ID == id })
}
