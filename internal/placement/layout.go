package placement

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Layout is the seat arena of one room. The flat plan, the row/column
// matrix and the occupant roster are read-only views over the same seat
// records, so a write through any Layout method is visible in all of them.
// Seats handed out by the views must only be mutated through Layout.
type Layout struct {
	roomID     string
	rows, cols int
	seats      []*Seat
	byID       map[string]*Seat
	grid       [][]*Seat
	groupOrder map[int]int
}

// BuildLayout resolves a room shape into a seat arena and numbers its desks.
func BuildLayout(room Room) (*Layout, error) {
	if room.Shape.Explicit() {
		seats := make([]*Seat, 0, len(room.Shape.Seats))
		for _, sp := range room.Shape.Seats {
			seats = append(seats, &Seat{
				ID:      sp.ID,
				Row:     sp.Row,
				Column:  sp.Column,
				GroupID: sp.GroupID,
				Type:    sp.Type,
			})
		}
		return newLayout(room.ID, seats, nil)
	}

	perRow := 1
	switch room.Shape.Arrangement {
	case "", ArrangementSingle:
	case ArrangementDouble:
		perRow = 2
	default:
		return nil, fmt.Errorf("%w: unknown arrangement %q", ErrInvalidArrangement, room.Shape.Arrangement)
	}

	var seats []*Seat
	order := make([]int, 0, len(room.Shape.Groups))
	seen := make(map[int]bool, len(room.Shape.Groups))
	for gi, g := range room.Shape.Groups {
		if g.RowCount < 0 {
			return nil, fmt.Errorf("%w: group %d has negative row count", ErrInvalidArrangement, g.ID)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: group %d declared twice", ErrInvalidArrangement, g.ID)
		}
		seen[g.ID] = true
		order = append(order, g.ID)
		for row := 1; row <= g.RowCount; row++ {
			if perRow == 1 {
				seats = append(seats, &Seat{Row: row, Column: gi + 1, GroupID: g.ID, Type: SeatSingle})
				continue
			}
			seats = append(seats,
				&Seat{Row: row, Column: 2*gi + 1, GroupID: g.ID, Type: SeatDoubleLeft},
				&Seat{Row: row, Column: 2*gi + 2, GroupID: g.ID, Type: SeatDoubleRight},
			)
		}
	}
	return newLayout(room.ID, seats, order)
}

// RestoreLayout rebuilds an arena from persisted seats, keeping occupants.
func RestoreLayout(roomID string, seats []Seat) (*Layout, error) {
	ptrs := make([]*Seat, 0, len(seats))
	for _, s := range seats {
		cp := s
		if s.Occupant != nil {
			occ := s.Occupant.clone()
			cp.Occupant = &occ
		}
		ptrs = append(ptrs, &cp)
	}
	return newLayout(roomID, ptrs, nil)
}

func newLayout(roomID string, seats []*Seat, groupOrder []int) (*Layout, error) {
	l := &Layout{
		roomID:     roomID,
		byID:       make(map[string]*Seat, len(seats)),
		groupOrder: make(map[int]int),
	}
	for _, s := range seats {
		if s.Row < 1 || s.Column < 1 {
			return nil, fmt.Errorf("%w: seat %q at row %d column %d", ErrInvalidArrangement, s.ID, s.Row, s.Column)
		}
		if s.Type == "" {
			s.Type = SeatSingle
		}
		if s.ID == "" {
			s.ID = seatID(roomID, s.Row, s.Column)
		}
		if _, dup := l.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: id %q", ErrDuplicateSeat, s.ID)
		}
		l.byID[s.ID] = s
		l.rows = max(l.rows, s.Row)
		l.cols = max(l.cols, s.Column)
	}

	l.grid = make([][]*Seat, l.rows)
	for r := range l.grid {
		l.grid[r] = make([]*Seat, l.cols)
	}
	for _, s := range seats {
		if l.grid[s.Row-1][s.Column-1] != nil {
			return nil, fmt.Errorf("%w: row %d column %d", ErrDuplicateSeat, s.Row, s.Column)
		}
		l.grid[s.Row-1][s.Column-1] = s
	}
	l.seats = seats

	if groupOrder == nil {
		for _, s := range seats {
			if !slices.Contains(groupOrder, s.GroupID) {
				groupOrder = append(groupOrder, s.GroupID)
			}
		}
		slices.Sort(groupOrder)
	}
	for i, g := range groupOrder {
		l.groupOrder[g] = i
	}

	l.NumberDesks()
	return l, nil
}

func seatID(roomID string, row, col int) string {
	return fmt.Sprintf("%s-R%dC%d", roomID, row, col)
}

// RoomID returns the id of the room the arena belongs to.
func (l *Layout) RoomID() string { return l.roomID }

// Rows returns the number of rows in the matrix view.
func (l *Layout) Rows() int { return l.rows }

// Columns returns the number of columns in the matrix view.
func (l *Layout) Columns() int { return l.cols }

// Len returns the number of seats.
func (l *Layout) Len() int { return len(l.seats) }

// Seats returns the flat seat plan in arena order.
func (l *Layout) Seats() []*Seat { return slices.Clone(l.seats) }

// At returns the seat at the 1-based row and column, or nil.
func (l *Layout) At(row, col int) *Seat {
	if row < 1 || col < 1 || row > l.rows || col > l.cols {
		return nil
	}
	return l.grid[row-1][col-1]
}

// Seat returns the seat with the given id, or nil.
func (l *Layout) Seat(id string) *Seat { return l.byID[id] }

// SeatByDesk returns the seat carrying the given desk number, or nil.
func (l *Layout) SeatByDesk(desk int) *Seat {
	for _, s := range l.seats {
		if s.DeskNumber == desk {
			return s
		}
	}
	return nil
}

// Occupied returns the seats that hold a student, in arena order.
func (l *Layout) Occupied() []*Seat {
	return lo.Filter(l.seats, func(s *Seat, _ int) bool { return s.Occupant != nil })
}

// EmptySeats returns the seats without a student, in arena order.
func (l *Layout) EmptySeats() []*Seat {
	return lo.Filter(l.seats, func(s *Seat, _ int) bool { return s.Occupant == nil })
}

// Occupants returns copies of the seated students in arena order.
func (l *Layout) Occupants() []Student {
	return lo.FilterMap(l.seats, func(s *Seat, _ int) (Student, bool) {
		if s.Occupant == nil {
			return Student{}, false
		}
		return s.Occupant.clone(), true
	})
}

// Find returns the seat holding the student, or nil.
func (l *Layout) Find(studentID string) *Seat {
	seat, _ := lo.Find(l.seats, func(s *Seat) bool {
		return s.Occupant != nil && s.Occupant.ID == studentID
	})
	return seat
}

// Assign seats a copy of the student, stamping its seat coordinates.
// Any previous occupant is overwritten.
func (l *Layout) Assign(seat *Seat, s Student) {
	cp := s.clone()
	seat.Occupant = &cp
	l.stamp(seat)
}

// Vacate removes and returns the occupant of the seat.
func (l *Layout) Vacate(seat *Seat) (Student, bool) {
	if seat == nil || seat.Occupant == nil {
		return Student{}, false
	}
	s := *seat.Occupant
	s.Seat = nil
	seat.Occupant = nil
	return s, true
}

// Move relocates the occupant of from onto the empty seat to.
func (l *Layout) Move(from, to *Seat) bool {
	if from == nil || to == nil || from.Occupant == nil || to.Occupant != nil {
		return false
	}
	to.Occupant, from.Occupant = from.Occupant, nil
	l.stamp(to)
	return true
}

// Swap exchanges the occupants of two seats.
func (l *Layout) Swap(a, b *Seat) {
	a.Occupant, b.Occupant = b.Occupant, a.Occupant
	l.stamp(a)
	l.stamp(b)
}

func (l *Layout) stamp(seat *Seat) {
	if seat.Occupant == nil {
		return
	}
	seat.Occupant.Seat = &SeatRef{
		RoomID:     l.roomID,
		SeatID:     seat.ID,
		Row:        seat.Row,
		Column:     seat.Column,
		GroupID:    seat.GroupID,
		Type:       seat.Type,
		DeskNumber: seat.DeskNumber,
	}
}

func (l *Layout) groupIndex(groupID int) int {
	if i, ok := l.groupOrder[groupID]; ok {
		return i
	}
	return len(l.groupOrder) + groupID
}

// PriorityOrder returns the order in which placement fills seats: every
// left or single seat by (row, group), then every right seat the same way.
func (l *Layout) PriorityOrder() []*Seat {
	byPosition := func(a, b *Seat) int {
		return cmp.Or(
			cmp.Compare(a.Row, b.Row),
			cmp.Compare(l.groupIndex(a.GroupID), l.groupIndex(b.GroupID)),
			cmp.Compare(a.Column, b.Column),
		)
	}
	var left, right []*Seat
	for _, s := range l.seats {
		if s.Type.IsRight() {
			right = append(right, s)
		} else {
			left = append(left, s)
		}
	}
	slices.SortStableFunc(left, byPosition)
	slices.SortStableFunc(right, byPosition)
	return append(left, right...)
}

// NumberDesks assigns desk numbers 1..N grouped by ascending group id and
// ordered by (row, column) inside each group. It is independent of the
// placement order and idempotent.
func (l *Layout) NumberDesks() {
	ordered := slices.Clone(l.seats)
	slices.SortStableFunc(ordered, func(a, b *Seat) int {
		return cmp.Or(
			cmp.Compare(a.GroupID, b.GroupID),
			cmp.Compare(a.Row, b.Row),
			cmp.Compare(a.Column, b.Column),
		)
	})
	for i, s := range ordered {
		s.DeskNumber = i + 1
		l.stamp(s)
	}
}

// AppendSeat synthesizes a seat in a fresh row below the room, cloning the
// column, group and seat type of template. A nil template yields a single
// seat in column 1 of group 1. Desk numbers are recomputed.
func (l *Layout) AppendSeat(template *Seat) *Seat {
	seat := &Seat{Row: l.rows + 1, Column: 1, GroupID: 1, Type: SeatSingle}
	if template != nil {
		seat.Column = template.Column
		seat.GroupID = template.GroupID
		seat.Type = template.Type
	}
	seat.ID = seatID(l.roomID, seat.Row, seat.Column)
	for n := 2; l.byID[seat.ID] != nil; n++ {
		seat.ID = fmt.Sprintf("%s-%d", seatID(l.roomID, seat.Row, seat.Column), n)
	}

	l.rows++
	l.cols = max(l.cols, seat.Column)
	for r := range l.grid {
		for len(l.grid[r]) < l.cols {
			l.grid[r] = append(l.grid[r], nil)
		}
	}
	row := make([]*Seat, l.cols)
	row[seat.Column-1] = seat
	l.grid = append(l.grid, row)

	if _, ok := l.groupOrder[seat.GroupID]; !ok {
		l.groupOrder[seat.GroupID] = len(l.groupOrder)
	}
	l.seats = append(l.seats, seat)
	l.byID[seat.ID] = seat
	l.NumberDesks()
	return seat
}

// Snapshot returns value copies of every seat, for persistence.
func (l *Layout) Snapshot() []Seat {
	out := make([]Seat, 0, len(l.seats))
	for _, s := range l.seats {
		cp := *s
		if s.Occupant != nil {
			occ := s.Occupant.clone()
			cp.Occupant = &occ
		}
		out = append(out, cp)
	}
	return out
}

// Clone returns an independent copy of the arena.
func (l *Layout) Clone() *Layout {
	seats := l.Snapshot()
	ptrs := make([]*Seat, len(seats))
	for i := range seats {
		ptrs[i] = &seats[i]
	}
	order := make([]int, len(l.groupOrder))
	for g, i := range l.groupOrder {
		order[i] = g
	}
	c, _ := newLayout(l.roomID, ptrs, order)
	return c
}

func (s Student) clone() Student {
	if s.Seat != nil {
		ref := *s.Seat
		s.Seat = &ref
	}
	return s
}
