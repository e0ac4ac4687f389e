package placement

// SeatType describes where a seat sits on its desk.
type SeatType string

const (
	SeatSingle      SeatType = "single"
	SeatDoubleLeft  SeatType = "double-left"
	SeatDoubleRight SeatType = "double-right"
)

// IsRight reports whether the seat is the right half of a double desk.
func (t SeatType) IsRight() bool { return t == SeatDoubleRight }

// SeatArrangement selects how generated groups lay out their desks.
type SeatArrangement string

const (
	ArrangementSingle SeatArrangement = "single"
	ArrangementDouble SeatArrangement = "double"
)

// Student is an individual taking part in the exam. ClassLabel is a
// grade+section label such as "10-B"; AcademicGroup carries the
// academic-similarity signal. Seat is only set on the copy held by a seat.
type Student struct {
	ID             string   `bson:"_id" json:"id"`
	Name           string   `bson:"name" json:"name"`
	ClassLabel     string   `bson:"class_label" json:"classLabel"`
	Gender         string   `bson:"gender,omitempty" json:"gender,omitempty"`
	MedicalNeed    bool     `bson:"medical_need,omitempty" json:"medicalNeed,omitempty"`
	Disability     bool     `bson:"disability,omitempty" json:"disability,omitempty"`
	SpecialNeed    bool     `bson:"special_need,omitempty" json:"specialNeed,omitempty"`
	KeepWithGroup  bool     `bson:"keep_with_group,omitempty" json:"keepWithGroup,omitempty"`
	AcademicGroup  string   `bson:"academic_group,omitempty" json:"academicGroup,omitempty"`
	Pinned         bool     `bson:"pinned,omitempty" json:"pinned,omitempty"`
	PinnedRoomID   string   `bson:"pinned_room_id,omitempty" json:"pinnedRoomId,omitempty"`
	PinnedSeatID   string   `bson:"pinned_seat_id,omitempty" json:"pinnedSeatId,omitempty"`
	DisplacedByPin bool     `bson:"displaced_by_pin,omitempty" json:"displacedByPin,omitempty"`
	Seat           *SeatRef `bson:"seat,omitempty" json:"seat,omitempty"`
}

// HasPriorityNeed reports whether any accommodation flag is set.
func (s Student) HasPriorityNeed() bool {
	return s.MedicalNeed || s.Disability || s.SpecialNeed
}

// SeatRef records where a placed copy of a student sits.
type SeatRef struct {
	RoomID     string   `bson:"room_id" json:"roomId"`
	SeatID     string   `bson:"seat_id" json:"seatId"`
	Row        int      `bson:"row" json:"row"`
	Column     int      `bson:"column" json:"column"`
	GroupID    int      `bson:"group_id" json:"groupId"`
	Type       SeatType `bson:"type" json:"type"`
	DeskNumber int      `bson:"desk_number" json:"deskNumber"`
}

// GroupSpec describes one table group of a generated room.
type GroupSpec struct {
	ID       int `bson:"id" json:"id"`
	RowCount int `bson:"row_count" json:"rowCount"`
}

// SeatSpec is one seat of an explicitly described room.
type SeatSpec struct {
	ID      string   `bson:"id" json:"id"`
	Row     int      `bson:"row" json:"row"`
	Column  int      `bson:"column" json:"column"`
	GroupID int      `bson:"group_id" json:"groupId"`
	Type    SeatType `bson:"type" json:"type"`
}

// RoomShape is either an explicit seat list or a generator spec. A non-empty
// Seats list wins over Arrangement/Groups.
type RoomShape struct {
	Seats       []SeatSpec      `bson:"seats,omitempty" json:"seats,omitempty"`
	Arrangement SeatArrangement `bson:"arrangement,omitempty" json:"arrangement,omitempty"`
	Groups      []GroupSpec     `bson:"groups,omitempty" json:"groups,omitempty"`
}

// Explicit reports whether the shape carries its own seat list.
func (s RoomShape) Explicit() bool { return len(s.Seats) > 0 }

// SeatCount returns the number of seats the shape resolves to.
func (s RoomShape) SeatCount() int {
	if s.Explicit() {
		return len(s.Seats)
	}
	perRow := 1
	if s.Arrangement == ArrangementDouble {
		perRow = 2
	}
	n := 0
	for _, g := range s.Groups {
		if g.RowCount > 0 {
			n += g.RowCount * perRow
		}
	}
	return n
}

// Room is an exam room. Only active rooms receive students.
type Room struct {
	ID       string    `bson:"_id" json:"id"`
	Code     string    `bson:"code,omitempty" json:"code,omitempty"` // Short room code, e.g. "B-204"
	Name     string    `bson:"name" json:"name"`
	Active   bool      `bson:"active" json:"active"`
	Capacity int       `bson:"capacity" json:"capacity"`
	Shape    RoomShape `bson:"shape" json:"shape"`
}

// EffectiveCapacity returns the declared capacity, or the derived seat count
// when none was declared.
func (r Room) EffectiveCapacity() int {
	if r.Capacity > 0 {
		return r.Capacity
	}
	return r.Shape.SeatCount()
}

// Seat is a single placement slot.
type Seat struct {
	ID         string   `bson:"id" json:"id"`
	Row        int      `bson:"row" json:"row"`
	Column     int      `bson:"column" json:"column"`
	GroupID    int      `bson:"group_id" json:"groupId"`
	Type       SeatType `bson:"type" json:"type"`
	DeskNumber int      `bson:"desk_number" json:"deskNumber"`
	Occupant   *Student `bson:"occupant,omitempty" json:"occupant,omitempty"`
}

// Empty reports whether nobody sits on the seat.
func (s *Seat) Empty() bool { return s.Occupant == nil }

// RoomPool is the set of students handed to one room before placement.
type RoomPool struct {
	RoomID   string
	Students []Student
}
