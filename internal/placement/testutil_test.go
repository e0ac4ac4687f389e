package placement

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func stu(id, class, gender string) Student {
	return Student{ID: id, Name: "Student " + id, ClassLabel: class, Gender: gender}
}

// blockRoom is an explicit rows x cols room whose seats all share group 1.
func blockRoom(id string, rows, cols int) Room {
	var seats []SeatSpec
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			seats = append(seats, SeatSpec{Row: r, Column: c, GroupID: 1})
		}
	}
	return Room{ID: id, Name: "Room " + id, Active: true, Shape: RoomShape{Seats: seats}}
}

// columnsRoom is a generated single-arrangement room of groups columns, each
// its own group, rows deep.
func columnsRoom(id string, groups, rows int) Room {
	specs := make([]GroupSpec, groups)
	for i := range specs {
		specs[i] = GroupSpec{ID: i + 1, RowCount: rows}
	}
	return Room{
		ID:       id,
		Name:     "Room " + id,
		Active:   true,
		Capacity: groups * rows,
		Shape:    RoomShape{Arrangement: ArrangementSingle, Groups: specs},
	}
}

// doubleRoom is a generated double-desk room of groups desk columns, rows
// deep, so each group holds two seats per row.
func doubleRoom(id string, groups, rows int) Room {
	room := columnsRoom(id, groups, rows)
	room.Capacity = 2 * groups * rows
	room.Shape.Arrangement = ArrangementDouble
	return room
}

func mustLayout(t *testing.T, room Room) *Layout {
	t.Helper()
	l, err := BuildLayout(room)
	require.NoError(t, err)
	return l
}

// cohort builds n students per class label with alternating genders.
func cohort(n int, labels ...string) []Student {
	var out []Student
	for _, label := range labels {
		for i := 0; i < n; i++ {
			gender := "F"
			if i%2 == 0 {
				gender = "M"
			}
			out = append(out, stu(fmt.Sprintf("%s-%02d", label, i), label, gender))
		}
	}
	return out
}

// assertTierZeroSound checks every occupied seat against all three rules.
func assertTierZeroSound(t *testing.T, l *Layout) {
	t.Helper()
	for _, seat := range l.Occupied() {
		require.True(t, TierStrict.Allows(*seat.Occupant, seat, l),
			"seat %s holds %s which breaks a strict rule", seat.ID, seat.Occupant.ID)
	}
}
