package allocation

import (
	"sort"

	"hostel-admin/internal/model"
)

// SlotState is the occupancy of one bed.
type SlotState int

const (
	Available SlotState = iota
	Occupied
)

func (s SlotState) String() string {
	if s == Occupied {
		return "Occupied"
	}
	return "Available"
}

// Slot is one bed of the grid.
type Slot struct {
	Bed        int
	State      SlotState
	Allocation *model.Allocation
	Student    string
	RollNumber string
}

// RoomState is a consistent snapshot of one room.
type RoomState struct {
	Room     model.Room
	Students []model.Student

	// Beds maps bed number to its active allocation.
	Beds map[int]model.Allocation
	// Overflow holds active allocations on beds beyond the current capacity.
	Overflow []model.Allocation
}

func buildRoomState(room model.Room, allocs []model.Allocation, students []model.Student) *RoomState {
	byID := make(map[int64]model.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	rs := &RoomState{Room: room, Students: students, Beds: make(map[int]model.Allocation)}
	for _, a := range allocs {
		if !a.Active {
			continue
		}
		if a.Student.ID == 0 {
			if st, ok := byID[a.StudentID]; ok {
				a.Student = st
			}
		}
		if a.BedNumber >= 1 && a.BedNumber <= room.Capacity {
			rs.Beds[a.BedNumber] = a
		} else {
			rs.Overflow = append(rs.Overflow, a)
		}
	}
	sort.Slice(rs.Overflow, func(i, j int) bool { return rs.Overflow[i].BedNumber < rs.Overflow[j].BedNumber })
	return rs
}

// Grid returns exactly Capacity slots numbered from 1.
func (rs *RoomState) Grid() []Slot {
	slots := make([]Slot, rs.Room.Capacity)
	for i := range slots {
		bed := i + 1
		slots[i] = Slot{Bed: bed, State: Available}
		if a, ok := rs.Beds[bed]; ok {
			a := a
			slots[i] = Slot{
				Bed:        bed,
				State:      Occupied,
				Allocation: &a,
				Student:    studentName(a.Student),
				RollNumber: a.Student.RollNumber,
			}
		}
	}
	return slots
}

// Counts returns occupied and available beds within capacity.
func (rs *RoomState) Counts() (occupied, available int) {
	for _, s := range rs.Grid() {
		if s.State == Occupied {
			occupied++
		}
	}
	return occupied, rs.Room.Capacity - occupied
}

// Unhoused returns the students without an active allocation in this room, for the picker.
func (rs *RoomState) Unhoused() []model.Student {
	housed := make(map[int64]bool)
	for _, a := range rs.Beds {
		housed[a.StudentID] = true
	}
	for _, a := range rs.Overflow {
		housed[a.StudentID] = true
	}
	var out []model.Student
	for _, st := range rs.Students {
		if !housed[st.ID] {
			out = append(out, st)
		}
	}
	return out
}

func studentName(st model.Student) string {
	if st.User.Name != "" {
		return st.User.Name
	}
	return st.RollNumber
}
