package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hostel-admin/internal/db"
	"hostel-admin/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

type fixture struct {
	store  Store
	hostel model.Hostel
	room   model.Room
	alice  model.Student
	bob    model.Student
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := NewGormStore(db.NewTestDB(t))

	f := &fixture{store: s, ctx: ctx}
	f.hostel = model.Hostel{Name: "North Wing", Active: true}
	require.NoError(t, s.CreateHostel(ctx, &f.hostel))

	f.room = model.Room{HostelID: f.hostel.ID, Block: "B", RoomNumber: "204", Capacity: 4}
	require.NoError(t, s.CreateRoom(ctx, &f.room))

	f.alice = f.addStudent(t, "Alice", "alice@example.com", "CS-001")
	f.bob = f.addStudent(t, "Bob", "bob@example.com", "CS-002")
	return f
}

func (f *fixture) addStudent(t *testing.T, name, email, roll string) model.Student {
	t.Helper()
	u := model.User{Name: name, Email: email, PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, f.store.CreateUser(f.ctx, &u))
	st := model.Student{HostelID: f.hostel.ID, UserID: u.ID, RollNumber: roll}
	require.NoError(t, f.store.CreateStudent(f.ctx, &st))
	return st
}

func TestAllocate_OccupiesBed(t *testing.T) {
	f := newFixture(t)

	alloc, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 2)
	require.NoError(t, err)
	assert.True(t, alloc.Active)
	assert.Equal(t, 2, alloc.BedNumber)
	assert.Equal(t, "Alice", alloc.Student.User.Name)
	assert.Equal(t, "204", alloc.Room.RoomNumber)

	active, err := f.store.ActiveAllocationsByRoom(f.ctx, f.hostel.ID, f.room.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, f.alice.ID, active[0].StudentID)

	status, err := f.store.RoomStatus(f.ctx, f.hostel.ID, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatus{RoomID: f.room.ID, Capacity: 4, Occupied: 1, Available: 3}, *status)
}

func TestAllocate_Rejections(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 1)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		studentID int64
		roomID    int64
		bed       int
		expected  error
	}{
		{"bed already occupied", f.bob.ID, f.room.ID, 1, ErrConflict},
		{"student already allocated", f.alice.ID, f.room.ID, 3, ErrConflict},
		{"bed zero", f.bob.ID, f.room.ID, 0, ErrInvalid},
		{"bed beyond capacity", f.bob.ID, f.room.ID, 5, ErrInvalid},
		{"unknown room", f.bob.ID, 9999, 1, ErrNotFound},
		{"unknown student", 9999, f.room.ID, 2, ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.store.Allocate(f.ctx, f.hostel.ID, tc.studentID, tc.roomID, tc.bed)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestAllocate_OtherHostelIsInvisible(t *testing.T) {
	f := newFixture(t)
	other := model.Hostel{Name: "South Wing", Active: true}
	require.NoError(t, f.store.CreateHostel(f.ctx, &other))

	_, err := f.store.Allocate(f.ctx, other.ID, f.alice.ID, f.room.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeallocate_KeepsHistory(t *testing.T) {
	f := newFixture(t)
	alloc, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 2)
	require.NoError(t, err)

	released, err := f.store.Deallocate(f.ctx, f.hostel.ID, alloc.ID)
	require.NoError(t, err)
	assert.False(t, released.Active)
	require.NotNil(t, released.ReleasedAt)

	active, err := f.store.ActiveAllocationsByRoom(f.ctx, f.hostel.ID, f.room.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err := f.store.AllocationHistory(f.ctx, f.hostel.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Active)
	assert.Equal(t, 2, history[0].BedNumber)

	_, err = f.store.Deallocate(f.ctx, f.hostel.ID, alloc.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// The bed and the student are both free again.
	_, err = f.store.Allocate(f.ctx, f.hostel.ID, f.bob.ID, f.room.ID, 2)
	assert.NoError(t, err)
	_, err = f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 3)
	assert.NoError(t, err)

	n, err := f.store.CountActiveAllocations(f.ctx, f.hostel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUpdateRoom_CapacityDoesNotEvict(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 4)
	require.NoError(t, err)

	f.room.Capacity = 2
	require.NoError(t, f.store.UpdateRoom(f.ctx, &f.room))

	active, err := f.store.ActiveAllocationsByRoom(f.ctx, f.hostel.ID, f.room.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	status, err := f.store.RoomStatus(f.ctx, f.hostel.ID, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Occupied)
	assert.Equal(t, 1, status.Available)
}

func TestDeleteRoom_RefusesWhileOccupiedOrWithHistory(t *testing.T) {
	f := newFixture(t)
	alloc, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, f.store.DeleteRoom(f.ctx, f.hostel.ID, f.room.ID), ErrConflict)

	_, err = f.store.Deallocate(f.ctx, f.hostel.ID, alloc.ID)
	require.NoError(t, err)

	// Released, but the stay is still part of Alice's history.
	assert.ErrorIs(t, f.store.DeleteRoom(f.ctx, f.hostel.ID, f.room.ID), ErrConflict)
	history, err := f.store.AllocationHistory(f.ctx, f.hostel.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	unused := model.Room{HostelID: f.hostel.ID, Block: "C", RoomNumber: "12", Capacity: 2}
	require.NoError(t, f.store.CreateRoom(f.ctx, &unused))
	require.NoError(t, f.store.DeleteRoom(f.ctx, f.hostel.ID, unused.ID))

	_, err = f.store.GetRoom(f.ctx, f.hostel.ID, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateStudent_UserLinkedOnce(t *testing.T) {
	f := newFixture(t)
	dup := model.Student{HostelID: f.hostel.ID, UserID: f.alice.UserID, RollNumber: "CS-999"}
	assert.ErrorIs(t, f.store.CreateStudent(f.ctx, &dup), ErrConflict)

	missing := model.Student{HostelID: f.hostel.ID, UserID: 424242, RollNumber: "CS-998"}
	assert.ErrorIs(t, f.store.CreateStudent(f.ctx, &missing), ErrNotFound)
}

func TestFees_MarkPaid(t *testing.T) {
	f := newFixture(t)
	fee := model.Fee{
		HostelID:  f.hostel.ID,
		StudentID: f.alice.ID,
		Month:     "2026-09",
		Amount:    4500,
		DueDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.CreateFee(f.ctx, &fee))
	assert.Equal(t, model.FeeUnpaid, fee.Status)
	assert.Equal(t, "CS-001", fee.Student.RollNumber)

	paid, err := f.store.MarkFeePaid(f.ctx, f.hostel.ID, fee.ID, time.Now().UTC(), "R-1")
	require.NoError(t, err)
	assert.Equal(t, model.FeePaid, paid.Status)
	assert.Equal(t, "R-1", paid.ReceiptNumber)
	assert.NotNil(t, paid.PaidAt)

	_, err = f.store.MarkFeePaid(f.ctx, f.hostel.ID, fee.ID, time.Now().UTC(), "R-2")
	assert.ErrorIs(t, err, ErrConflict)

	unpaid, err := f.store.ListFees(f.ctx, f.hostel.ID, FeeFilter{Status: model.FeeUnpaid})
	require.NoError(t, err)
	assert.Empty(t, unpaid)
}

func TestFees_Validation(t *testing.T) {
	f := newFixture(t)
	bad := model.Fee{HostelID: f.hostel.ID, StudentID: f.alice.ID, Month: "September", Amount: 10, DueDate: time.Now()}
	assert.ErrorIs(t, f.store.CreateFee(f.ctx, &bad), ErrInvalid)

	bad = model.Fee{HostelID: f.hostel.ID, StudentID: f.alice.ID, Month: "2026-09", Amount: 0, DueDate: time.Now()}
	assert.ErrorIs(t, f.store.CreateFee(f.ctx, &bad), ErrInvalid)
}

func TestInventory_SearchAndLowStock(t *testing.T) {
	f := newFixture(t)
	for _, item := range []model.InventoryItem{
		{HostelID: f.hostel.ID, ItemName: "Rice", Quantity: 40, Unit: "kg"},
		{HostelID: f.hostel.ID, ItemName: "Brown Rice", Quantity: 5, Unit: "kg"},
		{HostelID: f.hostel.ID, ItemName: "Milk", Quantity: 10, Unit: "l"},
	} {
		item := item
		require.NoError(t, f.store.CreateItem(f.ctx, &item))
	}

	found, err := f.store.SearchInventory(f.ctx, f.hostel.ID, "rice")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	low, err := f.store.LowStock(f.ctx, f.hostel.ID, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Brown Rice", low[0].ItemName)
	assert.Equal(t, "Milk", low[1].ItemName)
}

func TestDeleteHostel_RemovesScopedRows(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Allocate(f.ctx, f.hostel.ID, f.alice.ID, f.room.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteHostel(f.ctx, f.hostel.ID))

	rooms, err := f.store.ListRooms(f.ctx, f.hostel.ID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.ErrorIs(t, f.store.DeleteHostel(f.ctx, f.hostel.ID), ErrNotFound)
}

func TestGormStore_CountActiveAllocations_SQL(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "allocations" WHERE hostel_id = $1 AND active = $2`)).
		WithArgs(int64(7), true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := s.CountActiveAllocations(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_LowStock_SQL(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventory_items" WHERE hostel_id = $1 AND quantity <= $2 ORDER BY quantity, item_name`)).
		WithArgs(int64(7), 12.5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_id", "item_name", "quantity", "unit"}).
			AddRow(1, 7, "Dal", 2.5, "kg"))

	items, err := s.LowStock(context.Background(), 7, 12.5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dal", items[0].ItemName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteFee_NotFound_SQL(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "fees" WHERE hostel_id = $1 AND "fees"."id" = $2`)).
		WithArgs(int64(7), Any{}).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteFee(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
