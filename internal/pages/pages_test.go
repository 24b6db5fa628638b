package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
	"hostel-admin/internal/pagestate"
)

func student(id int64, name, email, roll string) model.Student {
	return model.Student{ID: id, RollNumber: roll, User: model.User{Name: name, Email: email}}
}

var feeFixture = []model.Fee{
	{ID: 1, Status: model.FeeUnpaid, Student: student(1, "Alice Rao", "alice@example.com", "CS-2024-001")},
	{ID: 2, Status: model.FeePaid, Student: student(1, "Alice Rao", "alice@example.com", "CS-2024-001")},
	{ID: 3, Status: model.FeeUnpaid, Student: student(2, "Bob Iyer", "bob@example.com", "ME-2024-017")},
	{ID: 4, Status: model.FeePaid, Student: student(3, "Alina Das", "alina@example.com", "cs-2023-090")},
}

func ids(fees []model.Fee) []int64 {
	out := []int64{}
	for _, f := range fees {
		out = append(out, f.ID)
	}
	return out
}

func TestFilterFees_RollSubstringCaseInsensitive(t *testing.T) {
	tests := []struct {
		roll string
		want []int64
	}{
		{"cs-", []int64{1, 2, 4}},
		{"CS-2024", []int64{1, 2}},
		{"017", []int64{3}},
		{"", []int64{1, 2, 3, 4}},
		{"XX", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.roll, func(t *testing.T) {
			got := FilterFees(feeFixture, FeeFilter{Roll: tt.roll})
			assert.Equal(t, tt.want, ids(got))
			for _, f := range got {
				assert.Contains(t, strings.ToLower(f.Student.RollNumber), strings.ToLower(tt.roll))
			}
		})
	}
}

func TestFilterFees_CombinedFiltersIntersect(t *testing.T) {
	filters := []FeeFilter{
		{Roll: "cs", Name: "ali", Status: model.FeePaid},
		{Roll: "cs", Name: "ali"},
		{Name: "ALI", Status: model.FeeUnpaid},
		{Roll: "ME", Status: model.FeePaid},
	}
	for _, ff := range filters {
		t.Run(fmt.Sprintf("%+v", ff), func(t *testing.T) {
			want := feeFixture
			if ff.Roll != "" {
				want = FilterFees(want, FeeFilter{Roll: ff.Roll})
			}
			if ff.Name != "" {
				want = FilterFees(want, FeeFilter{Name: ff.Name})
			}
			if ff.Status != "" {
				want = FilterFees(want, FeeFilter{Status: ff.Status})
			}
			assert.Equal(t, ids(want), ids(FilterFees(feeFixture, ff)))
		})
	}

	assert.Equal(t, []int64{2, 4}, ids(FilterFees(feeFixture, FeeFilter{Roll: "cs", Name: "ali", Status: model.FeePaid})))
	assert.Equal(t, []int64{}, ids(FilterFees(feeFixture, FeeFilter{Roll: "ME", Status: model.FeePaid})))
}

func TestFilterLowStock_Boundary(t *testing.T) {
	items := []model.InventoryItem{
		{ID: 1, ItemName: "Rice", Quantity: 0},
		{ID: 2, ItemName: "Dal", Quantity: 9.5},
		{ID: 3, ItemName: "Salt", Quantity: 10},
		{ID: 4, ItemName: "Oil", Quantity: 25},
		{ID: 5, ItemName: "Tea", Quantity: 50},
		{ID: 6, ItemName: "Sugar", Quantity: 50.5},
	}
	for threshold := 0; threshold <= model.MaxLowStockThreshold; threshold++ {
		low := FilterLowStock(items, float64(threshold))
		flagged := map[int64]bool{}
		for _, it := range low {
			flagged[it.ID] = true
		}
		for _, it := range items {
			assert.Equal(t, it.Quantity <= float64(threshold), flagged[it.ID], "item %s threshold %d", it.ItemName, threshold)
		}
	}
}

func TestCheckThreshold(t *testing.T) {
	assert.NoError(t, CheckThreshold(0))
	assert.NoError(t, CheckThreshold(model.DefaultLowStockThreshold))
	assert.NoError(t, CheckThreshold(50))
	assert.ErrorIs(t, CheckThreshold(-1), ErrThresholdRange)
	assert.ErrorIs(t, CheckThreshold(50.1), ErrThresholdRange)
}

// fakeBackend backs every page interface with canned data.
type fakeBackend struct {
	mu        sync.Mutex
	rooms     []model.Room
	statuses  map[int64]model.RoomStatus
	statusErr error
	students  []model.Student
	housing   map[int64][]model.Allocation
	fees      []model.Fee
	items     []model.InventoryItem
	lowCalls  []float64
}

func (f *fakeBackend) ListRooms(ctx context.Context) ([]model.Room, error) { return f.rooms, nil }
func (f *fakeBackend) CreateRoom(ctx context.Context, in apiclient.RoomInput) (*model.Room, error) {
	return &model.Room{ID: 99, Block: in.Block, RoomNumber: in.RoomNumber, Capacity: in.Capacity}, nil
}
func (f *fakeBackend) UpdateRoom(ctx context.Context, id int64, in apiclient.RoomInput) (*model.Room, error) {
	return &model.Room{ID: id, Block: in.Block, RoomNumber: in.RoomNumber, Capacity: in.Capacity}, nil
}
func (f *fakeBackend) DeleteRoom(ctx context.Context, id int64) error { return nil }
func (f *fakeBackend) RoomStatus(ctx context.Context, id int64) (*model.RoomStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil && id == 2 {
		return nil, f.statusErr
	}
	st := f.statuses[id]
	return &st, nil
}

func (f *fakeBackend) ListStudents(ctx context.Context) ([]model.Student, error) {
	return f.students, nil
}
func (f *fakeBackend) CreateStudent(ctx context.Context, in apiclient.StudentInput) (*model.Student, error) {
	return &model.Student{ID: 50, UserID: in.UserID, RollNumber: in.RollNumber}, nil
}
func (f *fakeBackend) UpdateStudent(ctx context.Context, id int64, in apiclient.StudentInput) (*model.Student, error) {
	return &model.Student{ID: id, RollNumber: in.RollNumber}, nil
}
func (f *fakeBackend) DeleteStudent(ctx context.Context, id int64) error { return nil }
func (f *fakeBackend) AllocationsByStudent(ctx context.Context, id int64) ([]model.Allocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.housing[id], nil
}

func (f *fakeBackend) ListFees(ctx context.Context, q apiclient.FeeQuery) ([]model.Fee, error) {
	return append([]model.Fee(nil), f.fees...), nil
}
func (f *fakeBackend) CreateFee(ctx context.Context, in apiclient.FeeInput) (*model.Fee, error) {
	return &model.Fee{ID: 70, StudentID: in.StudentID, Month: in.Month, Amount: in.Amount, Status: model.FeeUnpaid}, nil
}
func (f *fakeBackend) UpdateFee(ctx context.Context, id int64, in apiclient.FeeInput) (*model.Fee, error) {
	return &model.Fee{ID: id, Month: in.Month, Amount: in.Amount}, nil
}
func (f *fakeBackend) DeleteFee(ctx context.Context, id int64) error { return nil }
func (f *fakeBackend) MarkFeePaid(ctx context.Context, id int64) (*model.Fee, error) {
	for _, fee := range f.fees {
		if fee.ID == id {
			if fee.Status == model.FeePaid {
				return nil, &apiclient.Error{Status: http.StatusConflict, Title: "Conflict", Message: "already paid"}
			}
			now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
			fee.Status, fee.PaidAt, fee.ReceiptNumber = model.FeePaid, &now, "RCT-0001"
			return &fee, nil
		}
	}
	return nil, &apiclient.Error{Status: http.StatusNotFound, Title: "Not found", Message: "fee"}
}
func (f *fakeBackend) DownloadReceipt(ctx context.Context, id int64, w io.Writer) error {
	_, err := io.WriteString(w, "Fee Receipt RCT-0001\n")
	return err
}

func (f *fakeBackend) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	return f.items, nil
}
func (f *fakeBackend) CreateItem(ctx context.Context, in apiclient.ItemInput) (*model.InventoryItem, error) {
	return &model.InventoryItem{ID: 80, ItemName: in.ItemName, Quantity: in.Quantity, Unit: in.Unit}, nil
}
func (f *fakeBackend) UpdateItem(ctx context.Context, id int64, in apiclient.ItemInput) (*model.InventoryItem, error) {
	return &model.InventoryItem{ID: id, ItemName: in.ItemName, Quantity: in.Quantity, Unit: in.Unit}, nil
}
func (f *fakeBackend) DeleteItem(ctx context.Context, id int64) error { return nil }
func (f *fakeBackend) LowStock(ctx context.Context, threshold float64) ([]model.InventoryItem, error) {
	f.lowCalls = append(f.lowCalls, threshold)
	return FilterLowStock(f.items, threshold), nil
}

func TestRoomsPage_StatusWave(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{
		rooms: []model.Room{{ID: 1, RoomNumber: "101", Capacity: 2}, {ID: 2, RoomNumber: "102", Capacity: 3}},
		statuses: map[int64]model.RoomStatus{
			1: {RoomID: 1, Capacity: 2, Occupied: 2, Available: 0},
			2: {RoomID: 2, Capacity: 3, Occupied: 1, Available: 2},
		},
	}
	p := NewRoomsPage(api)
	require.NoError(t, p.Load(ctx))

	st, ok := p.Status(2)
	require.True(t, ok)
	assert.Equal(t, 2, st.Available)

	api.statusErr = &apiclient.Error{Status: 500, Title: "Server error", Message: "status unavailable"}
	err := p.Load(ctx)
	require.Error(t, err)
	assert.Len(t, p.Items(), 2, "room list survives a failed status wave")
	st, ok = p.Status(1)
	require.True(t, ok, "previous statuses kept")
	assert.Equal(t, 2, st.Occupied)
	phase, n := p.Phase()
	assert.Equal(t, pagestate.Error, phase)
	assert.Equal(t, "status unavailable", n.Message)
}

func TestStudentsPage_SearchAndHousing(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{
		students: []model.Student{
			student(1, "Alice Rao", "alice@example.com", "CS-001"),
			student(2, "Bob Iyer", "bob@uni.edu", "ME-017"),
		},
		housing: map[int64][]model.Allocation{
			1: {{ID: 5, StudentID: 1, RoomID: 3, BedNumber: 2, Active: true}},
		},
	}
	p := NewStudentsPage(api)
	require.NoError(t, p.Load(ctx))

	assert.Len(t, p.Search(""), 2)
	assert.Equal(t, int64(2), p.Search("UNI.EDU")[0].ID)
	assert.Equal(t, int64(1), p.Search("cs-0")[0].ID)
	assert.Equal(t, int64(2), p.Search("iyer")[0].ID)
	assert.Empty(t, p.Search("zed"))

	require.NoError(t, p.LoadAllocations(ctx))
	a, ok := p.Housing(1)
	require.True(t, ok)
	assert.Equal(t, 2, a.BedNumber)
	_, ok = p.Housing(2)
	assert.False(t, ok)

	alloc, err := p.AllocationOf(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, alloc)
}

func TestFeesPage_MarkPaidAndReceipt(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{fees: append([]model.Fee(nil), feeFixture...)}
	p := NewFeesPage(api)
	require.NoError(t, p.Load(ctx))

	paid, err := p.MarkPaid(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "RCT-0001", paid.ReceiptNumber)
	assert.Equal(t, []int64{2, 3, 4}, ids(p.Filtered(FeeFilter{Status: model.FeePaid})))

	_, err = p.MarkPaid(ctx, 2)
	require.Error(t, err)
	phase, n := p.Phase()
	assert.Equal(t, pagestate.Error, phase)
	assert.Equal(t, "already paid", n.Message)

	var buf strings.Builder
	require.NoError(t, p.DownloadReceipt(ctx, 3, &buf))
	assert.Contains(t, buf.String(), "RCT-0001")
}

func TestInventoryPage_SearchAndLowStock(t *testing.T) {
	ctx := context.Background()
	api := &fakeBackend{items: []model.InventoryItem{
		{ID: 1, ItemName: "Basmati Rice", Quantity: 4, Unit: "kg"},
		{ID: 2, ItemName: "Rice Flour", Quantity: 12, Unit: "kg"},
		{ID: 3, ItemName: "Salt", Quantity: 10, Unit: "kg"},
	}}
	p := NewInventoryPage(api)
	require.NoError(t, p.Load(ctx))

	assert.Len(t, p.Search("rice"), 2)

	low, err := p.LowStock(model.DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Len(t, low, 2)
	assert.Empty(t, api.lowCalls, "local filter issues no request")

	_, err = p.LowStock(51)
	assert.True(t, errors.Is(err, ErrThresholdRange))

	low, err = p.ServerLowStock(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, low, 1)
	assert.Equal(t, []float64{5}, api.lowCalls)
}
