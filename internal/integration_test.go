package internal

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-admin/config"
	"hostel-admin/internal/allocation"
	"hostel-admin/internal/api"
	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/auth"
	"hostel-admin/internal/db"
	"hostel-admin/internal/model"
	"hostel-admin/internal/notification"
	"hostel-admin/internal/pages"
	"hostel-admin/internal/pagestate"
	"hostel-admin/internal/session"
	"hostel-admin/internal/stockwatch"
	"hostel-admin/internal/store"
)

type backend struct {
	store  store.Store
	client *apiclient.Client
	hostel model.Hostel
}

// startBackend runs the real router over an in-memory database and returns an
// admin client already scoped to a fresh hostel.
func startBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewGormStore(db.NewTestDB(t))
	cfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTL: time.Minute}
	srv := httptest.NewServer(api.NewRouter(s, auth.NewIssuer("integration-secret", time.Hour), &webpush.Options{}, cfg))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	base := apiclient.New(srv.URL, srv.Client())
	tok, err := base.Signup(ctx, "Warden", "warden@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, tok.Role)

	sess, err := session.Open(t.TempDir() + "/session.yaml")
	require.NoError(t, err)
	require.NoError(t, sess.Login(tok.Token, tok.Role))

	hostel, err := sess.Client(base).CreateHostel(ctx, apiclient.HostelInput{Name: "North Wing"})
	require.NoError(t, err)
	require.NoError(t, sess.SelectHostel(*hostel))

	_, err = sess.RequireHostel()
	require.NoError(t, err)
	return &backend{store: s, client: sess.Client(base), hostel: *hostel}
}

func (b *backend) enrol(t *testing.T, name, email, roll string) model.Student {
	t.Helper()
	ctx := context.Background()
	_, err := b.client.Signup(ctx, name, email, "secret1")
	require.NoError(t, err)
	user, err := b.client.FindUser(ctx, email)
	require.NoError(t, err)
	st, err := b.client.CreateStudent(ctx, apiclient.StudentInput{UserID: user.ID, RollNumber: roll})
	require.NoError(t, err)
	return *st
}

func states(grid []allocation.Slot) []allocation.SlotState {
	out := make([]allocation.SlotState, len(grid))
	for i, s := range grid {
		out[i] = s.State
	}
	return out
}

// TestBedLifecycle walks a four-bed room from empty to occupied and back,
// checking the grid and the allocation history against the live backend.
func TestBedLifecycle(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()

	room, err := b.client.CreateRoom(ctx, apiclient.RoomInput{Block: "B", RoomNumber: "204", Capacity: 4})
	require.NoError(t, err)
	sam := b.enrol(t, "Sam", "sam@example.com", "CS-042")

	view := allocation.NewView(ctx, b.client, room.ID)
	defer view.Close()

	// --- Empty room ---
	require.NoError(t, view.LoadRoomState(ctx))
	av, oc := allocation.Available, allocation.Occupied
	assert.Equal(t, []allocation.SlotState{av, av, av, av}, states(view.Grid()))

	// --- Allocate bed 2 ---
	view.SelectStudent(sam.ID)
	_, err = view.AllocateSelected(ctx, 2)
	require.NoError(t, err)
	phase, notice := view.Phase()
	assert.Equal(t, pagestate.Success, phase)
	assert.Equal(t, "Bed allocated", notice.Title)
	assert.Zero(t, view.Selected())

	grid := view.Grid()
	assert.Equal(t, []allocation.SlotState{av, oc, av, av}, states(grid))
	assert.Equal(t, "Sam", grid[1].Student)

	status, err := b.client.RoomStatus(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatus{RoomID: room.ID, Capacity: 4, Occupied: 1, Available: 3}, *status)

	// --- Same bed again is refused by the server ---
	other := b.enrol(t, "Ana", "ana@example.com", "CS-043")
	_, err = view.Allocate(ctx, 2, other.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apiclient.StatusOf(err))
	phase, notice = view.Phase()
	assert.Equal(t, pagestate.Error, phase)
	assert.Equal(t, "Conflict", notice.Title)
	assert.True(t, strings.Contains(notice.Message, "already occupied"), notice.Message)
	assert.Equal(t, []allocation.SlotState{av, oc, av, av}, states(view.Grid()))

	// --- Deallocate bed 2 ---
	_, err = view.Deallocate(ctx, grid[1].Allocation.ID)
	require.NoError(t, err)
	assert.Equal(t, []allocation.SlotState{av, av, av, av}, states(view.Grid()))

	hist, err := view.History(ctx, sam.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.False(t, hist[0].Active)
	assert.Equal(t, 2, hist[0].BedNumber)
	assert.NotNil(t, hist[0].ReleasedAt)

	count, err := b.client.AllocationCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFeeLifecycle(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	sam := b.enrol(t, "Sam", "sam@example.com", "CS-042")
	ana := b.enrol(t, "Ana", "ana@example.com", "EE-007")

	page := pages.NewFeesPage(b.client)
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	for _, st := range []model.Student{sam, ana} {
		_, err := page.Create(ctx, apiclient.FeeInput{StudentID: st.ID, Month: "2026-09", Amount: 4500, DueDate: due})
		require.NoError(t, err)
	}
	require.NoError(t, page.Load(ctx))
	require.Len(t, page.Items(), 2)

	cs := page.Filtered(pages.FeeFilter{Roll: "cs-"})
	require.Len(t, cs, 1)
	assert.Equal(t, sam.ID, cs[0].StudentID)

	paid, err := page.MarkPaid(ctx, cs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.FeePaid, paid.Status)
	assert.True(t, strings.HasPrefix(paid.ReceiptNumber, "RCT-"), paid.ReceiptNumber)

	assert.Len(t, page.Filtered(pages.FeeFilter{Status: model.FeePaid}), 1)
	assert.Empty(t, page.Filtered(pages.FeeFilter{Roll: "EE", Status: model.FeePaid}))

	var receipt strings.Builder
	require.NoError(t, page.DownloadReceipt(ctx, paid.ID, &receipt))
	assert.Contains(t, receipt.String(), paid.ReceiptNumber)
	assert.Contains(t, receipt.String(), "North Wing")

	err = page.DownloadReceipt(ctx, page.Filtered(pages.FeeFilter{Roll: "EE"})[0].ID, &receipt)
	assert.Equal(t, 409, apiclient.StatusOf(err))
}

type alertLog struct {
	mu     sync.Mutex
	alerts []notification.Alert
}

func (l *alertLog) Dispatch(a notification.Alert) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alerts = append(l.alerts, a)
}

// TestStockLifecycle edits stock through the API and checks that the watcher
// alerts once when an item runs low and again only after it has recovered.
func TestStockLifecycle(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()

	page := pages.NewInventoryPage(b.client)
	rice, err := page.Create(ctx, apiclient.ItemInput{ItemName: "Rice", Quantity: 25, Unit: "kg"})
	require.NoError(t, err)

	sink := &alertLog{}
	watcher := stockwatch.NewService(config.StockWatchConfig{Enabled: true, Interval: time.Hour, Threshold: 10}, b.store, sink)
	assert.Empty(t, watcher.ScanOnce(ctx))

	_, err = page.Update(ctx, rice.ID, apiclient.ItemInput{ItemName: "Rice", Quantity: 4, Unit: "kg"})
	require.NoError(t, err)
	low, err := page.LowStock(model.DefaultLowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 1)

	alerts := watcher.ScanOnce(ctx)
	require.Len(t, alerts, 1)
	assert.Equal(t, b.hostel.ID, alerts[0].HostelID)
	msg := notification.BuildMessage(b.hostel.Name, alerts[0])
	assert.Equal(t, "Low stock in North Wing", msg.Title)
	assert.Equal(t, "Rice is down to 4 kg", msg.Body)
	assert.Empty(t, watcher.ScanOnce(ctx))

	_, err = page.Update(ctx, rice.ID, apiclient.ItemInput{ItemName: "Rice", Quantity: 30, Unit: "kg"})
	require.NoError(t, err)
	assert.Empty(t, watcher.ScanOnce(ctx))
	_, err = page.Update(ctx, rice.ID, apiclient.ItemInput{ItemName: "Rice", Quantity: 2, Unit: "kg"})
	require.NoError(t, err)
	assert.Len(t, watcher.ScanOnce(ctx), 1)

	assert.Len(t, sink.alerts, 2)
}
