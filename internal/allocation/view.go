// Package allocation models one room's bed grid and the allocate/deallocate actions on it.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"hostel-admin/internal/model"
	"hostel-admin/internal/pagestate"
)

// ErrNoStudentSelected is returned by Allocate without a request when no student is chosen.
var ErrNoStudentSelected = errors.New("select a student first")

// API is the subset of the REST client the view needs. *apiclient.Client implements it.
type API interface {
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	AllocationsByRoom(ctx context.Context, roomID int64) ([]model.Allocation, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	Allocate(ctx context.Context, studentID, roomID int64, bed int) (*model.Allocation, error)
	Deallocate(ctx context.Context, allocationID int64) (*model.Allocation, error)
	AllocationHistory(ctx context.Context, studentID int64) ([]model.Allocation, error)
}

// View is the page model for one room. Mutations are serialized per view by
// an in-flight flag; the server arbitrates everything else.
type View struct {
	pagestate.State

	api    API
	roomID int64
	action pagestate.Action

	life context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	room     *RoomState
	selected int64
	gen      uint64
}

// NewView creates a view bound to parent; Close or cancelling parent abandons every call in flight.
func NewView(parent context.Context, api API, roomID int64) *View {
	life, stop := context.WithCancel(parent)
	return &View{api: api, roomID: roomID, life: life, stop: stop}
}

// Close tears the view down. Responses arriving afterwards are dropped.
func (v *View) Close() {
	v.stop()
}

// scope derives a request context that also ends when the view closes.
func (v *View) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	unregister := context.AfterFunc(v.life, cancel)
	return ctx, func() {
		unregister()
		cancel()
	}
}

// Room returns the last loaded state, or nil before the first successful load.
func (v *View) Room() *RoomState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.room
}

// Grid returns the bed slots of the last loaded state.
func (v *View) Grid() []Slot {
	if rs := v.Room(); rs != nil {
		return rs.Grid()
	}
	return nil
}

// Busy reports whether an allocate or deallocate is in flight.
func (v *View) Busy() bool {
	return v.action.Busy()
}

// SelectStudent chooses the student the next Allocate will house. Zero clears it.
func (v *View) SelectStudent(studentID int64) {
	v.mu.Lock()
	v.selected = studentID
	v.mu.Unlock()
}

// Selected returns the student picked for the next allocation, or 0.
func (v *View) Selected() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// LoadRoomState fetches the room, its active allocations and the student list
// concurrently and replaces the view's state only if all three succeed.
func (v *View) LoadRoomState(ctx context.Context) error {
	ctx, cancel := v.scope(ctx)
	defer cancel()
	return v.load(ctx)
}

func (v *View) load(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	v.Begin()

	var (
		room     *model.Room
		allocs   []model.Allocation
		students []model.Student
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		room, err = v.api.GetRoom(gctx, v.roomID)
		return err
	})
	g.Go(func() error {
		var err error
		allocs, err = v.api.AllocationsByRoom(gctx, v.roomID)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = v.api.ListStudents(gctx)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if gen == v.gen {
			v.Settle()
		}
		return ctxErr
	}
	if gen != v.gen {
		return nil
	}
	if err != nil {
		v.Fail(err)
		return err
	}
	v.room = buildRoomState(*room, allocs, students)
	v.Settle()
	return nil
}

// Allocate houses studentID in bed and refreshes the room. The selection is
// cleared on success. Occupancy and uniqueness are left to the server.
func (v *View) Allocate(ctx context.Context, bed int, studentID int64) (*model.Allocation, error) {
	if studentID == 0 {
		return nil, ErrNoStudentSelected
	}
	done, err := v.action.Start()
	if err != nil {
		return nil, err
	}
	defer done()

	ctx, cancel := v.scope(ctx)
	defer cancel()

	alloc, err := v.api.Allocate(ctx, studentID, v.roomID, bed)
	if err != nil {
		v.fail(ctx, err)
		return nil, err
	}

	v.mu.Lock()
	if v.selected == studentID {
		v.selected = 0
	}
	v.mu.Unlock()

	if err := v.load(ctx); err != nil {
		return alloc, err
	}
	v.Succeed("Bed allocated", fmt.Sprintf("%s now occupies bed %d.", studentName(alloc.Student), bed))
	return alloc, nil
}

// AllocateSelected allocates bed to the selected student.
func (v *View) AllocateSelected(ctx context.Context, bed int) (*model.Allocation, error) {
	return v.Allocate(ctx, bed, v.Selected())
}

// Deallocate releases an allocation and refreshes the room.
func (v *View) Deallocate(ctx context.Context, allocationID int64) (*model.Allocation, error) {
	done, err := v.action.Start()
	if err != nil {
		return nil, err
	}
	defer done()

	ctx, cancel := v.scope(ctx)
	defer cancel()

	alloc, err := v.api.Deallocate(ctx, allocationID)
	if err != nil {
		v.fail(ctx, err)
		return nil, err
	}
	if err := v.load(ctx); err != nil {
		return alloc, err
	}
	v.Succeed("Bed released", fmt.Sprintf("Bed %d is now available.", alloc.BedNumber))
	return alloc, nil
}

// History returns every allocation the student ever held, including inactive ones.
func (v *View) History(ctx context.Context, studentID int64) ([]model.Allocation, error) {
	ctx, cancel := v.scope(ctx)
	defer cancel()

	hist, err := v.api.AllocationHistory(ctx, studentID)
	if err != nil {
		v.fail(ctx, err)
		return nil, err
	}
	sort.SliceStable(hist, func(i, j int) bool {
		return hist[i].AllocatedAt.After(hist[j].AllocatedAt)
	})
	return hist, nil
}

func (v *View) fail(ctx context.Context, err error) {
	if ctx.Err() == nil {
		v.Fail(err)
	}
}
