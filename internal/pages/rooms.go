// Package pages holds the page models behind the admin console's CRUD screens.
package pages

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/model"
)

// waveLimit caps concurrent follow-up requests issued after a list loads.
const waveLimit = 4

// RoomsAPI is implemented by *apiclient.Client.
type RoomsAPI interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	CreateRoom(ctx context.Context, in apiclient.RoomInput) (*model.Room, error)
	UpdateRoom(ctx context.Context, id int64, in apiclient.RoomInput) (*model.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	RoomStatus(ctx context.Context, id int64) (*model.RoomStatus, error)
}

// RoomsPage lists rooms and, once the list is in, their occupancy.
type RoomsPage struct {
	*collection.List[model.Room, apiclient.RoomInput]
	api RoomsAPI

	mu       sync.Mutex
	statuses map[int64]model.RoomStatus
}

func NewRoomsPage(api RoomsAPI) *RoomsPage {
	return &RoomsPage{
		List: collection.New(collection.Source[model.Room, apiclient.RoomInput]{
			List:   api.ListRooms,
			Create: api.CreateRoom,
			Update: api.UpdateRoom,
			Delete: api.DeleteRoom,
			ID:     func(r model.Room) int64 { return r.ID },
		}),
		api: api,
	}
}

// Load fetches the rooms, then every room's status in a second wave.
func (p *RoomsPage) Load(ctx context.Context) error {
	if err := p.List.Load(ctx); err != nil {
		return err
	}
	return p.LoadStatuses(ctx)
}

// LoadStatuses refreshes occupancy for the rooms currently listed.
func (p *RoomsPage) LoadStatuses(ctx context.Context) error {
	rooms := p.Items()
	results := make([]model.RoomStatus, len(rooms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(waveLimit)
	for i, r := range rooms {
		i, r := i, r
		g.Go(func() error {
			st, err := p.api.RoomStatus(gctx, r.ID)
			if err != nil {
				return err
			}
			results[i] = *st
			return nil
		})
	}
	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		p.Fail(err)
		return err
	}

	statuses := make(map[int64]model.RoomStatus, len(rooms))
	for i, r := range rooms {
		statuses[r.ID] = results[i]
	}
	p.mu.Lock()
	p.statuses = statuses
	p.mu.Unlock()
	return nil
}

// Status returns the last known occupancy of a room.
func (p *RoomsPage) Status(roomID int64) (model.RoomStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.statuses[roomID]
	return st, ok
}
