package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/pages"
	"hostel-admin/internal/parse"
)

// resolveRoom accepts a numeric room id or a label such as "B-204".
func resolveRoom(ctx context.Context, c *apiclient.Client, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	label, err := parse.ParseRoomLabel(arg)
	if err != nil {
		return 0, err
	}
	rooms, err := c.ListRooms(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range rooms {
		if strings.EqualFold(r.Block, label.Block) && strings.EqualFold(r.RoomNumber, label.Number) {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("no room labelled %s in this hostel", label)
}

func (a *app) roomsList(ctx context.Context, args []string) error {
	if err := a.flags("rooms list").Parse(args); err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewRoomsPage(c)
	if err := page.Load(ctx); err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tROOM\tCAPACITY\tOCCUPIED\tAVAILABLE")
	for _, r := range page.Items() {
		st, _ := page.Status(r.ID)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", r.ID, r.Label(), r.Capacity, st.Occupied, st.Available)
	}
	return tw.Flush()
}

func (a *app) roomsAdd(ctx context.Context, args []string) error {
	fs := a.flags("rooms add")
	capacity := fs.Int("capacity", 0, "number of beds")
	raw, err := oneArg(fs, args, "room label")
	if err != nil {
		return err
	}
	if *capacity < 1 {
		return errors.New("rooms add: -capacity must be at least 1")
	}
	label, err := parse.ParseRoomLabel(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	page := pages.NewRoomsPage(c)
	room, err := page.Create(ctx, apiclient.RoomInput{Block: label.Block, RoomNumber: label.Number, Capacity: *capacity})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created room %s (#%d) on floor %d with %d beds\n", room.Label(), room.ID, label.Floor, room.Capacity)
	return nil
}

func (a *app) roomsRemove(ctx context.Context, args []string) error {
	fs := a.flags("rooms rm")
	yes := fs.Bool("yes", false, "skip confirmation")
	raw, err := oneArg(fs, args, "room")
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	id, err := resolveRoom(ctx, c, raw)
	if err != nil {
		return err
	}

	page := pages.NewRoomsPage(c)
	if err := page.Delete(ctx, id, a.confirmUnless(*yes, fmt.Sprintf("Delete room %s and its allocation history?", raw))); err != nil {
		return err
	}
	a.notice(page)
	return nil
}

func (a *app) roomsStatus(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("rooms status"), args, "room")
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	id, err := resolveRoom(ctx, c, raw)
	if err != nil {
		return err
	}
	st, err := c.RoomStatus(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Capacity %d, occupied %d, available %d\n", st.Capacity, st.Occupied, st.Available)
	return nil
}
