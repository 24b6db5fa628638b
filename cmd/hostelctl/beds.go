package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hostel-admin/internal/allocation"
	"hostel-admin/internal/model"
)

// openRoom loads the allocation view of the room named by arg.
func (a *app) openRoom(ctx context.Context, arg string) (*allocation.View, error) {
	c, err := a.admin()
	if err != nil {
		return nil, err
	}
	id, err := resolveRoom(ctx, c, arg)
	if err != nil {
		return nil, err
	}
	v := allocation.NewView(ctx, c, id)
	if err := v.LoadRoomState(ctx); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func parseBed(raw string) (int, error) {
	bed, err := strconv.Atoi(raw)
	if err != nil || bed < 1 {
		return 0, fmt.Errorf("invalid bed number %q", raw)
	}
	return bed, nil
}

func (a *app) bedsShow(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("beds show"), args, "room")
	if err != nil {
		return err
	}
	v, err := a.openRoom(ctx, raw)
	if err != nil {
		return err
	}
	defer v.Close()

	rs := v.Room()
	occupied, available := rs.Counts()
	fmt.Fprintf(a.out, "Room %s: %d occupied, %d available\n", rs.Room.Label(), occupied, available)

	tw := a.table()
	fmt.Fprintln(tw, "BED\tSTATE\tSTUDENT\tROLL\tALLOCATION")
	for _, s := range v.Grid() {
		alloc := "-"
		if s.Allocation != nil {
			alloc = strconv.FormatInt(s.Allocation.ID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Bed, s.State, dash(s.Student), dash(s.RollNumber), alloc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, o := range rs.Overflow {
		fmt.Fprintf(a.errOut, "warning: allocation %d holds bed %d beyond the room's capacity\n", o.ID, o.BedNumber)
	}
	return nil
}

func (a *app) bedsAllocate(ctx context.Context, args []string) error {
	fs := a.flags("beds allocate")
	who := fs.String("student", "", "student id or roll number")
	pos, err := nArgs(fs, args, 2, "<room> <bed>")
	if err != nil {
		return err
	}
	bed, err := parseBed(pos[1])
	if err != nil {
		return err
	}
	v, err := a.openRoom(ctx, pos[0])
	if err != nil {
		return err
	}
	defer v.Close()

	if *who != "" {
		st, err := findStudent(v.Room().Students, *who)
		if err != nil {
			return err
		}
		v.SelectStudent(st.ID)
	}
	if _, err := v.AllocateSelected(ctx, bed); err != nil {
		return err
	}
	a.notice(v)
	return nil
}

func (a *app) bedsDeallocate(ctx context.Context, args []string) error {
	pos, err := nArgs(a.flags("beds deallocate"), args, 2, "<room> <bed>")
	if err != nil {
		return err
	}
	bed, err := parseBed(pos[1])
	if err != nil {
		return err
	}
	v, err := a.openRoom(ctx, pos[0])
	if err != nil {
		return err
	}
	defer v.Close()

	alloc, ok := v.Room().Beds[bed]
	if !ok {
		return fmt.Errorf("bed %d is already available", bed)
	}
	if _, err := v.Deallocate(ctx, alloc.ID); err != nil {
		return err
	}
	a.notice(v)
	return nil
}

// findStudent matches an id first, then a roll number.
func findStudent(students []model.Student, key string) (model.Student, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		for _, st := range students {
			if st.ID == id {
				return st, nil
			}
		}
	}
	for _, st := range students {
		if strings.EqualFold(st.RollNumber, key) {
			return st, nil
		}
	}
	return model.Student{}, fmt.Errorf("no student with id or roll number %q", key)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
