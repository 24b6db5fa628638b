package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
	"hostel-admin/internal/pages"
)

func printStudent(a *app, st *model.Student) {
	fmt.Fprintf(a.out, "Roll:      %s\n", st.RollNumber)
	fmt.Fprintf(a.out, "Phone:     %s\n", dash(st.Phone))
	fmt.Fprintf(a.out, "Guardian:  %s (%s)\n", dash(st.GuardianName), dash(st.GuardianPhone))
}

func (a *app) studentsList(ctx context.Context, args []string) error {
	fs := a.flags("students list")
	query := fs.String("q", "", "search name, email or roll number")
	housing := fs.Bool("housing", false, "show each student's room and bed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewStudentsPage(c)
	if err := page.Load(ctx); err != nil {
		return err
	}
	if *housing {
		if err := page.LoadAllocations(ctx); err != nil {
			return err
		}
	}

	tw := a.table()
	if *housing {
		fmt.Fprintln(tw, "ID\tROLL\tNAME\tEMAIL\tROOM\tBED")
	} else {
		fmt.Fprintln(tw, "ID\tROLL\tNAME\tEMAIL")
	}
	for _, st := range page.Search(*query) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s", st.ID, st.RollNumber, st.User.Name, st.User.Email)
		if *housing {
			if alloc, ok := page.Housing(st.ID); ok {
				fmt.Fprintf(tw, "\t%s\t%d", roomLabel(alloc), alloc.BedNumber)
			} else {
				fmt.Fprint(tw, "\t-\t-")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func roomLabel(alloc model.Allocation) string {
	if alloc.Room.ID == 0 {
		return fmt.Sprintf("#%d", alloc.RoomID)
	}
	return alloc.Room.Label()
}

func (a *app) studentsAdd(ctx context.Context, args []string) error {
	fs := a.flags("students add")
	email := fs.String("email", "", "email of the student's account")
	roll := fs.String("roll", "", "roll number")
	phone := fs.String("phone", "", "phone number")
	guardian := fs.String("guardian", "", "guardian name")
	guardianPhone := fs.String("guardian-phone", "", "guardian phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *roll == "" {
		return errors.New("students add: -email and -roll are required")
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	user, err := c.FindUser(ctx, *email)
	if err != nil {
		return err
	}
	page := pages.NewStudentsPage(c)
	st, err := page.Create(ctx, apiclient.StudentInput{
		UserID:        user.ID,
		RollNumber:    *roll,
		Phone:         *phone,
		GuardianName:  *guardian,
		GuardianPhone: *guardianPhone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s as student #%d (%s)\n", user.Name, st.ID, st.RollNumber)
	return nil
}

func (a *app) studentsShow(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("students show"), args, "student id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	st, err := c.GetStudent(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:      %s <%s>\n", st.User.Name, st.User.Email)
	printStudent(a, st)

	alloc, err := pages.NewStudentsPage(c).AllocationOf(ctx, id)
	if err != nil {
		return err
	}
	if alloc == nil {
		fmt.Fprintln(a.out, "Housing:   not allocated")
	} else {
		fmt.Fprintf(a.out, "Housing:   room %s, bed %d since %s\n", roomLabel(*alloc), alloc.BedNumber, alloc.AllocatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) studentsHistory(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("students history"), args, "student id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	hist, err := c.AllocationHistory(ctx, id)
	if err != nil {
		return err
	}
	sort.SliceStable(hist, func(i, j int) bool {
		return hist[i].AllocatedAt.After(hist[j].AllocatedAt)
	})

	tw := a.table()
	fmt.Fprintln(tw, "ID\tROOM\tBED\tFROM\tUNTIL\tACTIVE")
	for _, h := range hist {
		until := "-"
		if h.ReleasedAt != nil {
			until = h.ReleasedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%t\n", h.ID, roomLabel(h), h.BedNumber, h.AllocatedAt.Format("2006-01-02"), until, h.Active)
	}
	return tw.Flush()
}
