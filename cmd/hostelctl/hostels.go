package main

import (
	"context"
	"errors"
	"fmt"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
)

func (a *app) hostelsList(ctx context.Context, args []string) error {
	fs := a.flags("hostels list")
	activeOnly := fs.Bool("active", false, "only active hostels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.authed()
	if err != nil {
		return err
	}
	hostels, err := c.ListHostels(ctx, *activeOnly)
	if err != nil {
		return err
	}

	selected := a.sess.State().HostelID
	tw := a.table()
	fmt.Fprintln(tw, "\tID\tNAME\tACTIVE")
	for _, h := range hostels {
		mark := ""
		if h.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\n", mark, h.ID, h.Name, h.Active)
	}
	return tw.Flush()
}

func (a *app) hostelsAdd(ctx context.Context, args []string) error {
	fs := a.flags("hostels add")
	name := fs.String("name", "", "hostel name")
	inactive := fs.Bool("inactive", false, "create the hostel as inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("hostels add: -name is required")
	}
	if err := a.sess.RequireRole(model.RoleAdmin); err != nil {
		return err
	}

	active := !*inactive
	h, err := a.sess.Client(a.base).CreateHostel(ctx, apiclient.HostelInput{Name: *name, Active: &active})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created hostel %s (#%d)\n", h.Name, h.ID)
	return nil
}

func (a *app) hostelsUse(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("hostels use"), args, "hostel id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.authed()
	if err != nil {
		return err
	}
	h, err := c.GetHostel(ctx, id)
	if err != nil {
		return err
	}
	if !h.Active {
		fmt.Fprintf(a.errOut, "warning: %s is inactive\n", h.Name)
	}
	if err := a.sess.SelectHostel(*h); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Using hostel %s (#%d)\n", h.Name, h.ID)
	return nil
}
