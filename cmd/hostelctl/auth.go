package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
)

const aboutText = `Hostel Admin

Manage rooms, bed allocations, students, monthly fees and kitchen stock
for one or more hostels from a single console.

Getting started:
  1. hostelctl signup -name "Warden" -email warden@example.com -password ...
     The first account becomes the administrator.
  2. hostelctl hostels add -name "North Block"
  3. hostelctl hostels use <id>
  4. hostelctl rooms add B-204 -capacity 4

Students sign in with their own accounts to view and update their profile.
`

func (a *app) about(_ context.Context, _ []string) error {
	fmt.Fprint(a.out, aboutText)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.flags("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" || *password == "" {
		return errors.New("signup: -name, -email and -password are required")
	}

	tok, err := a.base.Signup(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	if err := a.sess.Login(tok.Token, tok.Role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed up as %s (%s)\n", *email, tok.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login: -email and -password are required")
	}

	tok, err := a.base.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.sess.Login(tok.Token, tok.Role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", *email, tok.Role)
	if tok.Role == model.RoleAdmin {
		fmt.Fprintln(a.out, "Select a hostel with `hostelctl hostels use <id>`.")
	}
	return nil
}

func (a *app) logout(_ context.Context, _ []string) error {
	if err := a.sess.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) whoami(ctx context.Context, _ []string) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", u.Name, u.Email, u.Role)
	if st := a.sess.State(); st.Hostel != nil {
		fmt.Fprintf(a.out, "Hostel: %s (#%d)\n", st.Hostel.Name, st.Hostel.ID)
	}
	return nil
}

func (a *app) meShow(ctx context.Context, _ []string) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\nRole:  %s\n", u.Name, u.Email, u.Role)
	if u.Role != model.RoleStudent {
		return nil
	}

	st, err := c.MyStudent(ctx)
	if apiclient.StatusOf(err) == http.StatusNotFound {
		fmt.Fprintln(a.out, "No student record is linked to this account yet.")
		return nil
	}
	if err != nil {
		return err
	}
	printStudent(a, st)
	return nil
}

func (a *app) meUpdate(ctx context.Context, args []string) error {
	fs := a.flags("me update")
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	guardian := fs.String("guardian", "", "guardian name")
	guardianPhone := fs.String("guardian-phone", "", "guardian phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visited(fs)

	c, err := a.authed()
	if err != nil {
		return err
	}
	if set["name"] {
		u, err := c.UpdateMe(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Name updated to %s\n", u.Name)
	}
	if !set["phone"] && !set["guardian"] && !set["guardian-phone"] {
		return nil
	}

	cur, err := c.MyStudent(ctx)
	if err != nil {
		return err
	}
	profile := apiclient.StudentProfile{
		Phone:         pick(set["phone"], *phone, cur.Phone),
		GuardianName:  pick(set["guardian"], *guardian, cur.GuardianName),
		GuardianPhone: pick(set["guardian-phone"], *guardianPhone, cur.GuardianPhone),
	}
	if _, err := c.UpdateMyStudent(ctx, profile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

func pick[T any](use bool, v, fallback T) T {
	if use {
		return v
	}
	return fallback
}
