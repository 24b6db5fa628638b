package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/model"
	"hostel-admin/internal/pagestate"
	"hostel-admin/internal/session"
)

const usage = `Usage: hostelctl <command> [subcommand] [flags]

Account:
  signup -name <name> -email <email> -password <pw>
  login -email <email> -password <pw>
  logout
  whoami
  me show | me update [-name] [-phone] [-guardian] [-guardian-phone]
  about

Hostels:
  hostels list [-active] | add -name <name> [-inactive] | use <id>

Selected hostel (admin):
  rooms list | add <label> -capacity <n> | rm <room> [-yes] | status <room>
  beds show <room> | allocate <room> <bed> -student <id|roll> | deallocate <room> <bed>
  students list [-q <text>] [-housing] | add -email <email> -roll <roll> [...] | show <id> | history <id>
  fees list [-roll] [-name] [-status] | add -student <id> -month <YYYY-MM> -amount <n> -due <YYYY-MM-DD>
  fees pay <id> | receipt <id> [-o <file>] | rm <id> [-yes]
  inventory list [-q <text>] | add -name <name> -qty <n> [-unit] | set <id> [-name] [-qty] [-unit]
  inventory rm <id> [-yes] | low [-threshold <n>] [-server]

Rooms are given by id (12) or label (B-204).
`

type app struct {
	sess *session.Store
	base *apiclient.Client

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

type command func(ctx context.Context, args []string) error

func newApp(sess *session.Store, base *apiclient.Client, in io.Reader, out, errOut io.Writer) *app {
	return &app{sess: sess, base: base, in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "-help" {
		fmt.Fprint(a.out, usage)
		return nil
	}

	top := map[string]command{
		"signup": a.signup,
		"login":  a.login,
		"logout": a.logout,
		"whoami": a.whoami,
		"about":  a.about,
	}
	groups := map[string]map[string]command{
		"hostels": {"list": a.hostelsList, "add": a.hostelsAdd, "use": a.hostelsUse},
		"rooms":   {"list": a.roomsList, "add": a.roomsAdd, "rm": a.roomsRemove, "status": a.roomsStatus},
		"beds":    {"show": a.bedsShow, "allocate": a.bedsAllocate, "deallocate": a.bedsDeallocate},
		"students": {
			"list": a.studentsList, "add": a.studentsAdd, "show": a.studentsShow, "history": a.studentsHistory,
		},
		"fees": {
			"list": a.feesList, "add": a.feesAdd, "pay": a.feesPay, "receipt": a.feesReceipt, "rm": a.feesRemove,
		},
		"inventory": {
			"list": a.inventoryList, "add": a.inventoryAdd, "set": a.inventorySet, "rm": a.inventoryRemove, "low": a.inventoryLow,
		},
		"me": {"show": a.meShow, "update": a.meUpdate},
	}

	if cmd, ok := top[args[0]]; ok {
		return cmd(ctx, args[1:])
	}
	group, ok := groups[args[0]]
	if !ok {
		fmt.Fprint(a.errOut, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if len(args) < 2 {
		return fmt.Errorf("%s: missing subcommand", args[0])
	}
	cmd, ok := group[args[1]]
	if !ok {
		return fmt.Errorf("%s: unknown subcommand: %s", args[0], args[1])
	}
	return cmd(ctx, args[2:])
}

// flags returns a flag set that reports errors instead of exiting.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// authed returns a client carrying the session token.
func (a *app) authed() (*apiclient.Client, error) {
	if err := a.sess.RequireAuth(); err != nil {
		return nil, err
	}
	return a.sess.Client(a.base), nil
}

// admin returns a client scoped to the selected hostel.
func (a *app) admin() (*apiclient.Client, error) {
	if err := a.sess.RequireRole(model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := a.sess.RequireHostel(); err != nil {
		return nil, err
	}
	return a.sess.Client(a.base), nil
}

// confirm asks a yes/no question on the console.
func (a *app) confirm(question string) func() bool {
	return func() bool {
		fmt.Fprintf(a.out, "%s [y/N] ", question)
		line, _ := a.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// confirmUnless skips the prompt when yes is set.
func (a *app) confirmUnless(yes bool, question string) func() bool {
	if yes {
		return nil
	}
	return a.confirm(question)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// notice prints a page's success notice, if any.
func (a *app) notice(st interface {
	Phase() (pagestate.Phase, pagestate.Notice)
}) {
	if phase, n := st.Phase(); phase == pagestate.Success {
		fmt.Fprintf(a.out, "%s. %s\n", n.Title, n.Message)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseArgs lets flags appear before, between or after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

// nArgs parses fs and requires exactly n positional arguments.
func nArgs(fs *flag.FlagSet, args []string, n int, what string) ([]string, error) {
	pos, err := parseArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if len(pos) != n {
		return nil, fmt.Errorf("%s: expected %s", fs.Name(), what)
	}
	return pos, nil
}

// oneArg is nArgs for a single argument.
func oneArg(fs *flag.FlagSet, args []string, what string) (string, error) {
	pos, err := nArgs(fs, args, 1, "<"+what+">")
	if err != nil {
		return "", err
	}
	return pos[0], nil
}

// visited reports which flags were given explicitly.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// describe turns an error into the console's one-line message.
func describe(err error) string {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return "error: not signed in; run `hostelctl login` first"
	case errors.Is(err, session.ErrNoHostel), errors.Is(err, apiclient.ErrNoTenant):
		return "error: no hostel selected; run `hostelctl hostels use <id>` first"
	case errors.Is(err, collection.ErrNotConfirmed):
		return "aborted"
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		return fmt.Sprintf("error: %s; run `hostelctl login` again", apiErr.Message)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("error: %s: %s", apiErr.Title, apiErr.Message)
	}
	return "error: " + err.Error()
}
