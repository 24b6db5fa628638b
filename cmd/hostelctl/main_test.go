package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-admin/config"
	"hostel-admin/internal/api"
	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/auth"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/db"
	"hostel-admin/internal/pages"
	"hostel-admin/internal/session"
	"hostel-admin/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type console struct {
	t    *testing.T
	sess *session.Store
	base *apiclient.Client
	in   string
}

func newConsole(t *testing.T) *console {
	t.Helper()
	s := store.NewGormStore(db.NewTestDB(t))
	cfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTL: time.Minute}
	srv := httptest.NewServer(api.NewRouter(s, auth.NewIssuer("test-secret", time.Hour), &webpush.Options{}, cfg))
	t.Cleanup(srv.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, err)
	return &console{t: t, sess: sess, base: apiclient.New(srv.URL, srv.Client())}
}

// run executes one console command and returns what it printed.
func (c *console) run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	a := newApp(c.sess, c.base, strings.NewReader(c.in), &out, &errOut)
	err := a.run(context.Background(), args)
	return out.String() + errOut.String(), err
}

func (c *console) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "%v: %s", args, out)
	return out
}

// seed signs up the warden and two students and selects a hostel.
func (c *console) seed() {
	c.t.Helper()
	c.must("signup", "-name", "Warden", "-email", "warden@example.com", "-password", "secret1")
	c.must("signup", "-name", "Alice", "-email", "alice@example.com", "-password", "secret1")
	c.must("signup", "-name", "Bob", "-email", "bob@example.com", "-password", "secret1")
	c.must("login", "-email", "warden@example.com", "-password", "secret1")
	c.must("hostels", "add", "-name", "North Wing")
	c.must("hostels", "use", "1")
}

func TestConsole_AdminNeedsHostel(t *testing.T) {
	c := newConsole(t)
	out := c.must("signup", "-name", "Warden", "-email", "warden@example.com", "-password", "secret1")
	assert.Contains(t, out, "(ADMIN)")

	_, err := c.run("rooms", "list")
	require.ErrorIs(t, err, session.ErrNoHostel)
	assert.Contains(t, describe(err), "hostels use <id>")
}

func TestConsole_NotSignedIn(t *testing.T) {
	c := newConsole(t)

	_, err := c.run("whoami")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Contains(t, describe(err), "hostelctl login")
}

func TestConsole_StudentCannotAdminister(t *testing.T) {
	c := newConsole(t)
	c.must("signup", "-name", "Warden", "-email", "warden@example.com", "-password", "secret1")
	c.must("hostels", "add", "-name", "North Wing")
	c.must("signup", "-name", "Alice", "-email", "alice@example.com", "-password", "secret1")

	_, err := c.run("rooms", "list")
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestConsole_WrongPassword(t *testing.T) {
	c := newConsole(t)
	c.must("signup", "-name", "Warden", "-email", "warden@example.com", "-password", "secret1")

	_, err := c.run("login", "-email", "warden@example.com", "-password", "nope")
	require.Error(t, err)
	assert.Equal(t, "error: Invalid email or password; run `hostelctl login` again", describe(err))
}

func TestConsole_BedAllocationFlow(t *testing.T) {
	c := newConsole(t)
	c.seed()

	out := c.must("rooms", "add", "B-204", "-capacity", "4")
	assert.Contains(t, out, "Created room B-204 (#1) on floor 2 with 4 beds")
	c.must("students", "add", "-email", "alice@example.com", "-roll", "CS-001")
	c.must("students", "add", "-email", "bob@example.com", "-roll", "CS-002")

	out = c.must("beds", "allocate", "B-204", "2", "-student", "cs-001")
	assert.Contains(t, out, "Bed allocated")

	out = c.must("beds", "show", "b204")
	assert.Contains(t, out, "1 occupied, 3 available")
	assert.Contains(t, out, "Alice")

	out = c.must("rooms", "list")
	assert.Contains(t, out, "B-204")

	_, err := c.run("beds", "allocate", "1", "2", "-student", "CS-002")
	require.Error(t, err)
	assert.Equal(t, 409, apiclient.StatusOf(err))
	assert.Contains(t, describe(err), "already occupied")

	out = c.must("students", "list", "-housing")
	assert.Contains(t, out, "B-204")

	out = c.must("beds", "deallocate", "B-204", "2")
	assert.Contains(t, out, "Bed released")

	out = c.must("rooms", "status", "B-204")
	assert.Contains(t, out, "occupied 0, available 4")

	out = c.must("students", "history", "1")
	assert.Contains(t, out, "false")

	_, err = c.run("beds", "deallocate", "B-204", "2")
	assert.EqualError(t, err, "bed 2 is already available")
}

func TestConsole_FeesFlow(t *testing.T) {
	c := newConsole(t)
	c.seed()
	c.must("students", "add", "-email", "alice@example.com", "-roll", "CS-001")

	out := c.must("fees", "add", "-student", "1", "-month", "2026-09", "-amount", "4500", "-due", "2026-09-10")
	assert.Contains(t, out, "Raised fee #1")

	out = c.must("fees", "pay", "1")
	assert.Contains(t, out, "Receipt RCT-")

	_, err := c.run("fees", "pay", "1")
	assert.Equal(t, 409, apiclient.StatusOf(err))

	path := filepath.Join(t.TempDir(), "receipt.txt")
	c.must("fees", "receipt", "1", "-o", path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Roll number: CS-001")

	out = c.must("fees", "list", "-roll", "cs-0", "-status", "paid")
	assert.Contains(t, out, "CS-001")
	out = c.must("fees", "list", "-status", "unpaid")
	assert.NotContains(t, out, "CS-001")

	c.in = "n\n"
	_, err = c.run("fees", "rm", "1")
	assert.ErrorIs(t, err, collection.ErrNotConfirmed)

	c.in = "y\n"
	out = c.must("fees", "rm", "1")
	assert.Contains(t, out, "Deleted")
}

func TestConsole_InventoryFlow(t *testing.T) {
	c := newConsole(t)
	c.seed()

	c.must("inventory", "add", "-name", "Rice", "-qty", "4", "-unit", "kg")
	c.must("inventory", "add", "-name", "Lentils", "-qty", "25", "-unit", "kg")

	out := c.must("inventory", "low")
	assert.Contains(t, out, "Rice")
	assert.NotContains(t, out, "Lentils")

	out = c.must("inventory", "low", "-server", "-threshold", "30")
	assert.Contains(t, out, "Lentils")

	_, err := c.run("inventory", "low", "-threshold", "51")
	assert.ErrorIs(t, err, pages.ErrThresholdRange)

	c.must("inventory", "set", "1", "-qty", "40")
	out = c.must("inventory", "low")
	assert.Contains(t, out, "Nothing at or below 10")

	out = c.must("inventory", "list", "-q", "ric")
	assert.Contains(t, out, "40")
	assert.Contains(t, out, "kg")
}

func TestConsole_StudentProfile(t *testing.T) {
	c := newConsole(t)
	c.seed()
	c.must("students", "add", "-email", "alice@example.com", "-roll", "CS-001", "-phone", "555-0100")

	c.must("login", "-email", "alice@example.com", "-password", "secret1")
	out := c.must("me", "show")
	assert.Contains(t, out, "CS-001")
	assert.Contains(t, out, "555-0100")

	c.must("me", "update", "-guardian", "Carol", "-name", "Alice B")
	out = c.must("me", "show")
	assert.Contains(t, out, "Alice B")
	assert.Contains(t, out, "Carol")
	assert.Contains(t, out, "555-0100")

	c.must("logout")
	_, err := c.run("me", "show")
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestConsole_UsageAndAbout(t *testing.T) {
	c := newConsole(t)

	assert.Contains(t, c.must(), "Usage: hostelctl")
	assert.Contains(t, c.must("about"), "Hostel Admin")

	_, err := c.run("frobnicate")
	assert.EqualError(t, err, "unknown command: frobnicate")
	_, err = c.run("rooms")
	assert.EqualError(t, err, "rooms: missing subcommand")
}
