// Package session persists the console's sign-in state between invocations.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrForbidden        = errors.New("this action needs a different role")
	ErrNoHostel         = errors.New("no hostel selected")
)

// State is everything kept on disk. There is no expiry; Logout clears it.
type State struct {
	Token    string        `yaml:"token,omitempty"`
	Role     string        `yaml:"role,omitempty"`
	HostelID int64         `yaml:"hostel_id,omitempty"`
	Hostel   *model.Hostel `yaml:"hostel,omitempty"`
}

// Store reads and writes the session file.
type Store struct {
	path string

	mu    sync.Mutex
	state State
}

// DefaultPath returns ~/.config/hostelctl/session.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hostelctl", "session.yaml"), nil
}

// Open loads the session at path. A missing file is an empty session.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	return s, nil
}

// State returns a copy of the current session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Hostel != nil {
		h := *st.Hostel
		st.Hostel = &h
	}
	return st
}

// Login stores a fresh token and role. A previous hostel selection is dropped.
func (s *Store) Login(token, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Token: token, Role: role}
	return s.save()
}

// Logout clears the token, role and hostel.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	return s.save()
}

// SelectHostel persists both the id and the hostel itself.
func (s *Store) SelectHostel(h model.Hostel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HostelID = h.ID
	s.state.Hostel = &h
	return s.save()
}

func (s *Store) RequireAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireRole checks the role reported at login. The server still enforces authorization.
func (s *Store) RequireRole(role string) error {
	if err := s.RequireAuth(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Role != role {
		return fmt.Errorf("%w: signed in as %s, need %s", ErrForbidden, s.state.Role, role)
	}
	return nil
}

// RequireHostel returns the selected hostel's tenant or ErrNoHostel.
func (s *Store) RequireHostel() (apiclient.Tenant, error) {
	t := s.Tenant()
	if t.HostelID <= 0 {
		return apiclient.Tenant{}, ErrNoHostel
	}
	return t, nil
}

// Tenant builds the tenant context from the selected hostel.
func (s *Store) Tenant() apiclient.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return apiclient.Tenant{HostelID: s.state.HostelID}
}

// Client returns base carrying this session's token and tenant.
func (s *Store) Client(base *apiclient.Client) *apiclient.Client {
	st := s.State()
	return base.WithToken(st.Token).ForTenant(apiclient.Tenant{HostelID: st.HostelID})
}

// save writes the file atomically. Callers hold mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	raw, err := yaml.Marshal(&s.state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}
