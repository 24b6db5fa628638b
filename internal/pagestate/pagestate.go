// Package pagestate holds the phase and notice shared by every page model.
package pagestate

import (
	"errors"
	"sync"

	"hostel-admin/internal/apiclient"
)

// Phase is the rendering state of a page.
type Phase int

const (
	Idle Phase = iota
	Loading
	Error
	Success
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Notice is a dismissible title and message.
type Notice struct {
	Title   string
	Message string
}

// NoticeFor reduces any error to a user-facing notice.
func NoticeFor(err error) Notice {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return Notice{Title: apiErr.Title, Message: apiErr.Message}
	}
	return Notice{Title: "Error", Message: err.Error()}
}

// State is embedded by page models. The zero value is Idle.
type State struct {
	mu     sync.Mutex
	phase  Phase
	notice Notice
}

// Phase returns the current phase and its notice.
func (s *State) Phase() (Phase, Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, s.notice
}

func (s *State) Begin() {
	s.set(Loading, Notice{})
}

// Fail enters the error phase with a notice derived from err.
func (s *State) Fail(err error) {
	s.set(Error, NoticeFor(err))
}

func (s *State) Succeed(title, message string) {
	s.set(Success, Notice{Title: title, Message: message})
}

// Settle leaves the loading phase without a notice.
func (s *State) Settle() {
	s.set(Idle, Notice{})
}

// Dismiss clears an error or success notice.
func (s *State) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Error || s.phase == Success {
		s.phase, s.notice = Idle, Notice{}
	}
}

func (s *State) set(p Phase, n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase, s.notice = p, n
}
