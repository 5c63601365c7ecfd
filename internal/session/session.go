package session

import (
	"errors"
	"fmt"

	"github.com/saravenpi/duet/internal/models"
)

var ErrUnknownProfile = errors.New("unknown profile")

// ActiveStatus is shown under the current profile's name; there is no real
// presence tracking.
const ActiveStatus = "Active - You are chatting as this user"

// Session tracks which of the two fixed profiles is "me".
type Session struct {
	profiles [2]models.User
	current  int
}

// New starts a session as the first profile.
func New(users []models.User) (*Session, error) {
	if len(users) != 2 || users[0].ID == users[1].ID {
		return nil, fmt.Errorf("session needs two distinct profiles, got %d", len(users))
	}
	return &Session{profiles: [2]models.User{users[0], users[1]}}, nil
}

func (s *Session) Current() models.User {
	return s.profiles[s.current]
}

func (s *Session) Other() models.User {
	return s.profiles[1-s.current]
}

func (s *Session) Profiles() []models.User {
	return []models.User{s.profiles[0], s.profiles[1]}
}

// SetCurrent switches perspective to the profile with id.
func (s *Session) SetCurrent(id int) error {
	for i, p := range s.profiles {
		if p.ID == id {
			s.current = i
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownProfile, id)
}

// Toggle switches to the other profile and returns it.
func (s *Session) Toggle() models.User {
	s.current = 1 - s.current
	return s.Current()
}

func (s *Session) StatusLine() string {
	return ActiveStatus
}
