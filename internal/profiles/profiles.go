package profiles

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/saravenpi/duet/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrProfileCount is returned when the table does not hold exactly two
// distinct profiles.
var ErrProfileCount = errors.New("exactly two profiles with distinct ids are required")

//go:embed profiles.yml
var defaultTable []byte

type table struct {
	Users []models.User `yaml:"users"`
}

// Default returns the two built-in chat profiles.
func Default() ([]models.User, error) {
	return Parse(defaultTable)
}

// Parse decodes a profile table and checks it describes exactly two people.
func Parse(data []byte) ([]models.User, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	if len(t.Users) != 2 || t.Users[0].ID == t.Users[1].ID {
		return nil, ErrProfileCount
	}

	for i := range t.Users {
		u := &t.Users[i]
		if u.ID <= 0 {
			return nil, fmt.Errorf("profile %q: id must be positive", u.Name)
		}
		if strings.TrimSpace(u.Name) == "" {
			return nil, fmt.Errorf("profile %d: name cannot be empty", u.ID)
		}
		if u.AvatarInitials == "" {
			u.AvatarInitials = initials(u.Name)
		}
	}

	return t.Users, nil
}

func initials(name string) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
