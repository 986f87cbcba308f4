package api

import (
	"encoding/json"
	"strings"

	"github.com/abhisek/learnpath/internal/progress"
)

// User is the account record returned by the backend.
type User struct {
	ID         string            `json:"_id,omitempty"`
	Name       string            `json:"name,omitempty"`
	Username   string            `json:"username,omitempty"`
	Email      string            `json:"email,omitempty"`
	Progress   progress.Progress `json:"progress,omitempty"`
	Streak     int               `json:"streak,omitempty"`
	LastActive string            `json:"lastActive,omitempty"`

	// hasStreak records that a decoded reply carried a streak, zero included.
	hasStreak bool
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		Streak *int `json:"streak"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if aux.Streak != nil {
		u.Streak = *aux.Streak
		u.hasStreak = true
	}
	return nil
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		local, _, _ := strings.Cut(u.Email, "@")
		if local != "" {
			return local
		}
	}
	return "User"
}

// Merge returns a copy of u with every non-zero field of other applied on
// top. A streak decoded from a reply is applied even when it is zero. A nil
// receiver yields a copy of other.
func (u *User) Merge(other *User) *User {
	if other == nil {
		if u == nil {
			return nil
		}
		cp := *u
		return &cp
	}
	var out User
	if u != nil {
		out = *u
	}
	if other.ID != "" {
		out.ID = other.ID
	}
	if other.Name != "" {
		out.Name = other.Name
	}
	if other.Username != "" {
		out.Username = other.Username
	}
	if other.Email != "" {
		out.Email = other.Email
	}
	if other.Progress != nil {
		out.Progress = other.Progress
	}
	if other.Streak != 0 || other.hasStreak {
		out.Streak = other.Streak
	}
	if other.LastActive != "" {
		out.LastActive = other.LastActive
	}
	return &out
}

// Credentials is the login request body.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of a profile update. Progress is always sent.
type ProfileUpdate struct {
	Progress progress.Progress `json:"progress"`
	Name     string            `json:"name,omitempty"`
}

// Ack is the acknowledgement returned by logout and delete.
type Ack struct {
	Message string `json:"message,omitempty"`
}

// Step is one roadmap step of a remote skill.
type Step struct {
	Title     string   `json:"title"`
	Checklist []string `json:"checklist,omitempty"`
}

// Skill is a skill record stored on the backend.
type Skill struct {
	ID          string `json:"_id,omitempty"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
}

// SkillPayload is the body of create and update skill requests.
type SkillPayload struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
}
