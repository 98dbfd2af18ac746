package chatports

import (
	"fmt"
	"time"
)

// MaxContentChars bounds message content at the persistence boundary. Longer
// content is truncated by the store, never rejected.
const MaxContentChars = 4000

// Role is the closed set of chat participants. Stored as text, compared as a
// tagged value everywhere else.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
)

// String serializes a Role for prompt assembly and storage.
func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole maps stored text back to a Role. Anything outside the closed set
// is an error, not a fourth role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "system":
		return RoleSystem, nil
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	}
	return 0, fmt.Errorf("unknown chat role %q", s)
}

// Turn is one message sent to or received from the completion service.
// Turns are not mutated after creation.
type Turn struct {
	Role    Role
	Content string
}

// LoggedMessage is the durable record of a Turn.
type LoggedMessage struct {
	ID              int64
	ApplicationName string
	Role            Role
	Sequence        int64
	Timestamp       time.Time
	Content         string
}
