package enums

import "fmt"

// ManagedFriendshipType classifies how a user files another user in their
// managed list. A source holds at most one classification per target.
type ManagedFriendshipType string

const (
	ManagedFriendshipBookmarked ManagedFriendshipType = "bookmarked"
	ManagedFriendshipHidden     ManagedFriendshipType = "hidden"
	ManagedFriendshipBlocked    ManagedFriendshipType = "blocked"
)

var validManagedFriendshipTypes = []ManagedFriendshipType{
	ManagedFriendshipBookmarked,
	ManagedFriendshipHidden,
	ManagedFriendshipBlocked,
}

// String implements fmt.Stringer.
func (m ManagedFriendshipType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ManagedFriendshipType.
func (m ManagedFriendshipType) IsValid() bool {
	for _, candidate := range validManagedFriendshipTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseManagedFriendshipType converts raw input into a ManagedFriendshipType.
func ParseManagedFriendshipType(value string) (ManagedFriendshipType, error) {
	for _, candidate := range validManagedFriendshipTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid managed friendship type %q", value)
}
