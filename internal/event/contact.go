package event

import "strings"

// Role is the permission tag carried by a sender. The core uses it only as a
// filter predicate; adapters map platform-specific role strings onto it.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole normalizes a platform role string, defaulting to member.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "owner":
		return RoleOwner
	case "admin", "administrator", "moderator":
		return RoleAdmin
	default:
		return RoleMember
	}
}

// RoleSet is an allow-list of roles used by listener role filters.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether the role is in the set.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

// ContactKind distinguishes user and group send targets.
type ContactKind string

const (
	ContactUser  ContactKind = "user"
	ContactGroup ContactKind = "group"
)

// Contact identifies a message sender or send target. Kind is empty for
// senders and defaults to user.
type Contact struct {
	ID   string
	Name string
	Role Role
	Kind ContactKind
}

// IsGroup reports whether the contact addresses a group conversation.
func (c Contact) IsGroup() bool { return c.Kind == ContactGroup }
