package domain

import (
	"strings"
	"time"
)

// User is a household member. Email is the identity key across the system;
// no numeric id is assigned.
type User struct {
	Email     string
	Name      string // optional display name
	Image     string // optional avatar URL
	CreatedAt time.Time
}

// NormalizeEmail lower-cases and trims an email so it can be compared as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DedupeUsers returns users with duplicate emails removed, keeping the first
// occurrence of each. Input order is otherwise preserved.
func DedupeUsers(users []User) []User {
	seen := make(map[string]struct{}, len(users))
	out := make([]User, 0, len(users))
	for _, u := range users {
		key := NormalizeEmail(u.Email)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
