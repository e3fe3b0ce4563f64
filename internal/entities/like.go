package entities

import (
	"strings"

	"github.com/google/uuid"
)

// Like is the like aggregate of a dish. Total always equals len(Users) and
// Users never holds the same (normalised) id twice.
type Like struct {
	Total int      `json:"total"`
	Users []string `json:"users"`
}

// NewLike builds a consistent like aggregate from a list of user ids,
// dropping blanks and duplicates.
func NewLike(userIDs []string) Like {
	like := Like{Users: []string{}}
	for _, id := range userIDs {
		id = NormalizeID(id)
		if id == "" || like.Has(id) {
			continue
		}
		like.Users = append(like.Users, id)
	}
	like.Total = len(like.Users)
	return like
}

// Has reports whether userID is in the like set.
func (l *Like) Has(userID string) bool {
	return l.indexOf(userID) >= 0
}

// Toggle adds userID to the set when absent and removes one matching entry
// when present. It returns true when the user now likes the dish.
func (l *Like) Toggle(userID string) bool {
	if l.Users == nil {
		l.Users = []string{}
	}

	id := NormalizeID(userID)
	idx := l.indexOf(id)
	if idx == -1 {
		l.Users = append(l.Users, id)
		l.Total++
		return true
	}

	l.Users = append(l.Users[:idx], l.Users[idx+1:]...)
	l.Total--
	if l.Total < 0 {
		l.Total = 0
	}
	return false
}

func (l *Like) indexOf(userID string) int {
	id := NormalizeID(userID)
	for i, u := range l.Users {
		if NormalizeID(u) == id {
			return i
		}
	}
	return -1
}

// NormalizeID returns the canonical string form of an id so that different
// spellings of the same UUID compare equal. Non-UUID ids are trimmed and lowercased.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}

// IsValidID reports whether id can address a stored record.
func IsValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}
