package entity

import "time"

type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusApproved UserStatus = "approved"
	StatusRejected UserStatus = "rejected"
)

// ValidStatus reports whether s is one of the three known approval states.
func ValidStatus(s string) bool {
	switch UserStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password"`
	IsAdmin      bool       `bson:"is_admin"`
	Status       UserStatus `bson:"status"`
	CreatedAt    time.Time  `bson:"created_at"`
}

// CanAuthenticate reports whether the account may receive a session.
// Admin accounts bypass the approval workflow regardless of status.
func (u *User) CanAuthenticate() bool {
	return u.IsAdmin || u.Status == StatusApproved
}
