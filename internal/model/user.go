package model

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpdateFriends atomically replaces the friend lists of all given users.
	// Each user's Revision must match the stored one, otherwise ErrConflict
	// is returned and nothing is written.
	UpdateFriends(ctx context.Context, users ...User) error
}

// User represents a stored account together with its social profile.
type User struct {
	ID            uuid.UUID   `json:"_id"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email"`
	PasswordHash  string      `json:"-"`
	PicturePath   string      `json:"picturePath"`
	Friends       []uuid.UUID `json:"friends"`
	Location      string      `json:"location"`
	Occupation    string      `json:"occupation"`
	ViewedProfile int         `json:"viewedProfile"`
	Impressions   int         `json:"impressions"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Revision      int64       `json:"__v"`
}

// FriendSummary is the public projection of a user shown in friend lists.
type FriendSummary struct {
	ID          uuid.UUID `json:"_id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Occupation  string    `json:"occupation"`
	Location    string    `json:"location"`
	PicturePath string    `json:"picturePath"`
}

// Summary projects u onto its friend-list view.
func (u User) Summary() FriendSummary {
	return FriendSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Location:    u.Location,
		PicturePath: u.PicturePath,
	}
}

// HasFriend reports whether id is in the user's friend list.
func (u User) HasFriend(id uuid.UUID) bool {
	return slices.Contains(u.Friends, id)
}

// AddFriend appends id unless it is already present or refers to the user.
func (u *User) AddFriend(id uuid.UUID) {
	if id == u.ID || u.HasFriend(id) {
		return
	}
	u.Friends = append(u.Friends, id)
}

// RemoveFriend drops every occurrence of id from the friend list.
func (u *User) RemoveFriend(id uuid.UUID) {
	u.Friends = slices.DeleteFunc(u.Friends, func(f uuid.UUID) bool { return f == id })
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	u.Friends = slices.Clone(u.Friends)
	if u.Friends == nil {
		u.Friends = []uuid.UUID{}
	}
	return u
}

// NormalizeFriends removes duplicates and self references preserving order.
func NormalizeFriends(self uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == self || id == uuid.Nil || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// RegisterParams contains the data submitted by the registration form.
type RegisterParams struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PicturePath string
	Friends     []uuid.UUID
	Location    string
	Occupation  string
}

// Session is the result of a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
