package model

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// PostStore defines persistence operations for posts.
type PostStore interface {
	Create(ctx context.Context, post Post) (Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	// List returns every post in insertion order.
	List(ctx context.Context) ([]Post, error)
	// ListByUser returns posts authored by userID in insertion order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Post, error)
	// UpdateLikes replaces the likes map if the stored revision equals
	// expectedRevision and returns the updated post. ErrConflict otherwise.
	UpdateLikes(ctx context.Context, id uuid.UUID, likes map[string]bool, expectedRevision int64) (Post, error)
}

// Post represents a feed entry with author fields copied at creation time.
type Post struct {
	ID              uuid.UUID       `json:"_id"`
	UserID          uuid.UUID       `json:"userId"`
	FirstName       string          `json:"firstName"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	PicturePath     string          `json:"picturePath"`
	UserPicturePath string          `json:"userPicturePath"`
	Likes           map[string]bool `json:"likes"`
	Comments        []string        `json:"comments"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Revision        int64           `json:"__v"`
}

// IsLikedBy reports whether userID has a like entry on the post.
func (p Post) IsLikedBy(userID uuid.UUID) bool {
	return p.Likes[userID.String()]
}

// ToggledLikes returns a new likes map with userID's entry flipped.
// Unliking deletes the key instead of storing false.
func (p Post) ToggledLikes(userID uuid.UUID) map[string]bool {
	likes := maps.Clone(p.Likes)
	if likes == nil {
		likes = map[string]bool{}
	}
	key := userID.String()
	if likes[key] {
		delete(likes, key)
	} else {
		likes[key] = true
	}
	return likes
}

// Clone returns a copy that shares no map or slice with p.
func (p Post) Clone() Post {
	p.Likes = maps.Clone(p.Likes)
	if p.Likes == nil {
		p.Likes = map[string]bool{}
	}
	p.Comments = slices.Clone(p.Comments)
	if p.Comments == nil {
		p.Comments = []string{}
	}
	return p
}

// CreatePostParams contains the data submitted when publishing a post.
type CreatePostParams struct {
	UserID      uuid.UUID
	Description string
	PicturePath string
}
