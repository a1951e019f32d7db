package mongo

import (
	"fmt"
	"time"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	Email         string    `bson:"email"`
	Password      string    `bson:"password"`
	PicturePath   string    `bson:"picturePath"`
	Friends       []string  `bson:"friends"`
	Location      string    `bson:"location"`
	Occupation    string    `bson:"occupation"`
	ViewedProfile int       `bson:"viewedProfile"`
	Impressions   int       `bson:"impressions"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
	Revision      int64     `bson:"__v"`
}

type postDocument struct {
	ID              string          `bson:"_id"`
	Seq             int64           `bson:"seq"`
	UserID          string          `bson:"userId"`
	FirstName       string          `bson:"firstName"`
	Location        string          `bson:"location"`
	Description     string          `bson:"description"`
	PicturePath     string          `bson:"picturePath"`
	UserPicturePath string          `bson:"userPicturePath"`
	Likes           map[string]bool `bson:"likes"`
	Comments        []string        `bson:"comments"`
	CreatedAt       time.Time       `bson:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt"`
	Revision        int64           `bson:"__v"`
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func toUserDocument(u model.User) userDocument {
	return userDocument{
		ID:            u.ID.String(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Password:      u.PasswordHash,
		PicturePath:   u.PicturePath,
		Friends:       idStrings(u.Friends),
		Location:      u.Location,
		Occupation:    u.Occupation,
		ViewedProfile: u.ViewedProfile,
		Impressions:   u.Impressions,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		Revision:      u.Revision,
	}
}

func (d userDocument) toModel() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse user id %q: %w", d.ID, err)
	}

	friends := make([]uuid.UUID, 0, len(d.Friends))
	for _, f := range d.Friends {
		fid, err := uuid.Parse(f)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to parse friend id %q: %w", f, err)
		}
		friends = append(friends, fid)
	}

	return model.User{
		ID:            id,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		PasswordHash:  d.Password,
		PicturePath:   d.PicturePath,
		Friends:       friends,
		Location:      d.Location,
		Occupation:    d.Occupation,
		ViewedProfile: d.ViewedProfile,
		Impressions:   d.Impressions,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
		Revision:      d.Revision,
	}, nil
}

func toPostDocument(p model.Post, seq int64) postDocument {
	post := p.Clone()
	return postDocument{
		ID:              post.ID.String(),
		Seq:             seq,
		UserID:          post.UserID.String(),
		FirstName:       post.FirstName,
		Location:        post.Location,
		Description:     post.Description,
		PicturePath:     post.PicturePath,
		UserPicturePath: post.UserPicturePath,
		Likes:           post.Likes,
		Comments:        post.Comments,
		CreatedAt:       post.CreatedAt,
		UpdatedAt:       post.UpdatedAt,
		Revision:        post.Revision,
	}
}

func (d postDocument) toModel() (model.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to parse post id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to parse author id %q: %w", d.UserID, err)
	}

	return model.Post{
		ID:              id,
		UserID:          userID,
		FirstName:       d.FirstName,
		Location:        d.Location,
		Description:     d.Description,
		PicturePath:     d.PicturePath,
		UserPicturePath: d.UserPicturePath,
		Likes:           d.Likes,
		Comments:        d.Comments,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
		Revision:        d.Revision,
	}.Clone(), nil
}
