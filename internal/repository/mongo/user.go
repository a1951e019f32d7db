package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	client *mongo.Client
	users  *mongo.Collection
	now    func() time.Time
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{
		client: conn.client,
		users:  conn.db.Collection(usersCollection),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user = user.Clone()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Revision = 0

	if _, err := r.users.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByID(ctx, user.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, "failed to get user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "failed to get user by email")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, msg string) (model.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("%s: %w", msg, err)
	}
	return doc.toModel()
}

func (r *UserRepository) UpdateFriends(ctx context.Context, users ...model.User) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := r.now()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, u := range users {
			filter := bson.M{"_id": u.ID.String(), "__v": u.Revision}
			update := bson.M{
				"$set": bson.M{
					"friends":   idStrings(model.NormalizeFriends(u.ID, u.Friends)),
					"updatedAt": now,
				},
				"$inc": bson.M{"__v": 1},
			}

			res, err := r.users.UpdateOne(sc, filter, update)
			if err != nil {
				return nil, fmt.Errorf("failed to update friends: %w", err)
			}
			if res.MatchedCount == 0 {
				return nil, model.ErrConflict
			}
		}
		return nil, nil
	})

	return err
}
