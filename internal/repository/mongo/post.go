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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ model.PostStore = (*PostRepository)(nil)

const postSeqCounter = "posts"

type PostRepository struct {
	posts    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewPostRepository(conn *Connection) *PostRepository {
	return &PostRepository{
		posts:    conn.db.Collection(postsCollection),
		counters: conn.db.Collection(countersCollection),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// nextSeq hands out the insertion sequence used to keep feed order stable.
func (r *PostRepository) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": postSeqCounter},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate post sequence: %w", err)
	}
	return counter.Value, nil
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return model.Post{}, err
	}

	now := r.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Revision = 0

	if _, err := r.posts.InsertOne(ctx, toPostDocument(post, seq)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Post{}, model.ErrConflict
		}
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return r.GetByID(ctx, post.ID)
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	var doc postDocument
	if err := r.posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}
	return doc.toModel()
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	posts, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	posts, err := r.find(ctx, bson.M{"userId": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]model.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *PostRepository) UpdateLikes(ctx context.Context, id uuid.UUID, likes map[string]bool, expectedRevision int64) (model.Post, error) {
	if likes == nil {
		likes = map[string]bool{}
	}

	var doc postDocument
	err := r.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "__v": expectedRevision},
		bson.M{
			"$set": bson.M{"likes": likes, "updatedAt": r.now()},
			"$inc": bson.M{"__v": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toModel()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, fmt.Errorf("failed to update likes: %w", err)
	}

	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to check post existence: %w", err)
	}
	if n == 0 {
		return model.Post{}, model.ErrNotFound
	}
	return model.Post{}, model.ErrConflict
}
