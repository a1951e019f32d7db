package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `id, user_id, first_name, location, description, picture_path, user_picture_path,
	likes, comments, created_at, updated_at, revision`

type PostRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func scanPost(row rowScanner) (model.Post, error) {
	var (
		post     model.Post
		likes    []byte
		comments []byte
	)
	err := row.Scan(
		&post.ID, &post.UserID, &post.FirstName, &post.Location, &post.Description, &post.PicturePath, &post.UserPicturePath,
		&likes, &comments, &post.CreatedAt, &post.UpdatedAt, &post.Revision,
	)
	if err != nil {
		return model.Post{}, err
	}
	if err := decodeJSON(likes, &post.Likes); err != nil {
		return model.Post{}, err
	}
	if err := decodeJSON(comments, &post.Comments); err != nil {
		return model.Post{}, err
	}
	return post.Clone(), nil
}

func encodeLikes(likes map[string]bool) (string, error) {
	if likes == nil {
		likes = map[string]bool{}
	}
	data, err := json.Marshal(likes)
	if err != nil {
		return "", fmt.Errorf("failed to encode likes: %w", err)
	}
	return string(data), nil
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	likes, err := encodeLikes(post.Likes)
	if err != nil {
		return model.Post{}, err
	}
	now := r.now()

	query := `INSERT INTO posts (id, user_id, first_name, location, description, picture_path, user_picture_path,
			  likes, comments, created_at, updated_at, revision)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]'::jsonb, $9, $9, 0)
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.ID, post.UserID, post.FirstName, post.Location, post.Description, post.PicturePath, post.UserPicturePath,
		likes, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, model.ErrConflict
		}
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return saved, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY seq`

	posts, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY seq`

	posts, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) query(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PostRepository) UpdateLikes(ctx context.Context, id uuid.UUID, likes map[string]bool, expectedRevision int64) (model.Post, error) {
	encoded, err := encodeLikes(likes)
	if err != nil {
		return model.Post{}, err
	}

	query := `UPDATE posts SET likes = $1, updated_at = $2, revision = revision + 1
			  WHERE id = $3 AND revision = $4
			  RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(ctx, query, encoded, r.now(), id, expectedRevision))
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, fmt.Errorf("failed to update likes: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return model.Post{}, fmt.Errorf("failed to check post existence: %w", err)
	}
	if !exists {
		return model.Post{}, model.ErrNotFound
	}
	return model.Post{}, model.ErrConflict
}
