package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, first_name, last_name, email, password_hash, picture_path, friends,
	location, occupation, viewed_profile, impressions, created_at, updated_at, revision`

type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user    model.User
		friends []byte
	)
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.PicturePath, &friends,
		&user.Location, &user.Occupation, &user.ViewedProfile, &user.Impressions, &user.CreatedAt, &user.UpdatedAt, &user.Revision,
	)
	if err != nil {
		return model.User{}, err
	}
	if err := decodeJSON(friends, &user.Friends); err != nil {
		return model.User{}, err
	}
	return user.Clone(), nil
}

func encodeFriends(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode friends: %w", err)
	}
	return string(data), nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	friends, err := encodeFriends(user.Friends)
	if err != nil {
		return model.User{}, err
	}
	now := r.now()

	query := `INSERT INTO users (id, first_name, last_name, email, password_hash, picture_path, friends,
			  location, occupation, viewed_profile, impressions, created_at, updated_at, revision)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12, 0)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.PicturePath, friends,
		user.Location, user.Occupation, user.ViewedProfile, user.Impressions, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateFriends writes the friend lists of users in one transaction. Rows are
// locked in id order so that opposite toggles of one edge cannot deadlock.
func (r *UserRepository) UpdateFriends(ctx context.Context, users ...model.User) error {
	query := `UPDATE users SET friends = $1, updated_at = $2, revision = revision + 1
			  WHERE id = $3 AND revision = $4`

	ordered := slices.Clone(users)
	slices.SortFunc(ordered, func(a, b model.User) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	now := r.now()
	err := WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		for _, u := range ordered {
			friends, err := encodeFriends(model.NormalizeFriends(u.ID, u.Friends))
			if err != nil {
				return err
			}

			res, err := tx.ExecContext(ctx, query, friends, now, u.ID, u.Revision)
			if err != nil {
				return fmt.Errorf("failed to update friends: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			if n == 0 {
				return model.ErrConflict
			}
		}
		return nil
	})
	if isTxConflict(err) {
		return model.ErrConflict
	}
	return err
}
