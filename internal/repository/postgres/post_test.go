package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{
	"id", "user_id", "first_name", "location", "description", "picture_path", "user_picture_path",
	"likes", "comments", "created_at", "updated_at", "revision",
}

func postRows(posts ...model.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows(postRowColumns)
	for _, p := range posts {
		likes, _ := encodeLikes(p.Likes)
		rows.AddRow(
			p.ID.String(), p.UserID.String(), p.FirstName, p.Location, p.Description, p.PicturePath, p.UserPicturePath,
			[]byte(likes), []byte(`[]`), p.CreatedAt, p.UpdatedAt, p.Revision,
		)
	}
	return rows
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	repo.now = fixedNow

	in := model.Post{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		FirstName:       "Ann",
		Location:        "Lima",
		Description:     "hello",
		PicturePath:     "p.png",
		UserPicturePath: "ann.png",
	}
	stored := in
	stored.CreatedAt = fixedNow()
	stored.UpdatedAt = fixedNow()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(in.ID, in.UserID, "Ann", "Lima", "hello", "p.png", "ann.png", `{}`, fixedNow()).
		WillReturnRows(postRows(stored))

	got, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Empty(t, got.Likes)
	assert.NotNil(t, got.Likes)
	assert.Equal(t, []string{}, got.Comments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO posts`).WillReturnError(errors.New("db down"))

	_, err := NewPostRepository(db).Create(context.Background(), model.Post{UserID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create post")
}

func TestPostRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	a := model.Post{ID: uuid.New(), UserID: uuid.New(), Description: "a"}
	b := model.Post{ID: uuid.New(), UserID: uuid.New(), Description: "b", Likes: map[string]bool{"x": true}}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts ORDER BY seq`)).
		WillReturnRows(postRows(a, b))

	got, err := NewPostRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
	assert.True(t, got[1].Likes["x"])
}

func TestPostRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	author := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE user_id = $1 ORDER BY seq`)).
		WithArgs(author).
		WillReturnRows(postRows())

	got, err := NewPostRepository(db).ListByUser(context.Background(), author)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostRepository_List_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM posts`).WillReturnError(errors.New("boom"))

	_, err := NewPostRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list posts")
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := NewPostRepository(db).GetByID(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostRepository_UpdateLikes(t *testing.T) {
	id := uuid.New()
	liker := uuid.New().String()
	update := regexp.QuoteMeta(`UPDATE posts SET likes = $1`)
	exists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`)

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "updated",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(update).
					WithArgs(`{"`+liker+`":true}`, fixedNow(), id, int64(3)).
					WillReturnRows(postRows(model.Post{ID: id, Likes: map[string]bool{liker: true}, Revision: 4}))
			},
		},
		{
			name: "revision moved on",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
				m.ExpectQuery(exists).WithArgs(id).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "post missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
				m.ExpectQuery(exists).WithArgs(id).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)
			repo := NewPostRepository(db)
			repo.now = fixedNow

			got, err := repo.UpdateLikes(context.Background(), id, map[string]bool{liker: true}, 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(4), got.Revision)
				assert.True(t, got.Likes[liker])
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
