package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/storage"
	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr    error
	putKey    string
	putOpts   minioLib.PutObjectOptions
	putBuffer bytes.Buffer

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, name string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = name
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey = key
	f.putOpts = opts
	_, _ = io.Copy(&f.putBuffer, r)
	return minioLib.UploadInfo{Key: key}, f.putErr
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "assets")
		require.NoError(t, err)
		assert.Equal(t, "assets", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := &fakeMinio{}
		_, err := NewClientWithAPI(ctx, api, "assets")
		require.NoError(t, err)
		assert.Equal(t, "assets", api.madeBucket)
	})

	t.Run("exists check fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "assets")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "assets")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create bucket")
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under base name with content type", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}

		require.NoError(t, c.Upload(ctx, "../avatars/me.png", bytes.NewReader([]byte("data"))))
		assert.Equal(t, "me.png", api.putKey)
		assert.Equal(t, "image/png", api.putOpts.ContentType)
		assert.Equal(t, "data", api.putBuffer.String())
	})

	t.Run("invalid key", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		assert.ErrorIs(t, c.Upload(ctx, "", bytes.NewReader(nil)), storage.ErrInvalidKey)
	})

	t.Run("put error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{putErr: errors.New("put-fail")}, bucket: "b"}
		err := c.Upload(ctx, "k.png", bytes.NewReader([]byte("data")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}
		c := &Client{api: api, bucket: "b"}

		rc, err := c.Download(ctx, "k.png")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("missing object", func(t *testing.T) {
		api := &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}
		c := &Client{api: api, bucket: "b"}

		rc, err := c.Download(ctx, "absent.png")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("get error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{getErr: errors.New("get-fail")}, bucket: "b"}

		rc, err := c.Download(ctx, "k.png")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	c := &Client{api: &fakeMinio{}, bucket: "b"}
	assert.NoError(t, c.Delete(ctx, "k.png"))

	c = &Client{api: &fakeMinio{removeErr: errors.New("remove-fail")}, bucket: "b"}
	err := c.Delete(ctx, "k.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		statErr error
		want    bool
		wantErr string
	}{
		{name: "exists", want: true},
		{name: "not found", statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}},
		{name: "other error", statErr: errors.New("stat-fail"), wantErr: "failed to stat object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{api: &fakeMinio{statErr: tt.statErr}, bucket: "b"}
			ok, err := c.Exists(ctx, "k.png")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
		})
	}
}
