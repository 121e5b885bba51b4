package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "p1", "h2", []byte("<html>2</html>")))
	require.NoError(t, s.Put(ctx, "p1", "h1", []byte("<html>1</html>")))
	require.NoError(t, s.Put(ctx, "p2", "h9", []byte("other")))

	got, err := s.Get(ctx, "p1", "h1")
	require.NoError(t, err)
	assert.Equal(t, "<html>1</html>", string(got))

	handles, err := s.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, handles)

	require.NoError(t, s.Delete(ctx, "p1", "h1"))
	_, err = s.Get(ctx, "p1", "h1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "p1", "missing"))
}

func TestMemoryStoreCopiesContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Put(ctx, "p", "h", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "p", "h")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[0] = 'y'

	again, _ := s.Get(ctx, "p", "h")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStoreValidatesKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	assert.Error(t, s.Put(ctx, "", "h", nil))
	assert.Error(t, s.Put(ctx, "p", " ", nil))
	assert.Error(t, s.Put(ctx, "a/b", "h", nil))
	assert.Error(t, s.Put(ctx, "p", "../h", nil))
	_, err := s.List(ctx, "")
	assert.Error(t, err)
}

func TestS3ConfigCanUse(t *testing.T) {
	assert.False(t, S3Config{}.CanUse())
	assert.False(t, S3Config{Endpoint: "localhost:9000", Bucket: "b"}.CanUse())
	assert.True(t, S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}.CanUse())
}

func TestNewS3StoreRequiresSettings(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.Error(t, err)
	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}
