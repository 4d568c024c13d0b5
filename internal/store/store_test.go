package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/lunchbot/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "lunchbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestArchivePost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := types.Post{Message: "Meny uke 11", CreatedTime: time.Date(2017, 3, 13, 9, 0, 0, 0, time.UTC)}
	newer := types.Post{Message: "Meny uke 12", CreatedTime: time.Date(2017, 3, 20, 9, 0, 0, 0, time.UTC)}
	chatter := types.Post{Message: "Husk quiz!", CreatedTime: time.Date(2017, 3, 21, 9, 0, 0, 0, time.UTC)}

	require.NoError(t, s.ArchivePost(ctx, older, "first"))
	require.NoError(t, s.ArchivePost(ctx, newer, "third"))
	require.NoError(t, s.ArchivePost(ctx, chatter, ""))

	all, err := s.ArchivedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Husk quiz!", all[0].Post.Message)
	assert.Equal(t, "Meny uke 11", all[2].Post.Message)
	assert.True(t, older.CreatedTime.Equal(all[2].Post.CreatedTime))

	menus, err := s.ArchivedPosts(ctx, "first", "third")
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "third", menus[0].Kind)
	assert.Equal(t, "first", menus[1].Kind)
}

func TestArchivePost_Reclassifies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := types.Post{Message: "TRANSIT:\nMANDAG\nA", CreatedTime: time.Date(2018, 1, 8, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, s.ArchivePost(ctx, p, ""))
	require.NoError(t, s.ArchivePost(ctx, p, "headerless"))

	all, err := s.ArchivedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "headerless", all[0].Kind)
}

func TestDeliveries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.Delivered(ctx, "2017-03-20")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MarkDelivered(ctx, "2017-03-20", 2))
	require.NoError(t, s.MarkDelivered(ctx, "2017-03-20", 2))

	ok, err = s.Delivered(ctx, "2017-03-20")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delivered(ctx, "2017-03-21")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRatings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Rating(ctx, 26780)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveRating(ctx, 26780, 70))
	require.NoError(t, s.SaveRating(ctx, 26781, 40))
	require.NoError(t, s.SaveRating(ctx, 26780, 85))

	r, ok, err := s.Rating(ctx, 26780)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 85, r)

	r, ok, err = s.Rating(ctx, 26781)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 40, r)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lunchbot.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRating(ctx, 1, 50))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	r, ok, err := s.Rating(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 50, r)
}
