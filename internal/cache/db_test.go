package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/commentdesk/internal/api"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestKV_SetGetRemove(t *testing.T) {
	db, _ := openTestDB(t)

	_, ok, err := db.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Set("k", "v1"))
	require.NoError(t, db.Set("k", "v2"))
	v, ok, err := db.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, db.Remove("k"))
	require.NoError(t, db.Remove("k"))
	_, ok, err = db.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_SurvivesReopen(t *testing.T) {
	db, path := openTestDB(t)
	require.NoError(t, db.Set("editedComments", `{"1":{"name":"Annie"}}`))
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, ok, err := reopened.Get("editedComments")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"1":{"name":"Annie"}}`, v)
}

func TestSnapshot_EmptyDatabase(t *testing.T) {
	db, _ := openTestDB(t)

	b, _, ok, err := db.GetSnapshot()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestSnapshot_PreservesOrderAndReplaces(t *testing.T) {
	db, _ := openTestDB(t)

	first := api.NewBaseline(
		[]api.Comment{
			{ID: 9, PostID: 1, Name: "last id first", Email: "z@x.com", Body: "b"},
			{ID: 1, PostID: 1, Name: "Ann", Email: "a@x.com", Body: "hi"},
		},
		[]api.Post{{ID: 1, Title: "Hello"}},
	)
	require.NoError(t, db.PutSnapshot(first))

	b, fetchedAt, ok, err := db.GetSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, fetchedAt.IsZero())
	assert.Equal(t, first.Comments, b.Comments)
	assert.Equal(t, "Hello", b.PostTitle(1))

	second := api.NewBaseline(
		[]api.Comment{{ID: 3, PostID: 2, Name: "New", Email: "n@x.com", Body: "x"}},
		[]api.Post{{ID: 2, Title: "Other"}},
	)
	require.NoError(t, db.PutSnapshot(second))

	b, _, ok, err = db.GetSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.Comments, b.Comments)
	assert.Equal(t, map[int]string{2: "Other"}, b.PostTitles)
}
