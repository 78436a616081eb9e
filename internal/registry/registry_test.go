package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(filepath.Join(t.TempDir(), "registry.json"))
	require.NoError(t, err)
	return r
}

func TestRegistry_EmptyFile(t *testing.T) {
	r := newTestRegistry(t)

	repos, err := r.List()
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := newTestRegistry(t)

	repo, err := r.Add("myrepo", "/src/myrepo", 42)
	require.NoError(t, err)
	require.NotNil(t, repo)

	_, err = uuid.Parse(repo.ID)
	assert.NoError(t, err, "repo ID should be a valid UUID")
	assert.Equal(t, "myrepo", repo.Name)
	assert.Equal(t, 42, repo.FileCount)
	assert.False(t, repo.IndexedAt.IsZero())

	byID, err := r.GetByID(repo.ID)
	require.NoError(t, err)
	assert.Equal(t, repo.Path, byID.Path)

	byPath, err := r.GetByPath("/src/myrepo")
	require.NoError(t, err)
	assert.Equal(t, repo.ID, byPath.ID)
}

func TestRegistry_GetMissing(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.GetByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetByPath("/nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Update(t *testing.T) {
	r := newTestRegistry(t)

	repo, err := r.Add("myrepo", "/src/myrepo", 10)
	require.NoError(t, err)

	updated, err := r.Update(repo.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 99, updated.FileCount)
	assert.False(t, updated.IndexedAt.Before(repo.IndexedAt))

	_, err = r.Update("missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Remove(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Add("a", "/src/a", 1)
	require.NoError(t, err)
	b, err := r.Add("b", "/src/b", 2)
	require.NoError(t, err)

	require.NoError(t, r.Remove(a.ID))

	repos, err := r.List()
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, b.ID, repos[0].ID)

	assert.ErrorIs(t, r.Remove(a.ID), ErrNotFound)
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	r1, err := New(path)
	require.NoError(t, err)
	repo, err := r1.Add("persisted", "/src/p", 3)
	require.NoError(t, err)

	r2, err := New(path)
	require.NoError(t, err)
	got, err := r2.GetByID(repo.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

func TestRegistry_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	r, err := New(path)
	require.NoError(t, err)

	_, err = r.List()
	assert.Error(t, err)
}
