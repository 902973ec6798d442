package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

func openTestRepo(t *testing.T) repository.TaskRepository {
	t.Helper()
	repo, closeFn, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return repo
}

func TestCreateAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{
		UserID:      "u1",
		Title:       "Buy milk",
		Description: "2% organic",
		Status:      domain.StatusTodo,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.UserID, got.UserID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListOrderingAndFiltering(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC()
	seed := []domain.Task{
		{ID: "t1", UserID: "u1", Title: "oldest", Description: "desc", Status: domain.StatusTodo, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "t2", UserID: "u2", Title: "middle", Description: "desc", Status: domain.StatusDone, CreatedAt: base.Add(-time.Hour)},
		{ID: "t3", UserID: "u1", Title: "newest", Description: "desc", Status: domain.StatusDone, CreatedAt: base},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "t3", all[0].ID)
	assert.Equal(t, "t1", all[2].ID)

	mine, err := repo.List(ctx, repository.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	done, err := repo.List(ctx, repository.TaskFilter{UserID: "u1", Status: domain.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "t3", done[0].ID)
}

func TestReplace(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{
		UserID:      "u1",
		Title:       "Buy milk",
		Description: "2% organic",
		Status:      domain.StatusTodo,
	})
	require.NoError(t, err)

	created.Title = "Buy oat milk"
	created.Status = domain.StatusDone
	updated, err := repo.Replace(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, got.Status)

	_, err = repo.Replace(ctx, &domain.Task{ID: "missing", Title: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDelete(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{
		UserID:      "u1",
		Title:       "Buy milk",
		Description: "2% organic",
		Status:      domain.StatusTodo,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrTaskNotFound)
}
