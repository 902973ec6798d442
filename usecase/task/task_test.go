package task_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

// fakeTaskRepo is an in-memory TaskRepository used to exercise the use
// case without a database.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task

	// beforeReplace runs inside Replace before the lookup, letting tests
	// simulate a concurrent deletion between fetch and write.
	beforeReplace func(r *fakeTaskRepo)
}

func newFakeTaskRepo(seed ...domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[string]domain.Task)}
	for _, t := range seed {
		repo.tasks[t.ID] = t
	}
	return repo
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copy := task
	return &copy, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, task := range r.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	r.tasks[task.ID] = *task
	copy := *task
	return &copy, nil
}

func (r *fakeTaskRepo) Replace(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.beforeReplace != nil {
		r.beforeReplace(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	copy := *task
	return &copy, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

var (
	alice = domain.Actor{ID: "u1", Name: "Alice", Username: "alice"}
	bob   = domain.Actor{ID: "u2", Name: "Bob", Username: "bob"}
	root  = domain.Actor{ID: "u9", Name: "Root", Username: "root", Super: true}
)

func seedTask(owner domain.Actor, status domain.TaskStatus) domain.Task {
	return domain.Task{
		ID:          uuid.NewString(),
		UserID:      owner.ID,
		Title:       "Buy milk",
		Description: "2% organic",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestAddNewTask(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := taskUC.New(repo, nil)

	created, err := uc.AddNewTask(context.Background(), alice, domain.CreateTaskCommand{
		Title:       "Buy milk",
		Description: "2% organic",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusTodo, created.Status)
	assert.Equal(t, alice.ID, created.UserID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "2% organic", created.Description)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestAddNewTaskAlwaysOwnedByCaller(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := taskUC.New(repo, nil)

	// Even a super user creates tasks attributed to themselves.
	created, err := uc.AddNewTask(context.Background(), root, domain.CreateTaskCommand{
		Title:       "Rotate credentials",
		Description: "Production database password",
	})
	require.NoError(t, err)
	assert.Equal(t, root.ID, created.UserID)
}

func TestAddNewTaskValidationBoundaries(t *testing.T) {
	uc := taskUC.New(newFakeTaskRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name    string
		command domain.CreateTaskCommand
		wantErr bool
	}{
		{"title too short", domain.CreateTaskCommand{Title: "ab", Description: "valid description"}, true},
		{"title at minimum", domain.CreateTaskCommand{Title: "abc", Description: "valid description"}, false},
		{"title at maximum", domain.CreateTaskCommand{Title: strings.Repeat("a", 100), Description: "valid description"}, false},
		{"title too long", domain.CreateTaskCommand{Title: strings.Repeat("a", 101), Description: "valid description"}, true},
		{"title missing", domain.CreateTaskCommand{Description: "valid description"}, true},
		{"description too short", domain.CreateTaskCommand{Title: "valid title", Description: "ab"}, true},
		{"description at maximum", domain.CreateTaskCommand{Title: "valid title", Description: strings.Repeat("d", 1000)}, false},
		{"description too long", domain.CreateTaskCommand{Title: "valid title", Description: strings.Repeat("d", 1001)}, true},
		{"description missing", domain.CreateTaskCommand{Title: "valid title"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AddNewTask(ctx, alice, tc.command)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetTaskVisibility(t *testing.T) {
	owned := seedTask(alice, domain.StatusTodo)
	repo := newFakeTaskRepo(owned)
	uc := taskUC.New(repo, nil)
	ctx := context.Background()

	t.Run("owner sees the task", func(t *testing.T) {
		got, err := uc.GetTask(ctx, alice, owned.ID)
		require.NoError(t, err)
		assert.Equal(t, owned, *got)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := uc.GetTask(ctx, bob, owned.ID)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("super user sees any task", func(t *testing.T) {
		got, err := uc.GetTask(ctx, root, owned.ID)
		require.NoError(t, err)
		assert.Equal(t, owned.ID, got.ID)
	})

	t.Run("missing task is not found, not forbidden", func(t *testing.T) {
		_, err := uc.GetTask(ctx, alice, "no-such-id")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}

func TestGetAllTasksFiltering(t *testing.T) {
	repo := newFakeTaskRepo(
		seedTask(alice, domain.StatusTodo),
		seedTask(alice, domain.StatusDone),
		seedTask(bob, domain.StatusTodo),
	)
	uc := taskUC.New(repo, nil)
	ctx := context.Background()

	mine, err := uc.GetAllTasks(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, task := range mine {
		assert.Equal(t, alice.ID, task.UserID)
	}

	all, err := uc.GetAllTasks(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetTasksByStatus(t *testing.T) {
	repo := newFakeTaskRepo(
		seedTask(alice, domain.StatusTodo),
		seedTask(alice, domain.StatusDone),
		seedTask(bob, domain.StatusDone),
	)
	uc := taskUC.New(repo, nil)
	ctx := context.Background()

	done, err := uc.GetTasksByStatus(ctx, alice, domain.StatusDone)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, alice.ID, done[0].UserID)

	allDone, err := uc.GetTasksByStatus(ctx, root, domain.StatusDone)
	require.NoError(t, err)
	assert.Len(t, allDone, 2)

	_, err = uc.GetTasksByStatus(ctx, alice, domain.TaskStatus("waiting"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdateExistingTask(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates title and description only", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusInProgress)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		updated, err := uc.UpdateExistingTask(ctx, alice, owned.ID, domain.UpdateTaskCommand{
			Title:       "Buy oat milk",
			Description: "Barista edition",
		})
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", updated.Title)
		assert.Equal(t, "Barista edition", updated.Description)
		assert.Equal(t, owned.Status, updated.Status)
		assert.Equal(t, owned.UserID, updated.UserID)
		assert.Equal(t, owned.CreatedAt, updated.CreatedAt)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		_, err := uc.UpdateExistingTask(ctx, bob, owned.ID, domain.UpdateTaskCommand{
			Title:       "Hijacked",
			Description: "Should not happen",
		})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("archived task is immutable for every actor", func(t *testing.T) {
		archived := seedTask(alice, domain.StatusArchived)
		uc := taskUC.New(newFakeTaskRepo(archived), nil)

		for _, actor := range []domain.Actor{alice, root} {
			_, err := uc.UpdateExistingTask(ctx, actor, archived.ID, domain.UpdateTaskCommand{
				Title:       "New title",
				Description: "New description",
			})
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnprocessable))
		}
	})

	t.Run("missing task is not found", func(t *testing.T) {
		uc := taskUC.New(newFakeTaskRepo(), nil)
		_, err := uc.UpdateExistingTask(ctx, alice, "no-such-id", domain.UpdateTaskCommand{
			Title:       "New title",
			Description: "New description",
		})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})

	t.Run("deletion racing the write is unprocessable", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		repo := newFakeTaskRepo(owned)
		repo.beforeReplace = func(r *fakeTaskRepo) {
			r.mu.Lock()
			delete(r.tasks, owned.ID)
			r.mu.Unlock()
		}
		uc := taskUC.New(repo, nil)

		_, err := uc.UpdateExistingTask(ctx, alice, owned.ID, domain.UpdateTaskCommand{
			Title:       "New title",
			Description: "New description",
		})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnprocessable))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner moves the task forward", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		updated, err := uc.UpdateStatus(ctx, alice, owned.ID, domain.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
	})

	t.Run("re-setting the same status succeeds", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusDone)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		updated, err := uc.UpdateStatus(ctx, alice, owned.ID, domain.StatusDone)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDone, updated.Status)
	})

	t.Run("super user moves another user's task", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		updated, err := uc.UpdateStatus(ctx, root, owned.ID, domain.StatusArchived)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusArchived, updated.Status)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		_, err := uc.UpdateStatus(ctx, bob, owned.ID, domain.StatusDone)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("archived is terminal for every actor and target", func(t *testing.T) {
		archived := seedTask(alice, domain.StatusArchived)
		uc := taskUC.New(newFakeTaskRepo(archived), nil)

		targets := []domain.TaskStatus{
			domain.StatusTodo,
			domain.StatusInProgress,
			domain.StatusDone,
			domain.StatusArchived, // even re-setting archived is rejected
		}
		for _, actor := range []domain.Actor{alice, root} {
			for _, target := range targets {
				_, err := uc.UpdateStatus(ctx, actor, archived.ID, target)
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnprocessable))
			}
		}
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)

		_, err := uc.UpdateStatus(ctx, alice, owned.ID, domain.TaskStatus("paused"))
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	})

	t.Run("missing task is not found", func(t *testing.T) {
		uc := taskUC.New(newFakeTaskRepo(), nil)
		_, err := uc.UpdateStatus(ctx, alice, "no-such-id", domain.StatusDone)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})

	t.Run("deletion racing the write is unprocessable", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusTodo)
		repo := newFakeTaskRepo(owned)
		repo.beforeReplace = func(r *fakeTaskRepo) {
			r.mu.Lock()
			delete(r.tasks, owned.ID)
			r.mu.Unlock()
		}
		uc := taskUC.New(repo, nil)

		_, err := uc.UpdateStatus(ctx, alice, owned.ID, domain.StatusDone)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnprocessable))
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes own task", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusDone)
		repo := newFakeTaskRepo(owned)
		uc := taskUC.New(repo, nil)

		require.NoError(t, uc.DeleteTask(ctx, alice, owned.ID))
		_, err := uc.GetTask(ctx, alice, owned.ID)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})

	t.Run("super user deletes another user's task", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusDone)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)
		assert.NoError(t, uc.DeleteTask(ctx, root, owned.ID))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		owned := seedTask(alice, domain.StatusDone)
		uc := taskUC.New(newFakeTaskRepo(owned), nil)
		err := uc.DeleteTask(ctx, bob, owned.ID)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("missing task is not found, never a silent false", func(t *testing.T) {
		uc := taskUC.New(newFakeTaskRepo(), nil)
		err := uc.DeleteTask(ctx, alice, "no-such-id")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}

func TestRoundTrip(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := taskUC.New(repo, nil)
	ctx := context.Background()

	created, err := uc.AddNewTask(ctx, alice, domain.CreateTaskCommand{
		Title:       "Buy milk",
		Description: "2% organic",
	})
	require.NoError(t, err)

	got, err := uc.GetTask(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = uc.GetTask(ctx, bob, created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	asRoot, err := uc.GetTask(ctx, root, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, asRoot.ID)
}
