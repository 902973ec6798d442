package graphql_test

import (
	"context"
	"testing"
	"time"

	gographql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appGraphql "github.com/taskdesk/backend/api/graphql"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

type staticTaskRepo struct {
	tasks []domain.Task
}

func (r *staticTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.ID == id {
			copy := task
			return &copy, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *staticTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
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

func (r *staticTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (r *staticTaskRepo) Replace(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (r *staticTaskRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func execute(t *testing.T, schema gographql.Schema, actor domain.Actor, query string, variables map[string]interface{}) *gographql.Result {
	t.Helper()
	return gographql.Do(gographql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        appGraphql.WithActor(context.Background(), actor),
	})
}

func TestQuerySurface(t *testing.T) {
	repo := &staticTaskRepo{tasks: []domain.Task{
		{ID: "t1", UserID: "u1", Title: "Buy milk", Description: "2% organic", Status: domain.StatusTodo, CreatedAt: time.Now().UTC()},
		{ID: "t2", UserID: "u1", Title: "Ship release", Description: "Cut the tag", Status: domain.StatusDone, CreatedAt: time.Now().UTC()},
		{ID: "t3", UserID: "u2", Title: "Write report", Description: "Quarterly numbers", Status: domain.StatusDone, CreatedAt: time.Now().UTC()},
	}}
	schema, err := appGraphql.NewSchema(taskUC.New(repo, nil))
	require.NoError(t, err)

	owner := domain.Actor{ID: "u1", Username: "alice"}
	admin := domain.Actor{ID: "u9", Username: "root", Super: true}

	t.Run("tasks lists only the caller's rows", func(t *testing.T) {
		result := execute(t, schema, owner, `{ tasks { id status } }`, nil)
		require.Empty(t, result.Errors)

		tasks := result.Data.(map[string]interface{})["tasks"].([]interface{})
		assert.Len(t, tasks, 2)
	})

	t.Run("tasks is unfiltered for a super user", func(t *testing.T) {
		result := execute(t, schema, admin, `{ tasks { id } }`, nil)
		require.Empty(t, result.Errors)

		tasks := result.Data.(map[string]interface{})["tasks"].([]interface{})
		assert.Len(t, tasks, 3)
	})

	t.Run("task resolves by id for the owner", func(t *testing.T) {
		result := execute(t, schema, owner, `query ($id: ID!) { task(id: $id) { id title status } }`, map[string]interface{}{"id": "t1"})
		require.Empty(t, result.Errors)

		task := result.Data.(map[string]interface{})["task"].(map[string]interface{})
		assert.Equal(t, "t1", task["id"])
		assert.Equal(t, "Buy milk", task["title"])
		assert.Equal(t, "todo", task["status"])
	})

	t.Run("task of another user errors for a plain caller", func(t *testing.T) {
		result := execute(t, schema, owner, `{ task(id: "t3") { id } }`, nil)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("tasksByStatus narrows to one status", func(t *testing.T) {
		result := execute(t, schema, admin, `{ tasksByStatus(status: done) { id } }`, nil)
		require.Empty(t, result.Errors)

		tasks := result.Data.(map[string]interface{})["tasksByStatus"].([]interface{})
		assert.Len(t, tasks, 2)
	})
}
