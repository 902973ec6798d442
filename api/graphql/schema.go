// Package graphql exposes the read-only query surface. It resolves
// against the same task use case as the REST handlers, so both surfaces
// share one authorization engine. Mutations are intentionally absent.
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/taskdesk/backend/domain"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

type actorKey struct{}

// WithActor stores the authenticated identity for the resolvers.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}

// NewSchema builds the query schema backed by the task use case.
func NewSchema(tasks *taskUC.UseCase) (graphql.Schema, error) {
	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskStatus",
		Values: graphql.EnumValueConfigMap{
			"todo":       &graphql.EnumValueConfig{Value: domain.StatusTodo},
			"inProgress": &graphql.EnumValueConfig{Value: domain.StatusInProgress},
			"done":       &graphql.EnumValueConfig{Value: domain.StatusDone},
			"archived":   &graphql.EnumValueConfig{Value: domain.StatusArchived},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":      &graphql.Field{Type: graphql.NewNonNull(statusEnum)},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"userId":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"tasks": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(taskType)),
				Description: "Tasks visible to the current user.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return tasks.GetAllTasks(p.Context, actorFrom(p.Context))
				},
			},
			"task": &graphql.Field{
				Type:        taskType,
				Description: "A single task, when it belongs to the current user or the user is a super user.",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return tasks.GetTask(p.Context, actorFrom(p.Context), id)
				},
			},
			"tasksByStatus": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(taskType)),
				Description: "Visible tasks narrowed to one status.",
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(statusEnum)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(domain.TaskStatus)
					return tasks.GetTasksByStatus(p.Context, actorFrom(p.Context), status)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
