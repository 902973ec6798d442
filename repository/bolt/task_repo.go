package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	boltdb "go.etcd.io/bbolt"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

var tasksBucket = []byte("tasks")

type taskRepository struct {
	db *boltdb.DB
}

// Open initializes the Bolt file and ensures the tasks bucket exists.
// This driver backs single-node and development deployments where running
// Postgres is not worth it.
func Open(path string) (repository.TaskRepository, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	db, err := boltdb.Open(path, 0o600, &boltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, nil, err
	}

	if err := db.Update(func(tx *boltdb.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tasksBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, nil, err
	}

	return &taskRepository{db: db}, db.Close, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *boltdb.Tx) error {
		raw := tx.Bucket(tasksBucket).Get([]byte(id))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		task = &domain.Task{}
		return json.Unmarshal(raw, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.View(func(tx *boltdb.Tx) error {
		return tx.Bucket(tasksBucket).ForEach(func(_, raw []byte) error {
			var task domain.Task
			if err := json.Unmarshal(raw, &task); err != nil {
				return err
			}
			if filter.UserID != "" && task.UserID != filter.UserID {
				return nil
			}
			if filter.Status != "" && task.Status != filter.Status {
				return nil
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	if err := r.put(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Replace(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	err := r.db.Update(func(tx *boltdb.Tx) error {
		bucket := tx.Bucket(tasksBucket)
		if bucket.Get([]byte(task.ID)) == nil {
			return domain.ErrTaskNotFound
		}
		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(task.ID), payload)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *boltdb.Tx) error {
		bucket := tx.Bucket(tasksBucket)
		if bucket.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *taskRepository) put(task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *boltdb.Tx) error {
		return tx.Bucket(tasksBucket).Put([]byte(task.ID), payload)
	})
}
