// Command seed populates the database with two well-known accounts and a
// batch of random tasks for local development.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/internal/config"
	pgInfra "github.com/taskdesk/backend/internal/infrastructure/postgres"
	"github.com/taskdesk/backend/pkg/logger"
	"github.com/taskdesk/backend/repository"
	"github.com/taskdesk/backend/repository/postgres"
)

const taskCount = 50

// Weighted like real boards: done shows up twice as often.
var seedStatuses = []domain.TaskStatus{
	domain.StatusDone,
	domain.StatusInProgress,
	domain.StatusDone,
	domain.StatusArchived,
	domain.StatusTodo,
}

var words = []string{
	"review", "deploy", "refactor", "invoice", "backlog", "meeting",
	"release", "cleanup", "report", "migration", "budget", "draft",
	"planning", "rotation", "handover", "audit",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: "console"})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	tasks := postgres.NewTaskRepository(pool)

	admin, err := seedUser(ctx, users, "admin", true)
	if err != nil {
		zapLogger.Fatal("failed to seed admin", zap.Error(err))
	}
	regular, err := seedUser(ctx, users, "user", false)
	if err != nil {
		zapLogger.Fatal("failed to seed user", zap.Error(err))
	}

	for i := 0; i < taskCount; i++ {
		owner := regular
		if i%2 == 0 {
			owner = admin
		}
		if err := seedTask(ctx, tasks, owner.ID); err != nil {
			zapLogger.Fatal("failed to seed task", zap.Error(err))
		}
	}

	zapLogger.Info("seed executed successfully",
		zap.Int("tasks", taskCount),
		zap.String("admin_id", admin.ID),
		zap.String("user_id", regular.ID))
}

func seedUser(ctx context.Context, users repository.UserRepository, username string, super bool) (*domain.User, error) {
	if existing, err := users.FindByUsername(ctx, username); err == nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("12345"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.ToUpper(username[:1]) + username[1:] + " Account",
		Username:     username,
		Email:        fmt.Sprintf("%s@email.com", username),
		PasswordHash: string(hash),
		Super:        super,
	}
	if err := users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedTask(ctx context.Context, tasks repository.TaskRepository, userID string) error {
	title := fmt.Sprintf("%s %s %s", pick(), pick(), pick())
	_, err := tasks.Create(ctx, &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: fmt.Sprintf("Auto-generated task: %s.", title),
		Status:      seedStatuses[rand.Intn(len(seedStatuses))],
		CreatedAt:   time.Now().UTC().Add(-time.Duration(rand.Intn(720)) * time.Hour),
	})
	return err
}

func pick() string {
	return words[rand.Intn(len(words))]
}
