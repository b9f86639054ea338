package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/repository"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

// Searchable is the read capability shared by the entity services.
type Searchable[T any] interface {
	Search(match func(T) bool) []T
	FindAll() []T
	FindByID(key string) (T, bool)
}

// Persistable saves and restores a service's state through its store.
type Persistable interface {
	Save(ctx context.Context) error
	Load(ctx context.Context) error
}

// Count is the number of entities s holds.
func Count[T any](s Searchable[T]) int {
	return len(s.FindAll())
}

// persist runs op against a store, timing it and translating failures.
// A missing snapshot becomes NOT_FOUND; anything else PERSISTENCE_FAILURE.
func persist(metrics *MetricsService, logger *zap.Logger, entity, operation string, op func() error) error {
	start := time.Now()
	err := op()
	metrics.ObservePersistence(entity, operation, time.Since(start), err)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNoSnapshot) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, fmt.Sprintf("no saved %s", entity))
	}
	logger.Warn("persistence failed", zap.String("entity", entity), zap.String("operation", operation), zap.Error(err))
	return appErrors.Persistence(err, fmt.Sprintf("failed to %s %s", operation, entity))
}

func notFound(kind, key string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", kind, key))
}
