package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// RedisStore keeps each collection as one JSON document under <prefix>:<collection>.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore constructs a RedisStore. An empty prefix defaults to "ccrm".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ccrm"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(collection string) string {
	return s.prefix + ":" + collection
}

// SaveStudents stores the student snapshot.
func (s *RedisStore) SaveStudents(ctx context.Context, records []models.StudentRecord) error {
	return setJSON(ctx, s.client, s.key("students"), records)
}

// LoadStudents reads the student snapshot.
func (s *RedisStore) LoadStudents(ctx context.Context) ([]models.StudentRecord, error) {
	return getJSON[models.StudentRecord](ctx, s.client, s.key("students"))
}

// SaveCourses stores the course snapshot.
func (s *RedisStore) SaveCourses(ctx context.Context, records []models.CourseRecord) error {
	return setJSON(ctx, s.client, s.key("courses"), records)
}

// LoadCourses reads the course snapshot.
func (s *RedisStore) LoadCourses(ctx context.Context) ([]models.CourseRecord, error) {
	return getJSON[models.CourseRecord](ctx, s.client, s.key("courses"))
}

// SaveInstructors stores the instructor snapshot.
func (s *RedisStore) SaveInstructors(ctx context.Context, records []models.InstructorRecord) error {
	return setJSON(ctx, s.client, s.key("instructors"), records)
}

// LoadInstructors reads the instructor snapshot.
func (s *RedisStore) LoadInstructors(ctx context.Context) ([]models.InstructorRecord, error) {
	return getJSON[models.InstructorRecord](ctx, s.client, s.key("instructors"))
}

func setJSON[T any](ctx context.Context, client redis.UniversalClient, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, client redis.UniversalClient, key string) ([]T, error) {
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, nil
}
