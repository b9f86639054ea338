package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/ccrm-api/internal/dto"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/storage"
)

func newBackupService(t *testing.T, f *fixture) (*BackupService, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewBackupService(local, f.students, f.courses, f.instructors, nil, f.metrics, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return svc, dir
}

func TestBackupServiceCreateBackup(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.data.SeedSampleData())
	svc, dir := newBackupService(t, f)

	result, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)

	backupDir := filepath.Join(dir, "backup_2024-03-05_14-07-09")
	assert.Equal(t, backupDir, filepath.FromSlash(result.Directory))
	for _, name := range []string{"students.csv", "courses.csv", "instructors.csv", "enrollments.csv", "manifest.yaml"} {
		assert.FileExists(t, filepath.Join(backupDir, name))
	}

	raw, err := os.ReadFile(filepath.Join(backupDir, "manifest.yaml"))
	require.NoError(t, err)
	var manifest dto.BackupManifest
	require.NoError(t, yaml.Unmarshal(raw, &manifest))
	assert.Equal(t, result.Manifest.ID, manifest.ID)
	assert.Equal(t, 2, manifest.Counts["students"])
	assert.Equal(t, 2, manifest.Counts["enrollments"])
	assert.Len(t, manifest.Files, 4)

	file, err := os.Open(filepath.Join(backupDir, "enrollments.csv"))
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"student_id", "course_code", "credits"}, rows[0])
	assert.Equal(t, []string{"S001", "CS101", "3"}, rows[1])
}

func TestBackupServiceSizeAndListing(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.data.SeedSampleData())
	svc, _ := newBackupService(t, f)

	empty, err := svc.DirectorySize("")
	require.NoError(t, err)
	assert.Zero(t, empty.Bytes)

	_, err = svc.CreateBackup(context.Background())
	require.NoError(t, err)

	size, err := svc.DirectorySize("")
	require.NoError(t, err)
	assert.Positive(t, size.Bytes)
	assert.NotEmpty(t, size.Human)

	missing, err := svc.DirectorySize("does-not-exist")
	require.NoError(t, err)
	assert.Zero(t, missing.Bytes)

	top, err := svc.ListFiles(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, top[0].Dir)
	assert.True(t, strings.HasPrefix(top[0].Name, "backup_"))

	all, err := svc.ListFiles(2)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	_, err = svc.ListFiles(0)
	assert.Error(t, err)
}

func TestBackupServiceSizeStaysInsideBackupFolder(t *testing.T) {
	f := newFixture()
	svc, dir := newBackupService(t, f)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("not yours"), 0o644))
	rel, err := filepath.Rel(dir, outside)
	require.NoError(t, err)

	for _, target := range []string{outside, rel, "..", "backup_x/../../etc"} {
		t.Run(target, func(t *testing.T) {
			size, err := svc.DirectorySize(target)
			require.Error(t, err)
			assert.Nil(t, size)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}

	inside, err := svc.DirectorySize("backup_x/..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "."), filepath.Clean(inside.Path))
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KB", humanBytes(1536))
	assert.Equal(t, "2.0 MB", humanBytes(2*1024*1024))
}
