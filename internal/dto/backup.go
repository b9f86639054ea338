package dto

import "time"

// BackupManifest is written as manifest.yaml inside every backup directory.
type BackupManifest struct {
	ID          string         `yaml:"id" json:"id"`
	CreatedAt   time.Time      `yaml:"created_at" json:"created_at"`
	Counts      map[string]int `yaml:"counts" json:"counts"`
	Files       []string       `yaml:"files" json:"files"`
	DataVersion int            `yaml:"data_version" json:"data_version"`
}

// BackupResult reports where a backup was written.
type BackupResult struct {
	Directory string         `json:"directory"`
	Manifest  BackupManifest `json:"manifest"`
}

// BackupRequest optionally defers the backup to the job queue.
type BackupRequest struct {
	Async bool `json:"async"`
}

// DirectorySize reports the recursive byte total of a directory.
type DirectorySize struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Human string `json:"human"`
}

// DataCounts reports how many entities each store holds.
type DataCounts struct {
	Students    int `json:"students"`
	Courses     int `json:"courses"`
	Instructors int `json:"instructors"`
}
