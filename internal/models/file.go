package models

import "time"

// FileRecord describes a single tracked file inside a registered directory
type FileRecord struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Hash         string    `json:"hash"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
	IsText       bool      `json:"is_text"`
}

// Directory summarizes a directory registered for integrity monitoring
type Directory struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Path            string    `json:"directory"`
	FilesRegistered int       `json:"files_registered"`
	RegisteredAt    time.Time `json:"registered_at"`
}

// ChangeSet is the diff produced by rescanning a registered directory
// against its stored baseline
type ChangeSet struct {
	Directory string   `json:"directory"`
	Added     []string `json:"added"`
	Deleted   []string `json:"deleted"`
	Modified  []string `json:"modified"`
}
