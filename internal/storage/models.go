package storage

import "time"

// RepositoryRecord represents an ingested GitHub repository.
type RepositoryRecord struct {
	URL           string // html_url, natural key
	Owner         string
	Name          string
	Language      string // empty when GitHub reports none
	Description   string
	DefaultBranch string
	Stars         int
	Forks         int
	Topics        []string
	CreatedAt     time.Time
}

// BranchRecord represents the commit of a repository that was ingested.
type BranchRecord struct {
	ID            int64
	RepositoryURL string
	CommitSHA     string
	Name          string
	CommitAt      time.Time
	Summary       string // reserved, never written by the pipeline
	CreatedAt     time.Time
}

// FolderRecord represents a directory of the filtered tree.
type FolderRecord struct {
	ID           int64
	BranchID     int64
	ParentID     *int64 // nil for the root folder
	Path         string // "" for the root folder
	Name         string
	Usage        string
	Summary      string
	SummarizedAt *time.Time // nil until the folder summary is written
}

// FileRecord represents a summarized source file.
type FileRecord struct {
	ID        int64
	FolderID  int64
	Name      string
	Content   string
	Usage     string
	Summary   string
	CreatedAt time.Time
}
