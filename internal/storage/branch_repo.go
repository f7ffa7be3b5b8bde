package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_branch_store.go -package=mocks openrepowiki/internal/storage BranchStore

import (
	"context"
	"database/sql"
	"fmt"
)

// BranchStore defines the interface for branch storage operations.
type BranchStore interface {
	// Insert stores the branch unless one with the same repository URL and commit SHA
	// exists, and returns the stored row either way.
	Insert(ctx context.Context, branch *BranchRecord) (*BranchRecord, error)
	// GetLatest returns the most recently created branch of a repository.
	// Returns nil and ErrNotFound if the repository has no branch.
	GetLatest(ctx context.Context, repositoryURL string) (*BranchRecord, error)
	// UpdateSummary sets the branch-level summary.
	UpdateSummary(ctx context.Context, id int64, summary string) error
}

// BranchRepo provides methods for branch operations.
// It implements the BranchStore interface.
type BranchRepo struct {
	db *sql.DB
}

// NewBranchRepo creates a new BranchRepo.
func NewBranchRepo(db *sql.DB) *BranchRepo {
	return &BranchRepo{db: db}
}

const branchColumns = "id, repository_url, commit_sha, name, commit_at, summary, created_at"

// Insert stores the branch if (repository_url, commit_sha) is new, then reads it back.
func (r *BranchRepo) Insert(ctx context.Context, branch *BranchRecord) (*BranchRecord, error) {
	var commitAt any
	if !branch.CommitAt.IsZero() {
		commitAt = branch.CommitAt.UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO branches (repository_url, commit_sha, name, commit_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (repository_url, commit_sha) DO NOTHING`,
		branch.RepositoryURL, branch.CommitSHA, branch.Name, commitAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert branch: %w", err)
	}

	return scanBranch(r.db.QueryRowContext(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE repository_url = ? AND commit_sha = ?",
		branch.RepositoryURL, branch.CommitSHA,
	))
}

// GetLatest returns the most recently created branch of a repository.
func (r *BranchRepo) GetLatest(ctx context.Context, repositoryURL string) (*BranchRecord, error) {
	return scanBranch(r.db.QueryRowContext(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE repository_url = ? ORDER BY id DESC LIMIT 1",
		repositoryURL,
	))
}

// UpdateSummary sets the branch-level summary.
// Returns ErrNotFound if no branch has the given id.
func (r *BranchRepo) UpdateSummary(ctx context.Context, id int64, summary string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE branches SET summary = ? WHERE id = ?", summary, id)
	if err != nil {
		return fmt.Errorf("failed to update branch summary: %w", err)
	}
	return requireAffected(result)
}

func scanBranch(row rowScanner) (*BranchRecord, error) {
	var branch BranchRecord
	var commitAt sql.NullTime
	var summary sql.NullString

	err := row.Scan(&branch.ID, &branch.RepositoryURL, &branch.CommitSHA, &branch.Name,
		&commitAt, &summary, &branch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan branch: %w", err)
	}

	if commitAt.Valid {
		branch.CommitAt = commitAt.Time
	}
	branch.Summary = summary.String
	return &branch, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
