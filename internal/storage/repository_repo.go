package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_repository_store.go -package=mocks openrepowiki/internal/storage RepositoryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// RepositoryStore defines the interface for repository storage operations.
type RepositoryStore interface {
	// Insert stores the repository and its topics unless a row with the same URL or
	// owner/name already exists. It returns the stored row and whether it was created
	// by this call.
	Insert(ctx context.Context, repo *RepositoryRecord) (*RepositoryRecord, bool, error)
	// GetByOwnerName gets a repository by owner and name (case-insensitive).
	// Returns nil and ErrNotFound if not found.
	GetByOwnerName(ctx context.Context, owner, name string) (*RepositoryRecord, error)
	// List returns all repositories ordered by owner and name, without topics.
	List(ctx context.Context) ([]RepositoryRecord, error)
}

// RepositoryRepo provides methods for repository operations.
// It implements the RepositoryStore interface.
type RepositoryRepo struct {
	db *sql.DB
}

// NewRepositoryRepo creates a new RepositoryRepo.
func NewRepositoryRepo(db *sql.DB) *RepositoryRepo {
	return &RepositoryRepo{db: db}
}

const repositoryColumns = "url, owner, name, language, description, default_branch, stars, forks, created_at"

// Insert stores the repository and its topics in a single transaction.
// An existing row is never updated: the second insert of the same repository
// returns the stored row with created set to false.
func (r *RepositoryRepo) Insert(ctx context.Context, repo *RepositoryRecord) (*RepositoryRecord, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO repositories (url, owner, name, language, description, default_branch, stars, forks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		repo.URL, repo.Owner, repo.Name, nullString(repo.Language), nullString(repo.Description),
		repo.DefaultBranch, repo.Stars, repo.Forks,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert repository: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	created := affected > 0

	if created {
		for _, topic := range repo.Topics {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO repository_topics (repository_url, topic) VALUES (?, ?) ON CONFLICT DO NOTHING",
				repo.URL, topic,
			); err != nil {
				return nil, false, fmt.Errorf("failed to insert topic %q: %w", topic, err)
			}
		}
	}

	// The conflicting row may have been matched on owner/name rather than url.
	stored, err := scanRepository(tx.QueryRowContext(ctx,
		"SELECT "+repositoryColumns+" FROM repositories WHERE url = ? OR (owner = ? AND name = ?)",
		repo.URL, repo.Owner, repo.Name,
	))
	if err != nil {
		return nil, false, err
	}
	if stored.Topics, err = queryTopics(ctx, tx, stored.URL); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit repository: %w", err)
	}

	return stored, created, nil
}

// GetByOwnerName gets a repository by owner and name, including its topics.
// Returns nil and ErrNotFound if not found.
func (r *RepositoryRepo) GetByOwnerName(ctx context.Context, owner, name string) (*RepositoryRecord, error) {
	repo, err := scanRepository(r.db.QueryRowContext(ctx,
		"SELECT "+repositoryColumns+" FROM repositories WHERE owner = ? AND name = ?",
		owner, name,
	))
	if err != nil {
		return nil, err
	}
	if repo.Topics, err = queryTopics(ctx, r.db, repo.URL); err != nil {
		return nil, err
	}
	return repo, nil
}

// List returns all repositories ordered by owner and name.
// Topics are not loaded.
func (r *RepositoryRepo) List(ctx context.Context) ([]RepositoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+repositoryColumns+" FROM repositories ORDER BY owner, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer rows.Close()

	var repos []RepositoryRecord
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, *repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repositories: %w", err)
	}

	return repos, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanRepository(row rowScanner) (*RepositoryRecord, error) {
	var repo RepositoryRecord
	var language, description sql.NullString

	err := row.Scan(&repo.URL, &repo.Owner, &repo.Name, &language, &description,
		&repo.DefaultBranch, &repo.Stars, &repo.Forks, &repo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}

	repo.Language = language.String
	repo.Description = description.String
	return &repo, nil
}

func queryTopics(ctx context.Context, q queryer, url string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT topic FROM repository_topics WHERE repository_url = ? ORDER BY topic", url,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// nullString maps the empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
