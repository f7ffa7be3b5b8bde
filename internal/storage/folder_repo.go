package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_folder_store.go -package=mocks openrepowiki/internal/storage FolderStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// FolderStore defines the interface for folder storage operations.
type FolderStore interface {
	// Insert stores the folder unless one with the same branch and path exists,
	// and returns the stored row either way. The parent must already be stored.
	Insert(ctx context.Context, folder *FolderRecord) (*FolderRecord, error)
	// UpdateSummary sets usage, summary and summarized_at of a folder.
	// Returns ErrNotFound if no folder has the given id.
	UpdateSummary(ctx context.Context, id int64, usage, summary string) error
	// ListByBranch returns all folders of a branch ordered by path.
	ListByBranch(ctx context.Context, branchID int64) ([]FolderRecord, error)
}

// FolderRepo provides methods for folder operations.
// It implements the FolderStore interface.
type FolderRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewFolderRepo creates a new FolderRepo.
func NewFolderRepo(db *sql.DB) *FolderRepo {
	return &FolderRepo{db: db, now: time.Now}
}

const folderColumns = "id, branch_id, parent_id, path, name, usage, summary, summarized_at"

// Insert stores the folder if (branch_id, path) is new, then reads it back.
func (r *FolderRepo) Insert(ctx context.Context, folder *FolderRecord) (*FolderRecord, error) {
	var parentID sql.NullInt64
	if folder.ParentID != nil {
		parentID = sql.NullInt64{Int64: *folder.ParentID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO folders (branch_id, parent_id, path, name)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (branch_id, path) DO NOTHING`,
		folder.BranchID, parentID, folder.Path, folder.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert folder %q: %w", folder.Path, err)
	}

	return scanFolder(r.db.QueryRowContext(ctx,
		"SELECT "+folderColumns+" FROM folders WHERE branch_id = ? AND path = ?",
		folder.BranchID, folder.Path,
	))
}

// UpdateSummary sets usage, summary and summarized_at of a folder.
func (r *FolderRepo) UpdateSummary(ctx context.Context, id int64, usage, summary string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE folders SET usage = ?, summary = ?, summarized_at = ? WHERE id = ?",
		usage, summary, r.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update folder summary: %w", err)
	}
	return requireAffected(result)
}

// ListByBranch returns all folders of a branch ordered by path, so parents come before children.
func (r *FolderRepo) ListByBranch(ctx context.Context, branchID int64) ([]FolderRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+folderColumns+" FROM folders WHERE branch_id = ? ORDER BY path",
		branchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var folders []FolderRecord
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row rowScanner) (*FolderRecord, error) {
	var folder FolderRecord
	var parentID sql.NullInt64
	var usage, summary sql.NullString
	var summarizedAt sql.NullTime

	err := row.Scan(&folder.ID, &folder.BranchID, &parentID, &folder.Path, &folder.Name,
		&usage, &summary, &summarizedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}

	if parentID.Valid {
		id := parentID.Int64
		folder.ParentID = &id
	}
	if summarizedAt.Valid {
		at := summarizedAt.Time
		folder.SummarizedAt = &at
	}
	folder.Usage = usage.String
	folder.Summary = summary.String
	return &folder, nil
}
