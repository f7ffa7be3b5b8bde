package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks openrepowiki/internal/storage FileStore

import (
	"context"
	"database/sql"
	"fmt"
)

// FileStore defines the interface for file storage operations.
type FileStore interface {
	// Insert stores the file unless one with the same folder and name exists,
	// and returns the stored row either way. Files are never updated.
	Insert(ctx context.Context, file *FileRecord) (*FileRecord, error)
	// ListByFolder returns the files of a folder ordered by name.
	ListByFolder(ctx context.Context, folderID int64) ([]FileRecord, error)
	// ListByBranch returns every file of a branch without its content.
	ListByBranch(ctx context.Context, branchID int64) ([]FileRecord, error)
}

// FileRepo provides methods for file operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

const fileColumns = "id, folder_id, name, content, usage, summary, created_at"

// Insert stores the file if (folder_id, name) is new, then reads it back.
func (r *FileRepo) Insert(ctx context.Context, file *FileRecord) (*FileRecord, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (folder_id, name, content, usage, summary)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (folder_id, name) DO NOTHING`,
		file.FolderID, file.Name, file.Content, file.Usage, file.Summary,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert file %q: %w", file.Name, err)
	}

	var stored FileRecord
	err = r.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE folder_id = ? AND name = ?",
		file.FolderID, file.Name,
	).Scan(&stored.ID, &stored.FolderID, &stored.Name, &stored.Content, &stored.Usage, &stored.Summary, &stored.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}

	return &stored, nil
}

// ListByFolder returns the files of a folder ordered by name.
// Returns an empty slice if the folder has no files (not an error).
func (r *FileRepo) ListByFolder(ctx context.Context, folderID int64) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE folder_id = ? ORDER BY name",
		folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []FileRecord{}
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.FolderID, &f.Name, &f.Content, &f.Usage, &f.Summary, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

// ListByBranch returns every file of a branch ordered by folder and name.
// Content is left empty; the read API only serves summaries.
func (r *FileRepo) ListByBranch(ctx context.Context, branchID int64) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.folder_id, f.name, f.usage, f.summary, f.created_at
		 FROM files f JOIN folders d ON d.id = f.folder_id
		 WHERE d.branch_id = ?
		 ORDER BY f.folder_id, f.name`,
		branchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query branch files: %w", err)
	}
	defer rows.Close()

	files := []FileRecord{}
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.FolderID, &f.Name, &f.Usage, &f.Summary, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branch files: %w", err)
	}

	return files, nil
}
