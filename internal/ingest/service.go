// Package ingest runs the ingestion pipeline for one repository: fetch the
// tree, filter it, persist folders, summarize files concurrently and then
// summarize folders bottom-up.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/github"
	"openrepowiki/internal/metrics"
	"openrepowiki/internal/storage"
	"openrepowiki/internal/summarizer"
	"openrepowiki/internal/tree"
)

// GitHub is the part of the GitHub client the pipeline needs.
type GitHub interface {
	GetDetails(ctx context.Context, owner, repo string) (*github.RepoDetails, error)
	GetTree(ctx context.Context, owner, repo, sha string) (*github.Tree, error)
	GetFileContent(ctx context.Context, owner, repo, sha, filePath string) (string, error)
}

// Indexer is notified after a repository has been summarized.
type Indexer interface {
	IndexBranch(ctx context.Context, repo *storage.RepositoryRecord, branch *storage.BranchRecord) error
}

// Service ingests repositories.
type Service struct {
	github     GitHub
	repos      storage.RepositoryStore
	branches   storage.BranchStore
	folders    storage.FolderStore
	files      storage.FileStore
	summarizer summarizer.Summarizer
	policy     *tree.Policy
	retry      RetryPolicy
	indexer    Indexer
	metrics    *metrics.Metrics
}

// NewService creates a new ingestion service. A nil policy means tree.DefaultPolicy().
func NewService(
	gh GitHub,
	repos storage.RepositoryStore,
	branches storage.BranchStore,
	folders storage.FolderStore,
	files storage.FileStore,
	sum summarizer.Summarizer,
	policy *tree.Policy,
	retry RetryPolicy,
) *Service {
	if policy == nil {
		policy = tree.DefaultPolicy()
	}
	return &Service{
		github:     gh,
		repos:      repos,
		branches:   branches,
		folders:    folders,
		files:      files,
		summarizer: sum,
		policy:     policy,
		retry:      retry,
	}
}

// WithIndexer sets the indexer run after each successful ingestion.
func (s *Service) WithIndexer(ix Indexer) *Service {
	s.indexer = ix
	return s
}

// WithMetrics sets the metrics sink.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// snapshot is the state of one ingestion.
type snapshot struct {
	owner     string
	repo      string
	commitSHA string
	branchID  int64
	folderIDs map[string]int64 // folder path -> id
}

func (sn *snapshot) metadata(path string, kind summarizer.Kind) summarizer.Metadata {
	return summarizer.Metadata{Owner: sn.owner, Repo: sn.repo, CommitSHA: sn.commitSHA, Path: path, Kind: kind}
}

// InsertRepository ingests owner/repo at the head of its default branch.
// A repository that is already stored is left untouched.
func (s *Service) InsertRepository(ctx context.Context, owner, repo string) error {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	logger.InfoContext(ctx, "fetching repository details")
	details, err := s.github.GetDetails(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to fetch repository details: %w", err)
	}

	repoRecord, created, err := s.repos.Insert(ctx, &storage.RepositoryRecord{
		URL:           details.URL,
		Owner:         details.Owner,
		Name:          details.Name,
		Language:      details.Language,
		Description:   details.Description,
		DefaultBranch: details.DefaultBranch,
		Stars:         details.Stars,
		Forks:         details.Forks,
		Topics:        details.Topics,
	})
	if err != nil {
		return fmt.Errorf("failed to insert repository: %w", err)
	}
	if !created {
		logger.InfoContext(ctx, "repository already exists", "url", repoRecord.URL)
		return nil
	}

	branch, err := s.branches.Insert(ctx, &storage.BranchRecord{
		RepositoryURL: repoRecord.URL,
		CommitSHA:     details.CommitSHA,
		Name:          details.DefaultBranch,
		CommitAt:      details.CommitAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert branch: %w", err)
	}

	sn := &snapshot{
		owner:     details.Owner,
		repo:      details.Name,
		commitSHA: details.CommitSHA,
		branchID:  branch.ID,
		folderIDs: make(map[string]int64),
	}

	logger.InfoContext(ctx, "fetching tree", "commit_sha", sn.commitSHA)
	listing, err := s.github.GetTree(ctx, sn.owner, sn.repo, sn.commitSHA)
	if err != nil {
		return fmt.Errorf("failed to fetch tree: %w", err)
	}
	if listing.Truncated {
		logger.WarnContext(ctx, "tree listing truncated by GitHub, ingesting partial tree", "entries", len(listing.Entries))
	}

	filtered := s.policy.Filter(tree.Build(listing.Entries))
	dirs, files := filtered.Count()
	logger.InfoContext(ctx, "filtered tree", "entries", len(listing.Entries), "folders", dirs, "files", files)

	if err := s.insertFolders(ctx, sn, filtered, nil); err != nil {
		return err
	}
	if err := s.ingestFiles(ctx, sn, filtered); err != nil {
		return err
	}
	if _, err := s.summarizeFolder(ctx, sn, filtered); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexBranch(ctx, repoRecord, branch); err != nil {
			logger.WarnContext(ctx, "failed to index summaries", "error", err)
		}
	}

	logger.InfoContext(ctx, "repository ingested", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// insertFolders stores node and its descendants top-down, so every parent id
// is known before its children are inserted.
func (s *Service) insertFolders(ctx context.Context, sn *snapshot, node *tree.Node, parentID *int64) error {
	folder, err := s.folders.Insert(ctx, &storage.FolderRecord{
		BranchID: sn.branchID,
		ParentID: parentID,
		Path:     node.Path,
		Name:     node.Name(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert folder %q: %w", node.Path, err)
	}
	sn.folderIDs[node.Path] = folder.ID

	for _, child := range node.Dirs {
		if err := s.insertFolders(ctx, sn, child, &folder.ID); err != nil {
			return err
		}
	}
	return nil
}

type summarizedFile struct {
	path    string
	content string
	result  *summarizer.Result
}

// ingestFiles fetches and summarizes every file of the tree concurrently and
// stores the ones that produced a summary. Files whose fetch or summary fails,
// or panics, are dropped.
func (s *Service) ingestFiles(ctx context.Context, sn *snapshot, root *tree.Node) error {
	logger := contextutil.LoggerFromContext(ctx)

	paths := root.FilePaths()
	logger.InfoContext(ctx, "summarizing files", "count", len(paths))

	results := make([]*summarizedFile, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "file summary panicked", "path", p, "panic", r)
					s.metrics.Dropped("file", "panic")
				}
			}()
			results[i] = s.summarizeFile(ctx, sn, p)
			return nil
		})
	}
	_ = g.Wait()

	stored := 0
	for _, res := range results {
		if res == nil {
			continue
		}

		folderPath := tree.Parent(res.path)
		folderID, ok := sn.folderIDs[folderPath]
		if !ok {
			logger.ErrorContext(ctx, "no folder found for file", "folder", folderPath, "path", res.path)
			s.metrics.Dropped("file", "no_folder")
			continue
		}

		_, err := s.files.Insert(ctx, &storage.FileRecord{
			FolderID: folderID,
			Name:     res.path[strings.LastIndex(res.path, "/")+1:],
			Content:  res.content,
			Usage:    res.result.Usage,
			Summary:  res.result.Summary,
		})
		if err != nil {
			return fmt.Errorf("failed to insert file %q: %w", res.path, err)
		}
		stored++
	}

	logger.InfoContext(ctx, "files stored", "stored", stored, "dropped", len(paths)-stored)
	return nil
}

func (s *Service) summarizeFile(ctx context.Context, sn *snapshot, filePath string) *summarizedFile {
	ctx = contextutil.WithAttrs(ctx, "path", filePath)
	logger := contextutil.LoggerFromContext(ctx)

	content, err := s.github.GetFileContent(ctx, sn.owner, sn.repo, sn.commitSHA, filePath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch file", "error", err)
		s.metrics.Dropped("file", "fetch")
		return nil
	}
	if content == "" {
		logger.DebugContext(ctx, "skipping empty file")
		return nil
	}

	meta := sn.metadata(filePath, summarizer.KindFile)
	result, err := s.retry.Run(ctx, content, s.retry.Truncate(),
		func(ctx context.Context, input string) (*summarizer.Result, error) {
			return s.summarizer.Summarize(ctx, input, meta)
		})
	if err != nil {
		logger.ErrorContext(ctx, "failed to summarize file", "error", err)
		s.metrics.Dropped("file", "exhausted")
		return nil
	}

	return &summarizedFile{path: filePath, content: content, result: result}
}

// summarizeFolder summarizes node after all of its descendants and returns its
// summary, or "" when the folder could not be summarized.
func (s *Service) summarizeFolder(ctx context.Context, sn *snapshot, node *tree.Node) (string, error) {
	var parts []string
	for _, child := range node.Dirs {
		summary, err := s.summarizeFolder(ctx, sn, child)
		if err != nil {
			return "", err
		}
		if summary != "" {
			parts = append(parts, fmt.Sprintf("Summary of folder %s:\n%s\n", child.Path, summary))
		}
	}

	ctx = contextutil.WithAttrs(ctx, "folder", node.Path)
	logger := contextutil.LoggerFromContext(ctx)

	folderID, ok := sn.folderIDs[node.Path]
	if !ok {
		logger.ErrorContext(ctx, "no folder id found")
		s.metrics.Dropped("folder", "no_folder")
		return "", nil
	}

	files, err := s.files.ListByFolder(ctx, folderID)
	if err != nil {
		return "", fmt.Errorf("failed to list files of folder %q: %w", node.Path, err)
	}
	for _, f := range files {
		if f.Summary != "" {
			parts = append(parts, fmt.Sprintf("Summary of file %s:\n%s\n", f.Name, f.Summary))
		}
	}

	if len(parts) == 0 {
		logger.InfoContext(ctx, "no summaries in folder, skipping")
		return "", nil
	}

	meta := sn.metadata(node.Path, summarizer.KindFolder)
	result, err := s.retry.Run(ctx, strings.Join(parts, "\n\n"), s.retry.Truncate(),
		func(ctx context.Context, input string) (*summarizer.Result, error) {
			return s.summarizer.Summarize(ctx, input, meta)
		})
	if err != nil {
		logger.WarnContext(ctx, "no summary produced for folder", "error", err)
		s.metrics.Dropped("folder", "exhausted")
		return "", nil
	}

	if err := s.folders.UpdateSummary(ctx, folderID, result.Usage, result.Summary); err != nil {
		return "", fmt.Errorf("failed to store summary of folder %q: %w", node.Path, err)
	}
	return result.Summary, nil
}
