package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_repository_service.go -package=mocks -mock_names=RepositoryService=MockRepositoryService openrepowiki/internal/service RepositoryService

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/storage"
)

// Repository is the public view of an ingested repository.
type Repository struct {
	URL           string    `json:"url"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Language      string    `json:"language,omitempty"`
	Description   string    `json:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Topics        []string  `json:"topics,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Branch is the ingested commit of a repository.
type Branch struct {
	Name      string    `json:"name"`
	CommitSHA string    `json:"commit_sha"`
	CommitAt  time.Time `json:"commit_at"`
}

// WikiFile is a summarized file.
type WikiFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Usage       string `json:"usage"`
	Summary     string `json:"summary"`
	SummaryHTML string `json:"summary_html"`
}

// WikiFolder is a folder with its summary and children.
type WikiFolder struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Usage       string        `json:"usage,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	SummaryHTML string        `json:"summary_html,omitempty"`
	Files       []WikiFile    `json:"files"`
	Folders     []*WikiFolder `json:"folders"`
}

// Wiki is the full summary hierarchy of a repository.
type Wiki struct {
	Repository Repository  `json:"repository"`
	Branch     Branch      `json:"branch"`
	Root       *WikiFolder `json:"root"`
}

// RepositoryService serves ingested repositories.
type RepositoryService interface {
	// List returns all ingested repositories ordered by owner and name.
	List(ctx context.Context) ([]Repository, error)
	// GetWiki returns the summary hierarchy of the latest ingested commit.
	// Returns ErrNotFound if the repository is unknown.
	GetWiki(ctx context.Context, owner, name string) (*Wiki, error)
}

type repositoryService struct {
	repos    storage.RepositoryStore
	branches storage.BranchStore
	folders  storage.FolderStore
	files    storage.FileStore
	markdown goldmark.Markdown
}

// NewRepositoryService creates a new RepositoryService.
func NewRepositoryService(
	repos storage.RepositoryStore,
	branches storage.BranchStore,
	folders storage.FolderStore,
	files storage.FileStore,
) RepositoryService {
	return &repositoryService{
		repos:    repos,
		branches: branches,
		folders:  folders,
		files:    files,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func toRepository(r *storage.RepositoryRecord) Repository {
	return Repository{
		URL:           r.URL,
		Owner:         r.Owner,
		Name:          r.Name,
		Language:      r.Language,
		Description:   r.Description,
		DefaultBranch: r.DefaultBranch,
		Stars:         r.Stars,
		Forks:         r.Forks,
		Topics:        r.Topics,
		CreatedAt:     r.CreatedAt,
	}
}

func (s *repositoryService) List(ctx context.Context) ([]Repository, error) {
	records, err := s.repos.List(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list repositories", "error", err)
		return nil, WrapError(err, "failed to list repositories")
	}

	repos := make([]Repository, 0, len(records))
	for i := range records {
		repos = append(repos, toRepository(&records[i]))
	}
	return repos, nil
}

func (s *repositoryService) GetWiki(ctx context.Context, owner, name string) (*Wiki, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateName("owner", owner); err != nil {
		return nil, err
	}
	if err := validateName("repo", name); err != nil {
		return nil, err
	}

	repo, err := s.repos.GetByOwnerName(ctx, owner, name)
	if err != nil {
		return nil, storageError(err, "failed to get repository")
	}

	// A repository row without a branch was admitted but never got past step 2.
	branch, err := s.branches.GetLatest(ctx, repo.URL)
	if err != nil {
		return nil, storageError(err, "failed to get branch")
	}

	folders, err := s.folders.ListByBranch(ctx, branch.ID)
	if err != nil {
		return nil, WrapError(err, "failed to list folders")
	}
	files, err := s.files.ListByBranch(ctx, branch.ID)
	if err != nil {
		return nil, WrapError(err, "failed to list files")
	}

	root := s.buildHierarchy(ctx, folders, files)
	logger.DebugContext(ctx, "wiki built", "folders", len(folders), "files", len(files))

	return &Wiki{
		Repository: toRepository(repo),
		Branch:     Branch{Name: branch.Name, CommitSHA: branch.CommitSHA, CommitAt: branch.CommitAt},
		Root:       root,
	}, nil
}

// buildHierarchy links folders by parent id. Folders are listed by path, so a
// parent always precedes its children.
func (s *repositoryService) buildHierarchy(ctx context.Context, folders []storage.FolderRecord, files []storage.FileRecord) *WikiFolder {
	byID := make(map[int64]*WikiFolder, len(folders))
	var root *WikiFolder

	for _, f := range folders {
		node := &WikiFolder{
			Name:        f.Name,
			Path:        f.Path,
			Usage:       f.Usage,
			Summary:     f.Summary,
			SummaryHTML: s.render(ctx, f.Summary),
			Files:       []WikiFile{},
			Folders:     []*WikiFolder{},
		}
		byID[f.ID] = node

		if f.ParentID == nil {
			root = node
			continue
		}
		if parent, ok := byID[*f.ParentID]; ok {
			parent.Folders = append(parent.Folders, node)
		}
	}

	for _, f := range files {
		folder, ok := byID[f.FolderID]
		if !ok {
			continue
		}
		folder.Files = append(folder.Files, WikiFile{
			Name:        f.Name,
			Path:        path.Join(folder.Path, f.Name),
			Usage:       f.Usage,
			Summary:     f.Summary,
			SummaryHTML: s.render(ctx, f.Summary),
		})
	}

	if root == nil {
		root = &WikiFolder{Files: []WikiFile{}, Folders: []*WikiFolder{}}
	}
	return root
}

func (s *repositoryService) render(ctx context.Context, markdown string) string {
	if markdown == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &buf); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to render summary", "error", err)
		return ""
	}
	return buf.String()
}
