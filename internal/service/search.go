package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_search_service.go -package=mocks -mock_names=SearchService=MockSearchService openrepowiki/internal/service SearchService

import (
	"context"
	"strings"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/indexer"
	"openrepowiki/internal/storage"
)

// Searcher runs semantic queries over summaries.
type Searcher interface {
	Search(ctx context.Context, q indexer.Query) ([]indexer.Hit, error)
}

// SearchRequest is a semantic search. Owner and Repo restrict results to one repository.
type SearchRequest struct {
	Query string
	K     int
	Owner string
	Repo  string
	Kind  string
}

// SearchService searches file and folder summaries.
type SearchService interface {
	// Search returns ErrUnavailable when no search index is configured.
	Search(ctx context.Context, req SearchRequest) ([]indexer.Hit, error)
}

type searchService struct {
	searcher Searcher
	repos    storage.RepositoryStore
}

// NewSearchService creates a new SearchService. searcher may be nil.
func NewSearchService(searcher Searcher, repos storage.RepositoryStore) SearchService {
	return &searchService{searcher: searcher, repos: repos}
}

func (s *searchService) Search(ctx context.Context, req SearchRequest) ([]indexer.Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if s.searcher == nil {
		return nil, ErrUnavailable
	}

	q := indexer.Query{Text: strings.TrimSpace(req.Query), K: req.K, Kind: req.Kind}
	if q.Text == "" {
		return nil, &ValidationError{Field: "q", Message: "cannot be empty"}
	}
	if q.K < 0 || q.K > indexer.MaxK {
		return nil, &ValidationError{Field: "k", Message: "must be between 1 and 50"}
	}
	if q.Kind != "" && q.Kind != indexer.KindFile && q.Kind != indexer.KindFolder {
		return nil, &ValidationError{Field: "kind", Message: "must be file or folder"}
	}
	if (req.Owner == "") != (req.Repo == "") {
		return nil, &ValidationError{Field: "repo", Message: "owner and repo must be given together"}
	}

	if req.Owner != "" {
		repo, err := s.repos.GetByOwnerName(ctx, req.Owner, req.Repo)
		if err != nil {
			return nil, storageError(err, "failed to get repository")
		}
		q.RepositoryURL = repo.URL
	}

	hits, err := s.searcher.Search(ctx, q)
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "error", err)
		return nil, externalError(err, "search failed")
	}

	logger.InfoContext(ctx, "search completed", "query_length", len(q.Text), "hits", len(hits))
	return hits, nil
}
