package indexer

import (
	"context"
	"fmt"

	"openrepowiki/internal/vectorstore"
)

const (
	DefaultK = 5
	MaxK     = 50
)

// Query describes a semantic search over summaries. Empty filters match everything.
type Query struct {
	Text          string
	K             int
	RepositoryURL string
	Kind          string
}

// Hit is one matching summary. Score is VectorScore plus LexicalScore.
type Hit struct {
	Score         float32 `json:"score"`
	VectorScore   float32 `json:"score_vector"`
	LexicalScore  float32 `json:"score_lexical"`
	RepositoryURL string  `json:"repository_url"`
	Owner         string  `json:"owner"`
	Repo          string  `json:"repo"`
	CommitSHA     string  `json:"commit_sha"`
	Kind          string  `json:"kind"`
	Path          string  `json:"path"`
	Usage         string  `json:"usage"`
	Summary       string  `json:"summary"`
}

// Searcher answers semantic queries over indexed summaries.
type Searcher struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
}

// NewSearcher creates a new Searcher.
func NewSearcher(embedder Embedder, vectorStore vectorstore.VectorStore, collection string) *Searcher {
	return &Searcher{embedder: embedder, vectorStore: vectorStore, collection: collection}
}

// Search embeds the query text, fetches candidateFactor*k nearest summaries and
// returns the best k after lexical reranking.
func (s *Searcher) Search(ctx context.Context, q Query) ([]Hit, error) {
	k := q.K
	if k <= 0 {
		k = DefaultK
	}
	k = min(k, MaxK)

	vectors, err := s.embedder.EmbedTexts(ctx, []string{q.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	filters := map[string]any{}
	if q.RepositoryURL != "" {
		filters["repository_url"] = q.RepositoryURL
	}
	if q.Kind != "" {
		filters["kind"] = q.Kind
	}

	candidates := min(k*candidateFactor, MaxK)
	results, err := s.vectorStore.Search(ctx, s.collection, vectors[0], candidates, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search summaries: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, Hit{
			VectorScore:   r.Score,
			RepositoryURL: metaString(r.Meta, "repository_url"),
			Owner:         metaString(r.Meta, "owner"),
			Repo:          metaString(r.Meta, "repo"),
			CommitSHA:     metaString(r.Meta, "commit_sha"),
			Kind:          metaString(r.Meta, "kind"),
			Path:          metaString(r.Meta, "path"),
			Usage:         metaString(r.Meta, "usage"),
			Summary:       metaString(r.Meta, "summary"),
		})
	}

	rerank(q.Text, hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
