// Package indexer embeds file and folder summaries into a vector collection
// and answers semantic queries over them.
package indexer

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/storage"
	"openrepowiki/internal/vectorstore"
)

// Kinds of indexed summaries.
const (
	KindFile   = "file"
	KindFolder = "folder"
)

// pointNamespace scopes the name-based UUIDs of summary points.
var pointNamespace = uuid.MustParse("6f1d2a8e-4c1b-5b7e-9a51-3d0c8e2f7a10")

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline indexes the summaries of an ingested branch.
type Pipeline struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	folders     storage.FolderStore
	files       storage.FileStore
}

// NewPipeline creates a new summary indexing pipeline.
func NewPipeline(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	folders storage.FolderStore,
	files storage.FileStore,
) *Pipeline {
	return &Pipeline{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		folders:     folders,
		files:       files,
	}
}

type document struct {
	kind    string
	path    string
	usage   string
	summary string
}

// PointID returns the stable point id of a summary. Re-indexing the same
// commit overwrites points instead of duplicating them.
func PointID(repositoryURL, commitSHA, kind, summaryPath string) string {
	key := repositoryURL + "@" + commitSHA + ":" + kind + ":" + summaryPath
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// IndexBranch embeds every summarized file and folder of branch.
func (p *Pipeline) IndexBranch(ctx context.Context, repo *storage.RepositoryRecord, branch *storage.BranchRecord) error {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	docs, err := p.collect(ctx, branch.ID)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		logger.InfoContext(ctx, "no summaries to index")
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = embeddingText(d)
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	points := make([]vectorstore.Point, len(docs))
	for i, d := range docs {
		points[i] = vectorstore.Point{
			ID:  PointID(repo.URL, branch.CommitSHA, d.kind, d.path),
			Vec: embeddings[i],
			Meta: map[string]any{
				"repository_url": repo.URL,
				"owner":          repo.Owner,
				"repo":           repo.Name,
				"commit_sha":     branch.CommitSHA,
				"kind":           d.kind,
				"path":           d.path,
				"usage":          d.usage,
				"summary":        d.summary,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "indexed summaries", "count", len(points), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (p *Pipeline) collect(ctx context.Context, branchID int64) ([]document, error) {
	folders, err := p.folders.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	files, err := p.files.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	folderPaths := make(map[int64]string, len(folders))
	var docs []document
	for _, f := range folders {
		folderPaths[f.ID] = f.Path
		if f.Summary == "" {
			continue
		}
		docs = append(docs, document{kind: KindFolder, path: f.Path, usage: f.Usage, summary: f.Summary})
	}
	for _, f := range files {
		docs = append(docs, document{
			kind:    KindFile,
			path:    path.Join(folderPaths[f.FolderID], f.Name),
			usage:   f.Usage,
			summary: f.Summary,
		})
	}
	return docs, nil
}

func embeddingText(d document) string {
	name := d.path
	if name == "" {
		name = "/"
	}
	return fmt.Sprintf("%s %s: %s\n%s", d.kind, name, d.usage, PlainText(d.summary))
}
