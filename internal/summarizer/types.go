package summarizer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_summarizer.go -package=mocks openrepowiki/internal/summarizer Summarizer

import (
	"context"
	"errors"
)

// Kind tells the summarizer whether it is looking at source code or at the
// combined summaries of a folder's children.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// ErrEmptyInput is returned when there is nothing to summarize.
var ErrEmptyInput = errors.New("empty input")

// Metadata identifies what is being summarized.
type Metadata struct {
	Owner     string
	Repo      string
	CommitSHA string
	Path      string
	Kind      Kind
}

// Result is the structured summary of a file or folder.
type Result struct {
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

// Summarizer produces a structured summary for a piece of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, meta Metadata) (*Result, error)
}
