// Package github is a minimal client for the GitHub REST API and raw content host.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"openrepowiki/internal/tree"
)

// ErrNotFound is returned when GitHub answers 404.
var ErrNotFound = errors.New("github: not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned status %d", e.URL, e.StatusCode)
}

// Client talks to the GitHub REST API and the raw content host.
type Client struct {
	BaseURL string
	RawURL  string
	Token   string
	client  *http.Client
}

// NewClient creates a new GitHub client. An empty token sends unauthenticated requests.
func NewClient(baseURL, rawURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		RawURL:  strings.TrimRight(rawURL, "/"),
		Token:   token,
		client:  &http.Client{}, // no overall timeout, large raw files may be slow; callers bound requests through ctx
	}
}

// Repository is the subset of GET /repos/{owner}/{repo} the service uses.
type Repository struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name          string    `json:"name"`
	HTMLURL       string    `json:"html_url"`
	Description   *string   `json:"description"`
	Language      *string   `json:"language"`
	Topics        []string  `json:"topics"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	DefaultBranch string    `json:"default_branch"`
	PushedAt      time.Time `json:"pushed_at"`
}

// RepoDetails describes a repository and the head commit of its default branch.
// CommitAt is the repository's last push time.
type RepoDetails struct {
	Owner         string
	Name          string
	URL           string
	Language      string
	Description   string
	Topics        []string
	Stars         int
	Forks         int
	DefaultBranch string
	CommitSHA     string
	CommitAt      time.Time
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

type treeResponse struct {
	SHA  string `json:"sha"`
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Tree is a flat recursive listing of a commit.
type Tree struct {
	SHA       string
	Entries   []tree.Entry
	Truncated bool // GitHub stopped listing before the end
}

// RateLimit is the core REST quota.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

// GetRepository fetches repository metadata.
// Returns ErrNotFound if the repository does not exist or is private.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var r Repository
	if err := c.getJSON(ctx, c.apiURL("repos", owner, repo), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetDetails fetches repository metadata and resolves the head commit of the default branch.
func (c *Client) GetDetails(ctx context.Context, owner, repo string) (*RepoDetails, error) {
	r, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	var commit commitResponse
	if err := c.getJSON(ctx, c.apiURL("repos", owner, repo, "commits", r.DefaultBranch), &commit); err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", r.DefaultBranch, err)
	}

	details := &RepoDetails{
		Owner:         r.Owner.Login,
		Name:          r.Name,
		URL:           r.HTMLURL,
		Topics:        r.Topics,
		Stars:         r.Stars,
		Forks:         r.Forks,
		DefaultBranch: r.DefaultBranch,
		CommitSHA:     commit.SHA,
		CommitAt:      r.PushedAt,
	}
	if details.CommitAt.IsZero() {
		details.CommitAt = commit.Commit.Committer.Date
	}
	if r.Language != nil {
		details.Language = *r.Language
	}
	if r.Description != nil {
		details.Description = *r.Description
	}
	return details, nil
}

// GetTree fetches the recursive tree of a commit. Blobs map to files and
// trees to directories; other entry types (submodules) are skipped.
func (c *Client) GetTree(ctx context.Context, owner, repo, sha string) (*Tree, error) {
	var resp treeResponse
	if err := c.getJSON(ctx, c.apiURL("repos", owner, repo, "git", "trees", sha)+"?recursive=1", &resp); err != nil {
		return nil, err
	}

	t := &Tree{SHA: resp.SHA, Truncated: resp.Truncated}
	for _, item := range resp.Tree {
		switch item.Type {
		case "blob":
			t.Entries = append(t.Entries, tree.Entry{Path: item.Path, Kind: tree.KindFile})
		case "tree":
			t.Entries = append(t.Entries, tree.Entry{Path: item.Path, Kind: tree.KindDir})
		}
	}
	return t, nil
}

// GetFileContent downloads a file at a given commit from the raw content host.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, sha, filePath string) (string, error) {
	segments := []string{owner, repo, sha}
	segments = append(segments, strings.Split(filePath, "/")...)

	resp, err := c.do(ctx, joinURL(c.RawURL, segments...))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	return string(body), nil
}

// GetRateLimit returns the core REST quota.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimit, error) {
	var resp rateLimitResponse
	if err := c.getJSON(ctx, c.apiURL("rate_limit"), &resp); err != nil {
		return nil, err
	}
	core := resp.Resources.Core
	return &RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     time.Unix(core.Reset, 0),
	}, nil
}

func (c *Client) apiURL(segments ...string) string {
	return joinURL(c.BaseURL, segments...)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	resp, err := c.do(ctx, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}

// do performs a GET and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "openrepowiki")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	return resp, nil
}

func joinURL(base string, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(escaped, "/")
}
