// Package queue admits repositories for ingestion and processes them one at a
// time on a single worker, pausing while the GitHub rate limit is low.
package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/github"
	"openrepowiki/internal/metrics"
	"openrepowiki/internal/storage"
)

// Admission messages returned to callers.
const (
	MsgAlreadyQueued  = "Item already in queue"
	MsgAlreadyStored  = "Item already in database"
	MsgQueueFull      = "Queue is full"
	MsgRepoNotFound   = "Repository does not exist"
	msgLanguageFormat = "Sorry, %s Language is not supported for analysis"
	msgAddedFormat    = "Repository %s/%s added to queue"
)

// GitHub is the part of the GitHub client the queue needs.
type GitHub interface {
	GetDetails(ctx context.Context, owner, repo string) (*github.RepoDetails, error)
	GetRateLimit(ctx context.Context) (*github.RateLimit, error)
}

// Pipeline ingests one repository.
type Pipeline interface {
	InsertRepository(ctx context.Context, owner, repo string) error
}

// Job is an admitted repository waiting for or undergoing ingestion.
type Job struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Repo    string    `json:"repo"`
	AddedAt time.Time `json:"added_at"`
}

func (j Job) matches(owner, repo string) bool {
	return strings.EqualFold(j.Owner, owner) && strings.EqualFold(j.Repo, repo)
}

// Result is the outcome of an admission request. Rejections are not errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func rejected(reason string) Result {
	return Result{Success: false, Error: reason}
}

// Status is a snapshot of the queue.
type Status struct {
	Current   *Job       `json:"current"`
	Queue     []Job      `json:"queue"`
	StartedAt *time.Time `json:"time"`
}

// Config holds admission and rate limit settings.
type Config struct {
	MaxSize            int
	RateLimitThreshold int
	AllowedLanguages   []string
}

// Queue is a FIFO of ingestion jobs with a single consumer.
type Queue struct {
	cfg      Config
	github   GitHub
	repos    storage.RepositoryStore
	pipeline Pipeline
	metrics  *metrics.Metrics

	mu        sync.Mutex
	pending   []Job
	current   *Job
	startedAt time.Time

	wake  chan struct{}
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a queue. Call Run exactly once to start processing.
func New(cfg Config, gh GitHub, repos storage.RepositoryStore, pipeline Pipeline) *Queue {
	return &Queue{
		cfg:      cfg,
		github:   gh,
		repos:    repos,
		pipeline: pipeline,
		wake:     make(chan struct{}, 1),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// WithMetrics sets the metrics sink.
func (q *Queue) WithMetrics(m *metrics.Metrics) *Queue {
	q.metrics = m
	return q
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// inQueueLocked reports whether owner/repo is pending or being processed.
func (q *Queue) inQueueLocked(owner, repo string) bool {
	if q.current != nil && q.current.matches(owner, repo) {
		return true
	}
	return slices.ContainsFunc(q.pending, func(j Job) bool { return j.matches(owner, repo) })
}

func (q *Queue) queued(owner, repo string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inQueueLocked(owner, repo)
}

func (q *Queue) full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) >= q.cfg.MaxSize
}

func (q *Queue) languageAllowed(language string) bool {
	if language == "" {
		return true
	}
	return slices.ContainsFunc(q.cfg.AllowedLanguages, func(l string) bool {
		return strings.EqualFold(l, language)
	})
}

// Add admits owner/repo. The first failing check decides the rejection:
// already queued, already stored, queue full, unknown repository, unsupported
// language. Only storage failures are returned as errors.
func (q *Queue) Add(ctx context.Context, owner, repo string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if q.queued(owner, repo) {
		q.metrics.Admission("in_queue")
		return rejected(MsgAlreadyQueued), nil
	}

	_, err := q.repos.GetByOwnerName(ctx, owner, repo)
	switch {
	case err == nil:
		q.metrics.Admission("in_database")
		return rejected(MsgAlreadyStored), nil
	case !errors.Is(err, storage.ErrNotFound):
		return Result{}, fmt.Errorf("failed to look up repository: %w", err)
	}

	if q.full() {
		q.metrics.Admission("queue_full")
		return rejected(MsgQueueFull), nil
	}

	details, err := q.github.GetDetails(ctx, owner, repo)
	if err != nil {
		logger.InfoContext(ctx, "repository lookup failed", "owner", owner, "repo", repo, "error", err)
		q.metrics.Admission("not_found")
		return rejected(MsgRepoNotFound), nil
	}
	if !q.languageAllowed(details.Language) {
		q.metrics.Admission("language")
		return rejected(fmt.Sprintf(msgLanguageFormat, details.Language)), nil
	}

	q.mu.Lock()
	// Re-check: another request may have been admitted during the lookup.
	if q.inQueueLocked(owner, repo) {
		q.mu.Unlock()
		q.metrics.Admission("in_queue")
		return rejected(MsgAlreadyQueued), nil
	}
	if len(q.pending) >= q.cfg.MaxSize {
		q.mu.Unlock()
		q.metrics.Admission("queue_full")
		return rejected(MsgQueueFull), nil
	}
	job := Job{ID: uuid.NewString(), Owner: owner, Repo: repo, AddedAt: q.now()}
	q.pending = append(q.pending, job)
	q.metrics.SetQueueLength(len(q.pending))
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	q.metrics.Admission("accepted")
	logger.InfoContext(ctx, "repository queued", "job_id", job.ID, "owner", owner, "repo", repo)
	return Result{Success: true, Message: fmt.Sprintf(msgAddedFormat, owner, repo)}, nil
}

// Status returns a snapshot of the current job and the pending jobs.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	status := Status{Queue: slices.Clone(q.pending)}
	if status.Queue == nil {
		status.Queue = []Job{}
	}
	if q.current != nil {
		current := *q.current
		startedAt := q.startedAt
		status.Current = &current
		status.StartedAt = &startedAt
	}
	return status
}

// Run processes jobs until ctx is cancelled. Failed jobs are logged and dropped.
func (q *Queue) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "queue worker started")

	for {
		job, err := q.next(ctx)
		if err != nil {
			logger.InfoContext(ctx, "queue worker stopped")
			return err
		}
		q.process(ctx, job)
	}
}

// next blocks until a job is pending and the rate limit allows it, then makes
// it the current job.
func (q *Queue) next(ctx context.Context) (Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}

		q.mu.Lock()
		empty := len(q.pending) == 0
		q.mu.Unlock()
		if empty {
			select {
			case <-ctx.Done():
				return Job{}, ctx.Err()
			case <-q.wake:
			}
			continue
		}

		if err := q.waitForRateLimit(ctx); err != nil {
			return Job{}, err
		}

		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			continue
		}
		job := q.pending[0]
		q.pending = q.pending[1:]
		q.current = &job
		q.startedAt = q.now()
		q.metrics.SetQueueLength(len(q.pending))
		q.mu.Unlock()
		return job, nil
	}
}

// waitForRateLimit sleeps until the reset time, plus a second, while the
// remaining GitHub quota is below the threshold. A failed quota lookup does
// not block processing.
func (q *Queue) waitForRateLimit(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	for {
		limit, err := q.github.GetRateLimit(ctx)
		if err != nil {
			logger.WarnContext(ctx, "failed to check rate limit, proceeding", "error", err)
			return nil
		}
		q.metrics.RateLimitObserved(limit.Remaining)
		if limit.Remaining >= q.cfg.RateLimitThreshold {
			return nil
		}

		wait := max(0, limit.Reset.Sub(q.now())) + time.Second
		logger.InfoContext(ctx, "rate limit low, waiting",
			"remaining", limit.Remaining,
			"threshold", q.cfg.RateLimitThreshold,
			"wait", wait.String(),
		)
		q.metrics.RateLimitWait(wait)
		if err := q.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (q *Queue) process(ctx context.Context, job Job) {
	ctx = contextutil.WithAttrs(ctx, "job_id", job.ID, "owner", job.Owner, "repo", job.Repo)
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()
	status := "success"

	q.metrics.JobStarted()
	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			logger.ErrorContext(ctx, "job panicked", "panic", r)
		}

		q.mu.Lock()
		q.current = nil
		q.mu.Unlock()

		q.metrics.JobFinished(status, time.Since(start))
		logger.InfoContext(ctx, "job finished", "status", status, "duration_ms", time.Since(start).Milliseconds())
	}()

	logger.InfoContext(ctx, "job started")
	if err := q.pipeline.InsertRepository(ctx, job.Owner, job.Repo); err != nil {
		status = "error"
		logger.ErrorContext(ctx, "job failed", "error", err)
	}
}
