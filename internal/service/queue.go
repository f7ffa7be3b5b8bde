package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_queue_service.go -package=mocks -mock_names=QueueService=MockQueueService openrepowiki/internal/service QueueService

import (
	"context"
	"regexp"
	"strings"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/queue"
)

// GitHub owner and repository names.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,100}$`)

// Admitter is the part of the job queue the service uses.
type Admitter interface {
	Add(ctx context.Context, owner, repo string) (queue.Result, error)
	Status() queue.Status
}

// QueueRequest asks for a repository to be ingested.
type QueueRequest struct {
	Owner string
	Repo  string
}

// QueueService admits repositories for ingestion.
type QueueService interface {
	// Enqueue validates the request and submits it to the queue.
	// Admission rejections are reported in the result, not as errors.
	Enqueue(ctx context.Context, req QueueRequest) (queue.Result, error)
	// Status returns the current queue snapshot.
	Status(ctx context.Context) queue.Status
}

type queueService struct {
	queue Admitter
}

// NewQueueService creates a new QueueService.
func NewQueueService(q Admitter) QueueService {
	return &queueService{queue: q}
}

func validateName(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "cannot be empty"}
	}
	if !namePattern.MatchString(value) {
		return &ValidationError{Field: field, Message: "contains invalid characters"}
	}
	return nil
}

func (s *queueService) Enqueue(ctx context.Context, req QueueRequest) (queue.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	owner := strings.TrimSpace(req.Owner)
	repo := strings.TrimSuffix(strings.TrimSpace(req.Repo), ".git")
	if err := validateName("owner", owner); err != nil {
		return queue.Result{}, err
	}
	if err := validateName("repo", repo); err != nil {
		return queue.Result{}, err
	}

	result, err := s.queue.Add(ctx, owner, repo)
	if err != nil {
		logger.ErrorContext(ctx, "failed to enqueue repository", "owner", owner, "repo", repo, "error", err)
		return queue.Result{}, WrapError(err, "failed to enqueue repository")
	}
	if !result.Success {
		logger.InfoContext(ctx, "repository rejected", "owner", owner, "repo", repo, "reason", result.Error)
	}
	return result, nil
}

func (s *queueService) Status(ctx context.Context) queue.Status {
	return s.queue.Status()
}
