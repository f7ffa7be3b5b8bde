package handlers

import (
	"encoding/json"
	"net/http"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/queue"
	"openrepowiki/internal/service"
)

// QueueHandler handles HTTP requests for the ingestion queue.
type QueueHandler struct {
	queueService service.QueueService
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queueService service.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// QueueRequest is the body of POST /api/queue.
type QueueRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// ServeHTTP admits a repository on POST and returns the queue status on GET.
func (h *QueueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		writeJSON(ctx, w, http.StatusOK, h.queueService.Status(ctx))
	case http.MethodPost:
		var req QueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := h.queueService.Enqueue(ctx, service.QueueRequest{Owner: req.Owner, Repo: req.Repo})
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to queue repository")
			return
		}
		writeQueueResult(w, r, result)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func writeQueueResult(w http.ResponseWriter, r *http.Request, result queue.Result) {
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(r.Context(), w, status, result)
}
