package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"openrepowiki/internal/service"
)

// RepositoryHandler serves ingested repositories and their wikis.
type RepositoryHandler struct {
	repositoryService service.RepositoryService
}

// NewRepositoryHandler creates a new RepositoryHandler.
func NewRepositoryHandler(repositoryService service.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{repositoryService: repositoryService}
}

// List handles GET /api/repositories.
func (h *RepositoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	repos, err := h.repositoryService.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list repositories")
		return
	}
	writeJSON(ctx, w, http.StatusOK, repos)
}

// Get handles GET /api/repositories/{owner}/{repo}.
func (h *RepositoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner := strings.TrimSpace(chi.URLParam(r, "owner"))
	repo := strings.TrimSpace(chi.URLParam(r, "repo"))

	wiki, err := h.repositoryService.GetWiki(ctx, owner, repo)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load repository")
		return
	}
	writeJSON(ctx, w, http.StatusOK, wiki)
}
