package handlers

import (
	"net/http"
	"strconv"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/indexer"
	"openrepowiki/internal/service"
)

// SearchHandler handles semantic search over summaries.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query string        `json:"query"`
	Hits  []indexer.Hit `json:"hits"`
}

// ServeHTTP handles GET /api/search?q=&k=&owner=&repo=&kind=.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params := r.URL.Query()
	req := service.SearchRequest{
		Query: params.Get("q"),
		Owner: params.Get("owner"),
		Repo:  params.Get("repo"),
		Kind:  params.Get("kind"),
	}
	if raw := params.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		req.K = k
	}

	hits, err := h.searchService.Search(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}
	if hits == nil {
		hits = []indexer.Hit{}
	}
	writeJSON(ctx, w, http.StatusOK, SearchResponse{Query: req.Query, Hits: hits})
}
