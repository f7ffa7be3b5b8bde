package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"openrepowiki/internal/service"
	"openrepowiki/internal/service/mocks"
)

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestRepositoryHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockRepositoryService(ctrl)
	mockService.EXPECT().List(gomock.Any()).Return([]service.Repository{
		{URL: "https://github.com/acme/widgets", Owner: "acme", Name: "widgets"},
	}, nil)

	handler := NewRepositoryHandler(mockService)
	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/repositories", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("List() status = %v, want 200", w.Code)
	}
	var repos []service.Repository
	if err := json.NewDecoder(w.Body).Decode(&repos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(repos) != 1 || repos[0].Name != "widgets" {
		t.Errorf("List() = %+v", repos)
	}
}

func TestRepositoryHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		mockSetup  func(*mocks.MockRepositoryService)
		wantStatus int
	}{
		{
			name: "found",
			mockSetup: func(m *mocks.MockRepositoryService) {
				m.EXPECT().GetWiki(gomock.Any(), "acme", "widgets").Return(&service.Wiki{
					Repository: service.Repository{Owner: "acme", Name: "widgets"},
					Root:       &service.WikiFolder{Summary: "Root", SummaryHTML: "<p>Root</p>\n"},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			mockSetup: func(m *mocks.MockRepositoryService) {
				m.EXPECT().GetWiki(gomock.Any(), "acme", "widgets").Return(nil, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockRepositoryService(ctrl)
			tt.mockSetup(mockService)

			handler := NewRepositoryHandler(mockService)
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/repositories/acme/widgets", nil),
				map[string]string{"owner": "acme", "repo": "widgets"})
			w := httptest.NewRecorder()

			handler.Get(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Get() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
