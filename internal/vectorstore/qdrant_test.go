package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestGRPCAddress(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{name: "default http port", urlStr: "http://localhost:6333", wantHost: "localhost", wantPort: 6334},
		{name: "custom port", urlStr: "http://qdrant:9000", wantHost: "qdrant", wantPort: 9001},
		{name: "no port", urlStr: "http://localhost", wantHost: "localhost", wantPort: 6334},
		{name: "no hostname", urlStr: "http://:6333", wantHost: "localhost", wantPort: 6334},
		{name: "invalid", urlStr: "://invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := grpcAddress(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("grpcAddress() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("grpcAddress() error = %v", err)
			}
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("grpcAddress() = %s:%d, want %s:%d", host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid"); err == nil {
		t.Error("NewQdrantStore() expected error for invalid URL")
	}
}

func TestBuildFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		filter, err := buildFilter(nil)
		if err != nil || filter != nil {
			t.Errorf("buildFilter(nil) = %v, %v, want nil, nil", filter, err)
		}
	})

	t.Run("sorted conditions", func(t *testing.T) {
		filter, err := buildFilter(map[string]any{
			"repository_url": "https://github.com/acme/widgets",
			"kind":           "file",
			"stars":          5,
		})
		if err != nil {
			t.Fatalf("buildFilter() error = %v", err)
		}
		if len(filter.Must) != 3 {
			t.Fatalf("buildFilter() has %d conditions, want 3", len(filter.Must))
		}
		wantKeys := []string{"kind", "repository_url", "stars"}
		for i, cond := range filter.Must {
			field := cond.GetField()
			if field == nil || field.Key != wantKeys[i] {
				t.Errorf("condition %d key = %v, want %s", i, field, wantKeys[i])
			}
		}
		if got := filter.Must[0].GetField().GetMatch().GetKeyword(); got != "file" {
			t.Errorf("kind match = %q, want file", got)
		}
		if got := filter.Must[2].GetField().GetMatch().GetInteger(); got != 5 {
			t.Errorf("stars match = %d, want 5", got)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		if _, err := buildFilter(map[string]any{"score": 0.5}); err == nil {
			t.Error("buildFilter() expected error for float value")
		}
	})
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	store := &QdrantStore{}
	if err := store.Upsert(context.Background(), "test-collection", []Point{}); err != nil {
		t.Errorf("Upsert() with empty points should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Delete_EmptyIDs(t *testing.T) {
	store := &QdrantStore{}
	if err := store.Delete(context.Background(), "test-collection", []string{}); err != nil {
		t.Errorf("Delete() with empty IDs should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	store := &QdrantStore{}
	ctx := context.Background()

	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, 0, nil); err == nil {
		t.Error("Search() with k=0 should return error")
	}
	if _, err := store.Search(ctx, "test-collection", []float32{1.0, 2.0}, -1, nil); err == nil {
		t.Error("Search() with k=-1 should return error")
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil || len(result) != 0 {
		t.Errorf("convertPayloadToMap(nil) = %v, want empty map", result)
	}

	payload := qdrant.NewValueMap(map[string]any{
		"path":  "src/main.go",
		"count": 3,
	})
	result = convertPayloadToMap(payload)
	if result["path"] != "src/main.go" {
		t.Errorf("path = %v, want src/main.go", result["path"])
	}
	if result["count"] != int64(3) {
		t.Errorf("count = %v (%T), want int64 3", result["count"], result["count"])
	}
}

func TestCollectionVectorSize(t *testing.T) {
	if got := collectionVectorSize(nil); got != 0 {
		t.Errorf("collectionVectorSize(nil) = %d, want 0", got)
	}

	info := &qdrant.CollectionInfo{
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: 768, Distance: qdrant.Distance_Cosine}),
			},
		},
	}
	if got := collectionVectorSize(info); got != 768 {
		t.Errorf("collectionVectorSize() = %d, want 768", got)
	}
}
