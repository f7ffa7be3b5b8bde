package tree

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestPolicy_Filter_Scenario(t *testing.T) {
	root := Build([]Entry{
		{Path: "src", Kind: KindDir},
		{Path: "src/a.py", Kind: KindFile},
		{Path: "src/__init__.py", Kind: KindFile},
		{Path: "node_modules", Kind: KindDir},
		{Path: "node_modules/x.js", Kind: KindFile},
		{Path: "README.md", Kind: KindFile},
	})

	got := DefaultPolicy().Filter(root)

	if !slices.Equal(got.Files, []string{"README.md"}) {
		t.Errorf("root Files = %v, want [README.md]", got.Files)
	}
	if len(got.Dirs) != 1 {
		t.Fatalf("root Dirs = %d, want 1 (src only)", len(got.Dirs))
	}
	if got.Dirs[0].Path != "src" {
		t.Errorf("surviving dir = %q, want src", got.Dirs[0].Path)
	}
	if !slices.Equal(got.Dirs[0].Files, []string{"src/a.py"}) {
		t.Errorf("src Files = %v, want [src/a.py]", got.Dirs[0].Files)
	}
}

func TestPolicy_Filter_DoesNotModifyInput(t *testing.T) {
	root := Build([]Entry{
		{Path: "a.py", Kind: KindFile},
		{Path: "a.txt", Kind: KindFile},
	})
	_ = DefaultPolicy().Filter(root)
	if len(root.Files) != 2 {
		t.Errorf("Filter() modified input: %v", root.Files)
	}
}

func TestPolicy_Filter_PrunesEmptyChains(t *testing.T) {
	root := Build([]Entry{
		{Path: "pkg/inner/deep/notes.txt", Kind: KindFile},
		{Path: "pkg/inner/deep/empty", Kind: KindDir},
	})

	got := DefaultPolicy().Filter(root)
	if len(got.Dirs) != 0 || len(got.Files) != 0 {
		t.Errorf("Filter() = %+v, want empty root", got)
	}
}

func TestPolicy_KeepFile(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"src/Server.JAVA", true},
		{"README.md", true},
		{"docs/readme.md", true},
		{"notes.txt", false},
		{".eslintrc.js", false},
		{"src/.hidden/a.py", false},
		{"pkg/__init__.py", false},
		{"setup.py", false},
		{"index.d.ts", false},
		{"dist/app.min.js", false},
		{"src/app.spec.ts", false},
		{"server_test.go", false},
		{"internal/contest/main.go", false}, // unanchored: "test" anywhere in the path
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := p.KeepFile(tt.path); got != tt.want {
				t.Errorf("KeepFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPolicy_EnterDir(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		path string
		want bool
	}{
		{"src", true},
		{"internal/server", true},
		{"node_modules", false},
		{".github", false},
		{"docs", false},
		{"src/vendor", false},
		{"Tests", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := p.EnterDir(tt.path); got != tt.want {
				t.Errorf("EnterDir(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// Any directory missing from the filtered output never held a kept file,
// directly or transitively, and every kept directory is non-empty.
func TestPolicy_Filter_Completeness(t *testing.T) {
	p := DefaultPolicy()
	rng := rand.New(rand.NewSource(7))
	segments := []string{"src", "lib", "test", "docs", "core", "node_modules", "api", ".git"}
	files := []string{"a.py", "b.go", "c.txt", "setup.py", "README.md", "d.min.js", "e.rs"}

	for iter := 0; iter < 200; iter++ {
		var entries []Entry
		for i := 0; i < 30; i++ {
			depth := rng.Intn(4)
			dir := ""
			for d := 0; d < depth; d++ {
				dir = filepath.ToSlash(filepath.Join(dir, segments[rng.Intn(len(segments))]))
			}
			name := files[rng.Intn(len(files))]
			if dir != "" {
				name = dir + "/" + name
			}
			entries = append(entries, Entry{Path: name, Kind: KindFile})
		}

		raw := Build(entries)
		filtered := p.Filter(raw)

		kept := map[string]bool{}
		filtered.Walk(func(n *Node) {
			kept[n.Path] = true
			if n.Path != "" && len(n.Files) == 0 && len(n.Dirs) == 0 {
				t.Fatalf("iteration %d: empty directory %q kept", iter, n.Path)
			}
		})

		var check func(n *Node, reachable bool) bool
		check = func(n *Node, reachable bool) bool {
			reachable = reachable && (n.Path == "" || p.EnterDir(n.Path))
			holds := false
			for _, f := range n.Files {
				if reachable && p.KeepFile(f) {
					holds = true
				}
			}
			for _, d := range n.Dirs {
				if check(d, reachable) {
					holds = true
				}
			}
			if holds && !kept[n.Path] {
				t.Fatalf("iteration %d: directory %q dropped but holds a kept file", iter, n.Path)
			}
			if !holds && n.Path != "" && kept[n.Path] {
				t.Fatalf("iteration %d: directory %q kept without kept files", iter, n.Path)
			}
			return holds
		}
		check(raw, true)
	}
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		return p
	}

	t.Run("overrides listed keys", func(t *testing.T) {
		p, err := LoadPolicy(write("policy.yaml", "allow:\n  - '\\.txt$'\ndeny_files: []\n"))
		if err != nil {
			t.Fatalf("LoadPolicy() error = %v", err)
		}
		if !p.KeepFile("notes/todo.txt") {
			t.Error("custom allow pattern not applied")
		}
		if p.KeepFile("main.go") {
			t.Error("default allow list should be replaced")
		}
		if p.EnterDir("node_modules") {
			t.Error("deny_dirs should keep its default when absent")
		}
	})

	t.Run("invalid regex", func(t *testing.T) {
		if _, err := LoadPolicy(write("bad.yaml", "deny_dirs:\n  - '(['\n")); err == nil {
			t.Error("LoadPolicy() expected error for invalid pattern")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := LoadPolicy(write("broken.yaml", "allow: [unterminated\n")); err == nil {
			t.Error("LoadPolicy() expected error for invalid YAML")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPolicy(filepath.Join(dir, fmt.Sprintf("missing-%d.yaml", 1))); err == nil {
			t.Error("LoadPolicy() expected error for missing file")
		}
	})
}
