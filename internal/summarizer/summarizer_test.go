package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeChat struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeChat) Chat(ctx context.Context, message string) (string, error) {
	f.prompts = append(f.prompts, message)
	return f.reply, f.err
}

func testMetadata(kind Kind) Metadata {
	return Metadata{Owner: "octo", Repo: "hello", CommitSHA: "abc123", Path: "src/main.go", Kind: kind}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantUsage   string
		wantSummary string
		wantErr     bool
	}{
		{
			name:        "plain json",
			reply:       `{"usage": "API Requests", "summary": "Calls the API."}`,
			wantUsage:   "API Requests",
			wantSummary: "Calls the API.",
		},
		{
			name:        "markdown fence",
			reply:       "Here you go:\n```json\n{\"usage\": \"Parsing\", \"summary\": \"Parses {things}.\"}\n```\n",
			wantUsage:   "Parsing",
			wantSummary: "Parses {things}.",
		},
		{
			name:        "whitespace trimmed",
			reply:       `{"usage": "  Entry point ", "summary": "\nStarts the server.\n"}`,
			wantUsage:   "Entry point",
			wantSummary: "Starts the server.",
		},
		{name: "missing usage", reply: `{"summary": "x"}`, wantErr: true},
		{name: "missing summary", reply: `{"usage": "x", "summary": ""}`, wantErr: true},
		{name: "no json", reply: "I cannot help with that.", wantErr: true},
		{name: "broken json", reply: `{"usage": "x", "summary": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResult(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseResult() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResult() error = %v", err)
			}
			if got.Usage != tt.wantUsage || got.Summary != tt.wantSummary {
				t.Errorf("ParseResult() = %+v, want usage %q summary %q", got, tt.wantUsage, tt.wantSummary)
			}
		})
	}
}

func TestAnnotateLines(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		chunkSize int
		want      string
	}{
		{name: "empty", code: "", chunkSize: 10, want: ""},
		{name: "single chunk", code: "a\nb\nc\n", chunkSize: 200, want: "# Lines 1 - 3\na\nb\nc\n\n"},
		{name: "split on size", code: "a\nb\nc", chunkSize: 4, want: "# Lines 1 - 2\na\nb\n\n# Lines 3 - 3\nc\n\n"},
		{name: "long line alone", code: "xxxxxxxxxx\ny", chunkSize: 4, want: "# Lines 1 - 1\nxxxxxxxxxx\n\n# Lines 2 - 2\ny\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnotateLines(tt.code, tt.chunkSize); got != tt.want {
				t.Errorf("AnnotateLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		prompt := BuildPrompt("package main", testMetadata(KindFile))
		for _, want := range []string{
			"The given repository owner is octo with repository name of hello\n",
			"The commit SHA referenced is abc123\n",
			"The path of the file is src/main.go\n",
			"https://github.com/octo/hello/blob/abc123/src/main.go",
			"Below is the code for your task: # Lines 1 - 1\npackage main",
			fileUsageDescription,
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("file prompt missing %q", want)
			}
		}
	})

	t.Run("folder", func(t *testing.T) {
		meta := testMetadata(KindFolder)
		meta.Path = "src"
		prompt := BuildPrompt("Summary of file a.go:\nx\n", meta)
		for _, want := range []string{
			"The path of the folder is src\n",
			"Below are the summaries for the codebase:\nSummary of file a.go:\nx\n",
			folderUsageDescription,
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("folder prompt missing %q", want)
			}
		}
		if strings.Contains(prompt, "# Lines") {
			t.Error("folder prompt should not be line annotated")
		}
	})
}

func TestAgent_Summarize(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		chat := &fakeChat{reply: `{"usage": "Entry point", "summary": "Starts things."}`}
		agent := NewAgent(chat, nil)

		got, err := agent.Summarize(context.Background(), "package main", testMetadata(KindFile))
		if err != nil {
			t.Fatalf("Summarize() error = %v", err)
		}
		if got.Usage != "Entry point" || got.Summary != "Starts things." {
			t.Errorf("Summarize() = %+v", got)
		}
		if len(chat.prompts) != 1 {
			t.Errorf("chat called %d times, want 1", len(chat.prompts))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		chat := &fakeChat{}
		_, err := NewAgent(chat, nil).Summarize(context.Background(), "  \n", testMetadata(KindFile))
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Summarize() error = %v, want ErrEmptyInput", err)
		}
		if len(chat.prompts) != 0 {
			t.Error("chat should not be called for empty input")
		}
	})

	t.Run("chat error", func(t *testing.T) {
		backendErr := errors.New("backend down")
		chat := &fakeChat{err: backendErr}
		_, err := NewAgent(chat, nil).Summarize(context.Background(), "x", testMetadata(KindFolder))
		if !errors.Is(err, backendErr) {
			t.Errorf("Summarize() error = %v, want wrapped backend error", err)
		}
	})

	t.Run("invalid reply", func(t *testing.T) {
		chat := &fakeChat{reply: "no json here"}
		if _, err := NewAgent(chat, nil).Summarize(context.Background(), "x", testMetadata(KindFile)); err == nil {
			t.Error("Summarize() expected error for invalid reply")
		}
	})
}
