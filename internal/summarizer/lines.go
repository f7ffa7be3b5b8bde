package summarizer

import (
	"fmt"
	"strings"
)

const defaultChunkSize = 200

// AnnotateLines splits code into chunks of whole lines of roughly chunkSize
// bytes and prefixes each with a "# Lines a - b" marker so the model can link
// to line ranges. A single line longer than chunkSize forms its own chunk.
func AnnotateLines(code string, chunkSize int) string {
	if code == "" {
		return ""
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")

	var b strings.Builder
	start := 0
	size := 0
	flush := func(end int) {
		fmt.Fprintf(&b, "# Lines %d - %d\n%s\n\n", start+1, end, strings.Join(lines[start:end], "\n"))
		start = end
		size = 0
	}

	for i, line := range lines {
		if size > 0 && size+len(line)+1 > chunkSize {
			flush(i)
		}
		size += len(line) + 1
	}
	if start < len(lines) {
		flush(len(lines))
	}
	return b.String()
}
