package summarizer

import (
	"fmt"
	"strings"
)

const fileRequirements = `Summarize the source file below for a wiki of the repository.
Explain what the file does and how it fits into the project. Refer to concrete functions, types and
code blocks, and link them using the line numbers given in the "# Lines a - b" markers.`

const folderRequirements = `Summarize the folder below for a wiki of the repository using the summaries of its
files and subfolders. Explain what the folder is responsible for and how its parts work together.`

const fileUsageDescription = "What the file is used for. Describe less than 10 words (ex. Data Parsing, API Requests, etc.)."

const fileSummaryDescription = "Summary of the file talking about its main purpose, and its role in the project. " +
	"Include Markdown links to important code blocks within this file using the format " +
	"`[{Description of Code Block}]({Full github url of the file}#L{startLine}-L{endLine})` where applicable. " +
	"Also you should not return more than 2-3 paragraphs of summary."

const folderUsageDescription = "Purpose of the folder (e.g., Server Lifecycle Management, API Utility Functions). Limit to 10 words."

const folderSummaryDescription = "Summary of the folder, its main purpose, and role in the project. " +
	"Include Markdown links to important code blocks using the format " +
	"`[{Description of Code Block}]({Full GitHub URL}#L{startLine}-L{endLine})`."

// FormatInstructions returns the output schema the model must follow for kind.
func FormatInstructions(kind Kind) string {
	usage, summary := fileUsageDescription, fileSummaryDescription
	if kind == KindFolder {
		usage, summary = folderUsageDescription, folderSummaryDescription
	}
	return fmt.Sprintf(`The output should be formatted as a JSON instance with exactly these fields:
{"usage": string, "summary": string}
- usage: %s
- summary: %s
Return only the JSON object.`, usage, summary)
}

// BlobURL returns the GitHub URL of path at the given commit, used as the base of line links.
func BlobURL(meta Metadata) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", meta.Owner, meta.Repo, meta.CommitSHA, meta.Path)
}

// BuildPrompt renders the prompt for a file's code or a folder's combined summaries.
func BuildPrompt(text string, meta Metadata) string {
	var b strings.Builder

	requirements := fileRequirements
	if meta.Kind == KindFolder {
		requirements = folderRequirements
	}

	fmt.Fprintf(&b, "The following instruction is given:\n%s\n%s\n", requirements, FormatInstructions(meta.Kind))
	fmt.Fprintf(&b, "The given repository owner is %s with repository name of %s\n", meta.Owner, meta.Repo)
	fmt.Fprintf(&b, "The commit SHA referenced is %s\n", meta.CommitSHA)

	if meta.Kind == KindFolder {
		fmt.Fprintf(&b, "The path of the folder is %s\n", meta.Path)
		fmt.Fprintf(&b, "Below are the summaries for the codebase:\n%s", text)
		return b.String()
	}

	fmt.Fprintf(&b, "The path of the file is %s\n", meta.Path)
	fmt.Fprintf(&b, "The full github url of the file is %s\n", BlobURL(meta))
	fmt.Fprintf(&b, "Below is the code for your task: %s", AnnotateLines(text, defaultChunkSize))
	return b.String()
}
