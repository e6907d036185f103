// Package export renders the document collection into a single prompt.
package export

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/joeycumines/super-document/internal/document"
)

// DefaultTemplate is the built-in prompt template.
//
//go:embed template.md
var DefaultTemplate string

// MinFence is the shortest code fence emitted.
const MinFence = 3

// Block is one document as seen by a template.
type Block struct {
	ID      int
	Label   string
	Content string
}

// Data is the value a template executes against.
type Data struct {
	Documents []Block
	// Fence is a backtick run longer than any run inside the documents.
	Fence string
}

// Exporter executes a parsed prompt template.
type Exporter struct {
	tmpl *template.Template
}

// New parses text as a prompt template.
func New(text string) (*Exporter, error) {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Exporter{tmpl: tmpl}, nil
}

// Load parses the template at path, or the default template when path is
// empty.
func Load(path string) (*Exporter, error) {
	if path == "" {
		return New(DefaultTemplate)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return New(string(b))
}

// Export renders docs.
func (e *Exporter) Export(docs []document.Document) (string, error) {
	data := Data{
		Documents: make([]Block, 0, len(docs)),
		Fence:     Fence(docs),
	}
	for _, d := range docs {
		data.Documents = append(data.Documents, Block{
			ID:      d.ID,
			Label:   d.Label,
			Content: strings.TrimRight(d.Content, "\n"),
		})
	}
	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return sb.String(), nil
}

// Fence returns a backtick fence one longer than the longest backtick run in
// any document, and at least MinFence long.
func Fence(docs []document.Document) string {
	longest := 0
	for _, d := range docs {
		run := 0
		for i := 0; i < len(d.Content); i++ {
			if d.Content[i] != '`' {
				run = 0
				continue
			}
			run++
			longest = max(longest, run)
		}
	}
	return strings.Repeat("`", max(longest+1, MinFence))
}
