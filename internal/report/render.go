package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// StylePlain renders without colors or terminal escapes.
const StylePlain = "notty"

// DefaultWidth is the word-wrap width of rendered reports.
const DefaultWidth = 100

// Render renders Markdown for a terminal. An empty style picks one from the
// terminal background.
func Render(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
