package render

import (
	"fmt"

	"github.com/dshills/xerex/internal/schema"
	"github.com/dshills/xerex/internal/ui"
)

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(report *schema.Report) ([]byte, error)
}

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "md"}

// NewRenderer returns a Renderer for the given format string.
// styles is used by the text format only and may be nil.
func NewRenderer(format string, styles *ui.Styles) (Renderer, error) {
	switch format {
	case "text", "":
		if styles == nil {
			styles = ui.Plain()
		}
		return &textRenderer{styles: styles}, nil
	case "json":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are text, json, md", format)
	}
}
