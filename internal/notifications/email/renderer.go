package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns (template file, context) into HTML markup using Go's
// html/template over the embedded template files.
//
// Lookup is deliberately lazy: the file is read and parsed at render time,
// not at construction. Unknown template tags therefore survive selection
// (their derived "<tag>_email.html" name is legal) and only fail here, with
// ErrCodeTemplateRender, when no such file exists.
type Renderer struct{}

// NewRenderer creates a Renderer over the embedded template files.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render loads the named template from the embedded FS, parses it, and
// executes it against the notification context.
func (r *Renderer) Render(filename string, data types.NotificationContext) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + filename)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeTemplateRender,
			fmt.Sprintf("template %s could not be loaded", filename),
			err,
		)
	}

	tmpl, err := template.New(filename).Parse(string(raw))
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeTemplateRender,
			fmt.Sprintf("template %s could not be parsed", filename),
			err,
		)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		return "", types.NewAppError(
			types.ErrCodeTemplateRender,
			fmt.Sprintf("template %s could not be rendered", filename),
			err,
		)
	}

	return buf.String(), nil
}
