package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func RenderLayout(title, body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s</body></html>", title, body)
}

// Page wraps a rendered body in the shared layout as a templ component.
func Page(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderLayout(title, body))
		return err
	})
}
