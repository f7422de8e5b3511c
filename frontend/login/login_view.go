package login

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stocktaker/frontend/shared/html"
)

// GetLoginScreen renders the shop connection form.
func GetLoginScreen(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="login-page"><section class="card login-card">`)
		b.WriteString(`<h1>Stocktaker</h1>`)
		b.WriteString(`<p class="hint">Connect to your shop's webservice to start counting stock.</p>`)
		if errorMessage != "" {
			b.WriteString(`<p class="alert alert-error">` + html.EscapeString(errorMessage) + `</p>`)
		}
		b.WriteString(`<form method="POST" action="/login">`)
		b.WriteString(`<label for="shop_url">Shop URL</label>`)
		b.WriteString(`<input id="shop_url" name="shop_url" type="url" placeholder="https://shop.example.com" autocomplete="url" required>`)
		b.WriteString(`<label for="api_key">Webservice API key</label>`)
		b.WriteString(`<input id="api_key" name="api_key" type="password" autocomplete="off" required>`)
		b.WriteString(`<button type="submit" class="btn btn-primary">Connect</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`</section></main>`)
		b.WriteString(sharedhtml.CSRFFormScript())
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Stocktaker - Connect", b.String()))
		return err
	})
}
