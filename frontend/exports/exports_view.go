package exports

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	sessioncontext "stocktaker/frontend/shared/context"
	sharedhtml "stocktaker/frontend/shared/html"
	"stocktaker/frontend/shared/nav"
)

// ExportsPageQueryHandler renders the downloads screen.
func ExportsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(nav.BuildTopNavData(session)).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}

// ExportsPage lists the session downloads.
func ExportsPage(navData nav.TopNavData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(navData))
		b.WriteString(`<main class="exports-page"><section class="card">`)
		b.WriteString(`<h2>Exports</h2>`)
		b.WriteString(`<p class="hint">Download the current session ledger.</p>`)
		b.WriteString(`<ul class="export-list">`)
		b.WriteString(`<li><a class="btn" href="/tasker/exports/session.csv">Session CSV</a></li>`)
		b.WriteString(`<li><a class="btn" href="/tasker/exports/session.pdf">Session PDF report</a></li>`)
		b.WriteString(`</ul>`)
		b.WriteString(`</section></main>`)
		b.WriteString(sharedhtml.CSRFFormScript())
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Stocktaker - Exports", b.String()))
		return err
	})
}
