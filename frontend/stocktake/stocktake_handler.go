package stocktake

import (
	"net/http"
	"strings"

	sessioncontext "stocktaker/frontend/shared/context"
	"stocktaker/frontend/shared/nav"
	"stocktaker/infrastructure/sqlite"
)

// StocktakePageQueryHandler renders the scanning screen with the current
// session ledger.
func StocktakePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		items, err := ListScans(r.Context(), db, session.ID)
		if err != nil {
			http.Error(w, "failed to load session ledger", http.StatusInternalServerError)
			return
		}
		data := PageData{
			Nav:        nav.BuildTopNavData(session),
			Items:      items,
			TotalAdded: TotalAdded(items),
		}
		if msg := strings.TrimSpace(r.URL.Query().Get("message")); msg != "" {
			data.Message = msg
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := StocktakePage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render stocktake page", http.StatusInternalServerError)
			return
		}
	}
}
