package exports

import (
	"net/http"
	"time"

	sessioncontext "stocktaker/frontend/shared/context"
	"stocktaker/frontend/shared/nav"
	"stocktaker/infrastructure/sqlite"
)

// SessionExportCSVHandler streams the session ledger as CSV.
func SessionExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=stocktake-session.csv")
		if err := writeSessionCSV(r.Context(), db, w, session.ID); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

// SessionReportPDFHandler renders the session ledger as a printable report.
func SessionReportPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		items, err := loadSessionItems(r.Context(), db, session.ID)
		if err != nil {
			http.Error(w, "failed to load session ledger", http.StatusInternalServerError)
			return
		}
		var total int64
		for _, item := range items {
			total += item.QuantityAdded
		}
		pdfBytes, err := renderSessionReportPDF(SessionReportData{
			ShopHost:    nav.BuildTopNavData(session).ShopHost,
			GeneratedAt: time.Now(),
			Items:       items,
			TotalAdded:  total,
		})
		if err != nil {
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=stocktake-session.pdf")
		_, _ = w.Write(pdfBytes)
	}
}
