package login

import (
	"net/http"

	"stocktaker/infrastructure/cache"
	sessioncookie "stocktaker/infrastructure/session"
	"stocktaker/infrastructure/sqlite"
)

// LogoutHandler tears the session down: pipeline, cache, database row and
// the ledger rows hanging off it.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.OperatorSessionCache, pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			pipelines.Delete(cookie.Value)
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
