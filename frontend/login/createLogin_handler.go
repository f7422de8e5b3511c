package login

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"stocktaker/infrastructure/cache"
	"stocktaker/infrastructure/prestashop"
	"stocktaker/infrastructure/secret"
	sessioncookie "stocktaker/infrastructure/session"
	"stocktaker/infrastructure/sqlite"
	"stocktaker/models"
)

// CredentialChecker probes the shop webservice with the submitted
// credentials. Swapped out in tests.
type CredentialChecker func(ctx context.Context, creds prestashop.Credentials) error

// ValidateShopCredentials is the production checker.
func ValidateShopCredentials(ctx context.Context, creds prestashop.Credentials) error {
	return prestashop.NewClient(creds).ValidateCredentials(ctx)
}

// CreateLoginHandler validates the shop credentials and issues a session
// cookie. The API key is stored sealed; only the session cache keeps the
// open form.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.OperatorSessionCache, keeper *secret.Keeper, checkCredentials CredentialChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		shopURL := strings.TrimSpace(r.FormValue("shop_url"))
		apiKey := strings.TrimSpace(r.FormValue("api_key"))
		if shopURL == "" || apiKey == "" {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("shop URL and API key are required"), http.StatusSeeOther)
			return
		}
		if !strings.HasPrefix(shopURL, "http://") && !strings.HasPrefix(shopURL, "https://") {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("shop URL must start with http:// or https://"), http.StatusSeeOther)
			return
		}

		creds := prestashop.Credentials{ShopURL: shopURL, APIKey: apiKey}
		if err := checkCredentials(r.Context(), creds); err != nil {
			if errors.Is(err, prestashop.ErrUnauthorized) {
				http.Redirect(w, r, "/login?error="+url.QueryEscape("Unauthorized: check your API key"), http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, "/login?error="+url.QueryEscape("could not reach the shop"), http.StatusSeeOther)
			return
		}

		sealed, err := keeper.Seal(apiKey)
		if err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("failed to create session"), http.StatusSeeOther)
			return
		}

		session := models.Session{
			ID:           newSessionToken(),
			ShopURL:      shopURL,
			APIKeySealed: sealed,
			APIKey:       apiKey,
			ExpiresAt:    sessioncookie.DefaultExpiry(),
		}
		if err := persistSession(r.Context(), db, session); err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("failed to create session"), http.StatusSeeOther)
			return
		}

		sessionCache.AddSession(session)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, int(sessioncookie.DefaultMaxAge.Seconds())))
		http.Redirect(w, r, "/tasker/stocktake", http.StatusSeeOther)
	}
}
