package nav

import (
	"fmt"
	"html"
	"net/url"

	"stocktaker/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	ShopHost string
}

func BuildTopNavData(session models.Session) TopNavData {
	host := session.ShopURL
	if u, err := url.Parse(session.ShopURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return TopNavData{ShopHost: host}
}

// RenderTopNav renders the shared navigation bar markup.
func RenderTopNav(data TopNavData) string {
	return fmt.Sprintf(`<nav class="topnav">
  <span class="topnav-brand">Stocktaker</span>
  <a href="/tasker/stocktake">Stocktake</a>
  <a href="/tasker/exports">Exports</a>
  <span class="topnav-shop">%s</span>
  <form method="POST" action="/logout" class="topnav-logout"><button type="submit">End Session</button></form>
</nav>`, html.EscapeString(data.ShopHost))
}
