package stocktake

import (
	"stocktaker/frontend/shared/nav"
	"stocktaker/models"
)

// PageData feeds the stocktake screen renderer.
type PageData struct {
	Nav        nav.TopNavData
	Items      []models.ScannedItem
	TotalAdded int64
	Message    string
}

// ItemsResponse is the JSON shape of the session ledger endpoint.
type ItemsResponse struct {
	Items      []models.ScannedItem `json:"items"`
	TotalAdded int64                `json:"totalAdded"`
}
