package exports

import (
	"time"

	"stocktaker/models"
)

// SessionReportData feeds the PDF report renderer.
type SessionReportData struct {
	ShopHost    string
	GeneratedAt time.Time
	Items       []models.ScannedItem
	TotalAdded  int64
}
