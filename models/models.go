package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is one operator's login against a shop. The webservice API key is
// sealed before it reaches the database; the open key only lives in memory
// for the lifetime of a request.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           string    `bun:"id,pk"`
	ShopURL      string    `bun:"shop_url,notnull"`
	APIKeySealed []byte    `bun:"api_key_sealed,notnull"`
	APIKey       string    `bun:"-"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ScannedItem is one session-ledger aggregate: all scans of the same
// (product, combination) pair within a session collapse into a single row.
type ScannedItem struct {
	bun.BaseModel `bun:"table:session_scans,alias:ss"`

	ID            string    `bun:"id,pk" json:"id"`
	SessionID     string    `bun:"session_id,notnull" json:"-"`
	Barcode       string    `bun:"barcode,notnull" json:"barcode"`
	Symbology     string    `bun:"symbology,notnull" json:"symbology"`
	ProductID     int64     `bun:"product_id,notnull" json:"productId"`
	CombinationID int64     `bun:"combination_id,notnull,default:0" json:"combinationId"`
	ProductName   string    `bun:"product_name,notnull" json:"productName"`
	Reference     string    `bun:"reference" json:"reference"`
	ImageURL      string    `bun:"image_url" json:"imageUrl"`
	QuantityAdded int64     `bun:"quantity_added,notnull" json:"quantityAdded"`
	StockBefore   int64     `bun:"stock_before,notnull" json:"stockBefore"`
	StockAfter    int64     `bun:"stock_after,notnull" json:"stockAfter"`
	LastScannedAt time.Time `bun:"last_scanned_at,notnull" json:"lastScannedAt"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// AuditLog captures immutable change history for applied stock mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
