package stocktake

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"stocktaker/infrastructure/audit"
	"stocktaker/infrastructure/prestashop"
	"stocktaker/infrastructure/sqlite"
	"stocktaker/models"
)

// Ledger aggregates applied scans per session. Repeated scans of the same
// product and combination collapse into one row with a growing quantity.
type Ledger struct {
	DB        *sqlite.DB
	Audit     *audit.Service
	SessionID string
}

func NewLedger(db *sqlite.DB, auditSvc *audit.Service, sessionID string) *Ledger {
	return &Ledger{DB: db, Audit: auditSvc, SessionID: sessionID}
}

// RecordScan merges the applied stock change into the session ledger and
// writes the audit trail in the same transaction.
func (l *Ledger) RecordScan(ctx context.Context, match prestashop.Match, change prestashop.StockChange) error {
	now := time.Now()
	delta := change.After - change.Before
	return l.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var existing models.ScannedItem
		err := tx.NewSelect().
			Model(&existing).
			Where("session_id = ?", l.SessionID).
			Where("product_id = ?", match.ProductID).
			Where("combination_id = ?", match.CombinationID).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			before := existing
			existing.QuantityAdded += delta
			existing.StockAfter = change.After
			existing.LastScannedAt = now
			if _, err := tx.NewUpdate().
				Model(&existing).
				Column("quantity_added", "stock_after", "last_scanned_at").
				WherePK().
				Exec(ctx); err != nil {
				return err
			}
			return l.Audit.Write(ctx, tx, l.SessionID, "scan_merged", "session_scan", existing.ID, before, existing)
		case errors.Is(err, sql.ErrNoRows):
			item := models.ScannedItem{
				ID:            uuid.NewString(),
				SessionID:     l.SessionID,
				Barcode:       match.Barcode,
				Symbology:     string(match.Symbology),
				ProductID:     match.ProductID,
				CombinationID: match.CombinationID,
				ProductName:   match.Name,
				Reference:     match.Reference,
				ImageURL:      match.ImageURL,
				QuantityAdded: delta,
				StockBefore:   change.Before,
				StockAfter:    change.After,
				LastScannedAt: now,
				CreatedAt:     now,
			}
			if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
				return err
			}
			return l.Audit.Write(ctx, tx, l.SessionID, "scan_recorded", "session_scan", item.ID, nil, item)
		default:
			return err
		}
	})
}

// ListScans returns the session ledger, most recently touched first.
func ListScans(ctx context.Context, db *sqlite.DB, sessionID string) ([]models.ScannedItem, error) {
	var items []models.ScannedItem
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&items).
			Where("session_id = ?", sessionID).
			Order("last_scanned_at DESC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ClearScans empties the session ledger. Remote stock stays as counted; only
// the local tally resets.
func ClearScans(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, sessionID string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.ScannedItem)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx)
		if err != nil {
			return err
		}
		deleted, _ := res.RowsAffected()
		return auditSvc.Write(ctx, tx, sessionID, "ledger_cleared", "session", sessionID, map[string]int64{"rows": deleted}, nil)
	})
}

// TotalAdded sums the units this session has added across all items.
func TotalAdded(items []models.ScannedItem) int64 {
	var total int64
	for _, item := range items {
		total += item.QuantityAdded
	}
	return total
}
