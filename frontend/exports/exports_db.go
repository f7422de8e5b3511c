package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"stocktaker/infrastructure/sqlite"
	"stocktaker/models"
)

func loadSessionItems(ctx context.Context, db *sqlite.DB, sessionID string) ([]models.ScannedItem, error) {
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

func writeSessionCSV(ctx context.Context, db *sqlite.DB, w io.Writer, sessionID string) error {
	items, err := loadSessionItems(ctx, db, sessionID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"barcode", "symbology", "product_id", "combination_id", "product_name", "reference", "quantity_added", "stock_before", "stock_after", "last_scanned_at"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			item.Barcode,
			item.Symbology,
			strconv.FormatInt(item.ProductID, 10),
			strconv.FormatInt(item.CombinationID, 10),
			item.ProductName,
			item.Reference,
			strconv.FormatInt(item.QuantityAdded, 10),
			strconv.FormatInt(item.StockBefore, 10),
			strconv.FormatInt(item.StockAfter, 10),
			item.LastScannedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
