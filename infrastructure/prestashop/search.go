package prestashop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"

	"stocktaker/infrastructure/barcode"
)

type lookupResult struct {
	body       []byte
	authFailed bool
	err        error
}

// SearchByBarcode queries the products and combinations resources in
// parallel for the scanned code and merges both result sets into match
// candidates. A transport failure on either lookup fails the whole search;
// an auth failure on one side only skips that side, but auth failure on
// both means the key is bad. A malformed payload is logged and treated as
// no results from that side.
func (c *Client) SearchByBarcode(ctx context.Context, info barcode.Info) ([]Match, error) {
	field := "ean13"
	if info.Symbology == barcode.UPCA {
		field = "upc"
	}

	var products, combos lookupResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		products = c.lookup(ctx, "products", field, info.Code)
	}()
	go func() {
		defer wg.Done()
		combos = c.lookup(ctx, "combinations", field, info.Code)
	}()
	wg.Wait()

	if products.err != nil {
		return nil, products.err
	}
	if combos.err != nil {
		return nil, combos.err
	}
	if products.authFailed && combos.authFailed {
		return nil, ErrUnauthorized
	}

	matches := []Match{}
	if !products.authFailed {
		matches = append(matches, c.productMatches(products.body, info)...)
	}
	if !combos.authFailed {
		matches = append(matches, c.combinationMatches(ctx, combos.body, info)...)
	}
	return matches, nil
}

func (c *Client) lookup(ctx context.Context, resource, field, code string) lookupResult {
	u := fmt.Sprintf("%s/%s?filter[%s]=%s&display=full&output_format=JSON",
		c.apiBase, resource, field, url.QueryEscape(code))
	resp, err := c.get(ctx, u)
	if err != nil {
		return lookupResult{err: fmt.Errorf("search %s: %w", resource, err)}
	}
	defer resp.Body.Close()
	if authFailure(resp.StatusCode) {
		return lookupResult{authFailed: true}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookupResult{err: fmt.Errorf("read %s response: %w", resource, err)}
	}
	return lookupResult{body: body}
}

func (c *Client) productMatches(body []byte, info barcode.Info) []Match {
	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Warn("malformed products response", slog.String("barcode", info.Code), slog.Any("err", err))
		return nil
	}
	matches := make([]Match, 0, len(payload.Products))
	for _, p := range payload.Products {
		matches = append(matches, Match{
			Kind:      MatchProduct,
			ProductID: p.ID.Int64(),
			Name:      p.DisplayName(),
			Reference: p.Reference,
			Barcode:   info.Code,
			Symbology: info.Symbology,
			ImageURL:  c.ImageURL(p.DefaultImageID.Int64()),
		})
	}
	return matches
}

func (c *Client) combinationMatches(ctx context.Context, body []byte, info barcode.Info) []Match {
	var payload struct {
		Combinations []Combination `json:"combinations"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Warn("malformed combinations response", slog.String("barcode", info.Code), slog.Any("err", err))
		return nil
	}
	if len(payload.Combinations) == 0 {
		return nil
	}

	parents := c.fetchParents(ctx, payload.Combinations)
	matches := make([]Match, 0, len(payload.Combinations))
	for _, cb := range payload.Combinations {
		parent, found := parents[cb.ProductID.Int64()]
		parentName := fmt.Sprintf("Product #%d", cb.ProductID.Int64())
		if found {
			parentName = parent.DisplayName()
		}
		label := cb.Reference
		if label == "" {
			label = fmt.Sprintf("Variant #%d", cb.ID.Int64())
		}
		imageID := cb.DefaultImageID.Int64()
		if imageID == 0 && found {
			imageID = parent.DefaultImageID.Int64()
		}
		matches = append(matches, Match{
			Kind:          MatchCombination,
			ProductID:     cb.ProductID.Int64(),
			CombinationID: cb.ID.Int64(),
			Name:          parentName + " — " + label,
			Reference:     cb.Reference,
			Barcode:       info.Code,
			Symbology:     info.Symbology,
			ImageURL:      c.ImageURL(imageID),
		})
	}
	return matches
}

// fetchParents loads the distinct parent products for a set of variants in
// parallel. A failed parent fetch is logged and skipped; the variant still
// matches under its fallback name.
func (c *Client) fetchParents(ctx context.Context, combos []Combination) map[int64]Product {
	seen := make(map[int64]struct{}, len(combos))
	ids := make([]int64, 0, len(combos))
	for _, cb := range combos {
		id := cb.ProductID.Int64()
		if _, dup := seen[id]; dup || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var mu sync.Mutex
	parents := make(map[int64]Product, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			p, err := c.FetchProduct(ctx, id)
			if err != nil {
				slog.Warn("fetch parent product failed", slog.Int64("productId", id), slog.Any("err", err))
				return
			}
			mu.Lock()
			parents[id] = p
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return parents
}

// FetchProduct loads one product by id.
func (c *Client) FetchProduct(ctx context.Context, id int64) (Product, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/products/%d?output_format=JSON", c.apiBase, id))
	if err != nil {
		return Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()
	if authFailure(resp.StatusCode) {
		return Product{}, ErrUnauthorized
	}
	if resp.StatusCode != 200 {
		return Product{}, fmt.Errorf("fetch product %d: status %d", id, resp.StatusCode)
	}
	var payload struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Product{}, fmt.Errorf("decode product %d: %w", id, err)
	}
	return payload.Product, nil
}
