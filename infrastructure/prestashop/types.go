package prestashop

import (
	"fmt"
	"strconv"
	"strings"

	"stocktaker/infrastructure/barcode"
)

// FlexInt decodes PrestaShop webservice numbers, which arrive as JSON
// numbers or as quoted digit strings depending on the endpoint.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("parse numeric field %q: %w", s, err)
		}
		v = int64(f)
	}
	*n = FlexInt(v)
	return nil
}

func (n FlexInt) Int64() int64 {
	return int64(n)
}

// Passthrough holds a stock record field the pipeline must round-trip
// verbatim into the write request. The literal token is preserved whether
// the remote emitted a number or a quoted string.
type Passthrough string

func (p *Passthrough) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("parse passthrough field %s: %w", s, err)
		}
		*p = Passthrough(unquoted)
		return nil
	}
	*p = Passthrough(s)
	return nil
}

// Product is a base product as returned by the products resource.
type Product struct {
	ID             FlexInt       `json:"id"`
	Name           LocalizedName `json:"name"`
	Reference      string        `json:"reference"`
	EAN13          string        `json:"ean13"`
	UPC            string        `json:"upc"`
	DefaultImageID FlexInt       `json:"id_default_image"`
}

// DisplayName resolves the localized product name, falling back to a stable
// identifier string when no shape yielded a value.
func (p Product) DisplayName() string {
	if p.Name.Value != "" {
		return p.Name.Value
	}
	return fmt.Sprintf("Product #%d", p.ID.Int64())
}

// Combination is a product variant as returned by the combinations resource.
type Combination struct {
	ID             FlexInt `json:"id"`
	ProductID      FlexInt `json:"id_product"`
	Reference      string  `json:"reference"`
	EAN13          string  `json:"ean13"`
	UPC            string  `json:"upc"`
	DefaultImageID FlexInt `json:"id_default_image"`
}

// StockAvailable is the remote quantity-on-hand row for one (product,
// combination) pair. Everything but Quantity is opaque to the pipeline and
// written back exactly as fetched.
type StockAvailable struct {
	ID                 FlexInt     `json:"id"`
	ProductID          Passthrough `json:"id_product"`
	ProductAttributeID Passthrough `json:"id_product_attribute"`
	ShopID             Passthrough `json:"id_shop"`
	ShopGroupID        Passthrough `json:"id_shop_group"`
	Quantity           FlexInt     `json:"quantity"`
	DependsOnStock     Passthrough `json:"depends_on_stock"`
	OutOfStock         Passthrough `json:"out_of_stock"`
	Location           Passthrough `json:"location"`
}

// MatchKind distinguishes base products from variants in search results.
type MatchKind string

const (
	MatchProduct     MatchKind = "product"
	MatchCombination MatchKind = "combination"
)

// Match is one inventory-addressable candidate returned by a barcode search.
// CombinationID is zero for base products.
type Match struct {
	Kind          MatchKind         `json:"kind"`
	ProductID     int64             `json:"productId"`
	CombinationID int64             `json:"combinationId"`
	Name          string            `json:"name"`
	Reference     string            `json:"reference"`
	Barcode       string            `json:"barcode"`
	Symbology     barcode.Symbology `json:"symbology"`
	ImageURL      string            `json:"imageUrl,omitempty"`
}

// StockChange reports the quantities around one applied increment.
type StockChange struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}
