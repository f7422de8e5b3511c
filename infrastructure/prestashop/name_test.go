package prestashop

import (
	"encoding/json"
	"testing"
)

func decodeName(t *testing.T, raw string) string {
	t.Helper()
	var n LocalizedName
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return n.Value
}

func TestLocalizedNameShapes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"Plain Widget"`, "Plain Widget"},
		{`[{"id":"1","value":"Gadget FR"},{"id":"2","value":"Gadget EN"}]`, "Gadget FR"},
		{`[{"id":"1","value":""},{"id":"2","value":"Second Locale"}]`, "Second Locale"},
		{`{"language":{"#text":"Wrapped Widget"}}`, "Wrapped Widget"},
		{`{"language":[{"#text":"First Lang"},{"#text":"Second Lang"}]}`, "First Lang"},
		{`null`, ""},
		{`{"unexpected":true}`, ""},
		{`42`, ""},
	}
	for _, tc := range cases {
		if got := decodeName(t, tc.raw); got != tc.want {
			t.Errorf("name %s: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestDisplayNameFallsBackToProductID(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":"1305","name":[]}`), &p); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	if got := p.DisplayName(); got != "Product #1305" {
		t.Fatalf("display name: got %q", got)
	}
}

func TestFlexIntShapes(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{`7`, 7},
		{`"42"`, 42},
		{`null`, 0},
		{`""`, 0},
		{`"3.0"`, 3},
	}
	for _, tc := range cases {
		var n FlexInt
		if err := json.Unmarshal([]byte(tc.raw), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if n.Int64() != tc.want {
			t.Errorf("flexint %s: got %d, want %d", tc.raw, n.Int64(), tc.want)
		}
	}
}

func TestPassthroughKeepsLiteralToken(t *testing.T) {
	var s StockAvailable
	raw := `{"id":9,"id_product":"130","id_product_attribute":0,"id_shop":"1","id_shop_group":null,"quantity":"7","depends_on_stock":0,"out_of_stock":"2","location":"A&B"}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal stock: %v", err)
	}
	if s.ProductID != "130" || s.ProductAttributeID != "0" {
		t.Fatalf("product ids: %q %q", s.ProductID, s.ProductAttributeID)
	}
	if s.ShopGroupID != "" {
		t.Fatalf("null field should decode empty, got %q", s.ShopGroupID)
	}
	if s.Quantity.Int64() != 7 {
		t.Fatalf("quantity: %d", s.Quantity.Int64())
	}
	if s.OutOfStock != "2" || s.DependsOnStock != "0" {
		t.Fatalf("flags: %q %q", s.OutOfStock, s.DependsOnStock)
	}
	if s.Location != "A&B" {
		t.Fatalf("location: %q", s.Location)
	}
}
