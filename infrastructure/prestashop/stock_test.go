package prestashop

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func stockShopHandler(t *testing.T, putBody *string, putStatus int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/stock_availables":
			w.Write([]byte(`{"stock_availables":[{"id":901}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/stock_availables/901":
			w.Write([]byte(`{"stock_available":{"id":901,"id_product":"130","id_product_attribute":"88","id_shop":"1","id_shop_group":"0","quantity":"7","depends_on_stock":0,"out_of_stock":"2","location":"Aisle 3 & 4"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/stock_availables/901":
			body, _ := io.ReadAll(r.Body)
			*putBody = string(body)
			w.WriteHeader(putStatus)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestIncrementStockWritesQuantityPlusOne(t *testing.T) {
	var putBody string
	srv := httptest.NewServer(stockShopHandler(t, &putBody, http.StatusOK))
	defer srv.Close()
	c := NewClient(Credentials{ShopURL: srv.URL, APIKey: "k"})

	change, err := c.IncrementStock(context.Background(), 130, 88)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if change.Before != 7 || change.After != 8 {
		t.Fatalf("change: %+v", change)
	}

	for _, want := range []string{
		"<id>901</id>",
		"<id_product>130</id_product>",
		"<id_product_attribute>88</id_product_attribute>",
		"<quantity>8</quantity>",
		"<depends_on_stock>0</depends_on_stock>",
		"<out_of_stock>2</out_of_stock>",
		"<location>Aisle 3 &amp; 4</location>",
	} {
		if !strings.Contains(putBody, want) {
			t.Errorf("update body missing %q:\n%s", want, putBody)
		}
	}
}

func TestIncrementStockToleratesNonAuthWriteError(t *testing.T) {
	var putBody string
	srv := httptest.NewServer(stockShopHandler(t, &putBody, http.StatusInternalServerError))
	defer srv.Close()
	c := NewClient(Credentials{ShopURL: srv.URL, APIKey: "k"})

	change, err := c.IncrementStock(context.Background(), 130, 88)
	if err != nil {
		t.Fatalf("non-auth write error should be tolerated: %v", err)
	}
	if change.After != 8 {
		t.Fatalf("change: %+v", change)
	}
	if putBody == "" {
		t.Fatalf("expected a write to reach the shop")
	}
}

func TestIncrementStockFailsOnAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	c := NewClient(Credentials{ShopURL: srv.URL, APIKey: "k"})

	if _, err := c.IncrementStock(context.Background(), 130, 88); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetStockAvailableNoRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stock_availables":[]}`))
	}))
	defer srv.Close()
	c := NewClient(Credentials{ShopURL: srv.URL, APIKey: "k"})

	if _, err := c.GetStockAvailable(context.Background(), 130, 0); !errors.Is(err, ErrNoStockRecord) {
		t.Fatalf("expected ErrNoStockRecord, got %v", err)
	}
}

func TestGetStockAvailableFiltersByProductAndCombination(t *testing.T) {
	var listQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/stock_availables" {
			listQuery = r.URL.RawQuery
			w.Write([]byte(`{"stock_availables":[{"id":901}]}`))
			return
		}
		w.Write([]byte(`{"stock_available":{"id":901,"quantity":3}}`))
	}))
	defer srv.Close()
	c := NewClient(Credentials{ShopURL: srv.URL, APIKey: "k"})

	stock, err := c.GetStockAvailable(context.Background(), 130, 0)
	if err != nil {
		t.Fatalf("get stock: %v", err)
	}
	if stock.Quantity.Int64() != 3 {
		t.Fatalf("quantity: %d", stock.Quantity.Int64())
	}
	if !strings.Contains(listQuery, "filter[id_product]=130") || !strings.Contains(listQuery, "filter[id_product_attribute]=0") {
		t.Fatalf("list query: %q", listQuery)
	}
}
