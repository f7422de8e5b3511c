package prestashop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stocktaker/infrastructure/barcode"
)

func newSearchClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Credentials{ShopURL: srv.URL, APIKey: "test-key"})
}

func TestSearchMergesProductsAndCombinations(t *testing.T) {
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`{"products":[{"id":12,"name":"Plain Soap","reference":"SOAP-1","id_default_image":"1305"}]}`))
		case "/api/combinations":
			w.Write([]byte(`{"combinations":[{"id":88,"id_product":"130","reference":"TEE-RED-M"},{"id":89,"id_product":"130","reference":""}]}`))
		case "/api/products/130":
			w.Write([]byte(`{"product":{"id":130,"name":[{"id":"1","value":"Logo Tee"}],"id_default_image":"42"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	info := barcode.Classify("4006381333931")
	matches, err := c.SearchByBarcode(context.Background(), info)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", len(matches), matches)
	}

	p := matches[0]
	if p.Kind != MatchProduct || p.ProductID != 12 || p.CombinationID != 0 {
		t.Fatalf("product match: %+v", p)
	}
	if p.Name != "Plain Soap" || p.Reference != "SOAP-1" {
		t.Fatalf("product match fields: %+v", p)
	}
	if p.ImageURL == "" {
		t.Fatalf("product match missing image url")
	}

	v := matches[1]
	if v.Kind != MatchCombination || v.ProductID != 130 || v.CombinationID != 88 {
		t.Fatalf("variant match: %+v", v)
	}
	if v.Name != "Logo Tee — TEE-RED-M" {
		t.Fatalf("variant composite name: %q", v.Name)
	}

	anon := matches[2]
	if anon.Name != "Logo Tee — Variant #89" {
		t.Fatalf("variant without reference: %q", anon.Name)
	}
}

func TestSearchVariantParentFallback(t *testing.T) {
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`{"products":[]}`))
		case "/api/combinations":
			w.Write([]byte(`{"combinations":[{"id":88,"id_product":"130","reference":"TEE-RED-M"}]}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})

	matches, err := c.SearchByBarcode(context.Background(), barcode.Classify("4006381333931"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Name != "Product #130 — TEE-RED-M" {
		t.Fatalf("fallback parent name: %q", matches[0].Name)
	}
}

func TestSearchPartialAuthFailureSkipsThatSide(t *testing.T) {
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`{"products":[{"id":12,"name":"Plain Soap"}]}`))
		case "/api/combinations":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	})

	matches, err := c.SearchByBarcode(context.Background(), barcode.Classify("4006381333931"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Kind != MatchProduct {
		t.Fatalf("expected product side only, got %+v", matches)
	}
}

func TestSearchBothAuthFailuresMeansBadKey(t *testing.T) {
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if _, err := c.SearchByBarcode(context.Background(), barcode.Classify("4006381333931")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSearchMalformedPayloadYieldsNoMatchesFromThatSide(t *testing.T) {
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`<html>error page</html>`))
		case "/api/combinations":
			w.Write([]byte(`{"combinations":[{"id":88,"id_product":"130","reference":"TEE-RED-M"}]}`))
		case "/api/products/130":
			w.Write([]byte(`{"product":{"id":130,"name":"Logo Tee"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	matches, err := c.SearchByBarcode(context.Background(), barcode.Classify("4006381333931"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Kind != MatchCombination {
		t.Fatalf("expected combination side only, got %+v", matches)
	}
}

func TestSearchFiltersByUPCForUPCA(t *testing.T) {
	var productsQuery, combosQuery string
	c := newSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			productsQuery = r.URL.RawQuery
			w.Write([]byte(`{"products":[]}`))
		case "/api/combinations":
			combosQuery = r.URL.RawQuery
			w.Write([]byte(`{"combinations":[]}`))
		default:
			http.NotFound(w, r)
		}
	})

	if _, err := c.SearchByBarcode(context.Background(), barcode.Classify("036000291452")); err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, q := range []string{productsQuery, combosQuery} {
		if !strings.Contains(q, "filter[upc]=036000291452") {
			t.Fatalf("expected upc filter in query %q", q)
		}
	}
}
