package prestashop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeAPIBase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://shop.example.com", "https://shop.example.com/api"},
		{"https://shop.example.com/", "https://shop.example.com/api"},
		{"https://shop.example.com/api", "https://shop.example.com/api"},
		{"https://shop.example.com/api/", "https://shop.example.com/api"},
		{"https://shop.example.com/api/products", "https://shop.example.com/api"},
		{"  https://shop.example.com  ", "https://shop.example.com/api"},
	}
	for _, tc := range cases {
		if got := normalizeAPIBase(tc.in); got != tc.want {
			t.Errorf("normalize %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestImageURLDigitPath(t *testing.T) {
	c := NewClient(Credentials{ShopURL: "https://shop.example.com", APIKey: "k"})
	if got := c.ImageURL(1305); got != "https://shop.example.com/img/p/1/3/0/5/1305.jpg" {
		t.Fatalf("image url: %q", got)
	}
	if got := c.ImageURL(7); got != "https://shop.example.com/img/p/7/7.jpg" {
		t.Fatalf("single digit image url: %q", got)
	}
	if got := c.ImageURL(0); got != "" {
		t.Fatalf("zero image id should yield empty url, got %q", got)
	}
}

func TestValidateCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	good := NewClient(Credentials{ShopURL: srv.URL, APIKey: "good-key"})
	if err := good.ValidateCredentials(context.Background()); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}

	bad := NewClient(Credentials{ShopURL: srv.URL, APIKey: "bad-key"})
	if err := bad.ValidateCredentials(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateCredentialsUnreachableShop(t *testing.T) {
	c := NewClient(Credentials{ShopURL: "http://127.0.0.1:1", APIKey: "k"})
	err := c.ValidateCredentials(context.Background())
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
